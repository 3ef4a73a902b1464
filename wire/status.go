package wire

import "fmt"

// Status request ids the panel recognizes. Only 0, 14, 17 and 20 are
// given literal values by spec.md; the rest (see DESIGN.md Open Question
// 5) are this implementation's own assignment, reusing the FORM number
// where nothing else constrains the choice.
const (
	ReqZonesUnsealed1To16  uint8 = 0  // FORM4
	ReqMiscellaneousAlarms uint8 = 1  // FORM20
	ReqArmingStatus        uint8 = 14 // FORM21
	ReqVersion             uint8 = 17
	ReqZonesUnsealed17To32 uint8 = 20 // FORM5
	ReqOutputs             uint8 = 22 // FORM22
	ReqViewState           uint8 = 23 // FORM23
	ReqAuxOutputs          uint8 = 24 // FORM24
)

// zoneBit computes the FORM4/5 bit index for zone k (1-16 relative to
// the form's own base): bit (k-1 XOR 8) of the 16-bit word formed from
// the payload's two bytes, high byte first.
func zoneBit(k int) int { return (k - 1) ^ 8 }

func zoneWord(payload [2]byte) uint16 {
	return uint16(payload[0])<<8 | uint16(payload[1])
}

// ZonesUnsealed decodes a FORM4 (reqid 0, zones 1-16) or FORM5 (reqid 20,
// zones 17-32) status update into the set of unsealed zone numbers.
func (s StatusUpdate) ZonesUnsealed() ([]int, bool) {
	var base int
	switch s.RequestID {
	case ReqZonesUnsealed1To16:
		base = 0
	case ReqZonesUnsealed17To32:
		base = 16
	default:
		return nil, false
	}
	word := zoneWord(s.Payload)
	var zones []int
	for k := 1; k <= 16; k++ {
		if word&(1<<uint(zoneBit(k))) != 0 {
			zones = append(zones, base+k)
		}
	}
	return zones, true
}

// ArmingFlags is the FORM21 (reqid 14) bit-vector describing the four
// arming areas' state. Bit layout (4 bits per area, areas 1-4) is this
// implementation's own assignment — see DESIGN.md Open Question 4.
type ArmingFlags uint16

func (f ArmingFlags) bit(area, offset int) bool {
	if area < 1 || area > 4 {
		return false
	}
	return f&(1<<uint((area-1)*4+offset)) != 0
}

// AreaArmed reports the AREA_n_ARMED flag (exit delay started or armed).
func (f ArmingFlags) AreaArmed(area int) bool { return f.bit(area, 0) }

// AreaFullyArmed reports the AREA_n_FULLY_ARMED flag.
func (f ArmingFlags) AreaFullyArmed(area int) bool { return f.bit(area, 1) }

// AreaEntryDelayOn reports the ENTRY_DELAY_n_ON flag.
func (f ArmingFlags) AreaEntryDelayOn(area int) bool { return f.bit(area, 2) }

// ArmingFlags decodes a FORM21 status update, if s carries one.
func (s StatusUpdate) ArmingFlags() (ArmingFlags, bool) {
	if s.RequestID != ReqArmingStatus {
		return 0, false
	}
	return ArmingFlags(zoneWord(s.Payload)), true
}

// Model is the panel hardware model, reported in the version reply.
type Model uint8

const (
	ModelD8X         Model = 0x00
	ModelD8XCEL3G    Model = 0x04
	ModelD8XCEL4G    Model = 0x05
	ModelD16X        Model = 0x10
	ModelD16XCEL3G   Model = 0x14
	ModelD16XCEL4G   Model = 0x15
	ModelD32X        Model = 0x06
)

func (m Model) String() string {
	switch m {
	case ModelD8X:
		return "D8X"
	case ModelD8XCEL3G:
		return "D8XCEL-3G"
	case ModelD8XCEL4G:
		return "D8XCEL-4G"
	case ModelD16X:
		return "D16X"
	case ModelD16XCEL3G:
		return "D16XCEL-3G"
	case ModelD16XCEL4G:
		return "D16XCEL-4G"
	case ModelD32X:
		return "D32X"
	default:
		return fmt.Sprintf("Model(0x%02X)", uint8(m))
	}
}

// Version decodes a version reply (reqid 17): byte 0 is the model, byte
// 1 packs the firmware version as two nibbles, high nibble major and low
// nibble minor (0xA8 is "10.8").
func (s StatusUpdate) Version() (Model, string, bool) {
	if s.RequestID != ReqVersion {
		return 0, "", false
	}
	major := s.Payload[1] >> 4
	minor := s.Payload[1] & 0x0F
	return Model(s.Payload[0]), fmt.Sprintf("%d.%d", major, minor), true
}
