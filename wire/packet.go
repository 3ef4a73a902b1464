// Package wire implements the Ness D8x/D16x/D32x ASCII line protocol:
// packet framing, checksums, and the decoders for the handful of message
// shapes the panel and client exchange over it.
package wire

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ErrDataTooLarge signals an encode request whose payload exceeds the
// 7-bit data length field (127 bytes).
var ErrDataTooLarge = errors.New("wire: data exceeds 127 bytes")

// Command is the single byte that selects a packet's payload shape.
type Command uint8

const (
	// UserInterface carries keypad keystrings in both directions and,
	// from the panel, StatusUpdate replies.
	UserInterface Command = 0x60
	// SystemStatus carries SystemStatusEvent triples from the panel.
	SystemStatus Command = 0x61
)

func (c Command) String() string {
	switch c {
	case UserInterface:
		return "UserInterface"
	case SystemStatus:
		return "SystemStatus"
	default:
		return "Command(0x" + hex.EncodeToString([]byte{byte(c)}) + ")"
	}
}

// startByte flag bits. Bit 7 and bit 1 are fixed for ASCII, basic-header
// framing; only the address and timestamp bits vary.
const (
	startASCIIFormat       = 1 << 7
	startBasicHeader       = 1 << 1
	startAddressIncluded   = 1 << 0
	startTimestampIncluded = 1 << 2
)

func startByte(hasAddress, hasTimestamp bool) byte {
	b := byte(startASCIIFormat | startBasicHeader)
	if hasAddress {
		b |= startAddressIncluded
	}
	if hasTimestamp {
		b |= startTimestampIncluded
	}
	return b
}

func validStartByte(b byte) bool {
	switch b {
	case 0x82, 0x83, 0x86, 0x87:
		return true
	default:
		return false
	}
}

// Timestamp is the panel's 6-byte event clock: year, month, minute and
// second are packed BCD (two decimal digits per byte); day and hour share
// their byte with day-of-week and DST flags in the high 3 bits.
type Timestamp struct {
	Year, Month, Day, Hour, Minute, Second int
	Weekday                                time.Weekday
	DST                                    bool
}

// Time renders t against the given location, assuming a 2000-2099 window
// for the panel's 2-digit year.
func (t Timestamp) Time(loc *time.Location) time.Time {
	return time.Date(2000+t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

func bcdEncode(n int) byte  { return byte((n/10)<<4 | (n % 10)) }
func bcdDecode(b byte) int  { return int(b>>4)*10 + int(b&0x0F) }

func encodeTimestamp(t Timestamp) [6]byte {
	var buf [6]byte
	buf[0] = bcdEncode(t.Year)
	buf[1] = bcdEncode(t.Month)
	buf[2] = byte(t.Day&0x1F) | byte(t.Weekday&0x07)<<5
	buf[3] = byte(t.Hour & 0x1F)
	if t.DST {
		buf[3] |= 0x80
	}
	buf[4] = bcdEncode(t.Minute)
	buf[5] = bcdEncode(t.Second)
	return buf
}

func decodeTimestamp(b []byte) Timestamp {
	return Timestamp{
		Year:    bcdDecode(b[0]),
		Month:   bcdDecode(b[1]),
		Day:     int(b[2] & 0x1F),
		Weekday: time.Weekday((b[2] >> 5) & 0x07),
		Hour:    int(b[3] & 0x1F),
		DST:     b[3]&0x80 != 0,
		Minute:  bcdDecode(b[4]),
		Second:  bcdDecode(b[5]),
	}
}

// Packet is one decoded line of the wire protocol, stripped of its CR LF
// terminator. Data carries the raw payload bytes: for UserInterface
// keystrings these are the literal ASCII codes of the keypresses; for
// StatusUpdate and SystemStatusEvent payloads they are binary fields.
type Packet struct {
	HasAddress   bool
	Address      uint8
	Seq          uint8
	Command      Command
	Data         []byte
	HasTimestamp bool
	Timestamp    Timestamp
}

func checksumOf(fields ...[]byte) byte {
	var sum int
	for _, f := range fields {
		for _, b := range f {
			sum += int(b)
		}
	}
	return byte((0x100 - sum&0xFF) & 0xFF)
}

// Encode renders p as an uppercase ASCII hex line, without the CR LF
// terminator. Callers writing to a Transport append "\r\n" themselves.
func Encode(p Packet) (string, error) {
	if p.HasAddress && p.Address > 0x0F {
		return "", &MalformedHeaderError{Span: Span{0, 0}}
	}
	if len(p.Data) > 0x7F {
		return "", ErrDataTooLarge
	}

	sb := startByte(p.HasAddress, p.HasTimestamp)
	lenByte := byte(len(p.Data)) & 0x7F
	if p.Seq != 0 {
		lenByte |= 0x80
	}

	var fields [][]byte
	fields = append(fields, []byte{sb})
	if p.HasAddress {
		fields = append(fields, []byte{p.Address})
	}
	fields = append(fields, []byte{lenByte}, []byte{byte(p.Command)}, p.Data)
	if p.HasTimestamp {
		ts := encodeTimestamp(p.Timestamp)
		fields = append(fields, ts[:])
	}

	var buf strings.Builder
	for _, f := range fields {
		buf.WriteString(strings.ToUpper(hex.EncodeToString(f)))
	}
	cs := checksumOf(fields...)
	buf.WriteString(strings.ToUpper(hex.EncodeToString([]byte{cs})))
	return buf.String(), nil
}

// EncodeLine is Encode with the CR LF terminator appended, ready to write
// to a Transport.
func EncodeLine(p Packet) (string, error) {
	s, err := Encode(p)
	if err != nil {
		return "", err
	}
	return s + "\r\n", nil
}

// ChecksumMode controls how Decode reacts to a checksum mismatch.
type ChecksumMode int

const (
	// Strict rejects a packet whose checksum does not verify.
	Strict ChecksumMode = iota
	// Lenient still returns the decoded packet alongside a *ChecksumError,
	// letting the caller decide whether to use or discard it.
	Lenient
)

// readHexByte consumes 2 hex characters at offset i and returns the
// decoded byte, advancing i by 2.
func readHexByte(line string, i *int) (byte, error) {
	if *i+2 > len(line) {
		return 0, &TruncatedPacketError{Span: Span{*i, len(line)}, Want: *i + 2 - len(line)}
	}
	b, err := hex.DecodeString(line[*i : *i+2])
	if err != nil {
		return 0, &MalformedHeaderError{Span: Span{*i, *i + 2}}
	}
	*i += 2
	return b[0], nil
}

func readHexBytes(line string, i *int, n int) ([]byte, error) {
	if *i+2*n > len(line) {
		return nil, &TruncatedPacketError{Span: Span{*i, len(line)}, Want: *i + 2*n - len(line)}
	}
	b, err := hex.DecodeString(line[*i : *i+2*n])
	if err != nil {
		return nil, &MalformedHeaderError{Span: Span{*i, *i + 2*n}}
	}
	*i += 2 * n
	return b, nil
}

// DecodePacket parses one line of the protocol. line may still carry CR,
// LF and '?' inter-command delay markers; they are stripped before
// parsing.
func DecodePacket(line string, mode ChecksumMode) (Packet, error) {
	line = strings.NewReplacer("\r", "", "\n", "", "?", "").Replace(line)
	line = strings.ToUpper(strings.TrimSpace(line))
	if len(line) < 7 {
		return Packet{}, &TruncatedPacketError{Span: Span{0, len(line)}, Want: 8 - len(line)}
	}

	i := 0
	sbByte, err := readHexByte(line, &i)
	if err != nil {
		return Packet{}, err
	}
	if !validStartByte(sbByte) {
		return Packet{}, &BadStartByteError{Span: Span{0, 2}, Value: sbByte}
	}
	hasAddress := sbByte&startAddressIncluded != 0
	hasTimestamp := sbByte&startTimestampIncluded != 0

	var p Packet
	p.HasAddress = hasAddress
	p.HasTimestamp = hasTimestamp

	sumFields := [][]byte{{sbByte}}

	if hasAddress {
		addr, err := readHexByte(line, &i)
		if err != nil {
			return Packet{}, err
		}
		p.Address = addr
		sumFields = append(sumFields, []byte{addr})
	}

	lenByte, err := readHexByte(line, &i)
	if err != nil {
		return Packet{}, err
	}
	sumFields = append(sumFields, []byte{lenByte})
	dataLen := int(lenByte & 0x7F)
	p.Seq = (lenByte >> 7) & 0x01

	cmdStart := i
	cmdByte, err := readHexByte(line, &i)
	if err != nil {
		return Packet{}, err
	}
	switch Command(cmdByte) {
	case UserInterface, SystemStatus:
		p.Command = Command(cmdByte)
	default:
		return Packet{}, &UnknownCommandError{Span: Span{cmdStart, cmdStart + 2}, Value: cmdByte}
	}
	sumFields = append(sumFields, []byte{cmdByte})

	data, err := readHexBytes(line, &i, dataLen)
	if err != nil {
		return Packet{}, err
	}
	p.Data = data
	sumFields = append(sumFields, data)

	if hasTimestamp {
		ts, err := readHexBytes(line, &i, 6)
		if err != nil {
			return Packet{}, err
		}
		p.Timestamp = decodeTimestamp(ts)
		sumFields = append(sumFields, ts)
	}

	csStart := i
	csByte, err := readHexByte(line, &i)
	if err != nil {
		return Packet{}, err
	}

	want := checksumOf(sumFields...)
	if csByte != want {
		err := &ChecksumError{Span: Span{csStart, csStart + 2}, Got: csByte, Want: want}
		if mode == Strict {
			return Packet{}, err
		}
		return p, err
	}

	return p, nil
}
