package wire

import (
	"fmt"
	"strconv"
)

// Message is any decoded payload a Packet can carry.
type Message interface {
	messageType() string
}

// Keystring is a raw keypad keystring, sent by the client (arm/disarm/aux
// commands) or echoed back by the panel.
type Keystring struct {
	Value string
}

func (Keystring) messageType() string { return "keystring" }

// ValidKeypadChars is the character set the panel's keypad accepts.
const ValidKeypadChars = "0123456789AHEXFVPDM*#"

// Valid reports whether k is 1 to 30 characters long and every character
// of it is a recognized keypad character.
func (k Keystring) Valid() bool {
	if len(k.Value) == 0 || len(k.Value) > 30 {
		return false
	}
	for _, r := range k.Value {
		if !containsRune(ValidKeypadChars, r) {
			return false
		}
	}
	return true
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// StatusRequest is the "Sxx" keystring shorthand for polling the panel,
// sent by the client.
type StatusRequest struct {
	ID uint8
}

func (StatusRequest) messageType() string { return "status_request" }

// StatusUpdate is the panel's reply to a StatusRequest: a request id plus
// a 2-byte payload whose shape depends on the id. See status.go for the
// per-id accessors.
type StatusUpdate struct {
	RequestID uint8
	Payload   [2]byte
}

func (StatusUpdate) messageType() string { return "status_update" }

// SystemStatusEvent is an asynchronous (event_type, identifier, area)
// triple the panel emits on its own schedule. Kind classifies the raw
// event_type byte into a named variant; an unrecognized byte never fails
// decode, it surfaces as KindUnknown with the original triple retained.
type SystemStatusEvent struct {
	Kind       EventKind
	EventType  uint8
	Identifier uint8
	Area       uint8
	Timestamp  *Timestamp
}

func (SystemStatusEvent) messageType() string { return "system_status_event" }

// DecodeError wraps a decode failure so it can still travel through a raw
// event feed for diagnostics without being mistaken for a parsed Message.
type DecodeError struct {
	Err error
	Raw string
}

func (DecodeError) messageType() string { return "decode_error" }
func (e DecodeError) Error() string     { return fmt.Sprintf("wire: %s: %v", e.Raw, e.Err) }

// Decode classifies p's payload and returns the corresponding Message.
// Command 0x60 is used bidirectionally by the panel (StatusRequest and
// Keystring outbound, StatusUpdate inbound); the three shapes are told
// apart by payload length and content, never by direction.
func Decode(p Packet) (Message, error) {
	switch p.Command {
	case UserInterface:
		return decodeUserInterface(p)
	case SystemStatus:
		return decodeSystemStatus(p)
	default:
		return nil, &UnknownCommandError{Value: byte(p.Command)}
	}
}

func decodeUserInterface(p Packet) (Message, error) {
	if isStatusRequestText(p.Data) {
		n, _ := strconv.Atoi(string(p.Data[1:3]))
		return StatusRequest{ID: uint8(n)}, nil
	}
	if len(p.Data) == 3 && p.Data[0] <= 33 {
		return StatusUpdate{RequestID: p.Data[0], Payload: [2]byte{p.Data[1], p.Data[2]}}, nil
	}
	return Keystring{Value: string(p.Data)}, nil
}

func isStatusRequestText(data []byte) bool {
	if len(data) != 3 || data[0] != 'S' {
		return false
	}
	return data[1] >= '0' && data[1] <= '9' && data[2] >= '0' && data[2] <= '9'
}

func decodeSystemStatus(p Packet) (Message, error) {
	if len(p.Data) != 3 {
		return nil, &TruncatedPacketError{Want: 3 - len(p.Data)}
	}
	ev := SystemStatusEvent{
		EventType:  p.Data[0],
		Identifier: p.Data[1],
		Area:       p.Data[2],
		Kind:       classifyEventType(p.Data[0]),
	}
	if p.HasTimestamp {
		ts := p.Timestamp
		ev.Timestamp = &ts
	}
	return ev, nil
}

// EncodeStatusRequest builds the "Sxx" keystring packet the client sends
// to poll the panel, per spec.md's UserInterfaceRequest convention.
func EncodeStatusRequest(id uint8) Packet {
	return Packet{
		Command: UserInterface,
		Data:    []byte(fmt.Sprintf("S%02d", id)),
	}
}

// EncodeKeystring builds the keystring packet the client sends for a
// command such as an arm/disarm/aux keypress sequence.
func EncodeKeystring(value string) Packet {
	return Packet{Command: UserInterface, Data: []byte(value)}
}
