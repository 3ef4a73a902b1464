package wire

import "fmt"

// Span marks the byte offsets within a decoded line a decode error
// pertains to, for diagnostic logging.
type Span [2]int

// TruncatedPacketError signals a line ended before a fixed-width field
// it was supposed to carry was fully consumed.
type TruncatedPacketError struct {
	Span Span
	Want int
}

func (e *TruncatedPacketError) Error() string {
	return fmt.Sprintf("wire: truncated packet at %d: want %d more hex chars", e.Span[0], e.Want)
}

// MalformedHeaderError signals non-hex content where a hex digit pair
// was expected.
type MalformedHeaderError struct {
	Span Span
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("wire: malformed header at %d-%d: not hex", e.Span[0], e.Span[1])
}

// BadStartByteError signals a start byte outside {0x82, 0x83, 0x86, 0x87}.
type BadStartByteError struct {
	Span  Span
	Value byte
}

func (e *BadStartByteError) Error() string {
	return fmt.Sprintf("wire: bad start byte 0x%02X at %d", e.Value, e.Span[0])
}

// ChecksumError signals a checksum mismatch. Got/Want are the trailing
// checksum byte actually present and the one the decoder computed.
type ChecksumError struct {
	Span     Span
	Got, Want byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("wire: checksum mismatch at %d: got 0x%02X want 0x%02X", e.Span[0], e.Got, e.Want)
}

// UnknownCommandError signals a command byte other than UserInterface or
// SystemStatus.
type UnknownCommandError struct {
	Span  Span
	Value byte
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("wire: unknown command 0x%02X at %d", e.Value, e.Span[0])
}

// UnknownStatusIDError signals a status request id outside the panel's
// documented 0-33 range. No decoder in this package returns it: a 3-byte
// UserInterface payload whose first byte exceeds 33 decodes as a Keystring.
type UnknownStatusIDError struct {
	Span  Span
	Value byte
}

func (e *UnknownStatusIDError) Error() string {
	return fmt.Sprintf("wire: unrecognized status request id %d at %d", e.Value, e.Span[0])
}
