package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Packet{
		{Command: UserInterface, Data: []byte("S00")},
		{Command: UserInterface, Data: []byte("A123E")},
		{HasAddress: true, Address: 7, Command: UserInterface, Data: []byte{0x00, 0x40, 0x00}},
		{HasAddress: true, Address: 2, Seq: 1, Command: SystemStatus, Data: []byte{0x02, 0x01, 0x84}},
		{
			HasAddress: true, Address: 2, Command: SystemStatus, Data: []byte{0x02, 0x01, 0x84},
			HasTimestamp: true,
			Timestamp:    Timestamp{Year: 6, Month: 12, Day: 1, Hour: 7, Minute: 43, Second: 0},
		},
	}

	for _, p := range cases {
		line, err := Encode(p)
		require.NoError(t, err)

		got, err := DecodePacket(line, Strict)
		require.NoError(t, err)
		assert.Equal(t, p.HasAddress, got.HasAddress)
		assert.Equal(t, p.Address, got.Address)
		assert.Equal(t, p.Seq, got.Seq)
		assert.Equal(t, p.Command, got.Command)
		assert.Equal(t, p.Data, got.Data)
		assert.Equal(t, p.HasTimestamp, got.HasTimestamp)
		if p.HasTimestamp {
			assert.Equal(t, p.Timestamp, got.Timestamp)
		}
	}
}

func TestDecodeWithCRLFAndDelaySeparators(t *testing.T) {
	p := Packet{Command: UserInterface, Data: []byte("A1234E")}
	line, err := Encode(p)
	require.NoError(t, err)

	got, err := DecodePacket(line+"\r\n", Strict)
	require.NoError(t, err)
	assert.Equal(t, p.Data, got.Data)

	got, err = DecodePacket("?"+line+"?\r\n", Strict)
	require.NoError(t, err)
	assert.Equal(t, p.Data, got.Data)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := DecodePacket("82", Strict)
	require.Error(t, err)
	var want *TruncatedPacketError
	assert.ErrorAs(t, err, &want)
}

func TestDecodeBadStartByte(t *testing.T) {
	_, err := DecodePacket("FF0003605330304539", Strict)
	require.Error(t, err)
	var want *BadStartByteError
	assert.ErrorAs(t, err, &want)
}

func TestDecodeUnknownCommand(t *testing.T) {
	line, err := Encode(Packet{Command: UserInterface, Data: []byte("S00")})
	require.NoError(t, err)
	corrupted := line[:4] + "62" + line[6:]
	_, err = DecodePacket(corrupted, Strict)
	require.Error(t, err)
	var want *UnknownCommandError
	assert.ErrorAs(t, err, &want)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	line, err := Encode(Packet{Command: UserInterface, Data: []byte("S00")})
	require.NoError(t, err)
	corrupted := line[:len(line)-2] + "00"
	if corrupted == line {
		corrupted = line[:len(line)-2] + "01"
	}

	_, err = DecodePacket(corrupted, Strict)
	var want *ChecksumError
	assert.ErrorAs(t, err, &want)

	p, err := DecodePacket(corrupted, Lenient)
	assert.ErrorAs(t, err, &want)
	assert.Equal(t, []byte("S00"), p.Data)
}

func TestDecodeNeverPanicsOnArbitraryBytes(t *testing.T) {
	samples := []string{
		"", "?", "\r\n", "ZZZZZZZZ", "82", "8200", "82000360", "FFFFFFFFFFFFFFFFFFFF",
		"870000000000000000000000000000000000000000",
	}
	for _, s := range samples {
		assert.NotPanics(t, func() {
			DecodePacket(s, Lenient)
		})
	}
}
