package main

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesspanel/nessclient/wire"
)

func TestHandleLineStatusRequestRepliesWithMatchingRequestID(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	p := wire.EncodeStatusRequest(wire.ReqZonesUnsealed1To16)
	line, err := wire.Encode(p)
	require.NoError(t, err)

	go handleLine(server, line)

	client.SetReadDeadline(time.Now().Add(time.Second))
	reply, err := bufio.NewReader(client).ReadString('\n')
	require.NoError(t, err)

	replyPacket, err := wire.DecodePacket(reply[:len(reply)-2], wire.Strict)
	require.NoError(t, err)
	msg, err := wire.Decode(replyPacket)
	require.NoError(t, err)
	su, ok := msg.(wire.StatusUpdate)
	require.True(t, ok)
	assert.Equal(t, wire.ReqZonesUnsealed1To16, su.RequestID)
}

func TestRespondToKeystringArmAwayEmitsArmedAwayEvent(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go respondToKeystring(server, "A1234E")

	client.SetReadDeadline(time.Now().Add(time.Second))
	reply, err := bufio.NewReader(client).ReadString('\n')
	require.NoError(t, err)

	replyPacket, err := wire.DecodePacket(reply[:len(reply)-2], wire.Strict)
	require.NoError(t, err)
	msg, err := wire.Decode(replyPacket)
	require.NoError(t, err)
	ev, ok := msg.(wire.SystemStatusEvent)
	require.True(t, ok)
	assert.Equal(t, wire.KindArmedAway, ev.Kind)
}

func TestRespondToKeystringUnrecognizedEmitsNothing(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		respondToKeystring(server, "???")
		close(done)
	}()
	<-done

	client.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, err := bufio.NewReader(client).ReadByte()
	assert.Error(t, err)
}
