// Package nessclient is a client library for the Ness D8x/D16x/D32x family
// of alarm panels: packet framing and checksums, the event and status-reply
// decoders, the arming/zone state fold, and a connection manager that
// dials, reconnects with backoff, and issues keep-alive status refreshes.
//
// Most programs only need this package and the lower-level wire, alarm and
// client packages it re-exports the common pieces of:
//
//	c := nessclient.New(func(ctx context.Context) (client.Transport, error) {
//		return client.DialTCP(ctx, "panel.local:2401")
//	}, nessclient.DefaultConfig())
//	if err := c.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close(ctx)
//
//	events := c.Events()
//	for {
//		item, err := events.Next(ctx)
//		if err != nil {
//			break
//		}
//		log.Print(item.Value)
//	}
package nessclient

import (
	"github.com/nesspanel/nessclient/alarm"
	"github.com/nesspanel/nessclient/client"
	"github.com/nesspanel/nessclient/wire"
)

// Client is the connection manager: dial, reconnect, enqueue commands,
// and observe decoded events and state transitions.
type Client = client.Client

// Config tunes timing and buffering. DefaultConfig fills in every field.
type Config = client.Config

// Transport is anything New's dial function may return: a TCP connection,
// a serial port, or (in tests) an in-memory pipe.
type Transport = client.Transport

// New constructs a Client. dial is called by Connect to establish, and by
// the reconnect loop to re-establish, the transport.
var New = client.New

// DefaultConfig returns a Config with every field at its documented default.
var DefaultConfig = client.DefaultConfig

// LoadConfig reads a YAML deployment configuration file.
var LoadConfig = client.LoadConfig

// DialTCP connects to a panel's IP232 module.
var DialTCP = client.DialTCP

// OpenSerial opens a direct RS-232 connection to the panel.
var OpenSerial = client.OpenSerial

// ArmingState is the overall arming state machine the panel reports.
type ArmingState = alarm.ArmingState

// ZoneState is one zone's instantaneous sealed/unsealed reading.
type ZoneState = alarm.ZoneState

// ZoneChange is delivered to zone-change observers.
type ZoneChange = alarm.ZoneChange

// Message is any decoded wire payload: a Keystring, StatusRequest,
// StatusUpdate, SystemStatusEvent, or DecodeError.
type Message = wire.Message

const (
	Unknown    = alarm.Unknown
	Disarmed   = alarm.Disarmed
	Arming     = alarm.Arming
	ExitDelay  = alarm.ExitDelay
	EntryDelay = alarm.EntryDelay
	Armed      = alarm.Armed
	Triggered  = alarm.Triggered
)

const (
	ZoneUnknown = alarm.ZoneUnknown
	Sealed      = alarm.Sealed
	Unsealed    = alarm.Unsealed
)
