// Package client supervises a connection to a Ness panel: dialing,
// reconnection with backoff, keep-alive status refreshes, and the
// observer feeds that carry decoded messages and state transitions out
// to callers.
package client

import (
	"context"
	"io"
	"net"
	"time"

	"go.bug.st/serial"
)

// Transport is anything a Client can read lines from and write lines to.
// A Client never assumes more about it than this; DialTCP and OpenSerial
// are the two constructors this package ships, but any io.ReadWriteCloser
// works (a net.Conn, an os.File, a test pipe).
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// DialTCP connects to a panel's IP232 module at addr ("host:port").
func DialTCP(ctx context.Context, addr string) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// OpenSerial opens a direct RS-232 connection to the panel. baud defaults
// to 9600, the panel's fixed rate, when 0.
func OpenSerial(device string, baud int) (Transport, error) {
	if baud == 0 {
		baud = 9600
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	// The panel does not flow-control; a read deadline bounds how long a
	// reader task can block inside a single ReadString call so Close can
	// still unwind it promptly.
	_ = port.SetReadTimeout(2 * time.Second)
	return port, nil
}
