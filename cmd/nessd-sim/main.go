// Command nessd-sim is a bare TCP panel stand-in for exercising a client
// without real hardware: it answers status requests with a fixed, all-quiet
// reply and echoes every arm/disarm keystring back as a SystemStatusEvent,
// the way a real D16x reports the resulting state change.
package main

import (
	"bufio"
	"flag"
	"io"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nesspanel/nessclient/wire"
)

var addr = flag.String("addr", "127.0.0.1:2401", "address to listen on")

func main() {
	flag.Parse()
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.WithError(err).Fatal("nessd-sim: listen failed")
	}
	log.Infof("nessd-sim: listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.WithError(err).Error("nessd-sim: accept failed")
			continue
		}
		go serve(conn)
	}
}

func serve(conn net.Conn) {
	defer conn.Close()
	log.Infof("nessd-sim: client connected from %s", conn.RemoteAddr())
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.WithError(err).Warn("nessd-sim: read failed")
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		handleLine(conn, line)
	}
}

func handleLine(conn net.Conn, line string) {
	p, err := wire.DecodePacket(line, wire.Lenient)
	if err != nil {
		log.WithError(err).Warn("nessd-sim: malformed line")
		return
	}
	msg, err := wire.Decode(p)
	if err != nil {
		log.WithError(err).Warn("nessd-sim: undecodable packet")
		return
	}
	switch m := msg.(type) {
	case wire.StatusRequest:
		reply(conn, wire.Packet{
			Command: wire.UserInterface,
			Data:    []byte{m.ID, 0x00, 0x00},
		})
	case wire.Keystring:
		respondToKeystring(conn, m.Value)
	default:
		log.Debugf("nessd-sim: ignoring %T", m)
	}
}

// respondToKeystring maps the keystring conventions client.ArmAway/ArmHome/
// Disarm/Panic use (see DESIGN.md's Open Question on keystring conventions)
// back onto the SystemStatusEvent that would follow them on real hardware.
func respondToKeystring(conn net.Conn, value string) {
	var kind wire.EventKind
	switch {
	case strings.HasPrefix(value, "A") && strings.HasSuffix(value, "E"):
		kind = wire.KindArmedAway
	case strings.HasPrefix(value, "H") && strings.HasSuffix(value, "E"):
		kind = wire.KindArmedHome
	case strings.HasPrefix(value, "*") && strings.HasSuffix(value, "#"):
		kind = wire.KindAlarm
	case strings.HasSuffix(value, "E"):
		kind = wire.KindDisarmed
	default:
		log.Debugf("nessd-sim: unrecognized keystring %q, no event emitted", value)
		return
	}
	b, ok := wire.EventTypeByte(kind)
	if !ok {
		return
	}
	reply(conn, wire.Packet{
		Command: wire.SystemStatus,
		Data:    []byte{b, 0x00, 0x01},
	})
}

func reply(conn net.Conn, p wire.Packet) {
	line, err := wire.EncodeLine(p)
	if err != nil {
		log.WithError(err).Error("nessd-sim: encode failed")
		return
	}
	if _, err := conn.Write([]byte(line)); err != nil {
		log.WithError(err).Warn("nessd-sim: write failed")
	}
}
