package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nesspanel/nessclient/client"
)

var errNoTarget = errors.New("nessctl: exactly one of --host or --serial is required")

// dialFunc builds the dial callback a client.Client uses to connect and
// reconnect, from the --host/--port or --serial flags.
func dialFunc() (func(ctx context.Context) (client.Transport, error), error) {
	switch {
	case host != "" && serialDevice != "":
		return nil, errNoTarget
	case host != "":
		addr := fmt.Sprintf("%s:%d", host, port)
		return func(ctx context.Context) (client.Transport, error) {
			return client.DialTCP(ctx, addr)
		}, nil
	case serialDevice != "":
		return func(ctx context.Context) (client.Transport, error) {
			return client.OpenSerial(serialDevice, 0)
		}, nil
	default:
		return nil, errNoTarget
	}
}

func newClient() (*client.Client, error) {
	if configPath != "" {
		fc, err := client.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		host, port, serialDevice = fc.Host, fc.Port, fc.SerialDevice
		if host != "" && port == 0 {
			port = 2401
		}
		dial, err := dialFunc()
		if err != nil {
			return nil, err
		}
		return client.New(dial, fc.Config), nil
	}

	dial, err := dialFunc()
	if err != nil {
		return nil, err
	}
	cfg := client.DefaultConfig()
	cfg.ConnectTimeout = time.Duration(timeoutSec) * time.Second
	return client.New(dial, cfg), nil
}

func connectOrFatal() *client.Client {
	c, err := newClient()
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		log.WithError(err).Fatal("nessctl: connect failed")
	}
	return c
}
