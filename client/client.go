package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nesspanel/nessclient/alarm"
	"github.com/nesspanel/nessclient/wire"
)

var (
	// ErrClosed is returned by any call made after Close.
	ErrClosed = errors.New("client: closed")
	// ErrInvalidKeystring is a fatal caller-misuse error: the keystring
	// contains a character outside the panel's keypad set.
	ErrInvalidKeystring = errors.New("client: keystring contains characters outside the keypad set")
	// ErrInvalidStatusID is a fatal caller-misuse error: the requested
	// status category exceeds the panel's 0..33 range.
	ErrInvalidStatusID = errors.New("client: status request id exceeds 33")
)

// Client owns one connection to a Ness panel. It runs a reconnect loop
// with backoff from Connect until Close, folds every
// decoded message into an *alarm.Alarm, and exposes both a callback and a
// pull (Feed) interface over the result, matching the dual observer
// surface this package's governing design calls for.
//
// Every method is safe to call from any goroutine; internally, a single
// reader/writer/prober trio owns the transport and the Alarm at any one
// time, matching the single-threaded cooperative model those tasks
// assume.
type Client struct {
	cfg  Config
	dial func(ctx context.Context) (Transport, error)
	a    *alarm.Alarm

	outbox *outbox

	mu        sync.Mutex
	connected bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}

	rawFeeds   []*Feed[wire.Message]
	stateFeeds []*Feed[alarm.ArmingState]
	zoneFeeds  []*Feed[alarm.ZoneChange]
}

// New constructs a Client around dial, which Connect calls to establish
// (and re-establish) the transport. cfg's zero value is filled with
// defaults.
func New(dial func(ctx context.Context) (Transport, error), cfg Config) *Client {
	cfg.check()
	a := alarm.New(cfg.InferArmingState)
	c := &Client{
		cfg:    cfg,
		dial:   dial,
		a:      a,
		outbox: newOutbox(cfg.QueueCapacity, cfg.QueueOverflow),
	}
	a.OnEvent(func(m wire.Message) { c.broadcastEvent(m) })
	a.OnStateChange(func(s alarm.ArmingState) { c.broadcastStateChange(s) })
	a.OnZoneChange(func(z alarm.ZoneChange) { c.broadcastZoneChange(z) })
	a.RequestArmingProbe = func() {
		go func() { _ = c.UpdateStatus(context.Background()) }()
	}
	return c
}

func (c *Client) broadcastEvent(m wire.Message) {
	c.mu.Lock()
	feeds := append([]*Feed[wire.Message]{}, c.rawFeeds...)
	c.mu.Unlock()
	for _, f := range feeds {
		f.push(m)
	}
}

func (c *Client) broadcastStateChange(s alarm.ArmingState) {
	c.mu.Lock()
	feeds := append([]*Feed[alarm.ArmingState]{}, c.stateFeeds...)
	c.mu.Unlock()
	for _, f := range feeds {
		f.push(s)
	}
}

func (c *Client) broadcastZoneChange(z alarm.ZoneChange) {
	c.mu.Lock()
	feeds := append([]*Feed[alarm.ZoneChange]{}, c.zoneFeeds...)
	c.mu.Unlock()
	for _, f := range feeds {
		f.push(z)
	}
}

// Events returns a Feed of every decoded message, including DecodeError
// carriers, in arrival order. Each call returns an independent Feed.
func (c *Client) Events() *Feed[wire.Message] {
	f := newFeed[wire.Message](c.cfg.FeedCapacity)
	c.mu.Lock()
	c.rawFeeds = append(c.rawFeeds, f)
	c.mu.Unlock()
	return f
}

// StateChanges returns a Feed of arming-state transitions.
func (c *Client) StateChanges() *Feed[alarm.ArmingState] {
	f := newFeed[alarm.ArmingState](c.cfg.FeedCapacity)
	c.mu.Lock()
	c.stateFeeds = append(c.stateFeeds, f)
	c.mu.Unlock()
	return f
}

// ZoneChanges returns a Feed of zone-state transitions.
func (c *Client) ZoneChanges() *Feed[alarm.ZoneChange] {
	f := newFeed[alarm.ZoneChange](c.cfg.FeedCapacity)
	c.mu.Lock()
	c.zoneFeeds = append(c.zoneFeeds, f)
	c.mu.Unlock()
	return f
}

// OnEvent registers fn to be called, synchronously and in arrival order,
// for every decoded message. The returned func unregisters it.
func (c *Client) OnEvent(fn func(wire.Message)) (dispose func()) { return c.a.OnEvent(fn) }

// OnStateChange registers fn to be called on every arming transition.
func (c *Client) OnStateChange(fn func(alarm.ArmingState)) (dispose func()) {
	return c.a.OnStateChange(fn)
}

// OnZoneChange registers fn to be called on every zone transition.
func (c *Client) OnZoneChange(fn func(alarm.ZoneChange)) (dispose func()) {
	return c.a.OnZoneChange(fn)
}

// Arming returns the current arming state snapshot.
func (c *Client) Arming() alarm.ArmingState { return c.a.Arming() }

// Zone returns zone k's current state snapshot.
func (c *Client) Zone(k int) alarm.ZoneState { return c.a.Zone(k) }

// Connect dials the transport and starts the supervising reconnect loop.
// It returns the outcome of the first dial attempt (nil or its error), or
// ctx's error if ctx is done first; either way the loop keeps running, with backoff, against context.Background()
// until Close is called, independent of ctx's lifetime.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.cancel != nil {
		c.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	firstErr := make(chan error, 1)
	go c.run(runCtx, firstErr)

	select {
	case err := <-firstErr:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) run(ctx context.Context, firstErr chan<- error) {
	defer close(c.done)
	bo := newBackoff(c.cfg.BackoffBase, c.cfg.BackoffCap)
	first := true

	for {
		if ctx.Err() != nil {
			if first {
				firstErr <- ctx.Err()
			}
			return
		}

		dialCtx, dialCancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		t, err := c.dial(dialCtx)
		dialCancel()
		if err != nil {
			c.cfg.Logger.WithError(err).Warn("client: connect failed")
			if first {
				firstErr <- err
				first = false
			}
			if !c.sleepBackoff(ctx, bo) {
				return
			}
			continue
		}

		bo.reset()
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		if first {
			firstErr <- nil
			first = false
		}

		err = c.serveConnection(ctx, t)

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.a.Reset()

		if ctx.Err() != nil {
			return
		}
		c.cfg.Logger.WithError(err).Warn("client: connection lost, reconnecting")
		if !c.sleepBackoff(ctx, bo) {
			return
		}
	}
}

func (c *Client) sleepBackoff(ctx context.Context, bo *backoff) bool {
	select {
	case <-time.After(bo.next()):
		return true
	case <-ctx.Done():
		return false
	}
}

// serveConnection runs the reader, writer and keep-alive prober tasks
// over one live transport until any of them fails, then closes the
// transport and returns that failure.
func (c *Client) serveConnection(parent context.Context, t Transport) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer t.Close()

	g, ctx := errgroup.WithContext(ctx)
	prober := newProber(c.cfg.StartupS20SilenceCycles)

	g.Go(func() error { return c.readLoop(ctx, t, prober) })
	g.Go(func() error { return c.writeLoop(ctx, t) })
	g.Go(func() error { return c.proberLoop(ctx, prober) })

	if err := c.enqueueFullRefresh(); err != nil {
		c.cfg.Logger.WithError(err).Warn("client: initial status refresh failed to enqueue")
	}
	// S20 is probed once unconditionally at connect time, per this
	// package's S20 silence handling; the prober then governs whether
	// later cycles repeat it.
	prober.noteProbeSent()
	if err := c.enqueueStatusRequest(wire.ReqZonesUnsealed17To32); err != nil {
		c.cfg.Logger.WithError(err).Warn("client: initial S20 probe failed to enqueue")
	}

	return g.Wait()
}

func (c *Client) readLoop(ctx context.Context, t Transport, p *prober) error {
	type result struct {
		line string
		err  error
	}
	lines := make(chan result, 1)

	r := bufio.NewReader(t)
	go func() {
		for {
			line, err := r.ReadString('\n')
			select {
			case lines <- result{line, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.KeepaliveTimeout):
			return fmt.Errorf("client: no data received within %s", c.cfg.KeepaliveTimeout)
		case res := <-lines:
			if res.line != "" {
				c.handleLine(res.line, p)
			}
			if res.err != nil {
				return res.err
			}
		}
	}
}

func (c *Client) handleLine(line string, p *prober) {
	trimmed := strings.TrimRight(line, "\r\n")
	if trimmed == "" {
		return
	}
	pkt, err := wire.DecodePacket(trimmed, c.cfg.ValidateChecksums)
	if err != nil {
		c.cfg.Logger.WithFields(logrus.Fields{"component": "client", "raw": trimmed}).WithError(err).Warn("client: decode failed")
		c.a.Apply(wire.DecodeError{Err: err, Raw: trimmed})
		// In Lenient mode a checksum mismatch still yields the packet, which
		// is decoded and applied after its error marker.
		var csErr *wire.ChecksumError
		if c.cfg.ValidateChecksums != wire.Lenient || !errors.As(err, &csErr) {
			return
		}
	}
	msg, err := wire.Decode(pkt)
	if err != nil {
		c.cfg.Logger.WithFields(logrus.Fields{"component": "client", "raw": trimmed}).WithError(err).Warn("client: decode failed")
		c.a.Apply(wire.DecodeError{Err: err, Raw: trimmed})
		return
	}
	if su, ok := msg.(wire.StatusUpdate); ok && su.RequestID == wire.ReqZonesUnsealed17To32 {
		p.markReplied()
	}
	c.a.Apply(msg)
}

func (c *Client) writeLoop(ctx context.Context, t Transport) error {
	for {
		line, err := c.outbox.pop(ctx)
		if err != nil {
			return err
		}
		if _, err := t.Write(line); err != nil {
			return err
		}
	}
}

func (c *Client) proberLoop(ctx context.Context, p *prober) error {
	ticker := time.NewTicker(c.cfg.UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.enqueueFullRefresh(); err != nil {
				return err
			}
			if !p.shouldProbeS20() {
				continue
			}
			p.noteProbeSent()
			if err := c.enqueueStatusRequest(wire.ReqZonesUnsealed17To32); err != nil {
				return err
			}
		}
	}
}

// enqueueFullRefresh issues every status request except S20
// (ReqZonesUnsealed17To32), which the prober governs separately: many
// panels in this family never populate zones above 16 and so never
// answer it, and probing it every cycle regardless would defeat the
// silence-suppression this package's S20 handling calls for.
func (c *Client) enqueueFullRefresh() error {
	ids := []uint8{
		wire.ReqZonesUnsealed1To16,
		wire.ReqArmingStatus,
		wire.ReqMiscellaneousAlarms,
		wire.ReqOutputs,
	}
	for _, id := range ids {
		if err := c.enqueueStatusRequest(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) enqueueStatusRequest(id uint8) error {
	line, err := wire.EncodeLine(wire.EncodeStatusRequest(id))
	if err != nil {
		return err
	}
	return c.outbox.push([]byte(line))
}

// UpdateStatus enqueues an immediate full status refresh (zones, arming,
// miscellaneous alarms, outputs) regardless of the keep-alive cadence.
func (c *Client) UpdateStatus(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.enqueueFullRefresh()
}

// SendCommand enqueues a raw keystring. It fails synchronously, without
// touching the queue, if keystring contains characters outside the
// panel's keypad set or the client has been closed.
func (c *Client) SendCommand(ctx context.Context, keystring string) error {
	if c.isClosed() {
		return ErrClosed
	}
	ks := wire.Keystring{Value: keystring}
	if !ks.Valid() {
		return ErrInvalidKeystring
	}
	line, err := wire.EncodeLine(wire.EncodeKeystring(keystring))
	if err != nil {
		return err
	}
	return c.outbox.push([]byte(line))
}

// ArmAway arms every area in away mode using the given user code.
func (c *Client) ArmAway(ctx context.Context, code string) error {
	return c.SendCommand(ctx, "A"+code+"E")
}

// ArmHome arms every area in home (stay) mode using the given user code.
func (c *Client) ArmHome(ctx context.Context, code string) error {
	return c.SendCommand(ctx, "H"+code+"E")
}

// Disarm disarms using the given user code.
func (c *Client) Disarm(ctx context.Context, code string) error {
	return c.SendCommand(ctx, code+"E")
}

// Panic raises a duress/panic condition using the given user code.
func (c *Client) Panic(ctx context.Context, code string) error {
	return c.SendCommand(ctx, "*"+code+"#")
}

// Aux toggles an auxiliary output on (state true) or off.
func (c *Client) Aux(ctx context.Context, outputID int, state bool) error {
	level := "0"
	if state {
		level = "1"
	}
	return c.SendCommand(ctx, fmt.Sprintf("M%d%s", outputID, level))
}

// RequestStatus issues a single Sxx status request, id in 0..33.
func (c *Client) RequestStatus(ctx context.Context, id uint8) error {
	if c.isClosed() {
		return ErrClosed
	}
	if id > 33 {
		return ErrInvalidStatusID
	}
	return c.enqueueStatusRequest(id)
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Connected reports whether the reconnect loop currently holds a live
// transport.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close stops the reconnect loop, letting the outbound queue drain for up
// to ShutdownDrainDeadline before tearing down the transport, and closes
// every outstanding Feed.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	done := c.done
	rawFeeds := append([]*Feed[wire.Message]{}, c.rawFeeds...)
	stateFeeds := append([]*Feed[alarm.ArmingState]{}, c.stateFeeds...)
	zoneFeeds := append([]*Feed[alarm.ZoneChange]{}, c.zoneFeeds...)
	c.mu.Unlock()

	c.outbox.closeForWrites()

	if cancel != nil {
		deadline := time.NewTimer(c.cfg.ShutdownDrainDeadline)
		defer deadline.Stop()
	waitDrain:
		for {
			select {
			case <-done:
				break waitDrain
			case <-deadline.C:
				break waitDrain
			case <-ctx.Done():
				break waitDrain
			case <-time.After(20 * time.Millisecond):
				if c.outbox.empty() {
					break waitDrain
				}
			}
		}
		if n := c.outbox.discardRemaining(); n > 0 {
			c.cfg.Logger.WithField("count", n).Warn("client: shutdown deadline reached with commands still queued")
		}
		cancel()
		<-done
	}

	for _, f := range rawFeeds {
		f.Close()
	}
	for _, f := range stateFeeds {
		f.Close()
	}
	for _, f := range zoneFeeds {
		f.Close()
	}

	c.cfg.Logger.WithFields(logrus.Fields{"component": "client"}).Info("client: closed")
	return nil
}
