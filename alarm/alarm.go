// Package alarm folds decoded wire messages into the panel's zone and
// arming state, deterministically, and notifies observers of transitions.
package alarm

import (
	"sync"

	"github.com/nesspanel/nessclient/wire"
)

// ArmingState is the overall arming state machine the panel reports.
type ArmingState int

const (
	Unknown ArmingState = iota
	Disarmed
	Arming
	ExitDelay
	EntryDelay
	Armed
	Triggered
)

func (s ArmingState) String() string {
	switch s {
	case Disarmed:
		return "DISARMED"
	case Arming:
		return "ARMING"
	case ExitDelay:
		return "EXIT_DELAY"
	case EntryDelay:
		return "ENTRY_DELAY"
	case Armed:
		return "ARMED"
	case Triggered:
		return "TRIGGERED"
	default:
		return "UNKNOWN"
	}
}

// ZoneState is one zone's instantaneous sealed/unsealed reading.
type ZoneState int

const (
	ZoneUnknown ZoneState = iota
	Sealed
	Unsealed
)

func (s ZoneState) String() string {
	switch s {
	case Sealed:
		return "SEALED"
	case Unsealed:
		return "UNSEALED"
	default:
		return "UNKNOWN"
	}
}

// ZoneChange is delivered to zone-change observers.
type ZoneChange struct {
	Zone     int
	From, To ZoneState
}

// Version is the panel model/firmware pair, once a version reply is seen.
type Version struct {
	Model   wire.Model
	Version string
}

// Alarm is the pure fold of decoded messages into authoritative state. It
// carries no I/O of its own: the connection manager owns reading and
// feeds it messages in arrival order, and is the only thing that mutates
// it — matching the single-threaded cooperative concurrency model the
// rest of this module assumes. The internal mutex exists only to let a
// caller safely read a snapshot (e.g. for a status command) from outside
// that owning task.
type Alarm struct {
	mu sync.Mutex

	arming      ArmingState
	priorArming ArmingState // for AlarmRestore
	zones       map[int]ZoneState
	maxZone     int
	version     *Version

	inferArmingState    bool
	armingProbeRequested bool

	onEvent       []func(wire.Message)
	onZoneChange  []func(ZoneChange)
	onStateChange []func(ArmingState)

	// RequestArmingProbe, if set, is invoked at most once per Reset cycle:
	// when InferArmingState is on and a zone changes while arming is still
	// Unknown. The client wires this to UpdateStatus instead of guessing.
	RequestArmingProbe func()
}

// New returns an Alarm with all state Unknown.
func New(inferArmingState bool) *Alarm {
	return &Alarm{
		arming:           Unknown,
		priorArming:      Unknown,
		zones:            make(map[int]ZoneState),
		maxZone:          16,
		inferArmingState: inferArmingState,
	}
}

// Reset marks all state Unknown, as required on reconnect. It fires a
// state-change notification if arming was not already Unknown, and a
// zone-change notification for every zone that was not already Unknown.
func (a *Alarm) Reset() {
	a.mu.Lock()
	prevArming := a.arming
	prevZones := a.zones
	a.arming = Unknown
	a.priorArming = Unknown
	a.zones = make(map[int]ZoneState)
	a.armingProbeRequested = false
	a.mu.Unlock()

	if prevArming != Unknown {
		a.fireStateChange(Unknown)
	}
	for zone, state := range prevZones {
		if state != ZoneUnknown {
			a.fireZoneChange(ZoneChange{Zone: zone, From: state, To: ZoneUnknown})
		}
	}
}

// Arming returns the current arming state.
func (a *Alarm) Arming() ArmingState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.arming
}

// Zone returns zone k's current state (ZoneUnknown if never observed).
func (a *Alarm) Zone(k int) ZoneState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.zones[k]
}

// Zones returns a snapshot copy of every known zone's state.
func (a *Alarm) Zones() map[int]ZoneState {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int]ZoneState, len(a.zones))
	for k, v := range a.zones {
		out[k] = v
	}
	return out
}

// MaxZone returns the highest zone id this panel has been observed to
// report: 16 until a reqid-20 reply or an event for any zone above 16 is
// applied, 32 from then on.
func (a *Alarm) MaxZone() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxZone
}

// VersionInfo returns the panel's model/firmware, if a version reply has
// been seen.
func (a *Alarm) VersionInfo() (Version, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version == nil {
		return Version{}, false
	}
	return *a.version, true
}

// OnEvent registers a callback invoked for every decoded message,
// including DecodeError carriers, synchronously from Apply.
func (a *Alarm) OnEvent(fn func(wire.Message)) (dispose func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = append(a.onEvent, fn)
	idx := len(a.onEvent) - 1
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.onEvent[idx] = nil
	}
}

// OnZoneChange registers a callback invoked whenever a zone's state
// changes, including a zone's first reading out of ZoneUnknown and its
// return to ZoneUnknown on Reset.
func (a *Alarm) OnZoneChange(fn func(ZoneChange)) (dispose func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onZoneChange = append(a.onZoneChange, fn)
	idx := len(a.onZoneChange) - 1
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.onZoneChange[idx] = nil
	}
}

// OnStateChange registers a callback invoked when arming transitions to
// a different value.
func (a *Alarm) OnStateChange(fn func(ArmingState)) (dispose func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStateChange = append(a.onStateChange, fn)
	idx := len(a.onStateChange) - 1
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.onStateChange[idx] = nil
	}
}

func (a *Alarm) fireEvent(msg wire.Message) {
	a.mu.Lock()
	handlers := append([]func(wire.Message){}, a.onEvent...)
	a.mu.Unlock()
	for _, fn := range handlers {
		if fn != nil {
			safeCall(func() { fn(msg) })
		}
	}
}

func (a *Alarm) fireZoneChange(c ZoneChange) {
	a.mu.Lock()
	handlers := append([]func(ZoneChange){}, a.onZoneChange...)
	a.mu.Unlock()
	for _, fn := range handlers {
		if fn != nil {
			safeCall(func() { fn(c) })
		}
	}
}

func (a *Alarm) fireStateChange(s ArmingState) {
	a.mu.Lock()
	handlers := append([]func(ArmingState){}, a.onStateChange...)
	a.mu.Unlock()
	for _, fn := range handlers {
		if fn != nil {
			safeCall(func() { fn(s) })
		}
	}
}

// safeCall isolates a handler panic so a misbehaving subscriber cannot
// stop the reader task, matching the observer-plumbing contract.
func safeCall(fn func()) {
	defer func() { recover() }()
	fn()
}

// Apply folds one decoded message into state. It never returns an error:
// a DecodeError carrier is forwarded to the raw event stream without
// mutating state, matching spec failure semantics.
func (a *Alarm) Apply(msg wire.Message) {
	a.fireEvent(msg)

	switch m := msg.(type) {
	case wire.SystemStatusEvent:
		a.applyEvent(m)
	case wire.StatusUpdate:
		a.applyStatusUpdate(m)
	}
}

func (a *Alarm) setArming(next ArmingState) {
	a.mu.Lock()
	prev := a.arming
	if prev == next {
		a.mu.Unlock()
		return
	}
	if prev == Triggered && next != Triggered {
		// leaving TRIGGERED via something other than AlarmRestore still
		// clears the saved restore target, it's no longer meaningful.
		a.priorArming = Unknown
	}
	a.arming = next
	a.mu.Unlock()
	a.fireStateChange(next)
}

func (a *Alarm) setZone(k int, next ZoneState) {
	a.mu.Lock()
	if k > a.maxZone {
		if k > 16 {
			a.maxZone = 32
		}
	}
	prev := a.zones[k]
	probe := a.RequestArmingProbe
	shouldProbe := a.inferArmingState && !a.armingProbeRequested && a.arming == Unknown && prev != next
	if shouldProbe {
		a.armingProbeRequested = true
	}
	a.zones[k] = next
	a.mu.Unlock()

	if prev != next {
		a.fireZoneChange(ZoneChange{Zone: k, From: prev, To: next})
	}
	if shouldProbe && probe != nil {
		safeCall(probe)
	}
}

func (a *Alarm) applyEvent(ev wire.SystemStatusEvent) {
	switch ev.Kind {
	case wire.KindDisarmed:
		a.setArming(Disarmed)
	case wire.KindArmedAway, wire.KindArmedHome, wire.KindArmedDay, wire.KindArmedNight,
		wire.KindArmedVacation, wire.KindArmedHighest:
		a.setArming(Armed)
	case wire.KindExitDelayStart:
		a.setArming(ExitDelay)
	case wire.KindExitDelayEnd:
		if a.Arming() == ExitDelay {
			a.setArming(Armed)
		}
	case wire.KindEntryDelayStart:
		a.setArming(EntryDelay)
	case wire.KindEntryDelayEnd:
		a.setArming(Armed)
	case wire.KindArmingDelayed:
		a.setArming(Arming)
	case wire.KindAlarm:
		if armedIsh(a.Arming()) {
			a.mu.Lock()
			a.priorArming = a.arming
			a.mu.Unlock()
			a.setArming(Triggered)
		}
	case wire.KindAlarmRestore:
		a.mu.Lock()
		restore := a.priorArming
		a.mu.Unlock()
		a.setArming(restore)
	case wire.KindUnsealed:
		if k, ok := ev.ZoneID(); ok {
			a.setZone(k, Unsealed)
		}
	case wire.KindSealed:
		if k, ok := ev.ZoneID(); ok {
			a.setZone(k, Sealed)
		}
	}
}

func armedIsh(s ArmingState) bool {
	switch s {
	case Armed, Arming, ExitDelay, EntryDelay:
		return true
	default:
		return false
	}
}

func (a *Alarm) applyStatusUpdate(su wire.StatusUpdate) {
	if zones, ok := su.ZonesUnsealed(); ok {
		var base int
		if su.RequestID == wire.ReqZonesUnsealed17To32 {
			base = 16
		}
		unsealed := make(map[int]bool, len(zones))
		for _, z := range zones {
			unsealed[z] = true
		}
		for k := base + 1; k <= base+16; k++ {
			if unsealed[k] {
				a.setZone(k, Unsealed)
			} else {
				a.setZone(k, Sealed)
			}
		}
		return
	}
	if flags, ok := su.ArmingFlags(); ok {
		a.setArming(armingFromFlags(flags))
		return
	}
	if model, version, ok := su.Version(); ok {
		a.mu.Lock()
		a.version = &Version{Model: model, Version: version}
		a.mu.Unlock()
	}
}

func armingFromFlags(f wire.ArmingFlags) ArmingState {
	anyFullyArmed, anyEntryDelay, anyArmed := false, false, false
	for area := 1; area <= 4; area++ {
		if f.AreaFullyArmed(area) {
			anyFullyArmed = true
		}
		if f.AreaEntryDelayOn(area) {
			anyEntryDelay = true
		}
		if f.AreaArmed(area) {
			anyArmed = true
		}
	}
	switch {
	case anyFullyArmed:
		return Armed
	case anyEntryDelay:
		return EntryDelay
	case anyArmed:
		return ExitDelay
	default:
		return Disarmed
	}
}
