package alarm

import (
	"testing"

	"github.com/nesspanel/nessclient/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZone7UnsealScenario(t *testing.T) {
	a := New(false)
	var changes []ZoneChange
	a.OnZoneChange(func(c ZoneChange) { changes = append(changes, c) })

	su := wire.StatusUpdate{RequestID: wire.ReqZonesUnsealed1To16, Payload: [2]byte{0x40, 0x00}}
	a.Apply(su)

	assert.Equal(t, Unsealed, a.Zone(7))
	require.Len(t, changes, 1)
	assert.Equal(t, ZoneChange{Zone: 7, From: ZoneUnknown, To: Unsealed}, changes[0])
}

func TestDuressEventDeliveredWithoutArmingTransition(t *testing.T) {
	a := New(false)
	var events []wire.Message
	var stateChanges []ArmingState
	a.OnEvent(func(m wire.Message) { events = append(events, m) })
	a.OnStateChange(func(s ArmingState) { stateChanges = append(stateChanges, s) })

	ev := wire.SystemStatusEvent{Kind: wire.KindAlarm, EventType: 0x02, Identifier: 1, Area: 0x84}
	a.Apply(ev)

	require.Len(t, events, 1)
	assert.Empty(t, stateChanges)
	assert.Equal(t, Unknown, a.Arming())
}

func TestArmingFoldAndRestore(t *testing.T) {
	a := New(false)
	var states []ArmingState
	a.OnStateChange(func(s ArmingState) { states = append(states, s) })

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindArmedAway})
	assert.Equal(t, Armed, a.Arming())

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindDisarmed})
	assert.Equal(t, Disarmed, a.Arming())

	require.Len(t, states, 2)
	assert.Equal(t, []ArmingState{Armed, Disarmed}, states)
}

func TestAlarmTriggersOnlyWhileArmedIsh(t *testing.T) {
	a := New(false)

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindAlarm, Identifier: 1})
	assert.Equal(t, Unknown, a.Arming(), "alarm while disarmed/unknown must not trigger")

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindArmedAway})
	a.Apply(wire.SystemStatusEvent{Kind: wire.KindAlarm, Identifier: 1})
	assert.Equal(t, Triggered, a.Arming())

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindAlarmRestore})
	assert.Equal(t, Armed, a.Arming())
}

func TestStatusUpdateOverwritesSnapshotRangeThenEventWins(t *testing.T) {
	a := New(false)
	a.Apply(wire.StatusUpdate{RequestID: wire.ReqZonesUnsealed1To16, Payload: [2]byte{0xFF, 0xFF}})
	for k := 1; k <= 16; k++ {
		assert.Equal(t, Unsealed, a.Zone(k))
	}
	a.Apply(wire.SystemStatusEvent{Kind: wire.KindSealed, Identifier: 3})
	assert.Equal(t, Sealed, a.Zone(3), "an event after a snapshot must win regardless of the snapshot's bit")
}

func TestArmingFromFORM21Flags(t *testing.T) {
	a := New(false)
	var f wire.ArmingFlags
	f |= 1 << uint((1-1)*4+1) // area 1 fully armed
	a.Apply(wire.StatusUpdate{RequestID: wire.ReqArmingStatus, Payload: [2]byte{byte(f >> 8), byte(f)}})
	assert.Equal(t, Armed, a.Arming())
}

func TestDecodeErrorDoesNotMutateState(t *testing.T) {
	a := New(false)
	var events []wire.Message
	a.OnEvent(func(m wire.Message) { events = append(events, m) })

	a.Apply(wire.DecodeError{Err: assertError{}, Raw: "garbage"})
	assert.Equal(t, Unknown, a.Arming())
	require.Len(t, events, 1)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestResetMarksEverythingUnknown(t *testing.T) {
	a := New(false)
	a.Apply(wire.SystemStatusEvent{Kind: wire.KindArmedAway})
	a.Apply(wire.SystemStatusEvent{Kind: wire.KindUnsealed, Identifier: 5})
	require.Equal(t, Armed, a.Arming())
	require.Equal(t, Unsealed, a.Zone(5))

	var stateChanges []ArmingState
	var zoneChanges []ZoneChange
	a.OnStateChange(func(s ArmingState) { stateChanges = append(stateChanges, s) })
	a.OnZoneChange(func(c ZoneChange) { zoneChanges = append(zoneChanges, c) })

	a.Reset()
	assert.Equal(t, Unknown, a.Arming())
	assert.Equal(t, ZoneUnknown, a.Zone(5))
	assert.Equal(t, []ArmingState{Unknown}, stateChanges)
	require.Len(t, zoneChanges, 1)
	assert.Equal(t, 5, zoneChanges[0].Zone)
}

func TestInferArmingStateRequestsProbeOnFirstZoneChange(t *testing.T) {
	a := New(true)
	var probed int
	a.RequestArmingProbe = func() { probed++ }

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindUnsealed, Identifier: 1})
	assert.Equal(t, 1, probed)

	a.Apply(wire.SystemStatusEvent{Kind: wire.KindUnsealed, Identifier: 2})
	assert.Equal(t, 1, probed, "must only probe once per connection cycle")
}
