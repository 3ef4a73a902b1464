package wire

// EventKind is the specific variant a SystemStatusEvent's raw event_type
// byte resolves to. The byte-to-name table is an invented but internally
// consistent numbering (see DESIGN.md, Open Question 3): spec.md names
// the five qualitative families and gives exactly one concrete data point
// (event_type 0x02 == Alarm), which this table honors.
type EventKind uint8

const (
	KindUnknown EventKind = iota

	// zone/user family (0x00-0x0F)
	KindUnsealed
	KindSealed
	KindAlarm
	KindAlarmRestore
	KindManualExclude
	KindManualInclude
	KindAutoExclude
	KindAutoInclude
	KindTamperUnsealed
	KindTamperNormal
	KindDoorOpenTooLong

	// area family (0x10-0x1F)
	KindExitDelayStart
	KindExitDelayEnd
	KindEntryDelayStart
	KindEntryDelayEnd
	KindArmingDelayed
	KindArmedAway
	KindArmedHome
	KindArmedDay
	KindArmedNight
	KindArmedVacation
	KindArmedHighest
	KindDisarmed

	// system family (0x20-0x2F)
	KindPowerFailure
	KindPowerNormal
	KindBatteryFailure
	KindBatteryNormal
	KindReportFailure
	KindReportNormal
	KindSupervisionFailure
	KindSupervisionNormal
	KindRealTimeClock

	// result/output family (0x30-0x3F)
	KindOutputOn
	KindOutputOff
)

func (k EventKind) String() string {
	switch k {
	case KindUnsealed:
		return "Unsealed"
	case KindSealed:
		return "Sealed"
	case KindAlarm:
		return "Alarm"
	case KindAlarmRestore:
		return "AlarmRestore"
	case KindManualExclude:
		return "ManualExclude"
	case KindManualInclude:
		return "ManualInclude"
	case KindAutoExclude:
		return "AutoExclude"
	case KindAutoInclude:
		return "AutoInclude"
	case KindTamperUnsealed:
		return "TamperUnsealed"
	case KindTamperNormal:
		return "TamperNormal"
	case KindDoorOpenTooLong:
		return "DoorOpenTooLong"
	case KindExitDelayStart:
		return "ExitDelayStart"
	case KindExitDelayEnd:
		return "ExitDelayEnd"
	case KindEntryDelayStart:
		return "EntryDelayStart"
	case KindEntryDelayEnd:
		return "EntryDelayEnd"
	case KindArmingDelayed:
		return "ArmingDelayed"
	case KindArmedAway:
		return "ArmedAway"
	case KindArmedHome:
		return "ArmedHome"
	case KindArmedDay:
		return "ArmedDay"
	case KindArmedNight:
		return "ArmedNight"
	case KindArmedVacation:
		return "ArmedVacation"
	case KindArmedHighest:
		return "ArmedHighest"
	case KindDisarmed:
		return "Disarmed"
	case KindPowerFailure:
		return "PowerFailure"
	case KindPowerNormal:
		return "PowerNormal"
	case KindBatteryFailure:
		return "BatteryFailure"
	case KindBatteryNormal:
		return "BatteryNormal"
	case KindReportFailure:
		return "ReportFailure"
	case KindReportNormal:
		return "ReportNormal"
	case KindSupervisionFailure:
		return "SupervisionFailure"
	case KindSupervisionNormal:
		return "SupervisionNormal"
	case KindRealTimeClock:
		return "RealTimeClock"
	case KindOutputOn:
		return "OutputOn"
	case KindOutputOff:
		return "OutputOff"
	default:
		return "Unknown"
	}
}

var eventTypeTable = map[uint8]EventKind{
	0x00: KindUnsealed,
	0x01: KindSealed,
	0x02: KindAlarm,
	0x03: KindAlarmRestore,
	0x04: KindManualExclude,
	0x05: KindManualInclude,
	0x06: KindAutoExclude,
	0x07: KindAutoInclude,
	0x08: KindTamperUnsealed,
	0x09: KindTamperNormal,
	0x0A: KindDoorOpenTooLong,

	0x10: KindExitDelayStart,
	0x11: KindExitDelayEnd,
	0x12: KindEntryDelayStart,
	0x13: KindEntryDelayEnd,
	0x14: KindArmingDelayed,
	0x15: KindArmedAway,
	0x16: KindArmedHome,
	0x17: KindArmedDay,
	0x18: KindArmedNight,
	0x19: KindArmedVacation,
	0x1A: KindArmedHighest,
	0x1B: KindDisarmed,

	0x20: KindPowerFailure,
	0x21: KindPowerNormal,
	0x22: KindBatteryFailure,
	0x23: KindBatteryNormal,
	0x24: KindReportFailure,
	0x25: KindReportNormal,
	0x26: KindSupervisionFailure,
	0x27: KindSupervisionNormal,
	0x28: KindRealTimeClock,

	0x30: KindOutputOn,
	0x31: KindOutputOff,
}

var eventKindTable = func() map[EventKind]uint8 {
	m := make(map[EventKind]uint8, len(eventTypeTable))
	for b, k := range eventTypeTable {
		m[k] = b
	}
	return m
}()

func classifyEventType(b uint8) EventKind {
	if k, ok := eventTypeTable[b]; ok {
		return k
	}
	return KindUnknown
}

// EventTypeByte returns the wire byte for a known EventKind, for encoding
// synthetic events (the simulator, tests). ok is false for KindUnknown.
func EventTypeByte(k EventKind) (b uint8, ok bool) {
	b, ok = eventKindTable[k]
	return b, ok
}

// AreaTag is a semantic, non-numbered area code: an alarm category rather
// than an arming area id.
type AreaTag uint8

const (
	Area24Hour        AreaTag = 0x80
	AreaFire          AreaTag = 0x81
	AreaPanic         AreaTag = 0x82
	AreaMedical       AreaTag = 0x83
	AreaDuress        AreaTag = 0x84
	AreaDoorBell      AreaTag = 0x85
	AreaRadioDetector AreaTag = 0x91
	AreaRadioKey      AreaTag = 0x92
)

func (t AreaTag) String() string {
	switch t {
	case Area24Hour:
		return "24Hour"
	case AreaFire:
		return "Fire"
	case AreaPanic:
		return "Panic"
	case AreaMedical:
		return "Medical"
	case AreaDuress:
		return "Duress"
	case AreaDoorBell:
		return "DoorBellOrDoorTooLong"
	case AreaRadioDetector:
		return "RadioDetector"
	case AreaRadioKey:
		return "RadioKey"
	default:
		return "Unknown"
	}
}

// ArmingArea returns e's numbered arming area (1-4) if Area encodes one
// rather than a semantic tag.
func (e SystemStatusEvent) ArmingArea() (int, bool) {
	if e.Area >= 1 && e.Area <= 4 {
		return int(e.Area), true
	}
	return 0, false
}

// Tag returns e's semantic area tag, if Area encodes one.
func (e SystemStatusEvent) Tag() (AreaTag, bool) {
	switch AreaTag(e.Area) {
	case Area24Hour, AreaFire, AreaPanic, AreaMedical, AreaDuress, AreaDoorBell, AreaRadioDetector, AreaRadioKey:
		return AreaTag(e.Area), true
	default:
		return 0, false
	}
}

// ZoneID returns e's zone identifier (1-32), if Identifier encodes one.
func (e SystemStatusEvent) ZoneID() (int, bool) {
	if e.Identifier >= 1 && e.Identifier <= 32 {
		return int(e.Identifier), true
	}
	return 0, false
}

// UserID returns e's user identifier (1-56), if Identifier encodes one.
func (e SystemStatusEvent) UserID() (int, bool) {
	if e.Identifier >= 1 && e.Identifier <= 56 {
		return int(e.Identifier), true
	}
	return 0, false
}

// IsKeypad reports whether the event originated from a keypad rather than
// a specific zone or user.
func (e SystemStatusEvent) IsKeypad() bool { return e.Identifier == 0xF0 }

// IsKeyswitch reports whether the event originated from a keyswitch.
func (e SystemStatusEvent) IsKeyswitch() bool { return e.Identifier == 57 }

// IsShortArm reports whether the event originated from a short-arm input.
func (e SystemStatusEvent) IsShortArm() bool { return e.Identifier == 58 }

// IsMainUnit reports whether the event originated from the main unit
// itself rather than a peripheral.
func (e SystemStatusEvent) IsMainUnit() bool { return e.Identifier == 0 }
