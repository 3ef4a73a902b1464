package nessclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nesspanel/nessclient/alarm"
)

func TestReExportedConstantsMatchAlarmPackage(t *testing.T) {
	assert.Equal(t, alarm.Armed, Armed)
	assert.Equal(t, alarm.Triggered, Triggered)
	assert.Equal(t, alarm.Unsealed, Unsealed)
	assert.Equal(t, alarm.ZoneUnknown, ZoneUnknown)
}

func TestDefaultConfigIsUsable(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotZero(t, cfg.UpdateInterval)
	assert.NotNil(t, cfg.Logger)
}
