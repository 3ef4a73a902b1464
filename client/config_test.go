package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesspanel/nessclient/wire"
)

func TestDefaultConfigFillsEveryField(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 60*time.Second, c.UpdateInterval)
	assert.Equal(t, 60*time.Second, c.KeepaliveTimeout)
	assert.Equal(t, time.Second, c.BackoffBase)
	assert.Equal(t, 60*time.Second, c.BackoffCap)
	assert.Equal(t, 10*time.Second, c.ConnectTimeout)
	assert.Equal(t, 2*time.Second, c.ShutdownDrainDeadline)
	assert.Equal(t, 256, c.QueueCapacity)
	assert.Equal(t, 256, c.FeedCapacity)
	assert.Equal(t, 3, c.StartupS20SilenceCycles)
	assert.NotNil(t, c.Logger)
}

func TestConfigCheckNeverLowersCapBelowBase(t *testing.T) {
	c := Config{BackoffBase: 10 * time.Second, BackoffCap: time.Second}
	c.check()
	assert.GreaterOrEqual(t, c.BackoffCap, c.BackoffBase)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ness.yaml")
	body := `
host: 192.168.1.50
port: 2401
update_interval: 30s
infer_arming_state: true
validate_checksums: false
keepalive_timeout: 90s
backoff_cap: 120s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	fc, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", fc.Host)
	assert.Equal(t, 2401, fc.Port)
	assert.Equal(t, 30*time.Second, fc.UpdateInterval)
	assert.True(t, fc.InferArmingState)
	assert.Equal(t, wire.Lenient, fc.ValidateChecksums)
	assert.Equal(t, 90*time.Second, fc.KeepaliveTimeout)
	assert.Equal(t, 120*time.Second, fc.BackoffCap)
}

func TestLoadConfigRejectsMalformedDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ness.yaml")
	require.NoError(t, os.WriteFile(path, []byte("update_interval: not-a-duration\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
