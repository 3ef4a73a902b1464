package client

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/nesspanel/nessclient/wire"
)

// Config tunes a Client's timing and buffering. The zero value is not
// usable directly; New calls check, which fills in the defaults below the
// same way the teacher's TCPConfig.check does for IEC 104 timers.
type Config struct {
	// UpdateInterval is the cadence of full Sxx status refreshes once
	// connected. Default 60s.
	UpdateInterval time.Duration

	// InferArmingState, when true, triggers one UpdateStatus call the
	// first time a zone changes while arming is still Unknown, instead of
	// waiting for the next scheduled refresh.
	InferArmingState bool

	// ValidateChecksums controls whether a checksum mismatch is fatal to
	// the line (Strict, the default) or merely surfaced as a DecodeError
	// alongside the decoded packet (Lenient).
	ValidateChecksums wire.ChecksumMode

	// KeepaliveTimeout is how long the connection may go without any
	// received line before it is considered lost. Default 60s.
	KeepaliveTimeout time.Duration

	// BackoffBase and BackoffCap bound the reconnect backoff. Defaults
	// 1s and 60s.
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// ConnectTimeout bounds a single dial attempt. Default 10s.
	ConnectTimeout time.Duration

	// ShutdownDrainDeadline is how long Close waits for the outbound
	// queue to flush before it gives up and closes the transport anyway.
	// Default 2s.
	ShutdownDrainDeadline time.Duration

	// QueueCapacity and QueueOverflow bound and govern the outbound
	// command queue. Default 256, DropOldest.
	QueueCapacity int
	QueueOverflow OverflowPolicy

	// FeedCapacity bounds each observer Feed. Default 256.
	FeedCapacity int

	// StartupS20SilenceCycles is how many S20 probes, the one sent at
	// connect included, may go unanswered before the client stops sending
	// it, per this package's S20 silence handling. Default 3.
	StartupS20SilenceCycles int

	// Logger receives structured connection and decode diagnostics.
	// Defaults to logrus's standard logger.
	Logger *logrus.Logger
}

// DefaultConfig returns a Config with every field at its documented
// default.
func DefaultConfig() Config {
	c := Config{}
	c.check()
	return c
}

// check fills in unset fields with their defaults, mirroring the
// teacher's TCPConfig.check. Unlike the teacher it does not reject
// out-of-range values with a panic: every field here has a sane default
// and no standards body bounds the legal range.
func (c *Config) check() *Config {
	if c.UpdateInterval <= 0 {
		c.UpdateInterval = 60 * time.Second
	}
	if c.KeepaliveTimeout <= 0 {
		c.KeepaliveTimeout = 60 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = 60 * time.Second
	}
	if c.BackoffCap < c.BackoffBase {
		c.BackoffCap = c.BackoffBase
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.ShutdownDrainDeadline <= 0 {
		c.ShutdownDrainDeadline = 2 * time.Second
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 256
	}
	if c.FeedCapacity <= 0 {
		c.FeedCapacity = 256
	}
	if c.StartupS20SilenceCycles <= 0 {
		c.StartupS20SilenceCycles = 3
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// yamlConfig mirrors the subset of Config a deployment typically wants to
// externalize; durations are strings so operators write "60s" instead of
// a raw nanosecond count.
type yamlConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	SerialDevice            string `yaml:"serial_device"`
	UpdateInterval          string `yaml:"update_interval"`
	InferArmingState        bool   `yaml:"infer_arming_state"`
	ValidateChecksums       bool   `yaml:"validate_checksums"`
	KeepaliveTimeout        string `yaml:"keepalive_timeout"`
	BackoffCap              string `yaml:"backoff_cap"`
	ConnectTimeout          string `yaml:"connect_timeout"`
	QueueCapacity           int    `yaml:"queue_capacity"`
	FeedCapacity            int    `yaml:"feed_capacity"`
	StartupS20SilenceCycles int    `yaml:"startup_s20_silence_cycles"`
}

// FileConfig is a Config plus the dial target LoadConfig read out of the
// same YAML document, since the address belongs to the deployment, not
// to the Client's internal tuning.
type FileConfig struct {
	Config
	Host         string
	Port         int
	SerialDevice string
}

// LoadConfig reads a YAML configuration file in this package's documented
// format (host, port or serial_device, update_interval, infer_arming_state,
// validate_checksums, keepalive_timeout, backoff_cap).
func LoadConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return FileConfig{}, err
	}

	cfg := DefaultConfig()
	cfg.InferArmingState = y.InferArmingState
	if y.ValidateChecksums {
		cfg.ValidateChecksums = wire.Strict
	} else {
		cfg.ValidateChecksums = wire.Lenient
	}
	if y.QueueCapacity > 0 {
		cfg.QueueCapacity = y.QueueCapacity
	}
	if y.FeedCapacity > 0 {
		cfg.FeedCapacity = y.FeedCapacity
	}
	if y.StartupS20SilenceCycles > 0 {
		cfg.StartupS20SilenceCycles = y.StartupS20SilenceCycles
	}

	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{y.UpdateInterval, &cfg.UpdateInterval},
		{y.KeepaliveTimeout, &cfg.KeepaliveTimeout},
		{y.BackoffCap, &cfg.BackoffCap},
		{y.ConnectTimeout, &cfg.ConnectTimeout},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return FileConfig{}, err
		}
		*d.dst = parsed
	}
	cfg.check()

	return FileConfig{Config: cfg, Host: y.Host, Port: y.Port, SerialDevice: y.SerialDevice}, nil
}
