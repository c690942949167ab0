// Package config defines daemon configuration and loading. Values are
// layered: defaults, then an optional YAML file, then environment
// variables. The pool is fixed here once and is immutable for the duration
// of a session.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/joeldrotleff/JustSwim/internal/button"
	"github.com/joeldrotleff/JustSwim/internal/imu"
)

// Config contains daemon configuration.
type Config struct {
	// Broker is the MQTT broker address, e.g. "tcp://192.168.1.200:1883".
	Broker string `koanf:"broker"`

	// HTTPAddr is the status server listen address; empty disables it.
	HTTPAddr string `koanf:"http_addr"`

	// SampleMs is the accelerometer sampling interval in milliseconds.
	SampleMs int64 `koanf:"sample_ms"`

	// HeartbeatMs is the system heartbeat interval in milliseconds; 0
	// disables heartbeats.
	HeartbeatMs int64 `koanf:"heartbeat_ms"`

	// PoolLength and PoolUnit describe the pool ("m" or "yd").
	PoolLength float64 `koanf:"pool_length"`
	PoolUnit   string  `koanf:"pool_unit"`

	// IIODevice is the sysfs directory of the accelerometer.
	IIODevice string `koanf:"iio_device"`

	// Button pins, BCM numbering.
	PinToggle int `koanf:"pin_toggle"`
	PinPause  int `koanf:"pin_pause"`
	PinEnd    int `koanf:"pin_end"`
}

// SampleInterval returns the sampling interval as a Duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleMs) * time.Millisecond
}

// HeartbeatInterval returns the heartbeat interval as a Duration.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
		SampleMs:    50,
		HeartbeatMs: (15 * time.Minute).Milliseconds(),
		PoolLength:  25,
		PoolUnit:    "m",
		IIODevice:   imu.DefaultDevice,
		PinToggle:   button.DefaultPinToggle,
		PinPause:    button.DefaultPinPause,
		PinEnd:      button.DefaultPinEnd,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if JUSTSWIM_CONFIG is set
//  3. env (prefix JUSTSWIM_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("JUSTSWIM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: JUSTSWIM_BROKER, JUSTSWIM_POOL_LENGTH, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("JUSTSWIM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "justswim_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return errors.New("broker must not be empty")
	}
	if c.SampleMs <= 0 {
		return errors.New("sample_ms must be positive")
	}
	if c.PoolLength <= 0 {
		return errors.New("pool_length must be positive")
	}
	if c.PoolUnit != "m" && c.PoolUnit != "yd" {
		return fmt.Errorf("pool_unit must be \"m\" or \"yd\", got %q", c.PoolUnit)
	}
	return nil
}
