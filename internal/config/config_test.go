package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := New()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.SampleInterval() != 50*time.Millisecond {
		t.Errorf("unexpected sample interval: %v", cfg.SampleInterval())
	}
	if cfg.HeartbeatInterval() != 15*time.Minute {
		t.Errorf("unexpected heartbeat interval: %v", cfg.HeartbeatInterval())
	}
	if cfg.PoolLength != 25 || cfg.PoolUnit != "m" {
		t.Errorf("unexpected pool defaults: %v%v", cfg.PoolLength, cfg.PoolUnit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JUSTSWIM_CONFIG", "")
	t.Setenv("JUSTSWIM_BROKER", "tcp://broker.local:1883")
	t.Setenv("JUSTSWIM_POOL_LENGTH", "50")
	t.Setenv("JUSTSWIM_POOL_UNIT", "yd")
	t.Setenv("JUSTSWIM_SAMPLE_MS", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Broker != "tcp://broker.local:1883" {
		t.Errorf("unexpected broker: %q", cfg.Broker)
	}
	if cfg.PoolLength != 50 || cfg.PoolUnit != "yd" {
		t.Errorf("pool not overridden: %v%v", cfg.PoolLength, cfg.PoolUnit)
	}
	if cfg.SampleInterval() != 100*time.Millisecond {
		t.Errorf("sample interval not overridden: %v", cfg.SampleInterval())
	}
	// Untouched values keep their defaults.
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("default lost: %q", cfg.HTTPAddr)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "justswim.yaml")
	yaml := "broker: tcp://file.local:1883\npool_length: 33.3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JUSTSWIM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Broker != "tcp://file.local:1883" {
		t.Errorf("unexpected broker: %q", cfg.Broker)
	}
	if cfg.PoolLength != 33.3 {
		t.Errorf("unexpected pool length: %v", cfg.PoolLength)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "justswim.yaml")
	if err := os.WriteFile(path, []byte("broker: tcp://file.local:1883\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JUSTSWIM_CONFIG", path)
	t.Setenv("JUSTSWIM_BROKER", "tcp://env.local:1883")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Broker != "tcp://env.local:1883" {
		t.Errorf("env did not win: %q", cfg.Broker)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JUSTSWIM_CONFIG", "/nonexistent/justswim.yaml")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty broker", func(c *Config) { c.Broker = "" }, "broker"},
		{"zero sample", func(c *Config) { c.SampleMs = 0 }, "sample_ms"},
		{"negative sample", func(c *Config) { c.SampleMs = -10 }, "sample_ms"},
		{"zero pool", func(c *Config) { c.PoolLength = 0 }, "pool_length"},
		{"bad unit", func(c *Config) { c.PoolUnit = "km" }, "pool_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
