package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "addr: \":9000\"\nfield_of_view: 5\nrate_limits:\n  messages_per_sec: 10\n  burst: 20\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.FieldOfView != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimits.MessagesPerSec != 10 || cfg.RateLimits.Burst != 20 {
		t.Fatalf("rate limits not applied: %+v", cfg.RateLimits)
	}
	// Untouched fields keep their defaults.
	if cfg.TickRateHz != Defaults().TickRateHz || cfg.DataDir != Defaults().DataDir {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	for name, raw := range map[string]string{
		"zero tick rate": "tick_rate_hz: 0\n",
		"negative fov":   "field_of_view: -1\n",
		"empty addr":     "addr: \"  \"\n",
		"zero burst":     "rate_limits:\n  burst: 0\n",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: invalid config accepted", name)
		}
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file did not error")
	}
}
