// Package config loads the server tuning file. Every field has a working
// default so the server starts with no file at all.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`

	TickRateHz         int `yaml:"tick_rate_hz"`
	AutosaveEveryTicks int `yaml:"autosave_every_ticks"`
	FieldOfView        int `yaml:"field_of_view"`

	RateLimits RateLimits `yaml:"rate_limits"`

	DisableDB bool `yaml:"disable_db"`
}

// RateLimits bounds per-connection message intake.
type RateLimits struct {
	MessagesPerSec float64 `yaml:"messages_per_sec"`
	Burst          int     `yaml:"burst"`
}

func Defaults() Config {
	return Config{
		Addr:               ":8090",
		DataDir:            "data",
		TickRateHz:         10,
		AutosaveEveryTicks: 600,
		FieldOfView:        3,
		RateLimits: RateLimits{
			MessagesPerSec: 30,
			Burst:          60,
		},
	}
}

// Load reads the yaml config at path, layered over Defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config.yaml: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be > 0")
	}
	if c.AutosaveEveryTicks < 0 {
		return fmt.Errorf("autosave_every_ticks must be >= 0")
	}
	if c.FieldOfView <= 0 {
		return fmt.Errorf("field_of_view must be > 0")
	}
	if c.RateLimits.MessagesPerSec <= 0 {
		return fmt.Errorf("rate_limits.messages_per_sec must be > 0")
	}
	if c.RateLimits.Burst <= 0 {
		return fmt.Errorf("rate_limits.burst must be > 0")
	}
	return nil
}
