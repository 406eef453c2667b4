package config

import (
	"codeberg.org/ongeul/ongeul/pkg/layouts"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"errors"
	"fmt"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreJSON   = "json"
	StoreMemory = "memory"

	IndicatorDBus = "dbus"
	IndicatorLog  = "log"
	IndicatorNone = "none"
)

type Config struct {
	ToggleKey           string   `toml:"toggle_key"`
	Layout              string   `toml:"layout"`
	EscapeForcesEnglish bool     `toml:"escape_forces_english"`
	HoldWindowMs        int      `toml:"hold_window_ms"`
	AutoCommitTargets   []string `toml:"auto_commit_targets"`
	LayoutsDir          string   `toml:"layouts_dir"`

	Store     StoreConfig     `toml:"store"`
	Indicator IndicatorConfig `toml:"indicator"`
}

type StoreConfig struct {
	Backend        string `toml:"backend"`
	Path           string `toml:"path"`
	SaveIntervalMs int    `toml:"save_interval_ms"`
}

type IndicatorConfig struct {
	Backend     string `toml:"backend"`
	HideAfterMs int    `toml:"hide_after_ms"`
}

func Default() *Config {
	return &Config{
		ToggleKey:         ongeul.ToggleSingleKeyTap.String(),
		Layout:            layouts.Default,
		HoldWindowMs:      1000,
		AutoCommitTargets: append([]string(nil), ongeul.DefaultAutoCommitTargets...),
		Store: StoreConfig{
			Backend:        StoreSQLite,
			SaveIntervalMs: 2000,
		},
		Indicator: IndicatorConfig{
			Backend:     IndicatorDBus,
			HideAfterMs: 800,
		},
	}
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := ongeul.ParseToggleKey(c.ToggleKey); err != nil {
		errs = append(errs, err)
	}
	if !layouts.Known(c.Layout) {
		errs = append(errs, fmt.Errorf("layout: %w: %q", ongeul.ErrUnknownLayout, c.Layout))
	}
	if c.HoldWindowMs < 0 {
		errs = append(errs, fmt.Errorf("hold_window_ms must not be negative, got %d", c.HoldWindowMs))
	}

	switch c.Store.Backend {
	case StoreSQLite, StoreJSON, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Store.SaveIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("store.save_interval_ms must be positive, got %d", c.Store.SaveIntervalMs))
	}

	switch c.Indicator.Backend {
	case IndicatorDBus, IndicatorLog, IndicatorNone:
	default:
		errs = append(errs, fmt.Errorf("indicator.backend: unknown backend %q", c.Indicator.Backend))
	}
	if c.Indicator.HideAfterMs < 0 {
		errs = append(errs, fmt.Errorf("indicator.hide_after_ms must not be negative, got %d", c.Indicator.HideAfterMs))
	}

	return errors.Join(errs...)
}

// Settings assumes a validated config.
func (c *Config) Settings() ongeul.Settings {
	toggle, _ := ongeul.ParseToggleKey(c.ToggleKey)
	return ongeul.Settings{
		ToggleKey:           toggle,
		EscapeForcesEnglish: c.EscapeForcesEnglish,
	}
}

func (c *Config) HoldWindow() time.Duration {
	return time.Duration(c.HoldWindowMs) * time.Millisecond
}

func (c *Config) SaveInterval() time.Duration {
	return time.Duration(c.Store.SaveIntervalMs) * time.Millisecond
}

func (c *Config) HideAfter() time.Duration {
	return time.Duration(c.Indicator.HideAfterMs) * time.Millisecond
}
