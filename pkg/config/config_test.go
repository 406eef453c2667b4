package config

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ongeul.Settings{ToggleKey: ongeul.ToggleSingleKeyTap}, cfg.Settings())
	assert.Equal(t, time.Second, cfg.HoldWindow())
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "config.toml"), zap.NewNop().Sugar())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Same(t, cfg, loader.Config())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `
toggle_key = "shift-space"
layout = "3-390"
escape_forces_english = true
hold_window_ms = 0
auto_commit_targets = ["com.example."]

[store]
backend = "json"
path = "/tmp/state.json"

[indicator]
backend = "log"
`)

	cfg, err := NewLoader(path, zap.NewNop().Sugar()).Load()
	require.NoError(t, err)

	assert.Equal(t, ongeul.Settings{ToggleKey: ongeul.ToggleShiftSpace, EscapeForcesEnglish: true}, cfg.Settings())
	assert.Equal(t, "3-390", cfg.Layout)
	assert.Zero(t, cfg.HoldWindow())
	assert.Equal(t, []string{"com.example."}, cfg.AutoCommitTargets)
	assert.Equal(t, StoreConfig{Backend: StoreJSON, Path: "/tmp/state.json", SaveIntervalMs: 2000}, cfg.Store)
	assert.Equal(t, IndicatorConfig{Backend: IndicatorLog, HideAfterMs: 800}, cfg.Indicator)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"toggle key":  `toggle_key = "caps-lock"`,
		"layout":      `layout = "dvorak"`,
		"hold window": `hold_window_ms = -1`,
		"store":       "[store]\nbackend = \"redis\"",
		"indicator":   "[indicator]\nbackend = \"osd\"",
		"unknown key": `toggle = "shift-space"`,
		"syntax":      `layout = `,
	} {
		path := filepath.Join(t.TempDir(), "config.toml")
		writeConfig(t, path, content)

		_, err := NewLoader(path, zap.NewNop().Sugar()).Load()
		assert.Error(t, err, name)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Layout = "dvorak"
	cfg.Store.Backend = "redis"

	err := cfg.Validate()
	require.ErrorIs(t, err, ongeul.ErrUnknownLayout)
	assert.Contains(t, err.Error(), "redis")
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `layout = "2-standard"`)

	loader := NewLoader(path, zap.NewNop().Sugar())
	_, err := loader.Load()
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []string
	loader.OnChange(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cfg.Layout)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loader.Watch(ctx) }()
	// give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)

	writeConfig(t, path, `layout = "nope"`)
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, "2-standard", loader.Config().Layout, "invalid config is not applied")

	writeConfig(t, path, `layout = "3-final"`)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == "3-final"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "3-final", loader.Config().Layout)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestReloadNotifiesEveryCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `layout = "3-390"`)

	loader := NewLoader(path, zap.NewNop().Sugar())
	var first, second []string
	loader.OnChange(func(cfg *Config) { first = append(first, cfg.Layout) })
	loader.OnChange(func(cfg *Config) { second = append(second, cfg.Layout) })

	loader.reload()

	assert.Equal(t, []string{"3-390"}, first)
	assert.Equal(t, []string{"3-390"}, second)
	assert.Equal(t, "3-390", loader.Config().Layout)
}
