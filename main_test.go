package main

import (
	"codeberg.org/ongeul/ongeul/pkg/config"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"path/filepath"
	"testing"
)

func TestOpenStateBackend(t *testing.T) {
	log := zap.NewNop().Sugar()
	dir := t.TempDir()

	for _, cfg := range []config.StoreConfig{
		{Backend: config.StoreMemory},
		{Backend: config.StoreJSON, Path: filepath.Join(dir, "state.json")},
		{Backend: config.StoreSQLite, Path: filepath.Join(dir, "state.db")},
	} {
		backend, err := openStateBackend(cfg, log)
		require.NoError(t, err, cfg.Backend)

		snapshot := ongeul.NewStateSnapshot()
		snapshot.Modes["app.editor"] = ongeul.Korean
		require.NoError(t, backend.Save(snapshot), cfg.Backend)

		loaded, err := backend.Load()
		require.NoError(t, err, cfg.Backend)
		assert.Equal(t, snapshot, loaded, cfg.Backend)
		require.NoError(t, backend.Close())
	}

	_, err := openStateBackend(config.StoreConfig{Backend: "redis", Path: "x"}, log)
	assert.Error(t, err)
}

func TestNewIndicator(t *testing.T) {
	log := zap.NewNop().Sugar()

	for _, backend := range []string{config.IndicatorLog, config.IndicatorNone} {
		n, err := newIndicator(config.IndicatorConfig{Backend: backend}, log)
		require.NoError(t, err)
		n.ModeChanged(ongeul.Korean)
		assert.NoError(t, n.Close())
	}

	_, err := newIndicator(config.IndicatorConfig{Backend: "osd"}, log)
	assert.Error(t, err)
}
