package json

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"testing"
)

func TestStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := NewStateStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.Modes)

	snapshot := ongeul.NewStateSnapshot()
	snapshot.Modes["app.editor"] = ongeul.Korean
	snapshot.Modes["app.terminal"] = ongeul.English
	snapshot.Locks["app.terminal"] = ongeul.Korean
	require.NoError(t, store.Save(snapshot))

	// a shorter second write must not leave stale bytes behind
	delete(snapshot.Modes, "app.terminal")
	require.NoError(t, store.Save(snapshot))
	require.NoError(t, store.Close())

	reopened, err := NewStateStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, map[ongeul.TargetID]ongeul.Mode{"app.editor": ongeul.Korean}, loaded.Modes)
	assert.Equal(t, map[ongeul.TargetID]ongeul.Mode{"app.terminal": ongeul.Korean}, loaded.Locks)
}

func TestStateStoreSkipsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	content := `{"version":1,"modes":{"":"korean","app.editor":"korean"},"locks":{}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewStateStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Modes, 1)
	assert.Equal(t, ongeul.Korean, loaded.Modes["app.editor"])
}

func TestStateStoreSkipsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	content := `{"version":1,"modes":{"app.editor":"korean","app.other":"klingon"},"locks":{"app.term":"vulcan"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewStateStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[ongeul.TargetID]ongeul.Mode{"app.editor": ongeul.Korean}, loaded.Modes)
	assert.Empty(t, loaded.Locks)
}

func TestStateStoreFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewStateStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	snapshot := ongeul.NewStateSnapshot()
	snapshot.Modes["app.editor"] = ongeul.Korean
	require.NoError(t, store.Save(snapshot))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"modes":{"app.editor":"korean"},"locks":{}}`, string(data))
}
