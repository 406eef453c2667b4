package ongeul

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"testing"
)

func newTestLayouts(engine *fakeEngine, source *fakeSource, desired *string) *LayoutManager {
	return NewLayoutManager(engine, newTestRouter(), source, func() string { return *desired }, nil, zap.NewNop().Sugar())
}

func TestLayoutEnsureLoadsOnce(t *testing.T) {
	engine := &fakeEngine{}
	source := &fakeSource{layouts: map[string][]byte{"2-standard": []byte("a")}}
	desired := "2-standard"
	lm := newTestLayouts(engine, source, &desired)

	require.NoError(t, lm.Ensure(nil))
	require.NoError(t, lm.Ensure(nil))

	assert.Len(t, engine.loads, 1)
	assert.Equal(t, 1, source.reads)
	assert.Equal(t, "2-standard", lm.LoadedID())
}

func TestLayoutFirstLoadForcesEnglish(t *testing.T) {
	engine := &fakeEngine{mode: Korean}
	source := &fakeSource{layouts: map[string][]byte{"2-standard": []byte("a"), "3-390": []byte("b")}}
	desired := "2-standard"
	lm := newTestLayouts(engine, source, &desired)

	require.NoError(t, lm.Ensure(nil))
	assert.Equal(t, English, engine.mode)

	engine.mode = Korean
	desired = "3-390"
	require.NoError(t, lm.Ensure(nil))
	assert.Equal(t, Korean, engine.mode, "later loads keep the mode")
}

func TestLayoutSwitchFlushesFirst(t *testing.T) {
	engine := &fakeEngine{}
	source := &fakeSource{layouts: map[string][]byte{"2-standard": []byte("a"), "3-390": []byte("b")}}
	desired := "2-standard"
	lm := newTestLayouts(engine, source, &desired)
	require.NoError(t, lm.Ensure(nil))

	engine.composing = "ㄱ"
	engine.calls = nil
	client := &fakeClient{}
	desired = "3-390"
	require.NoError(t, lm.Ensure(client))

	assert.Equal(t, []string{"flush", "load"}, engine.calls)
	assert.Equal(t, []string{"ㄱ"}, client.inserted)
}

func TestLayoutParseFailureRetries(t *testing.T) {
	engine := &fakeEngine{}
	source := &fakeSource{layouts: map[string][]byte{"2-standard": []byte("a"), "3-390": []byte("broken")}}
	desired := "2-standard"
	lm := newTestLayouts(engine, source, &desired)
	require.NoError(t, lm.Ensure(nil))

	engine.loadErr = errors.New("bad hex")
	desired = "3-390"

	err := lm.Ensure(nil)
	var parseErr *LayoutParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "3-390", parseErr.ID)
	assert.Equal(t, "2-standard", lm.LoadedID())

	engine.loadErr = nil
	require.NoError(t, lm.Ensure(nil))
	assert.Equal(t, "3-390", lm.LoadedID())
}

func TestLayoutMissingResource(t *testing.T) {
	engine := &fakeEngine{}
	source := &fakeSource{}
	desired := "3-final"
	lm := newTestLayouts(engine, source, &desired)

	require.Error(t, lm.Ensure(nil))
	require.Error(t, lm.Ensure(nil))
	assert.Equal(t, 2, source.reads)
	assert.Empty(t, engine.calls)
}

func TestLayoutMissingResourceKeepsComposition(t *testing.T) {
	engine := &fakeEngine{}
	source := &fakeSource{layouts: map[string][]byte{"2-standard": []byte("a")}}
	desired := "2-standard"
	lm := newTestLayouts(engine, source, &desired)
	require.NoError(t, lm.Ensure(nil))

	engine.composing = "ㄱ"
	engine.calls = nil
	client := &fakeClient{}
	desired = "3-390"

	var parseErr *LayoutParseError
	require.ErrorAs(t, lm.Ensure(client), &parseErr)
	assert.Empty(t, engine.calls)
	assert.Empty(t, client.inserted)
	assert.Equal(t, "ㄱ", engine.composing)
	assert.Equal(t, "2-standard", lm.LoadedID())
}
