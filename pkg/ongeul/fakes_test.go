package ongeul

import (
	"errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sync"
	"testing"
)

type fakeEngine struct {
	mode      Mode
	composing string
	loads     [][]byte
	loadErr   error
	calls     []string
}

func (e *fakeEngine) LoadLayout(serialized []byte) error {
	e.calls = append(e.calls, "load")
	if e.loadErr != nil {
		return e.loadErr
	}
	e.loads = append(e.loads, serialized)
	return nil
}

func (e *fakeEngine) SetMode(mode Mode) {
	e.calls = append(e.calls, "setMode:"+mode.String())
	e.mode = mode
}

func (e *fakeEngine) Mode() Mode {
	return e.mode
}

func (e *fakeEngine) ProcessKey(label string) ProcessResult {
	e.calls = append(e.calls, "key:"+label)
	if e.mode == English {
		return ProcessResult{Committed: label, Handled: true}
	}
	committed := e.composing
	e.composing = label
	return ProcessResult{Committed: committed, Composing: label, Handled: true}
}

func (e *fakeEngine) Backspace() ProcessResult {
	e.calls = append(e.calls, "backspace")
	if e.composing == "" {
		return ProcessResult{}
	}
	e.composing = ""
	return ProcessResult{Handled: true}
}

func (e *fakeEngine) Flush() ProcessResult {
	e.calls = append(e.calls, "flush")
	committed := e.composing
	e.composing = ""
	return ProcessResult{Committed: committed, Handled: true}
}

func (e *fakeEngine) Reset() {
	e.calls = append(e.calls, "reset")
	e.composing = ""
}

func (e *fakeEngine) count(call string) int {
	n := 0
	for _, c := range e.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeClient struct {
	inserted []string
	marked   string
	ops      []string
}

func (c *fakeClient) InsertText(text string) error {
	c.inserted = append(c.inserted, text)
	c.ops = append(c.ops, "insert:"+text)
	return nil
}

func (c *fakeClient) SetMarkedText(text string, caret int) error {
	c.marked = text
	c.ops = append(c.ops, "mark:"+text)
	return nil
}

func (c *fakeClient) ClearMarkedText() error {
	c.marked = ""
	c.ops = append(c.ops, "unmark")
	return nil
}

type fakeBackend struct {
	mu       sync.Mutex
	snapshot StateSnapshot
	saves    int
	saveErr  error
}

func (b *fakeBackend) Load() (StateSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snapshot.Modes == nil {
		return NewStateSnapshot(), nil
	}
	return b.snapshot.clone(), nil
}

func (b *fakeBackend) Save(snapshot StateSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.snapshot = snapshot.clone()
	b.saves++
	return nil
}

func (b *fakeBackend) Close() error {
	return nil
}

type fakeSource struct {
	layouts map[string][]byte
	reads   int
}

func (s *fakeSource) Read(id string) ([]byte, error) {
	s.reads++
	data, ok := s.layouts[id]
	if !ok {
		return nil, errors.New("no such layout")
	}
	return data, nil
}

type fakeNotifier struct {
	modes []Mode
}

func (n *fakeNotifier) ModeChanged(mode Mode) {
	n.modes = append(n.modes, mode)
}

type fakeRegistrar struct {
	active Toggler
}

func (r *fakeRegistrar) Register(t Toggler) {
	r.active = t
}

func (r *fakeRegistrar) Unregister(t Toggler) {
	if r.active == t {
		r.active = nil
	}
}

func newTestStore(t *testing.T) *AppStateStore {
	t.Helper()
	store, err := NewAppStateStore(&fakeBackend{}, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	return store
}
