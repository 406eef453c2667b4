package ongeul

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"context"
	"fmt"
	"go.uber.org/zap"
	"sync"
	"time"
)

// StateSnapshot is the persisted form of the per-application state. Locks
// holds the mode each target had when it was locked to english.
type StateSnapshot struct {
	Modes map[TargetID]Mode
	Locks map[TargetID]Mode
}

func NewStateSnapshot() StateSnapshot {
	return StateSnapshot{
		Modes: make(map[TargetID]Mode),
		Locks: make(map[TargetID]Mode),
	}
}

func (s StateSnapshot) clone() StateSnapshot {
	out := StateSnapshot{
		Modes: make(map[TargetID]Mode, len(s.Modes)),
		Locks: make(map[TargetID]Mode, len(s.Locks)),
	}
	for k, v := range s.Modes {
		out.Modes[k] = v
	}
	for k, v := range s.Locks {
		out.Locks[k] = v
	}
	return out
}

// AppStateStore keeps the mode and english-lock state of every target. All
// reads and writes are serialized by one mutex; persistence happens on a
// snapshot taken under the mutex and written after it is released.
type AppStateStore struct {
	mu    sync.Mutex
	state StateSnapshot
	dirty bool

	saveMu  sync.Mutex
	backend StateBackend
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewAppStateStore(backend StateBackend, m *metrics.Metrics, log *zap.SugaredLogger) (*AppStateStore, error) {
	state, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state.Modes == nil {
		state.Modes = make(map[TargetID]Mode)
	}
	if state.Locks == nil {
		state.Locks = make(map[TargetID]Mode)
	}

	return &AppStateStore{
		state:   state,
		backend: backend,
		metrics: m,
		log:     log,
	}, nil
}

func (s *AppStateStore) Mode(id TargetID) Mode {
	if !id.Known() {
		return English
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Modes[id]
}

func (s *AppStateStore) SetMode(id TargetID, mode Mode) {
	if !id.Known() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.state.Modes[id]; ok && cur == mode {
		return
	}
	s.state.Modes[id] = mode
	s.dirty = true
}

func (s *AppStateStore) Lock(id TargetID, modeAtLock Mode) {
	if !id.Known() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Locks[id] = modeAtLock
	s.dirty = true
}

func (s *AppStateStore) Unlock(id TargetID) (Mode, bool) {
	if !id.Known() {
		return English, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mode, ok := s.state.Locks[id]
	if !ok {
		return English, false
	}
	delete(s.state.Locks, id)
	s.dirty = true
	return mode, true
}

func (s *AppStateStore) IsLocked(id TargetID) bool {
	if !id.Known() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.Locks[id]
	return ok
}

// ToggleLock flips the lock of id in one step. Locking records current;
// unlocking returns the mode recorded at lock time.
func (s *AppStateStore) ToggleLock(id TargetID, current Mode) (locked bool, restore Mode) {
	if !id.Known() {
		return false, current
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	if pre, ok := s.state.Locks[id]; ok {
		delete(s.state.Locks, id)
		return false, pre
	}
	s.state.Locks[id] = current
	return true, English
}

// Effective returns the mode a target should start in: english while
// locked, its remembered mode otherwise.
func (s *AppStateStore) Effective(id TargetID) (Mode, bool) {
	if !id.Known() {
		return English, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Locks[id]; ok {
		return English, true
	}
	return s.state.Modes[id], false
}

func (s *AppStateStore) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *AppStateStore) Flush() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.state.clone()
	s.dirty = false
	s.mu.Unlock()

	if err := s.backend.Save(snapshot); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		s.metrics.PersistFailed()
		return fmt.Errorf("save state: %w", err)
	}

	return nil
}

func (s *AppStateStore) SaveLooper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Flush(); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.log.Warnw("persist state", "error", err)
			}
		}
	}
}

func (s *AppStateStore) Close() error {
	flushErr := s.Flush()
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return flushErr
}
