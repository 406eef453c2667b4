package memory

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"sync"
)

type StateStore struct {
	lock     sync.Mutex
	snapshot ongeul.StateSnapshot
}

func NewStateStore() *StateStore {
	return &StateStore{
		snapshot: ongeul.NewStateSnapshot(),
	}
}

func (s *StateStore) Load() (ongeul.StateSnapshot, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return copySnapshot(s.snapshot), nil
}

func (s *StateStore) Save(snapshot ongeul.StateSnapshot) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshot = copySnapshot(snapshot)
	return nil
}

func (s *StateStore) Close() error {
	return nil
}

func copySnapshot(in ongeul.StateSnapshot) ongeul.StateSnapshot {
	out := ongeul.NewStateSnapshot()
	for id, mode := range in.Modes {
		out.Modes[id] = mode
	}
	for id, mode := range in.Locks {
		out.Locks[id] = mode
	}
	return out
}
