package indicator

import (
	"sync"
	"time"
)

// Scheduler holds at most one pending task. Scheduling a new task or
// cancelling guarantees the previous one never runs, even if its timer has
// already fired and is waiting for the lock.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stop()
	gen := s.gen
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.gen++
		s.mu.Unlock()

		fn()
	})
}

func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) stop() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
