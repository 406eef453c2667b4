package indicator

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"go.uber.org/zap"
	"sync"
	"time"
)

type Backend interface {
	Show(mode ongeul.Mode) error
	Hide() error
	Close() error
}

// Indicator shows the mode right away and hides it after a quiet period. A
// new show replaces a hide that has not run yet. Show and Hide reach the
// backend under one lock, and a hide carries the generation of the show
// that scheduled it, so it never lands on a newer show.
type Indicator struct {
	mu        sync.Mutex
	gen       uint64
	backend   Backend
	hideAfter time.Duration
	scheduler Scheduler
	log       *zap.SugaredLogger
}

func New(backend Backend, hideAfter time.Duration, log *zap.SugaredLogger) *Indicator {
	return &Indicator{
		backend:   backend,
		hideAfter: hideAfter,
		log:       log,
	}
}

func (i *Indicator) ModeChanged(mode ongeul.Mode) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.gen++
	i.scheduler.Cancel()

	if err := i.backend.Show(mode); err != nil {
		i.log.Warnw("show indicator", "mode", mode, "error", err)
		return
	}

	if i.hideAfter <= 0 {
		return
	}
	gen := i.gen
	i.scheduler.Schedule(i.hideAfter, func() {
		i.hide(gen)
	})
}

func (i *Indicator) hide(gen uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if gen != i.gen {
		return
	}
	if err := i.backend.Hide(); err != nil {
		i.log.Warnw("hide indicator", "error", err)
	}
}

func (i *Indicator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.gen++
	i.scheduler.Cancel()
	return i.backend.Close()
}

func Label(mode ongeul.Mode) string {
	if mode == ongeul.Korean {
		return "한"
	}
	return "A"
}
