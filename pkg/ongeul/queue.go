package ongeul

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"context"
	"go.uber.org/zap"
)

// Queue is the serialized execution context every controller call runs on.
type Queue struct {
	tasks   chan func()
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewQueue(size int, m *metrics.Metrics, log *zap.SugaredLogger) *Queue {
	return &Queue{
		tasks:   make(chan func(), size),
		metrics: m,
		log:     log,
	}
}

// Post schedules fn without blocking. It reports false when the queue is
// full and fn was dropped.
func (q *Queue) Post(fn func()) bool {
	select {
	case q.tasks <- fn:
		return true
	default:
		q.metrics.QueueDropped()
		q.log.Warn("queue full, dropping task")
		return false
	}
}

// Do runs fn on the queue and waits for it to finish.
func (q *Queue) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case q.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-q.tasks:
			task()
		}
	}
}
