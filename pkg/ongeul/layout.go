package ongeul

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"fmt"
	"go.uber.org/zap"
)

// LayoutManager keeps the engine loaded with the desired layout. Ensure is
// cheap when nothing changed and is called before every event.
type LayoutManager struct {
	engine  Engine
	router  *CompositionRouter
	source  LayoutSource
	desired func() string

	loadedID string
	loaded   bool

	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewLayoutManager(
	engine Engine,
	router *CompositionRouter,
	source LayoutSource,
	desired func() string,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) *LayoutManager {
	return &LayoutManager{
		engine:  engine,
		router:  router,
		source:  source,
		desired: desired,
		metrics: m,
		log:     log,
	}
}

func (l *LayoutManager) LoadedID() string {
	return l.loadedID
}

// Ensure loads the desired layout if it is not the loaded one. On failure
// the previous layout stays active and the next call retries.
func (l *LayoutManager) Ensure(client TextClient) error {
	id := l.desired()
	if l.loaded && id == l.loadedID {
		return nil
	}

	// read before flushing so a missing resource leaves the composition alone
	data, err := l.source.Read(id)
	if err != nil {
		l.metrics.LayoutLoaded(err)
		return &LayoutParseError{ID: id, Err: fmt.Errorf("read: %w", err)}
	}

	if l.loaded {
		if err := l.router.Apply(l.engine.Flush(), client); err != nil {
			l.log.Warnw("flush before layout switch", "error", err)
		}
	}

	if err := l.engine.LoadLayout(data); err != nil {
		l.metrics.LayoutLoaded(err)
		return &LayoutParseError{ID: id, Err: err}
	}
	l.metrics.LayoutLoaded(nil)

	first := !l.loaded
	l.loadedID = id
	l.loaded = true

	if first {
		l.engine.SetMode(English)
	}

	l.log.Infow("layout loaded", "id", id, "first", first)
	return nil
}
