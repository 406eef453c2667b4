package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"strconv"
)

// Metrics holds every collector the daemon exports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	modeToggles     *prometheus.CounterVec
	lockToggles     *prometheus.CounterVec
	layoutLoads     *prometheus.CounterVec
	keys            *prometheus.CounterVec
	tapReenables    *prometheus.CounterVec
	tapIntercepts   prometheus.Counter
	queueDropped    prometheus.Counter
	persistFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		modeToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ongeul_mode_toggles_total", Help: "Mode toggles by gesture source."},
			[]string{"source"},
		),
		lockToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ongeul_lock_toggles_total", Help: "English lock changes by action."},
			[]string{"action"},
		),
		layoutLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ongeul_layout_loads_total", Help: "Layout loads by outcome."},
			[]string{"status"},
		),
		keys: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ongeul_keys_total", Help: "Key events processed by class and whether they were consumed."},
			[]string{"kind", "handled"},
		),
		tapReenables: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ongeul_eventtap_reenables_total", Help: "Global capture re-enables by reason."},
			[]string{"reason"},
		),
		tapIntercepts: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "ongeul_eventtap_intercepts_total", Help: "Global shortcut presses intercepted."},
		),
		queueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "ongeul_queue_dropped_total", Help: "Tasks dropped because the serialized queue was full."},
		),
		persistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "ongeul_state_persist_failures_total", Help: "Failed attempts to persist per-application state."},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.modeToggles,
			m.lockToggles,
			m.layoutLoads,
			m.keys,
			m.tapReenables,
			m.tapIntercepts,
			m.queueDropped,
			m.persistFailures,
		)
	}

	return m
}

func (m *Metrics) ModeToggled(source string) {
	if m == nil {
		return
	}
	m.modeToggles.WithLabelValues(source).Inc()
}

func (m *Metrics) LockToggled(locked bool) {
	if m == nil {
		return
	}
	action := "unlock"
	if locked {
		action = "lock"
	}
	m.lockToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) LayoutLoaded(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.layoutLoads.WithLabelValues(status).Inc()
}

func (m *Metrics) KeyProcessed(kind string, handled bool) {
	if m == nil {
		return
	}
	m.keys.WithLabelValues(kind, strconv.FormatBool(handled)).Inc()
}

func (m *Metrics) TapReenabled(reason string) {
	if m == nil {
		return
	}
	m.tapReenables.WithLabelValues(reason).Inc()
}

func (m *Metrics) TapIntercepted() {
	if m == nil {
		return
	}
	m.tapIntercepts.Inc()
}

func (m *Metrics) QueueDropped() {
	if m == nil {
		return
	}
	m.queueDropped.Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
