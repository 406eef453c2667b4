// Package eventtap is the process-wide backstop for the global shift+space
// shortcut. It sees key events before any application does, so it keeps
// working for clients whose event routing bypasses the input method.
package eventtap

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"context"
	"fmt"
	"go.uber.org/zap"
	"sync"
	"time"
)

type EventType int

const (
	KeyDown EventType = iota
	KeyUp
	DisabledByTimeout
	DisabledByUserInput
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case DisabledByTimeout:
		return "timeout"
	case DisabledByUserInput:
		return "userinput"
	}
	return "unknown"
}

type Mask uint32

func MaskOf(types ...EventType) Mask {
	var m Mask
	for _, t := range types {
		m |= 1 << t
	}
	return m
}

func (m Mask) Has(t EventType) bool {
	return m&(1<<t) != 0
}

// DefaultMask is what the tap listens to: both key edges plus the two
// sentinels the system sends when it turns the capture off.
var DefaultMask = MaskOf(KeyDown, KeyUp, DisabledByTimeout, DisabledByUserInput)

type Event struct {
	Type    EventType
	KeyCode ongeul.KeyCode
	Flags   ongeul.Modifiers
}

type Verdict int

const (
	Pass Verdict = iota
	Consume
)

// Callback runs on the capture thread and must return immediately.
type Callback func(Event) Verdict

// Port is one OS-level capture registration.
type Port interface {
	SetEnabled(enabled bool) error
	Enabled() bool
	Close() error
}

type Capturer interface {
	Create(mask Mask, cb Callback) (Port, error)
}

type Permission interface {
	Granted() bool
}

type Executor interface {
	Post(fn func()) bool
}

type Tap struct {
	mu        sync.Mutex
	port      Port
	suspended bool

	capturer   Capturer
	permission Permission
	executor   Executor
	active     func() ongeul.Toggler

	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func newTap(
	capturer Capturer,
	permission Permission,
	executor Executor,
	active func() ongeul.Toggler,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) *Tap {
	return &Tap{
		capturer:   capturer,
		permission: permission,
		executor:   executor,
		active:     active,
		metrics:    m,
		log:        log,
	}
}

// Install creates the capture if permission allows. Calling it again is a
// no-op, except that it resumes a capture suspended by a revoked permission.
func (t *Tap) Install() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		if t.suspended && t.permission.Granted() {
			if err := t.port.SetEnabled(true); err != nil {
				return fmt.Errorf("resume capture: %w", err)
			}
			t.suspended = false
			t.log.Info("global shortcut resumed")
		}
		return nil
	}

	if !t.permission.Granted() {
		t.log.Info("install skipped, input capture not permitted")
		return ongeul.ErrPermissionDenied
	}

	port, err := t.capturer.Create(DefaultMask, t.handle)
	if err != nil {
		t.log.Errorw("create capture", "error", err)
		return fmt.Errorf("create capture: %w", err)
	}
	if err := port.SetEnabled(true); err != nil {
		_ = port.Close()
		t.log.Errorw("enable capture", "error", err)
		return fmt.Errorf("enable capture: %w", err)
	}

	t.port = port
	t.suspended = false
	t.log.Info("global shortcut installed")
	return nil
}

func (t *Tap) Uninstall() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return
	}

	if err := t.port.SetEnabled(false); err != nil {
		t.log.Warnw("disable capture", "error", err)
	}
	if err := t.port.Close(); err != nil {
		t.log.Warnw("close capture", "error", err)
	}
	t.port = nil
	t.suspended = false
	t.log.Info("global shortcut removed")
}

func (t *Tap) Installed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

func (t *Tap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil && !t.suspended && t.port.Enabled()
}

func (t *Tap) handle(ev Event) Verdict {
	switch ev.Type {
	case DisabledByTimeout, DisabledByUserInput:
		t.heal(ev.Type.String())
		return Pass
	case KeyDown, KeyUp:
	default:
		return Pass
	}

	if !matches(ev) || t.active() == nil {
		return Pass
	}

	if ev.Type == KeyDown {
		t.metrics.TapIntercepted()
		posted := t.executor.Post(func() {
			if toggler := t.active(); toggler != nil {
				toggler.PerformToggleFromTap()
			}
		})
		if !posted {
			t.log.Warn("global shortcut dropped")
		}
	}

	// the key-up is swallowed too, some clients insert the space on release
	return Consume
}

func matches(ev Event) bool {
	return ev.KeyCode == ongeul.KeySpace &&
		ev.Flags.Has(ongeul.ModShift) &&
		!ev.Flags.Has(ongeul.ModOption|ongeul.ModCommand|ongeul.ModControl)
}

// heal re-enables a capture the system turned off, unless permission has
// been revoked in the meantime.
func (t *Tap) heal(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return
	}

	if !t.permission.Granted() {
		t.suspended = true
		t.log.Warnw("capture disabled and permission revoked", "reason", reason, "error", ongeul.ErrCaptureDisabled)
		return
	}

	if err := t.port.SetEnabled(true); err != nil {
		t.log.Errorw("re-enable capture", "reason", reason, "error", err)
		return
	}
	t.metrics.TapReenabled(reason)
	t.log.Infow("capture re-enabled", "reason", reason)
}

// Watch periodically checks the capture for a disable that arrived without
// a sentinel. It never installs a capture on its own.
func (t *Tap) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.check()
		}
	}
}

func (t *Tap) check() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil || t.suspended {
		return
	}

	if !t.permission.Granted() {
		if err := t.port.SetEnabled(false); err != nil {
			t.log.Warnw("disable capture", "error", err)
		}
		t.suspended = true
		t.log.Warn("input capture permission revoked, global shortcut suspended")
		return
	}

	if t.port.Enabled() {
		return
	}

	if err := t.port.SetEnabled(true); err != nil {
		t.log.Errorw("re-enable capture", "reason", "watchdog", "error", err)
		return
	}
	t.metrics.TapReenabled("watchdog")
	t.log.Info("capture re-enabled by watchdog")
}
