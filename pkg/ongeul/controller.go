package ongeul

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"go.uber.org/zap"
	"time"
)

type ControllerOptions struct {
	Engine    Engine
	Store     *AppStateStore
	Router    *CompositionRouter
	Layouts   *LayoutManager
	Notifier  ModeNotifier
	Registrar Registrar
	Settings  func() Settings

	HoldWindow time.Duration

	Metrics *metrics.Metrics
	Log     *zap.SugaredLogger
}

// Controller interprets the event stream of the focused client. It is not
// safe for concurrent use; every call has to come from one Queue.
type Controller struct {
	engine    Engine
	store     *AppStateStore
	router    *CompositionRouter
	layouts   *LayoutManager
	chord     *ChordDetector
	notifier  ModeNotifier
	registrar Registrar
	settings  func() Settings

	target TargetID
	client TextClient
	active bool

	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewController(opts ControllerOptions) *Controller {
	settings := opts.Settings
	if settings == nil {
		settings = func() Settings { return Settings{} }
	}

	return &Controller{
		engine:    opts.Engine,
		store:     opts.Store,
		router:    opts.Router,
		layouts:   opts.Layouts,
		chord:     NewChordDetector(opts.HoldWindow),
		notifier:  opts.Notifier,
		registrar: opts.Registrar,
		settings:  settings,
		metrics:   opts.Metrics,
		log:       opts.Log,
	}
}

func (c *Controller) Mode() Mode {
	return c.engine.Mode()
}

func (c *Controller) Target() TargetID {
	return c.target
}

func (c *Controller) Active() bool {
	return c.active
}

// Activate attaches the controller to a newly focused client and restores
// the mode remembered for its target.
func (c *Controller) Activate(target TargetID, client TextClient) {
	if c.active {
		c.Deactivate()
	}

	c.target = target
	c.client = client
	c.active = true
	c.chord.Reset()

	if err := c.layouts.Ensure(client); err != nil {
		c.log.Warnw("ensure layout", "error", err)
	}

	prior := c.engine.Mode()
	restored := prior
	locked := false
	if target.Known() {
		restored, locked = c.store.Effective(target)
	} else {
		c.log.Debugw("activate without target identity", "error", ErrUnknownTarget)
	}

	c.engine.SetMode(restored)
	if restored != prior {
		c.notify(restored)
	}

	if c.registrar != nil {
		c.registrar.Register(c)
	}

	c.log.Debugw("activated", "target", target, "mode", restored, "locked", locked)
}

// Deactivate flushes the pending composition into the departing client and
// remembers its mode.
func (c *Controller) Deactivate() {
	if !c.active {
		return
	}

	if c.registrar != nil {
		c.registrar.Unregister(c)
	}

	if err := c.router.OnFocusLoss(c.engine.Flush(), c.target, c.client); err != nil {
		c.log.Warnw("flush on focus loss", "target", c.target, "error", err)
	}

	if !c.store.IsLocked(c.target) {
		c.store.SetMode(c.target, c.engine.Mode())
	}

	c.log.Debugw("deactivated", "target", c.target, "mode", c.engine.Mode())

	c.chord.Reset()
	c.client = nil
	c.target = ""
	c.active = false
}

// HandleEvent processes one event and reports whether it was consumed.
func (c *Controller) HandleEvent(ev Event) bool {
	if !c.active {
		return false
	}

	if err := c.layouts.Ensure(c.client); err != nil {
		c.log.Warnw("ensure layout", "error", err)
	}

	settings := c.settings()
	c.chord.TapEnabled = settings.ToggleKey == ToggleSingleKeyTap

	switch ev.Kind {
	case FlagsChanged:
		c.handleFlags(ev)
		return false
	case KeyDown:
		return c.handleKeyDown(ev, settings)
	}

	return false
}

func (c *Controller) handleFlags(ev Event) {
	switch c.chord.OnFlagsChanged(ev.KeyCode, ev.Flags) {
	case ChordToggle:
		c.toggle("tap")
	case ChordLock:
		c.toggleLock()
	}
}

func (c *Controller) handleKeyDown(ev Event, settings Settings) bool {
	c.chord.OnKeyDown()

	mods := ev.Flags
	switch {
	case settings.ToggleKey == ToggleShiftSpace && isShiftSpace(ev.KeyCode, mods):
		c.toggle("chord")
		c.metrics.KeyProcessed("toggle", true)
		return true

	case mods.Has(ModCommand | ModControl):
		c.flush()
		c.metrics.KeyProcessed("shortcut", false)
		return false

	case ev.KeyCode == KeyReturn || ev.KeyCode.IsArrow():
		c.flush()
		c.metrics.KeyProcessed("commit", false)
		return false

	case ev.KeyCode == KeyEscape:
		c.discard(settings.EscapeForcesEnglish)
		c.metrics.KeyProcessed("escape", false)
		return false

	case ev.KeyCode == KeyDelete:
		result := c.engine.Backspace()
		c.route(result)
		c.metrics.KeyProcessed("backspace", result.Handled)
		return result.Handled

	case ev.Chars != "":
		result := c.engine.ProcessKey(ev.Chars)
		c.route(result)
		c.metrics.KeyProcessed("char", result.Handled)
		return result.Handled
	}

	c.flush()
	c.metrics.KeyProcessed("other", false)
	return false
}

func isShiftSpace(key KeyCode, mods Modifiers) bool {
	return key == KeySpace && mods.Has(ModShift) && !mods.Has(ModOption|ModCommand|ModControl)
}

// PerformToggleFromTap runs the toggle requested by the global shortcut.
func (c *Controller) PerformToggleFromTap() {
	if !c.active {
		return
	}
	c.chord.Reset()
	c.toggle("global")
}

// CommitComposition finalizes the pending composition and resets the engine.
func (c *Controller) CommitComposition() {
	if !c.active {
		return
	}
	c.flush()
	c.engine.Reset()
}

func (c *Controller) toggle(source string) {
	if c.store.IsLocked(c.target) {
		c.log.Debugw("toggle suppressed, target locked", "target", c.target, "source", source)
		return
	}

	c.flush()
	mode := c.engine.Mode().Toggle()
	c.engine.SetMode(mode)
	c.store.SetMode(c.target, mode)
	c.metrics.ModeToggled(source)
	c.notify(mode)

	c.log.Debugw("mode toggled", "target", c.target, "mode", mode, "source", source)
}

func (c *Controller) toggleLock() {
	if !c.target.Known() {
		c.log.Debugw("lock gesture ignored", "error", ErrUnknownTarget)
		return
	}

	c.flush()
	current := c.engine.Mode()
	locked, restore := c.store.ToggleLock(c.target, current)

	mode := English
	if !locked {
		mode = restore
		c.store.SetMode(c.target, restore)
	}

	c.engine.SetMode(mode)
	c.metrics.LockToggled(locked)
	if mode != current {
		c.notify(mode)
	}

	c.log.Infow("english lock changed", "target", c.target, "locked", locked, "mode", mode)
}

func (c *Controller) discard(forceEnglish bool) {
	c.engine.Reset()
	c.route(ProcessResult{})

	if !forceEnglish || c.engine.Mode() == English {
		return
	}
	c.engine.SetMode(English)
	c.store.SetMode(c.target, English)
	c.notify(English)
}

func (c *Controller) flush() {
	c.route(c.engine.Flush())
}

func (c *Controller) route(result ProcessResult) {
	if err := c.router.Apply(result, c.client); err != nil {
		c.log.Warnw("apply result", "target", c.target, "error", err)
	}
}

func (c *Controller) notify(mode Mode) {
	if c.notifier != nil {
		c.notifier.ModeChanged(mode)
	}
}
