package eventtap

import (
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"go.uber.org/zap"
	"sync"
)

// Context owns the single capture of the process and the slot naming the
// controller the shortcut is delivered to. The slot does not keep the
// controller alive; it is resolved each time the shortcut fires.
type Context struct {
	mu     sync.Mutex
	active ongeul.Toggler
	tap    *Tap
	log    *zap.SugaredLogger
}

func NewContext(
	capturer Capturer,
	permission Permission,
	executor Executor,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) *Context {
	c := &Context{log: log}
	c.tap = newTap(capturer, permission, executor, c.Active, m, log)
	return c
}

func (c *Context) Init() error {
	return c.tap.Install()
}

func (c *Context) Teardown() {
	c.tap.Uninstall()

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

func (c *Context) Tap() *Tap {
	return c.tap
}

func (c *Context) Register(t ongeul.Toggler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = t
}

// Unregister clears the slot only if t still owns it, so a late
// deactivation cannot evict the controller that replaced it.
func (c *Context) Unregister(t ongeul.Toggler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == t {
		c.active = nil
	}
}

func (c *Context) Active() ongeul.Toggler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
