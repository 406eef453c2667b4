package bridge

import (
	"codeberg.org/ongeul/ongeul/pkg/eventtap"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

var errNoCapture = errors.New("no capture created")

// Capture runs the global capture inside the shim process. The shim owns the
// OS registration; this side decides each event and tracks its state.
type Capture struct {
	client *Client

	mu      sync.Mutex
	cb      eventtap.Callback
	enabled bool
	granted bool
}

func NewCapture(client *Client) *Capture {
	return &Capture{client: client}
}

func (c *Capture) Create(mask eventtap.Mask, cb eventtap.Callback) (eventtap.Port, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.WriteLine(kindTapCtl, "create,"+strconv.FormatUint(uint64(mask), 10)); err != nil {
		return nil, fmt.Errorf("request capture: %w", err)
	}
	c.cb = cb
	c.enabled = false
	return &port{capture: c}, nil
}

func (c *Capture) Granted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.granted
}

func (c *Capture) setGranted(granted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = granted
}

// setEnabled records a state change the shim reports on its own, such as a
// capture the system turned off without sending a sentinel.
func (c *Capture) setEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *Capture) dispatch(ev eventtap.Event) (eventtap.Verdict, error) {
	c.mu.Lock()
	cb := c.cb
	c.mu.Unlock()

	if cb == nil {
		return eventtap.Pass, errNoCapture
	}
	return cb(ev), nil
}

type port struct {
	capture *Capture
}

func (p *port) SetEnabled(enabled bool) error {
	c := p.capture
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := "disable"
	if enabled {
		cmd = "enable"
	}
	if err := c.client.WriteLine(kindTapCtl, cmd); err != nil {
		return fmt.Errorf("%s capture: %w", cmd, err)
	}
	c.enabled = enabled
	return nil
}

func (p *port) Enabled() bool {
	c := p.capture
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (p *port) Close() error {
	c := p.capture
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cb = nil
	c.enabled = false
	if err := c.client.WriteLine(kindTapCtl, "close"); err != nil {
		return fmt.Errorf("close capture: %w", err)
	}
	return nil
}
