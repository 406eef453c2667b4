package indicator

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"errors"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRuns(t *testing.T) {
	var s Scheduler
	var ran atomic.Int32

	s.Schedule(time.Millisecond, func() { ran.Add(1) })

	require.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, time.Millisecond)
	assert.False(t, s.Pending())
}

func TestSchedulerReplaces(t *testing.T) {
	var s Scheduler
	var first, second atomic.Int32

	s.Schedule(20*time.Millisecond, func() { first.Add(1) })
	s.Schedule(time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestSchedulerCancel(t *testing.T) {
	var s Scheduler
	var ran atomic.Int32

	s.Schedule(5*time.Millisecond, func() { ran.Add(1) })
	s.Cancel()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, ran.Load())
	assert.False(t, s.Pending())
}

type fakeBackend struct {
	mu      sync.Mutex
	shown   []ongeul.Mode
	hides   int
	showErr error
}

func (b *fakeBackend) Show(mode ongeul.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.showErr != nil {
		return b.showErr
	}
	b.shown = append(b.shown, mode)
	return nil
}

func (b *fakeBackend) Hide() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hides++
	return nil
}

func (b *fakeBackend) Close() error {
	return nil
}

func (b *fakeBackend) hideCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hides
}

func TestIndicatorShowsThenHides(t *testing.T) {
	backend := &fakeBackend{}
	ind := New(backend, 5*time.Millisecond, zap.NewNop().Sugar())

	ind.ModeChanged(ongeul.Korean)
	assert.Equal(t, []ongeul.Mode{ongeul.Korean}, backend.shown)

	require.Eventually(t, func() bool { return backend.hideCount() == 1 }, time.Second, time.Millisecond)
}

func TestIndicatorNewShowSupersedesHide(t *testing.T) {
	backend := &fakeBackend{}
	ind := New(backend, 30*time.Millisecond, zap.NewNop().Sugar())

	ind.ModeChanged(ongeul.Korean)
	time.Sleep(10 * time.Millisecond)
	ind.ModeChanged(ongeul.English)
	time.Sleep(25 * time.Millisecond)

	assert.Zero(t, backend.hideCount(), "first hide was cancelled")
	require.Eventually(t, func() bool { return backend.hideCount() == 1 }, time.Second, time.Millisecond)
}

func TestIndicatorStaleHideIsIgnored(t *testing.T) {
	backend := &fakeBackend{}
	ind := New(backend, time.Hour, zap.NewNop().Sugar())
	defer ind.Close()

	ind.ModeChanged(ongeul.Korean)
	stale := ind.gen
	ind.ModeChanged(ongeul.English)

	// the first hide already passed its timer when the second show arrived
	ind.hide(stale)
	assert.Zero(t, backend.hideCount())
	assert.Equal(t, []ongeul.Mode{ongeul.Korean, ongeul.English}, backend.shown)

	ind.hide(ind.gen)
	assert.Equal(t, 1, backend.hideCount())
}

func TestIndicatorHideWaitsForShow(t *testing.T) {
	backend := &blockingBackend{fakeBackend: &fakeBackend{}, release: make(chan struct{}), entered: make(chan struct{}, 1)}
	ind := New(backend, time.Hour, zap.NewNop().Sugar())

	ind.ModeChanged(ongeul.Korean)
	stale := ind.gen

	backend.block.Store(true)
	done := make(chan struct{})
	go func() {
		ind.ModeChanged(ongeul.English)
		close(done)
	}()
	<-backend.entered

	hidden := make(chan struct{})
	go func() {
		ind.hide(stale)
		close(hidden)
	}()

	close(backend.release)
	<-done
	<-hidden
	assert.Zero(t, backend.hideCount())
}

type blockingBackend struct {
	*fakeBackend
	block   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Show(mode ongeul.Mode) error {
	if b.block.Load() {
		b.entered <- struct{}{}
		<-b.release
	}
	return b.fakeBackend.Show(mode)
}

func TestIndicatorShowFailureSkipsHide(t *testing.T) {
	backend := &fakeBackend{showErr: errors.New("no notification daemon")}
	ind := New(backend, time.Millisecond, zap.NewNop().Sugar())

	ind.ModeChanged(ongeul.Korean)
	assert.False(t, ind.scheduler.Pending())
}

type fakeBus struct {
	methods []string
	args    [][]interface{}
	nextID  uint32
}

func (b *fakeBus) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	b.methods = append(b.methods, method)
	b.args = append(b.args, args)
	if method == notifyMethod {
		return &dbus.Call{Body: []interface{}{b.nextID}}
	}
	return &dbus.Call{}
}

func TestDBusBackendReusesNotification(t *testing.T) {
	bus := &fakeBus{nextID: 42}
	backend := &DBusBackend{obj: bus, log: zap.NewNop().Sugar()}

	require.NoError(t, backend.Hide())
	assert.Empty(t, bus.methods, "nothing to close yet")

	require.NoError(t, backend.Show(ongeul.Korean))
	require.NoError(t, backend.Show(ongeul.English))
	require.NoError(t, backend.Hide())

	assert.Equal(t, []string{notifyMethod, notifyMethod, closeMethod}, bus.methods)
	assert.Equal(t, uint32(0), bus.args[0][1])
	assert.Equal(t, uint32(42), bus.args[1][1], "second notify replaces the first")
	assert.Equal(t, "한", bus.args[0][3])
	assert.Equal(t, []interface{}{uint32(42)}, bus.args[2])
}
