package ongeul

import (
	"time"
)

type ChordAction int

const (
	ChordNone ChordAction = iota
	ChordToggle
	ChordLock
)

func (a ChordAction) String() string {
	switch a {
	case ChordToggle:
		return "toggle"
	case ChordLock:
		return "lock"
	}
	return "none"
}

// ChordDetector recognizes the two modifier gestures: a lone tap of
// KeyToggle, and all four HoldKeys held together and then released.
type ChordDetector struct {
	TapEnabled bool
	// HoldWindow bounds how long the four hold keys may take to accumulate.
	// Zero disables the bound.
	HoldWindow time.Duration

	seen       uint8
	armed      bool
	tapPending bool
	startedAt  time.Time
	now        func() time.Time
}

const allHoldKeys = uint8(1<<len(HoldKeys)) - 1

func NewChordDetector(holdWindow time.Duration) *ChordDetector {
	return &ChordDetector{
		TapEnabled: true,
		HoldWindow: holdWindow,
		now:        time.Now,
	}
}

func holdBit(key KeyCode) (uint8, bool) {
	for i, k := range HoldKeys {
		if k == key {
			return 1 << i, true
		}
	}
	return 0, false
}

// OnKeyDown must be called for every ordinary key press before it is
// handled; it cancels both gestures.
func (d *ChordDetector) OnKeyDown() {
	d.tapPending = false
	d.resetHold()
}

func (d *ChordDetector) Reset() {
	d.tapPending = false
	d.resetHold()
}

func (d *ChordDetector) TapPending() bool {
	return d.tapPending
}

func (d *ChordDetector) Armed() bool {
	return d.armed
}

func (d *ChordDetector) resetHold() {
	d.seen = 0
	d.armed = false
	d.startedAt = time.Time{}
}

// OnFlagsChanged feeds one modifier change and returns the gesture it
// completes, if any.
func (d *ChordDetector) OnFlagsChanged(key KeyCode, flags Modifiers) ChordAction {
	action := d.tap(key, flags)
	if hold := d.hold(key, flags); hold != ChordNone {
		action = hold
	}
	return action
}

func (d *ChordDetector) tap(key KeyCode, flags Modifiers) ChordAction {
	if key != KeyToggle {
		d.tapPending = false
		return ChordNone
	}

	if flags.IsDown(key) {
		others := flags &^ (ModCommand | ModRightCommand | ModCapsLock)
		d.tapPending = d.TapEnabled && !others.Has(ModShift|ModControl|ModOption|ModCommand|modDeviceMask|ModFunction)
		return ChordNone
	}

	if d.tapPending {
		d.tapPending = false
		return ChordToggle
	}
	return ChordNone
}

func (d *ChordDetector) hold(key KeyCode, flags Modifiers) ChordAction {
	bit, member := holdBit(key)
	if !member || flags.Has(ModShift|ModControl|ModFunction) {
		d.resetHold()
		return ChordNone
	}

	if flags.IsDown(key) {
		if d.armed || d.seen&bit != 0 {
			return ChordNone
		}
		now := d.now()
		if d.seen == 0 || (d.HoldWindow > 0 && now.Sub(d.startedAt) > d.HoldWindow) {
			d.seen = 0
			d.startedAt = now
		}
		d.seen |= bit
		if d.seen == allHoldKeys {
			d.armed = true
			d.tapPending = false
		}
		return ChordNone
	}

	if flags.Has(ModCommand | ModOption) {
		return ChordNone
	}

	fire := d.armed
	d.resetHold()
	if fire {
		return ChordLock
	}
	return ChordNone
}
