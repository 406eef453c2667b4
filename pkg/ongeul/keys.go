package ongeul

// KeyCode is a physical key identifier. The values are macOS virtual key
// codes and are shared with the host shim; they must not be renumbered.
type KeyCode uint16

const (
	KeyReturn       KeyCode = 36
	KeyTab          KeyCode = 48
	KeySpace        KeyCode = 49
	KeyDelete       KeyCode = 51
	KeyEscape       KeyCode = 53
	KeyRightCommand KeyCode = 54
	KeyLeftCommand  KeyCode = 55
	KeyLeftShift    KeyCode = 56
	KeyCapsLock     KeyCode = 57
	KeyLeftOption   KeyCode = 58
	KeyLeftControl  KeyCode = 59
	KeyRightShift   KeyCode = 60
	KeyRightOption  KeyCode = 61
	KeyRightControl KeyCode = 62
	KeyFunction     KeyCode = 63
	KeyLeftArrow    KeyCode = 123
	KeyRightArrow   KeyCode = 124
	KeyDownArrow    KeyCode = 125
	KeyUpArrow      KeyCode = 126
)

// KeyToggle is the key whose lone tap toggles the mode.
const KeyToggle = KeyRightCommand

// HoldKeys is the four-key lock gesture.
var HoldKeys = [4]KeyCode{KeyLeftCommand, KeyRightCommand, KeyLeftOption, KeyRightOption}

func (k KeyCode) IsModifier() bool {
	switch k {
	case KeyRightCommand, KeyLeftCommand, KeyLeftShift, KeyRightShift, KeyCapsLock,
		KeyLeftOption, KeyRightOption, KeyLeftControl, KeyRightControl, KeyFunction:
		return true
	}
	return false
}

func (k KeyCode) IsArrow() bool {
	return k >= KeyLeftArrow && k <= KeyUpArrow
}

// Modifiers mirrors the event flag word: device-independent masks in the
// high bits and per-side device bits in the low bits.
type Modifiers uint64

const (
	ModLeftControl  Modifiers = 0x00000001
	ModLeftShift    Modifiers = 0x00000002
	ModRightShift   Modifiers = 0x00000004
	ModLeftCommand  Modifiers = 0x00000008
	ModRightCommand Modifiers = 0x00000010
	ModLeftOption   Modifiers = 0x00000020
	ModRightOption  Modifiers = 0x00000040
	ModRightControl Modifiers = 0x00002000

	ModCapsLock Modifiers = 1 << 16
	ModShift    Modifiers = 1 << 17
	ModControl  Modifiers = 1 << 18
	ModOption   Modifiers = 1 << 19
	ModCommand  Modifiers = 1 << 20
	ModFunction Modifiers = 1 << 23
)

const modDeviceMask = ModLeftControl | ModLeftShift | ModRightShift | ModLeftCommand |
	ModRightCommand | ModLeftOption | ModRightOption | ModRightControl

func (m Modifiers) Has(mask Modifiers) bool {
	return m&mask != 0
}

// modifierBits maps each modifier key to its per-side and generic bits.
var modifierBits = map[KeyCode]struct{ device, generic Modifiers }{
	KeyLeftCommand:  {ModLeftCommand, ModCommand},
	KeyRightCommand: {ModRightCommand, ModCommand},
	KeyLeftOption:   {ModLeftOption, ModOption},
	KeyRightOption:  {ModRightOption, ModOption},
	KeyLeftShift:    {ModLeftShift, ModShift},
	KeyRightShift:   {ModRightShift, ModShift},
	KeyLeftControl:  {ModLeftControl, ModControl},
	KeyRightControl: {ModRightControl, ModControl},
	KeyCapsLock:     {0, ModCapsLock},
	KeyFunction:     {0, ModFunction},
}

// IsDown reports whether the modifier key is held according to flags. The
// per-side device bit is used when the source reports one; otherwise the
// generic mask decides.
func (m Modifiers) IsDown(key KeyCode) bool {
	bits, ok := modifierBits[key]
	if !ok {
		return false
	}
	if bits.device != 0 && m&modDeviceMask != 0 {
		return m.Has(bits.device)
	}
	return m.Has(bits.generic)
}

type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	FlagsChanged
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case FlagsChanged:
		return "flags"
	}
	return "unknown"
}

// Event is a raw key or modifier event delivered for the focused client.
// Chars is the label the engine consumes, already shifted.
type Event struct {
	Kind    EventKind
	KeyCode KeyCode
	Flags   Modifiers
	Chars   string
}
