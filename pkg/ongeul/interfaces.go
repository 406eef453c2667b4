package ongeul

// Engine is the Hangul composition engine.
type Engine interface {
	LoadLayout(serialized []byte) error
	SetMode(mode Mode)
	Mode() Mode
	ProcessKey(label string) ProcessResult
	Backspace() ProcessResult
	Flush() ProcessResult
	// Reset discards the pending composition without committing it.
	Reset()
}

// TextClient is the focused application's text surface.
type TextClient interface {
	InsertText(text string) error
	SetMarkedText(text string, caret int) error
	ClearMarkedText() error
}

type StateBackend interface {
	Load() (StateSnapshot, error)
	Save(snapshot StateSnapshot) error
	Close() error
}

type LayoutSource interface {
	Read(id string) ([]byte, error)
}

type ModeNotifier interface {
	ModeChanged(mode Mode)
}

// Toggler is what the global shortcut drives.
type Toggler interface {
	PerformToggleFromTap()
}

type Registrar interface {
	Register(t Toggler)
	Unregister(t Toggler)
}

type Settings struct {
	ToggleKey           ToggleKey
	EscapeForcesEnglish bool
}
