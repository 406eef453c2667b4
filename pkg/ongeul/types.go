package ongeul

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Mode int

const (
	English Mode = iota
	Korean
)

func (m Mode) String() string {
	switch m {
	case English:
		return "english"
	case Korean:
		return "korean"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) Toggle() Mode {
	if m == Korean {
		return English
	}
	return Korean
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case English, Korean:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("invalid mode: %d", int(m))
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "english":
		return English, nil
	case "korean":
		return Korean, nil
	}
	return English, fmt.Errorf("invalid mode: %q", s)
}

// TargetID identifies the focused application, not the document or field.
// The zero value means the target could not be resolved.
type TargetID string

const maxTargetIDLen = 255

var errInvalidTarget = errors.New("invalid target identity")

func ParseTargetID(s string) (TargetID, error) {
	if s == "" {
		return "", ErrUnknownTarget
	}
	if len(s) > maxTargetIDLen {
		return "", fmt.Errorf("%w: longer than %d bytes", errInvalidTarget, maxTargetIDLen)
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return "", fmt.Errorf("%w: %q", errInvalidTarget, s)
	}
	return TargetID(s), nil
}

func (t TargetID) Known() bool {
	return t != ""
}

func (t TargetID) HasPrefix(prefix string) bool {
	return prefix != "" && strings.HasPrefix(string(t), prefix)
}

// ProcessResult is what the engine hands back for one action. An empty
// Committed or Composing means the value is absent.
type ProcessResult struct {
	Committed string
	Composing string
	Handled   bool
}

func (r ProcessResult) Empty() bool {
	return r.Committed == "" && r.Composing == ""
}

type ToggleKey int

const (
	ToggleSingleKeyTap ToggleKey = iota
	ToggleShiftSpace
)

func (k ToggleKey) String() string {
	switch k {
	case ToggleSingleKeyTap:
		return "single-key-tap"
	case ToggleShiftSpace:
		return "shift-space"
	}
	return fmt.Sprintf("toggle(%d)", int(k))
}

func ParseToggleKey(s string) (ToggleKey, error) {
	switch s {
	case "single-key-tap", "":
		return ToggleSingleKeyTap, nil
	case "shift-space":
		return ToggleShiftSpace, nil
	}
	return ToggleSingleKeyTap, fmt.Errorf("invalid toggle key: %q", s)
}
