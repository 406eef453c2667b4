package ongeul

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied = errors.New("input capture permission not granted")
	ErrCaptureDisabled  = errors.New("input capture disabled by system")
	ErrUnknownTarget    = errors.New("target identity unknown")
	ErrUnknownLayout    = errors.New("unknown layout")
)

type LayoutParseError struct {
	ID  string
	Err error
}

func (e *LayoutParseError) Error() string {
	return fmt.Sprintf("layout %q: %v", e.ID, e.Err)
}

func (e *LayoutParseError) Unwrap() error {
	return e.Err
}
