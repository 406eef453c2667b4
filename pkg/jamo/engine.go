// Package jamo is a small composition engine that works on individual
// compatibility jamo. It keeps at most one provisional jamo, merges it with
// the next one when the layout lists the pair, and commits it otherwise.
package jamo

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"fmt"
	"sync"
)

type Engine struct {
	mu      sync.Mutex
	layout  *Layout
	mode    ongeul.Mode
	pending rune
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) LoadLayout(serialized []byte) error {
	layout, err := ParseLayout(serialized)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout = layout
	e.pending = 0
	return nil
}

func (e *Engine) Layout() *Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

func (e *Engine) SetMode(mode ongeul.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
}

func (e *Engine) Mode() ongeul.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *Engine) ProcessKey(label string) ongeul.ProcessResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ongeul.English || e.layout == nil {
		return ongeul.ProcessResult{Committed: label, Handled: true}
	}

	r, ok := e.layout.Map(label)
	if !ok {
		result := e.flush()
		result.Handled = false
		return result
	}

	if e.pending == 0 {
		e.pending = r
		return ongeul.ProcessResult{Composing: string(r), Handled: true}
	}

	if combined, ok := e.layout.Combine(e.pending, r); ok {
		e.pending = combined
		return ongeul.ProcessResult{Composing: string(combined), Handled: true}
	}

	committed := string(e.pending)
	e.pending = r
	return ongeul.ProcessResult{Committed: committed, Composing: string(r), Handled: true}
}

func (e *Engine) Backspace() ongeul.ProcessResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == 0 {
		return ongeul.ProcessResult{}
	}

	if first, ok := e.layout.splits[e.pending]; ok {
		e.pending = first
		return ongeul.ProcessResult{Composing: string(first), Handled: true}
	}

	e.pending = 0
	return ongeul.ProcessResult{Handled: true}
}

func (e *Engine) Flush() ongeul.ProcessResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flush()
}

func (e *Engine) flush() ongeul.ProcessResult {
	if e.pending == 0 {
		return ongeul.ProcessResult{}
	}
	committed := string(e.pending)
	e.pending = 0
	return ongeul.ProcessResult{Committed: committed, Handled: true}
}

func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = 0
}
