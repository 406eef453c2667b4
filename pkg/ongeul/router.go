package ongeul

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"sync"
	"unicode/utf8"
)

// DefaultAutoCommitTargets lists identity prefixes of applications that
// materialize provisional text themselves when they lose focus.
var DefaultAutoCommitTargets = []string{
	"com.jetbrains.",
	"com.google.android.studio",
}

// CompositionRouter turns engine results into edits on the focused client.
// The auto-commit list may be replaced from any goroutine.
type CompositionRouter struct {
	mu         sync.RWMutex
	autoCommit []string
	log        *zap.SugaredLogger
}

func NewCompositionRouter(autoCommit []string, log *zap.SugaredLogger) *CompositionRouter {
	return &CompositionRouter{
		autoCommit: autoCommit,
		log:        log,
	}
}

func (r *CompositionRouter) SetAutoCommitTargets(prefixes []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoCommit = append([]string{}, prefixes...)
}

func (r *CompositionRouter) AutoCommits(target TargetID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, prefix := range r.autoCommit {
		if target.HasPrefix(prefix) {
			return true
		}
	}
	return false
}

func (r *CompositionRouter) Apply(result ProcessResult, client TextClient) error {
	if client == nil {
		return nil
	}

	var errs []error
	if result.Committed != "" {
		if err := client.InsertText(result.Committed); err != nil {
			errs = append(errs, fmt.Errorf("insert text: %w", err))
		}
	}

	if err := r.mark(result, client); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// OnFocusLoss routes the flush performed when target is losing focus.
// Auto-committing targets already hold the committed text, so only the
// provisional marking is cleared for them.
func (r *CompositionRouter) OnFocusLoss(result ProcessResult, target TargetID, client TextClient) error {
	if client == nil {
		return nil
	}

	if !r.AutoCommits(target) {
		return r.Apply(result, client)
	}

	r.log.Debugw("skip insert on focus loss", "target", target, "committed", result.Committed)
	if err := client.ClearMarkedText(); err != nil {
		return fmt.Errorf("clear marked text: %w", err)
	}
	return nil
}

func (r *CompositionRouter) mark(result ProcessResult, client TextClient) error {
	if result.Composing == "" {
		if err := client.ClearMarkedText(); err != nil {
			return fmt.Errorf("clear marked text: %w", err)
		}
		return nil
	}

	caret := utf8.RuneCountInString(result.Composing)
	if err := client.SetMarkedText(result.Composing, caret); err != nil {
		return fmt.Errorf("set marked text: %w", err)
	}
	return nil
}
