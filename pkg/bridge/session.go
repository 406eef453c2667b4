package bridge

import (
	"codeberg.org/ongeul/ongeul/pkg/eventtap"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"context"
	"fmt"
	"go.uber.org/zap"
)

type Controller interface {
	Active() bool
	Activate(target ongeul.TargetID, client ongeul.TextClient)
	Deactivate()
	HandleEvent(ev ongeul.Event) bool
	CommitComposition()
}

// Session reads the shim's event stream. Focus and key events run on the
// queue; capture events are decided on the reading goroutine and answered
// immediately.
type Session struct {
	client  *Client
	text    *TextClient
	capture *Capture
	queue   *ongeul.Queue
	ctrl    Controller

	// OnPermission is called after the shim reports a permission change.
	OnPermission func(granted bool)

	log *zap.SugaredLogger
}

func NewSession(
	client *Client,
	capture *Capture,
	queue *ongeul.Queue,
	ctrl Controller,
	log *zap.SugaredLogger,
) *Session {
	return &Session{
		client:  client,
		text:    NewTextClient(client),
		capture: capture,
		queue:   queue,
		ctrl:    ctrl,
		log:     log,
	}
}

func (s *Session) ProcessLines(ctx context.Context) error {
	resultCh := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := s.client.ReadLine()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case resultCh <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line := <-resultCh:
			if err := s.processLine(ctx, line); err != nil {
				return fmt.Errorf("process line: %w", err)
			}
		case err := <-errCh:
			return fmt.Errorf("get line: %w", err)
		}
	}
}

// processLine returns an error only when the session cannot go on. Lines it
// does not understand are logged and skipped.
func (s *Session) processLine(ctx context.Context, line string) error {
	kind, payload, err := splitLine(line)
	if err != nil {
		s.log.Warnw("skipping line", "error", err)
		return nil
	}

	switch kind {
	case kindFocus:
		return s.processFocus(ctx, payload)
	case kindBlur:
		return s.queue.Do(ctx, s.ctrl.Deactivate)
	case kindKey:
		ev, err := parseKey(payload)
		if err != nil {
			s.log.Warnw("skipping key event", "error", err)
			return s.client.WriteLine(kindAck, formatAck(false))
		}
		return s.processEvent(ctx, ev)
	case kindFlags:
		ev, err := parseFlags(payload)
		if err != nil {
			s.log.Warnw("skipping flags event", "error", err)
			return s.client.WriteLine(kindAck, formatAck(false))
		}
		return s.processEvent(ctx, ev)
	case kindCommit:
		return s.queue.Do(ctx, s.ctrl.CommitComposition)
	case kindTap:
		return s.processTap(payload)
	case kindTapState:
		enabled, err := parseBool(payload, "enabled", "disabled")
		if err != nil {
			s.log.Warnw("skipping capture state", "error", err)
			return nil
		}
		s.capture.setEnabled(enabled)
	case kindPermission:
		granted, err := parseBool(payload, "granted", "denied")
		if err != nil {
			s.log.Warnw("skipping permission state", "error", err)
			return nil
		}
		s.capture.setGranted(granted)
		s.log.Infow("input capture permission", "granted", granted)
		if s.OnPermission != nil {
			s.OnPermission(granted)
		}
	default:
		s.log.Debugw("ignoring line", "kind", kind)
	}

	return nil
}

func (s *Session) processFocus(ctx context.Context, payload string) error {
	target, err := ongeul.ParseTargetID(payload)
	if err != nil {
		s.log.Debugw("focus without usable identity", "id", payload, "error", err)
		target = ""
	}

	return s.queue.Do(ctx, func() {
		s.ctrl.Activate(target, s.text)
	})
}

func (s *Session) processEvent(ctx context.Context, ev ongeul.Event) error {
	var consumed bool
	if err := s.queue.Do(ctx, func() {
		consumed = s.ctrl.HandleEvent(ev)
	}); err != nil {
		return err
	}
	return s.client.WriteLine(kindAck, formatAck(consumed))
}

func (s *Session) processTap(payload string) error {
	ev, err := parseTap(payload)
	if err != nil {
		s.log.Warnw("skipping capture event", "error", err)
		return s.client.WriteLine(kindVerdict, formatVerdict(eventtap.Pass))
	}

	verdict, err := s.capture.dispatch(ev)
	if err != nil {
		s.log.Debugw("capture event without capture", "error", err)
	}
	return s.client.WriteLine(kindVerdict, formatVerdict(verdict))
}
