package bridge

import (
	"codeberg.org/ongeul/ongeul/pkg/eventtap"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"fmt"
	"strconv"
	"strings"
)

const separator = ">>"

// inbound
const (
	kindFocus      = "focus"
	kindBlur       = "blur"
	kindKey        = "key"
	kindFlags      = "flags"
	kindCommit     = "commit"
	kindTap        = "tap"
	kindTapState   = "tapstate"
	kindPermission = "permission"
)

// outbound
const (
	kindAck     = "ack"
	kindInsert  = "insert"
	kindMark    = "mark"
	kindUnmark  = "unmark"
	kindTapCtl  = "tapctl"
	kindVerdict = "tap"
)

func splitLine(line string) (string, string, error) {
	kind, payload, ok := strings.Cut(line, separator)
	if !ok || kind == "" {
		return "", "", fmt.Errorf("invalid line: %q", line)
	}
	return kind, payload, nil
}

// parseKey reads "down|up,code,flags,\"chars\"".
func parseKey(payload string) (ongeul.Event, error) {
	parts := strings.SplitN(payload, ",", 4)
	if len(parts) != 4 {
		return ongeul.Event{}, fmt.Errorf("invalid key data: %q", payload)
	}

	var ev ongeul.Event
	switch parts[0] {
	case "down":
		ev.Kind = ongeul.KeyDown
	case "up":
		ev.Kind = ongeul.KeyUp
	default:
		return ev, fmt.Errorf("invalid key direction: %q", parts[0])
	}

	code, flags, err := parseCodeFlags(parts[1], parts[2])
	if err != nil {
		return ev, err
	}
	ev.KeyCode = code
	ev.Flags = flags

	chars, err := strconv.Unquote(parts[3])
	if err != nil {
		return ev, fmt.Errorf("unquote chars %s: %w", parts[3], err)
	}
	ev.Chars = chars

	return ev, nil
}

// parseFlags reads "code,flags".
func parseFlags(payload string) (ongeul.Event, error) {
	code, flags, ok := strings.Cut(payload, ",")
	if !ok {
		return ongeul.Event{}, fmt.Errorf("invalid flags data: %q", payload)
	}

	keyCode, mods, err := parseCodeFlags(code, flags)
	if err != nil {
		return ongeul.Event{}, err
	}
	return ongeul.Event{Kind: ongeul.FlagsChanged, KeyCode: keyCode, Flags: mods}, nil
}

// parseTap reads "down|up|timeout|userinput,code,flags".
func parseTap(payload string) (eventtap.Event, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != 3 {
		return eventtap.Event{}, fmt.Errorf("invalid tap data: %q", payload)
	}

	var ev eventtap.Event
	switch parts[0] {
	case "down":
		ev.Type = eventtap.KeyDown
	case "up":
		ev.Type = eventtap.KeyUp
	case "timeout":
		ev.Type = eventtap.DisabledByTimeout
	case "userinput":
		ev.Type = eventtap.DisabledByUserInput
	default:
		return ev, fmt.Errorf("invalid tap event type: %q", parts[0])
	}

	code, flags, err := parseCodeFlags(parts[1], parts[2])
	if err != nil {
		return ev, err
	}
	ev.KeyCode = code
	ev.Flags = flags
	return ev, nil
}

func parseCodeFlags(code, flags string) (ongeul.KeyCode, ongeul.Modifiers, error) {
	c, err := strconv.ParseUint(code, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("parse key code: %w", err)
	}
	f, err := strconv.ParseUint(flags, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse modifier flags: %w", err)
	}
	return ongeul.KeyCode(c), ongeul.Modifiers(f), nil
}

func parseBool(payload string, yes, no string) (bool, error) {
	switch payload {
	case yes:
		return true, nil
	case no:
		return false, nil
	}
	return false, fmt.Errorf("expected %s or %s, got %q", yes, no, payload)
}

func formatAck(consumed bool) string {
	if consumed {
		return "1"
	}
	return "0"
}

func formatVerdict(v eventtap.Verdict) string {
	if v == eventtap.Consume {
		return "consume"
	}
	return "pass"
}
