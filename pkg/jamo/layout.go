package jamo

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"strconv"
	"strings"
)

type document struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Type         string            `yaml:"type"`
	Keymap       map[string]string `yaml:"keymap"`
	Combinations []combination     `yaml:"combinations"`
}

type combination struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	Result string `yaml:"result"`
}

type pair struct {
	first, second rune
}

type Layout struct {
	ID   string
	Name string
	Type string

	keymap       map[string]rune
	combinations map[pair]rune
	// splits undoes a combination, for backspace
	splits map[rune]rune
}

func ParseLayout(data []byte) (*Layout, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if doc.ID == "" {
		return nil, errors.New("missing layout id")
	}
	switch doc.Type {
	case "jamo", "jaso":
	default:
		return nil, fmt.Errorf("unsupported layout type %q", doc.Type)
	}

	layout := &Layout{
		ID:           doc.ID,
		Name:         doc.Name,
		Type:         doc.Type,
		keymap:       make(map[string]rune, len(doc.Keymap)),
		combinations: make(map[pair]rune, len(doc.Combinations)),
		splits:       make(map[rune]rune, len(doc.Combinations)),
	}

	for label, hex := range doc.Keymap {
		r, err := parseCodePoint(hex)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: %w", label, err)
		}
		layout.keymap[label] = r
	}

	for i, c := range doc.Combinations {
		first, err := parseCodePoint(c.First)
		if err != nil {
			return nil, fmt.Errorf("combination %d first: %w", i, err)
		}
		second, err := parseCodePoint(c.Second)
		if err != nil {
			return nil, fmt.Errorf("combination %d second: %w", i, err)
		}
		result, err := parseCodePoint(c.Result)
		if err != nil {
			return nil, fmt.Errorf("combination %d result: %w", i, err)
		}
		layout.combinations[pair{first, second}] = result
		layout.splits[result] = first
	}

	return layout, nil
}

func (l *Layout) Map(label string) (rune, bool) {
	r, ok := l.keymap[label]
	return r, ok
}

func (l *Layout) Combine(first, second rune) (rune, bool) {
	r, ok := l.combinations[pair{first, second}]
	return r, ok
}

func parseCodePoint(s string) (rune, error) {
	hex, ok := strings.CutPrefix(strings.ToLower(s), "0x")
	if !ok {
		return 0, fmt.Errorf("code point %q is not hex", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse code point %q: %w", s, err)
	}
	if n == 0 || n > 0x10FFFF {
		return 0, fmt.Errorf("code point %q out of range", s)
	}
	return rune(n), nil
}
