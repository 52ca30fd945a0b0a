package domain

import (
	"fmt"
	"strings"
)

// Status glyphs. Exactly these four values are valid for status columns.
const (
	StatusDone    = "✅"
	StatusPartial = "⚠️"
	StatusNotDone = "❌"
	StatusNone    = "-"
)

var statusAliases = map[string]string{
	"":        StatusNone,
	"-":       StatusNone,
	"na":      StatusNone,
	"n/a":     StatusNone,
	"none":    StatusNone,
	"done":    StatusDone,
	"ok":      StatusDone,
	"partial": StatusPartial,
	"wip":     StatusPartial,
	"todo":    StatusNotDone,
	"no":      StatusNotDone,
	"missing": StatusNotDone,
}

// IsValidStatus reports whether v is one of the four status glyphs.
func IsValidStatus(v string) bool {
	switch v {
	case StatusDone, StatusPartial, StatusNotDone, StatusNone:
		return true
	}
	return false
}

// NormalizeStatus maps an empty cell to the not-applicable glyph.
func NormalizeStatus(v string) string {
	if v == "" {
		return StatusNone
	}
	return v
}

// ParseStatus accepts a glyph or a word alias (done, partial, todo, na).
// The warning glyph is also accepted without its variation selector.
func ParseStatus(in string) (string, error) {
	if IsValidStatus(in) {
		return in, nil
	}
	if in == "⚠" {
		return StatusPartial, nil
	}
	if v, ok := statusAliases[strings.ToLower(strings.TrimSpace(in))]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q (want ✅, ⚠️, ❌, - or done/partial/todo/na)", ErrInvalidStatus, in)
}
