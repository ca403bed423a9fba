// Package report renders comparison verdicts into human-readable messages.
// It consumes the structured data the engines hand back and never re-derives
// any comparison logic of its own.
package report

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"

	"github.com/amandengue/nfluent/sequence"
	"github.com/amandengue/nfluent/structural"
)

// A Renderer formats verdicts. The zero value renders plain text; Color
// adds ANSI highlighting for terminals.
type Renderer struct {
	Color bool
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Equality renders a structural verdict with the default renderer.
func Equality(v structural.Verdict) string {
	return Renderer{}.Equality(v)
}

// Sequence renders a membership verdict with the default renderer.
func Sequence(v sequence.Verdict) string {
	return Renderer{}.Sequence(v)
}

// Equality renders a structural verdict.
func (r Renderer) Equality(v structural.Verdict) string {
	switch v := v.(type) {
	case structural.Match:
		return "values are structurally equal"
	case structural.Mismatch:
		b := &strings.Builder{}
		fmt.Fprintf(b, "value differs at %s (%s)\n", r.path(v.Path), v.Reason)
		b.WriteString(r.columns(v.Expected, v.Actual))
		if d := tryDiff(v.Expected, v.Actual); d != "" {
			fmt.Fprintf(b, "diff (-expected +actual):\n%s", d)
		}
		return b.String()
	case structural.MissingMember:
		return fmt.Sprintf("member %q at %s has no counterpart on the expected value",
			v.Member, r.path(v.Path))
	case structural.Cycle:
		return fmt.Sprintf("cyclic structure detected at %s", r.path(v.Path))
	default:
		return fmt.Sprintf("%+v", v)
	}
}

// Sequence renders a membership verdict.
func (r Renderer) Sequence(v sequence.Verdict) string {
	switch v := v.(type) {
	case sequence.AllFound:
		return "sequence holds the given elements"
	case sequence.MissingElements:
		return "missing elements: " + r.elements(v.Elements)
	case sequence.UnexpectedElements:
		return "unexpected elements: " + r.elements(v.Elements)
	case sequence.OrderMismatch:
		b := &strings.Builder{}
		fmt.Fprintf(b, "sequences diverge at index %d (%s)\n", v.Index, v.Reason)
		b.WriteString(r.columns(v.Expected, v.Actual))
		return b.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}

// columns lays expected over actual with aligned labels so the eye can walk
// straight down to the difference.
func (r Renderer) columns(expected, actual any) string {
	rows := []struct {
		label string
		color string
		value any
	}{
		{"expected", ansiGreen, expected},
		{"actual", ansiRed, actual},
	}
	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > width {
			width = w
		}
	}
	b := &strings.Builder{}
	for _, row := range rows {
		label := row.label + strings.Repeat(" ", width-runewidth.StringWidth(row.label))
		value := fmt.Sprintf("%#v", row.value)
		if r.Color {
			value = row.color + value + ansiReset
		}
		fmt.Fprintf(b, "\t%s: %s\n", label, value)
	}
	return b.String()
}

func (r Renderer) elements(elems []any) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = fmt.Sprintf("%#v", e)
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	if r.Color {
		s = ansiRed + s + ansiReset
	}
	return s
}

func (r Renderer) path(p structural.Path) string {
	if len(p) == 0 {
		return "the root"
	}
	return p.String()
}

// tryDiff asks go-cmp for a rich diff of composite values. cmp panics on
// types it cannot introspect; a failed diff just means no extra detail.
func tryDiff(expected, actual any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	if isScalar(expected) && isScalar(actual) {
		return ""
	}
	return cmp.Diff(expected, actual)
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, complex64, complex128:
		return true
	}
	return false
}
