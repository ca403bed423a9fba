package structural

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Origin classifies where a member name came from.
type Origin int

const (
	// Ordinary is a member declared under its own name.
	Ordinary Origin = iota
	// SynthesizedAccessor is a compiler-generated backing field for an
	// auto-implemented accessor, e.g. <Name>k__BackingField.
	SynthesizedAccessor
	// SynthesizedCapture is a compiler-generated field of an anonymous
	// container or closure, e.g. <Name>i__Field.
	SynthesizedCapture
)

func (o Origin) String() string {
	switch o {
	case SynthesizedAccessor:
		return "synthesized accessor"
	case SynthesizedCapture:
		return "synthesized capture"
	default:
		return "ordinary"
	}
}

// A Recognizer maps one raw synthesized-name pattern back to the name the
// author wrote. Recognizers are tried in order; the first hit wins.
type Recognizer interface {
	Recognize(raw string) (semantic string, origin Origin, ok bool)
}

// wrapper matches names of the shape <Semantic>suffix. Matching is strict:
// a name that only partially fits the pattern is not recognized at all.
type wrapper struct {
	suffix string
	origin Origin
}

func (w wrapper) Recognize(raw string) (string, Origin, bool) {
	if !strings.HasPrefix(raw, "<") || !strings.HasSuffix(raw, w.suffix) {
		return "", Ordinary, false
	}
	inner := raw[1 : len(raw)-len(w.suffix)]
	if inner == "" || strings.ContainsAny(inner, "<>") {
		return "", Ordinary, false
	}
	return inner, w.origin, true
}

// DefaultRecognizers recognize the two synthesized-member patterns produced
// by compilers that mangle accessor backing fields and anonymous-container
// captures. On member sources that never see such names they simply never
// fire.
func DefaultRecognizers() []Recognizer {
	return []Recognizer{
		wrapper{suffix: ">k__BackingField", origin: SynthesizedAccessor},
		wrapper{suffix: ">i__Field", origin: SynthesizedCapture},
	}
}

// Normalize maps a raw member name to its semantic name and origin using the
// default recognizers. It is a pure function.
func Normalize(raw string) (semantic string, origin Origin) {
	return normalize(DefaultRecognizers(), raw)
}

func normalize(recognizers []Recognizer, raw string) (string, Origin) {
	for _, r := range recognizers {
		if semantic, origin, ok := r.Recognize(raw); ok {
			return semantic, origin
		}
	}
	return raw, Ordinary
}

// fold reduces a semantic name to a case-convention-free key, so that a Go
// field FirstName reconciles with a foreign member first_name or FirstName.
func fold(semantic string) string {
	return strcase.ToLowerCamel(semantic)
}
