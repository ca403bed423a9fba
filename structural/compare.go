// Package structural compares two arbitrary object graphs member by member.
//
// The comparator walks the members of the actual value's runtime type,
// resolves each member's counterpart on the expected value's type hierarchy
// (normalizing compiler-synthesized member names along the way), compares
// leaf values by value equality and recurses into composites. It stops at
// the first difference and returns it as a structured Verdict; it never
// formats messages or decides pass/fail. Negation in particular is not its
// concern: callers that assert "must differ" obtain the ordinary verdict
// and invert its interpretation at their own single decision point.
package structural

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/amandengue/nfluent/internal/leafeq"
)

// Comparator is a configured structural equality engine. It holds no state
// across calls; concurrent use on disjoint inputs needs no coordination.
type Comparator struct {
	src         MemberSource
	recognizers []Recognizer
	maxDepth    int
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithMemberSource swaps the introspection mechanism. The default
// enumerates struct fields; DocumentSource enumerates decoded map trees.
func WithMemberSource(src MemberSource) Option {
	return func(c *Comparator) { c.src = src }
}

// WithRecognizers replaces the synthesized-name recognizer chain. Passing
// an empty chain disables name demangling entirely.
func WithRecognizers(recognizers ...Recognizer) Option {
	return func(c *Comparator) { c.recognizers = recognizers }
}

// WithMaxDepth bounds recursion depth; 0 means unbounded. Graph cycles are
// already converted to Cycle verdicts independently of this limit.
func WithMaxDepth(depth int) Option {
	return func(c *Comparator) { c.maxDepth = depth }
}

// New returns a Comparator with the given options applied over defaults.
func New(opts ...Option) *Comparator {
	c := &Comparator{
		src:         StructSource{},
		recognizers: DefaultRecognizers(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultComparator = New()

// Compare walks expected and actual with the default comparator.
func Compare(expected, actual any) Verdict {
	return defaultComparator.Compare(expected, actual)
}

// visit identifies a pair of instances currently being compared on the
// recursion stack.
type visit struct {
	expected, actual uintptr
}

// Compare returns the verdict of walking expected and actual member by
// member. Exactly one verdict is produced; the walk short-circuits at the
// first difference.
func (c *Comparator) Compare(expected, actual any) Verdict {
	return c.compare(nil, reflect.ValueOf(expected), reflect.ValueOf(actual), make(map[visit]bool), 0)
}

func (c *Comparator) compare(path Path, expected, actual reflect.Value, seen map[visit]bool, depth int) Verdict {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return Cycle{Path: path}
	}

	// An absent expected value matches exactly an absent actual value.
	if absent(expected) || absent(actual) {
		if absent(expected) && absent(actual) {
			return Match{}
		}
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "one value is absent"}
	}

	// Guard self-referential graphs: a pair already on the stack means the
	// walk has come back around to where it started.
	if guarded, key := visitKey(expected, actual); guarded {
		if seen[key] {
			return Cycle{Path: path}
		}
		seen[key] = true
		defer delete(seen, key)
	}

	expected, actual = deref(expected), deref(actual)
	if absent(expected) || absent(actual) {
		if absent(expected) && absent(actual) {
			return Match{}
		}
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "one value is absent"}
	}

	// Value-type short circuit: types with meaningful value equality are
	// compared directly, never recursed into.
	if leafeq.Leaf(expected.Type()) {
		if !leafeq.Leaf(actual.Type()) {
			return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "kinds differ"}
		}
		if leafeq.Equal(expected, actual) {
			return Match{}
		}
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "values differ"}
	}

	if members, ok := c.members(actual); ok {
		return c.compareMembers(path, expected, actual, members, seen, depth)
	}

	switch actual.Kind() {
	case reflect.Slice, reflect.Array:
		return c.compareSequence(path, expected, actual, seen, depth)
	case reflect.Map:
		return c.compareMap(path, expected, actual, seen, depth)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return c.compareIdentity(path, expected, actual)
	}

	// No members, not a builtin composite: last resort value comparison.
	if leafeq.EqualAny(describe(expected), describe(actual)) {
		return Match{}
	}
	return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "values differ"}
}

// compareIdentity handles kinds that carry only identity equality: funcs,
// channels and unsafe pointers. The same instance on both sides matches;
// anything else is a difference, reported rather than recursed into.
func (c *Comparator) compareIdentity(path Path, expected, actual reflect.Value) Verdict {
	if expected.Kind() != actual.Kind() {
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "kinds differ"}
	}
	if expected.Pointer() == actual.Pointer() {
		return Match{}
	}
	return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "identities differ"}
}

// compareMembers is the member walk of the engine: for each member declared
// on actual's runtime type, resolve the counterpart on expected, check
// absence, compare leaves, recurse into composites. First difference wins.
func (c *Comparator) compareMembers(path Path, expected, actual reflect.Value, members []Member, seen map[visit]bool, depth int) Verdict {
	actual = addressable(actual)
	expected = addressable(expected)
	for _, m := range members {
		counterpart, ok := c.resolve(expected, m.RawName)
		if !ok {
			return MissingMember{Path: path, Member: m.SemanticName}
		}
		expectedValue := counterpart.Value()
		actualValue := m.Get(actual)
		verdict := c.compare(path.child(m.SemanticName), expectedValue, actualValue, seen, depth+1)
		if !verdict.OK() {
			return verdict
		}
	}
	return Match{}
}

func (c *Comparator) compareSequence(path Path, expected, actual reflect.Value, seen map[visit]bool, depth int) Verdict {
	if expected.Kind() != reflect.Slice && expected.Kind() != reflect.Array {
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "kinds differ"}
	}
	if expected.Len() != actual.Len() {
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "lengths differ"}
	}
	for i := 0; i < actual.Len(); i++ {
		verdict := c.compare(path.index(i), expected.Index(i), actual.Index(i), seen, depth+1)
		if !verdict.OK() {
			return verdict
		}
	}
	return Match{}
}

// compareMap walks the keys present on the actual map, mirroring the
// member walk: a key with no counterpart on expected is a missing member,
// matching values continue the scan.
func (c *Comparator) compareMap(path Path, expected, actual reflect.Value, seen map[visit]bool, depth int) Verdict {
	if expected.Kind() != reflect.Map {
		return Mismatch{Path: path, Expected: describe(expected), Actual: describe(actual), Reason: "kinds differ"}
	}
	keys := actual.MapKeys()
	sortKeys(keys)
	for _, k := range keys {
		expectedValue := expected.MapIndex(k)
		if !expectedValue.IsValid() {
			return MissingMember{Path: path, Member: keyLabel(k)}
		}
		verdict := c.compare(path.key(describe(k)), expectedValue, actual.MapIndex(k), seen, depth+1)
		if !verdict.OK() {
			return verdict
		}
	}
	return Match{}
}

// absent reports whether v is no value at all: invalid, or a nil pointer,
// interface, map or slice.
func absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// visitKey builds a stack guard key for the pair when both sides have a
// stable identity to track. Plain values (structs held by value, scalars)
// cannot cycle and are not tracked.
func visitKey(expected, actual reflect.Value) (bool, visit) {
	ep, ok := pointerOf(expected)
	if !ok {
		return false, visit{}
	}
	ap, ok := pointerOf(actual)
	if !ok {
		return false, visit{}
	}
	return true, visit{expected: ep, actual: ap}
}

func pointerOf(v reflect.Value) (uintptr, bool) {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return 0, false
		}
		return v.Pointer(), true
	}
	return 0, false
}

// describe extracts a reportable value, tolerating invalid values and
// values read from unexported fields.
func describe(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	v = launder(v)
	if v.CanInterface() {
		return v.Interface()
	}
	return fmt.Sprintf("%v", v)
}

func keyLabel(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprintf("%v", describe(k))
}

func sortKeys(keys []reflect.Value) {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", describe(keys[i])) < fmt.Sprintf("%v", describe(keys[j]))
	})
}
