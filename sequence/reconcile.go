// Package sequence answers membership questions over two sequences of
// elements: "does it contain at least these" (multiset), "does it contain
// exactly these in this order" (positional), and "does it contain only
// these" (set membership with excess detection).
//
// Elements are compared by whatever value equality their type provides;
// the reconciler never recurses into element internals. Each operation is
// pure and allocates its own working state, so concurrent callers need no
// coordination.
package sequence

import (
	"reflect"
	"slices"

	"github.com/amandengue/nfluent/internal/leafeq"
)

// Verdict is the structured outcome of a membership operation, produced
// once per call and not yet interpreted as pass or fail.
type Verdict interface {
	// OK reports whether the operation found everything it looked for and
	// nothing it did not.
	OK() bool
}

// AllFound is the verdict when the operation succeeded.
type AllFound struct{}

func (AllFound) OK() bool { return true }

// MissingElements carries the expected elements that found no match, as a
// multiset in order of first appearance.
type MissingElements struct {
	Elements []any
}

func (MissingElements) OK() bool { return false }

// UnexpectedElements carries the haystack elements with no counterpart in
// the expected set.
type UnexpectedElements struct {
	Elements []any
}

func (UnexpectedElements) OK() bool { return false }

// OrderMismatch is the first position where a lockstep walk diverged:
// unequal elements, or one sequence exhausted before the other. It also
// reports the malformed-input case of asserting exact contents against no
// expected collection at all.
type OrderMismatch struct {
	Index    int
	Expected any
	Actual   any
	Reason   string
}

func (OrderMismatch) OK() bool { return false }

// Elements converts a sequence value into its elements. ok is false when v
// is not a sequence. Strings are not sequences here: a string is always one
// scalar value, never a run of characters.
func Elements(v any) (elems []any, ok bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	elems = make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// Expected applies the argument disambiguation rule shared by all three
// operations: a single argument that is itself a sequence is the expected
// collection (not one expected element), a single string stays one scalar
// element, and a single nil argument means no expected collection was
// provided at all. Any other argument list is the expected elements as
// given.
func Expected(args []any) (elems []any, absent bool) {
	if len(args) != 1 {
		return args, false
	}
	if args[0] == nil {
		return nil, true
	}
	if unwrapped, ok := Elements(args[0]); ok {
		return unwrapped, false
	}
	return args, false
}

// ContainsAtLeast reports whether haystack contains every expected element,
// in any order, with multiset semantics: duplicate expectations need
// duplicate matches. Each haystack element consumes at most one remaining
// expectation.
func ContainsAtLeast(haystack []any, expected ...any) Verdict {
	needles, _ := Expected(expected)
	remaining := slices.Clone(needles)

	for _, e := range haystack {
		for i, n := range remaining {
			if leafeq.EqualAny(n, e) {
				remaining = slices.Delete(remaining, i, i+1)
				break
			}
		}
		if len(remaining) == 0 {
			break
		}
	}
	if len(remaining) == 0 {
		return AllFound{}
	}
	return MissingElements{Elements: remaining}
}

// ContainsExactly reports whether haystack holds exactly the expected
// elements in exactly their order. The walk is lockstep; the first
// divergence wins.
func ContainsExactly(haystack []any, expected ...any) Verdict {
	needles, absentExpected := Expected(expected)
	if absentExpected {
		if len(haystack) == 0 {
			return AllFound{}
		}
		return OrderMismatch{
			Index:  0,
			Actual: haystack[0],
			Reason: "expected no collection",
		}
	}

	for i := 0; i < len(haystack) || i < len(needles); i++ {
		switch {
		case i >= len(haystack):
			return OrderMismatch{Index: i, Expected: needles[i], Reason: "actual sequence exhausted"}
		case i >= len(needles):
			return OrderMismatch{Index: i, Actual: haystack[i], Reason: "expected sequence exhausted"}
		case !leafeq.EqualAny(needles[i], haystack[i]):
			return OrderMismatch{Index: i, Expected: needles[i], Actual: haystack[i], Reason: "elements differ"}
		}
	}
	return AllFound{}
}

// ContainsOnly reports whether every haystack element has an equal
// counterpart somewhere in the expected set. Membership only: an element
// appearing more often in haystack than in the expected set is not flagged;
// multiplicity is ContainsExactly's business.
func ContainsOnly(haystack []any, expected ...any) Verdict {
	needles, _ := Expected(expected)

	var unexpected []any
outer:
	for _, e := range haystack {
		for _, n := range needles {
			if leafeq.EqualAny(n, e) {
				continue outer
			}
		}
		unexpected = append(unexpected, e)
	}
	if len(unexpected) == 0 {
		return AllFound{}
	}
	return UnexpectedElements{Elements: unexpected}
}
