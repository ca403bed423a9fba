// Package check adapts the comparison engines to the standard testing
// framework. Each helper obtains a verdict, applies the negation flag at a
// single decision point, and reports failures through the report renderer.
//
// Negation never changes how a verdict is computed. A Match under a negated
// check is itself the failure; any difference under a negated check is
// success. The fluent chaining surface of a full assertion library is out
// of scope; these helpers are the minimal host adapter the engines need.
package check

import (
	"testing"

	"github.com/amandengue/nfluent/report"
	"github.com/amandengue/nfluent/sequence"
	"github.com/amandengue/nfluent/structural"
)

// DeepEqual fails t unless actual structurally equals expected.
func DeepEqual(t testing.TB, actual, expected any) bool {
	t.Helper()
	return equality(t, structural.Compare(expected, actual), false)
}

// NotDeepEqual fails t if actual structurally equals expected.
func NotDeepEqual(t testing.TB, actual, expected any) bool {
	t.Helper()
	return equality(t, structural.Compare(expected, actual), true)
}

// Contains fails t unless haystack contains at least the expected elements,
// in any order, with multiset semantics.
func Contains(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsAtLeast(elements(t, haystack), expected...), false)
}

// NotContains fails t if haystack contains all the expected elements.
func NotContains(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsAtLeast(elements(t, haystack), expected...), true)
}

// ContainsExactly fails t unless haystack holds exactly the expected
// elements in exactly their order.
func ContainsExactly(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsExactly(elements(t, haystack), expected...), false)
}

// NotContainsExactly fails t if haystack holds exactly the expected
// elements in their order.
func NotContainsExactly(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsExactly(elements(t, haystack), expected...), true)
}

// ContainsOnly fails t unless every haystack element appears in the
// expected set.
func ContainsOnly(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsOnly(elements(t, haystack), expected...), false)
}

// NotContainsOnly fails t if every haystack element appears in the
// expected set.
func NotContainsOnly(t testing.TB, haystack any, expected ...any) bool {
	t.Helper()
	return membership(t, sequence.ContainsOnly(elements(t, haystack), expected...), true)
}

// equality is the one place a structural verdict meets the negation flag.
func equality(t testing.TB, v structural.Verdict, negated bool) bool {
	t.Helper()
	if pass(v.OK(), negated) {
		return true
	}
	if negated {
		t.Error("values are structurally equal; expected them to differ")
		return false
	}
	t.Error(report.Equality(v))
	return false
}

// membership is the one place a sequence verdict meets the negation flag.
func membership(t testing.TB, v sequence.Verdict, negated bool) bool {
	t.Helper()
	if pass(v.OK(), negated) {
		return true
	}
	if negated {
		t.Error("sequence holds the given elements; expected it not to")
		return false
	}
	t.Error(report.Sequence(v))
	return false
}

func pass(ok, negated bool) bool {
	if negated {
		return !ok
	}
	return ok
}

func elements(t testing.TB, haystack any) []any {
	t.Helper()
	if haystack == nil {
		return nil
	}
	elems, ok := sequence.Elements(haystack)
	if !ok {
		t.Fatalf("haystack %T is not a sequence", haystack)
	}
	return elems
}
