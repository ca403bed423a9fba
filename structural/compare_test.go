package structural

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
)

type address struct {
	Street string
	City   string
}

type person struct {
	Name    string
	Age     int
	Address address
}

func TestCompareReflexive(t *testing.T) {
	tests := []struct {
		name string
		val  any
	}{
		{"scalar", 42},
		{"string", "hello"},
		{"flat struct", address{Street: "a", City: "b"}},
		{"nested struct", person{Name: "Ada", Age: 36, Address: address{City: "London"}}},
		{"slice", []int{1, 2, 3}},
		{"map", map[string]int{"a": 1}},
		{"nil", nil},
		{"pointer", &address{City: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := Compare(tt.val, tt.val); !v.OK() {
				t.Errorf("Compare(x, x) = %+v, want Match", v)
			}
		})
	}
}

func TestCompareSingleLeafDifference(t *testing.T) {
	expected := person{Name: "Ada", Age: 36, Address: address{Street: "s", City: "London"}}
	actual := person{Name: "Ada", Age: 36, Address: address{Street: "s", City: "Paris"}}

	v := Compare(expected, actual)
	m, ok := v.(Mismatch)
	if !ok {
		t.Fatalf("verdict = %+v, want Mismatch", v)
	}
	if got := m.Path.String(); got != "Address.City" {
		t.Errorf("path = %q, want %q", got, "Address.City")
	}
	if m.Expected != "London" || m.Actual != "Paris" {
		t.Errorf("values = (%v, %v), want (London, Paris)", m.Expected, m.Actual)
	}
}

func TestCompareStopsAtFirstDifference(t *testing.T) {
	expected := person{Name: "Ada", Age: 36}
	actual := person{Name: "Bob", Age: 40}

	v := Compare(expected, actual)
	m, ok := v.(Mismatch)
	if !ok {
		t.Fatalf("verdict = %+v, want Mismatch", v)
	}
	// Name is declared before Age; only the first difference is reported.
	if got := m.Path.String(); got != "Name" {
		t.Errorf("path = %q, want %q", got, "Name")
	}
}

func TestCompareMissingMember(t *testing.T) {
	type slim struct{ Name string }
	type wide struct {
		Name string
		Age  int
	}

	v := Compare(slim{Name: "x"}, wide{Name: "x", Age: 1})
	mm, ok := v.(MissingMember)
	if !ok {
		t.Fatalf("verdict = %+v, want MissingMember", v)
	}
	if mm.Member != "Age" {
		t.Errorf("member = %q, want %q", mm.Member, "Age")
	}
}

func TestCompareAbsentValues(t *testing.T) {
	type holder struct{ A *address }

	tests := []struct {
		name      string
		expected  any
		actual    any
		wantMatch bool
	}{
		{"both absent", holder{}, holder{}, true},
		{"expected absent, actual present", holder{}, holder{A: &address{}}, false},
		{"expected present, actual absent", holder{A: &address{}}, holder{}, false},
		{"both present and equal", holder{A: &address{City: "x"}}, holder{A: &address{City: "x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := Compare(tt.expected, tt.actual); v.OK() != tt.wantMatch {
				t.Errorf("verdict = %+v, want match=%v", v, tt.wantMatch)
			}
		})
	}
}

func TestCompareUnexportedFields(t *testing.T) {
	type secretive struct {
		visible string
		hidden  int
	}

	if v := Compare(secretive{"a", 1}, secretive{"a", 1}); !v.OK() {
		t.Errorf("equal unexported graphs: verdict = %+v, want Match", v)
	}
	v := Compare(secretive{"a", 1}, secretive{"a", 2})
	m, ok := v.(Mismatch)
	if !ok {
		t.Fatalf("verdict = %+v, want Mismatch", v)
	}
	if got := m.Path.String(); got != "hidden" {
		t.Errorf("path = %q, want %q", got, "hidden")
	}
}

func TestCompareInheritedMembers(t *testing.T) {
	// A member declared on an ancestor is found when comparing two
	// derived instances.
	d1 := derived{base: base{ID: "a"}, Name: "n"}
	d2 := derived{base: base{ID: "a"}, Name: "n"}
	if v := Compare(d1, d2); !v.OK() {
		t.Errorf("verdict = %+v, want Match", v)
	}

	d2.ID = "b"
	if v := Compare(d1, d2); v.OK() {
		t.Error("differing ancestor member not detected")
	}
}

func TestCompareLeafEqualityMethods(t *testing.T) {
	type event struct{ At time.Time }
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	instant := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	// time.Time exposes Equal; the comparator must use it instead of
	// recursing into wall/ext internals.
	if v := Compare(event{At: instant}, event{At: instant.In(berlin)}); !v.OK() {
		t.Errorf("equal instants in different zones: verdict = %+v, want Match", v)
	}
	if v := Compare(event{At: instant}, event{At: instant.Add(time.Second)}); v.OK() {
		t.Error("differing instants compared equal")
	}
}

func TestCompareDecimals(t *testing.T) {
	type price struct{ Amount *apd.Decimal }

	// 1.0 and 1.00 are the same decimal.
	if v := Compare(price{Amount: apd.New(10, -1)}, price{Amount: apd.New(100, -2)}); !v.OK() {
		t.Errorf("verdict = %+v, want Match", v)
	}
	v := Compare(price{Amount: apd.New(10, -1)}, price{Amount: apd.New(11, -1)})
	if v.OK() {
		t.Fatal("differing decimals compared equal")
	}
	if m, ok := v.(Mismatch); !ok || m.Path.String() != "Amount" {
		t.Errorf("verdict = %+v, want Mismatch at Amount", v)
	}
}

func TestCompareSequencesAndMaps(t *testing.T) {
	type bag struct {
		Tags   []string
		Counts map[string]int
	}

	a := bag{Tags: []string{"x", "y"}, Counts: map[string]int{"x": 1}}
	b := bag{Tags: []string{"x", "y"}, Counts: map[string]int{"x": 1}}
	if v := Compare(a, b); !v.OK() {
		t.Errorf("verdict = %+v, want Match", v)
	}

	b.Tags = []string{"x", "z"}
	v := Compare(a, b)
	m, ok := v.(Mismatch)
	if !ok {
		t.Fatalf("verdict = %+v, want Mismatch", v)
	}
	if got := m.Path.String(); got != "Tags[1]" {
		t.Errorf("path = %q, want %q", got, "Tags[1]")
	}

	b.Tags = a.Tags
	b.Counts = map[string]int{"x": 1, "y": 2}
	if v := Compare(a, b); v.OK() {
		t.Error("extra map key on actual not detected")
	}
}

type node struct {
	Label string
	Next  *node
}

func TestCompareCyclicGraph(t *testing.T) {
	ring := func(label string) *node {
		n := &node{Label: label}
		n.Next = n
		return n
	}

	v := Compare(ring("a"), ring("a"))
	if _, ok := v.(Cycle); !ok {
		t.Fatalf("verdict = %+v, want Cycle", v)
	}
}

func TestCompareSharedSubgraphIsNotACycle(t *testing.T) {
	shared := &address{City: "x"}
	type pair struct{ A, B *address }

	// A diamond revisits the same pointer pair off the stack; that is
	// sharing, not a cycle.
	if v := Compare(pair{shared, shared}, pair{shared, shared}); !v.OK() {
		t.Errorf("verdict = %+v, want Match", v)
	}
}

func TestCompareMaxDepth(t *testing.T) {
	deep := func() *node {
		head := &node{Label: "0"}
		cur := head
		for i := 0; i < 10; i++ {
			cur.Next = &node{Label: "n"}
			cur = cur.Next
		}
		return head
	}

	c := New(WithMaxDepth(3))
	if v := c.Compare(deep(), deep()); v.OK() {
		t.Error("depth limit not applied")
	}
	if v := Compare(deep(), deep()); !v.OK() {
		t.Errorf("unbounded comparator: verdict = %+v, want Match", v)
	}
}

func TestCompareSynthesizedDocumentMembers(t *testing.T) {
	c := New(WithMemberSource(DocumentSource{}))

	expected := map[string]any{"<City>k__BackingField": "Berlin"}
	actual := map[string]any{"City": "Berlin"}
	if v := c.Compare(expected, actual); !v.OK() {
		t.Errorf("synthesized key did not reconcile: verdict = %+v", v)
	}

	actual["City"] = "Paris"
	if v := c.Compare(expected, actual); v.OK() {
		t.Error("differing values behind reconciled names compared equal")
	}
}

func TestCompareFuncMembers(t *testing.T) {
	type handler struct {
		Name string
		Fn   func()
	}
	named := func() {}
	other := func() { panic("never called") }

	// Funcs carry only identity equality; the same instance on both sides
	// must not break reflexivity.
	h := handler{Name: "h", Fn: named}
	if v := Compare(h, h); !v.OK() {
		t.Errorf("Compare(h, h) with func member = %+v, want Match", v)
	}

	v := Compare(handler{Fn: named}, handler{Fn: other})
	m, ok := v.(Mismatch)
	if !ok {
		t.Fatalf("verdict = %+v, want Mismatch", v)
	}
	if got := m.Path.String(); got != "Fn" {
		t.Errorf("path = %q, want %q", got, "Fn")
	}

	if v := Compare(handler{}, handler{}); !v.OK() {
		t.Errorf("nil func members: verdict = %+v, want Match", v)
	}
	if v := Compare(handler{}, handler{Fn: named}); v.OK() {
		t.Error("nil against non-nil func member compared equal")
	}
}

func TestCompareNumericLeaves(t *testing.T) {
	// A fractional number is never equal to an integer, whichever side
	// carries the fraction.
	if v := Compare(1, 1.9); v.OK() {
		t.Error("Compare(1, 1.9) returned Match")
	}
	if v := Compare(1.9, 1); v.OK() {
		t.Error("Compare(1.9, 1) returned Match")
	}

	type doc struct{ N any }
	if v := Compare(doc{N: 1}, doc{N: 1.9}); v.OK() {
		t.Error("fractional member compared equal to integer member")
	}
	if v := Compare(doc{N: 2}, doc{N: 2.0}); !v.OK() {
		t.Error("mathematically equal numbers of different kinds compared unequal")
	}
}

func TestCompareKindAsymmetry(t *testing.T) {
	v := Compare("text", 42)
	if v.OK() {
		t.Fatal("string and int compared equal")
	}
	if _, ok := v.(Mismatch); !ok {
		t.Errorf("verdict = %+v, want Mismatch", v)
	}
}
