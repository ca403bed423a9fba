package structural

import (
	"fmt"
	"strings"
)

// Path locates a member relative to the comparison root, e.g. address.city
// or items[2].id. It grows by one segment per recursion level and is carried
// for diagnostics only.
type Path []string

func (p Path) child(label string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, label)
}

func (p Path) index(i int) Path {
	return p.child(fmt.Sprintf("[%d]", i))
}

func (p Path) key(k any) Path {
	return p.child(fmt.Sprintf("[%v]", k))
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Verdict is the structured outcome of a comparison. It states what was
// found, not whether that is good news; interpreting a verdict as pass or
// fail (including under negation) is the caller's job.
type Verdict interface {
	// OK reports whether the comparison found no difference.
	OK() bool
}

// Match is the verdict when every member matched.
type Match struct{}

func (Match) OK() bool { return true }

// Mismatch is the first member-level difference found. Exactly one is
// produced per comparison; the walk stops at it.
type Mismatch struct {
	Path     Path
	Expected any
	Actual   any
	Reason   string
}

func (Mismatch) OK() bool { return false }

// MissingMember is produced when a member of the actual value has no
// resolvable counterpart anywhere on the expected value's type hierarchy.
type MissingMember struct {
	Path   Path
	Member string
}

func (MissingMember) OK() bool { return false }

// Cycle is produced when the walk meets a pair of instances it is already
// in the middle of comparing. Without this guard a self-referential graph
// would exhaust the stack.
type Cycle struct {
	Path Path
}

func (Cycle) OK() bool { return false }
