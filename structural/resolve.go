package structural

import "reflect"

// Resolution is the outcome of locating a member by name on a value's type
// hierarchy: the member itself plus the value that owns it (which may be an
// ancestor of the value resolution started from).
type Resolution struct {
	Member Member
	Owner  reflect.Value
}

// Value reads the resolved member off its owner.
func (r Resolution) Value() reflect.Value {
	return r.Member.Get(r.Owner)
}

// Resolve locates the member named name on instance's type or any of its
// ancestor types, using the default comparator's member source and
// recognizers. name may be a raw or a semantic name.
func Resolve(instance any, name string) (Resolution, bool) {
	v := addressable(reflect.ValueOf(instance))
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return defaultComparator.resolve(v, name)
}

// resolve implements the lookup order: exact raw-name match on the members
// declared directly on v's type, then a normalized scan of those members,
// then the same two steps one ancestor level up per recursive call until
// the hierarchy is exhausted.
func (c *Comparator) resolve(v reflect.Value, name string) (Resolution, bool) {
	members, ok := c.members(v)
	if ok {
		for _, m := range members {
			if m.RawName == name {
				return Resolution{Member: m, Owner: v}, true
			}
		}
		semantic, _ := normalize(c.recognizers, name)
		want := fold(semantic)
		for _, m := range members {
			if fold(m.SemanticName) == want {
				return Resolution{Member: m, Owner: v}, true
			}
		}
	}
	for _, ancestor := range c.src.Ancestors(v) {
		if r, ok := c.resolve(ancestor, name); ok {
			return r, true
		}
	}
	return Resolution{}, false
}

// members enumerates v's own members through the source and fills in the
// semantic name and origin of each via the recognizer chain.
func (c *Comparator) members(v reflect.Value) ([]Member, bool) {
	members, ok := c.src.Members(v)
	if !ok {
		return nil, false
	}
	for i := range members {
		members[i].SemanticName, members[i].Origin = normalize(c.recognizers, members[i].RawName)
	}
	return members, true
}
