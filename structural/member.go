package structural

import (
	"reflect"
	"sort"
	"unsafe"
)

// Member describes one member of a composite value: its raw introspected
// name, the semantic name the author wrote, where that name came from, the
// owning type, and an accessor reading the member off an instance of that
// type. Descriptors are values; they hold no state beyond the resolution
// that produced them.
type Member struct {
	RawName      string
	SemanticName string
	Origin       Origin
	Owner        reflect.Type

	// Get reads the member's current value from an instance of Owner.
	// The instance must be addressable so that unexported fields can be
	// read; the comparator guarantees this.
	Get func(owner reflect.Value) reflect.Value
}

// A MemberSource enumerates the members and ancestors of composite values,
// decoupling the comparison engine from any one introspection mechanism.
type MemberSource interface {
	// Members returns the members declared directly on v's runtime type,
	// not including anything reached through ancestors. ok is false when
	// the source does not describe v as a member-bearing composite.
	Members(v reflect.Value) (members []Member, ok bool)

	// Ancestors returns the values of v's immediate ancestor types, in
	// declaration order. The resolver climbs these one level at a time.
	Ancestors(v reflect.Value) []reflect.Value
}

// StructSource enumerates struct fields through reflection. All fields are
// visible regardless of exportedness: this is a diagnostic tool, not access
// control. Embedded (anonymous) fields appear both as members, so inherited
// state is compared by recursing into them, and as ancestors, so the
// resolver can climb them when looking up a name.
type StructSource struct{}

func (StructSource) Members(v reflect.Value) ([]Member, bool) {
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	var members []Member
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		i := i
		members = append(members, Member{
			RawName: f.Name,
			Owner:   t,
			Get: func(owner reflect.Value) reflect.Value {
				return fieldValue(owner, i)
			},
		})
	}
	return members, true
}

func (StructSource) Ancestors(v reflect.Value) []reflect.Value {
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	var ancestors []reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).Anonymous {
			continue
		}
		a := fieldValue(v, i)
		for a.Kind() == reflect.Pointer && !a.IsNil() {
			a = a.Elem()
		}
		if a.Kind() == reflect.Struct {
			ancestors = append(ancestors, a)
		}
	}
	return ancestors
}

// DocumentSource enumerates the entries of decoded document trees
// (map[string]any, as produced by YAML or JSON unmarshalling) as members.
// Keys are raw names and may carry foreign synthesized-name mangling; the
// resolver's normalization reconciles them. Document trees have no
// ancestors.
type DocumentSource struct{}

func (DocumentSource) Members(v reflect.Value) ([]Member, bool) {
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	members := make([]Member, 0, len(keys))
	for _, k := range keys {
		k := k
		members = append(members, Member{
			RawName: k.String(),
			Owner:   v.Type(),
			Get: func(owner reflect.Value) reflect.Value {
				return owner.MapIndex(k)
			},
		})
	}
	return members, true
}

func (DocumentSource) Ancestors(reflect.Value) []reflect.Value { return nil }

// fieldValue reads field i of an addressable struct value, laundering the
// read-only flag reflect puts on unexported fields so the value can be
// compared and reported.
func fieldValue(structVal reflect.Value, i int) reflect.Value {
	f := structVal.Field(i)
	if f.CanInterface() {
		return f
	}
	if !f.CanAddr() {
		// Not addressable: fall back to a copy through a fresh struct.
		tmp := reflect.New(structVal.Type()).Elem()
		tmp.Set(structVal)
		f = tmp.Field(i)
	}
	return launder(f)
}

// launder strips the read-only flag from an addressable value.
func launder(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// addressable returns v itself if addressable, or an addressable copy.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}
