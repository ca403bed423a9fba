// Package leafeq decides when two values can be compared as leaves and
// performs that comparison.
//
// A leaf is a value whose type carries a meaningful value-equality operation:
// the comparable basic kinds, types exposing an Equal method (time.Time and
// friends), and arbitrary-precision decimals which compare through Cmp so
// that 1.0 and 1.00 are equal. Everything else is a composite that callers
// compare structurally.
package leafeq

import (
	"bytes"
	"math"
	"reflect"

	"github.com/cockroachdb/apd/v3"
)

var (
	boolType    = reflect.TypeOf(false)
	bytesType   = reflect.TypeOf([]byte(nil))
	decimalType = reflect.TypeOf(apd.Decimal{})
)

// Leaf reports whether t compares by value rather than by structural
// recursion into its members.
func Leaf(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t == decimalType || (t.Kind() == reflect.Pointer && t.Elem() == decimalType) {
		return true
	}
	if equalMethod(t) != nil {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}

// Equal compares two leaf values. Both values must be valid; nil handling is
// the caller's concern. Values of different kind families are never equal:
// numbers compare mathematically across the int, uint and float kinds, but a
// number never equals a string and nothing is coerced through lossy
// conversions, so Equal is symmetric.
func Equal(a, b reflect.Value) bool {
	if eq, ok := decimalEqual(a, b); ok {
		return eq
	}
	if m := equalMethod(a.Type()); m != nil {
		return callEqual(m, a, b)
	}
	ka, kb := a.Kind(), b.Kind()
	if numericKind(ka) && numericKind(kb) {
		return numericEqual(a, b)
	}
	switch {
	case ka == reflect.Bool && kb == reflect.Bool:
		return a.Bool() == b.Bool()
	case ka == reflect.String && kb == reflect.String:
		return a.String() == b.String()
	case ka == reflect.Complex64 || ka == reflect.Complex128:
		if kb == reflect.Complex64 || kb == reflect.Complex128 {
			return a.Complex() == b.Complex()
		}
		return false
	case ka != kb:
		return false
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// numericEqual compares two numbers exactly, whatever their kinds. Mixed
// signedness and mixed integer/float pairs go through range and integrality
// checks rather than conversions, so no value is truncated or wrapped on
// the way to the comparison.
func numericEqual(a, b reflect.Value) bool {
	switch {
	case intKind(a.Kind()) && intKind(b.Kind()):
		return a.Int() == b.Int()
	case uintKind(a.Kind()) && uintKind(b.Kind()):
		return a.Uint() == b.Uint()
	case intKind(a.Kind()) && uintKind(b.Kind()):
		return intEqualsUint(a.Int(), b.Uint())
	case uintKind(a.Kind()) && intKind(b.Kind()):
		return intEqualsUint(b.Int(), a.Uint())
	case floatKind(a.Kind()) && floatKind(b.Kind()):
		return a.Float() == b.Float()
	case floatKind(a.Kind()) && intKind(b.Kind()):
		return floatEqualsInt(a.Float(), b.Int())
	case intKind(a.Kind()) && floatKind(b.Kind()):
		return floatEqualsInt(b.Float(), a.Int())
	case floatKind(a.Kind()) && uintKind(b.Kind()):
		return floatEqualsUint(a.Float(), b.Uint())
	case uintKind(a.Kind()) && floatKind(b.Kind()):
		return floatEqualsUint(b.Float(), a.Uint())
	}
	return false
}

func intKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func uintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func floatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func intEqualsUint(i int64, u uint64) bool {
	return i >= 0 && uint64(i) == u
}

// floatEqualsInt reports whether f is exactly the integer i. Fractional
// floats and floats outside the int64 range never match; the final
// comparison converts the float, which is exact for in-range integral
// values.
func floatEqualsInt(f float64, i int64) bool {
	if f != math.Trunc(f) || f < -(1 << 63) || f >= 1<<63 {
		return false
	}
	return int64(f) == i
}

func floatEqualsUint(f float64, u uint64) bool {
	if f != math.Trunc(f) || f < 0 || f >= 1<<64 {
		return false
	}
	return uint64(f) == u
}

// EqualAny is the element equality used by the sequence reconciler. It
// handles nils, leaf comparison, byte slices, and falls back to DeepEqual
// for composites.
func EqualAny(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if Leaf(av.Type()) && Leaf(bv.Type()) {
		return Equal(av, bv)
	}
	if av.Type() == bytesType && bv.Type() == bytesType {
		return bytes.Equal(av.Bytes(), bv.Bytes())
	}
	return reflect.DeepEqual(a, b)
}

// decimalEqual compares apd decimals through Cmp, so values that differ only
// in exponent representation (1.0 vs 1.00) are equal.
func decimalEqual(a, b reflect.Value) (eq bool, ok bool) {
	ad, ok := decimalOf(a)
	if !ok {
		return false, false
	}
	bd, ok := decimalOf(b)
	if !ok {
		return false, false
	}
	return ad.Cmp(bd) == 0, true
}

func decimalOf(v reflect.Value) (*apd.Decimal, bool) {
	if v.Type() == decimalType {
		d, _ := v.Interface().(apd.Decimal)
		return &d, true
	}
	if v.Kind() == reflect.Pointer && v.Type().Elem() == decimalType {
		if v.IsNil() {
			return nil, false
		}
		d, _ := v.Interface().(*apd.Decimal)
		return d, d != nil
	}
	return nil, false
}

// equalMethod returns t's Equal method if it has the canonical shape
// func (T) Equal(T) bool, or nil.
func equalMethod(t reflect.Type) *reflect.Method {
	m, ok := t.MethodByName("Equal")
	if !ok {
		return nil
	}
	ft := m.Type
	if ft.NumIn() != 2 || ft.NumOut() != 1 {
		return nil
	}
	if ft.Out(0) != boolType {
		return nil
	}
	if !t.AssignableTo(ft.In(1)) {
		return nil
	}
	return &m
}

func callEqual(m *reflect.Method, a, b reflect.Value) bool {
	// No coercion: a type's Equal method only sees arguments it was
	// declared for.
	if !b.Type().AssignableTo(m.Type.In(1)) {
		return false
	}
	out := m.Func.Call([]reflect.Value{a, b})
	return out[0].Bool()
}
