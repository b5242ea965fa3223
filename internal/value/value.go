package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsContainer reports whether the kind is Object or Array.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// Value is a dynamically typed runtime value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  *Object
	arr  *Array
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int is a convenience wrapper around Number.
func Int(n int) Value { return Number(float64(n)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromObject wraps an Object. A nil Object yields an empty one.
func FromObject(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// FromArray wraps an Array. A nil Array yields an empty one.
func FromArray(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{kind: KindArray, arr: a}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string held by v and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsObject returns the Object held by v, or nil.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// AsArray returns the Array held by v, or nil.
func (v Value) AsArray() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Clone returns a deep copy of v. Scalars are returned as-is.
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		return FromObject(v.obj.Clone())
	case KindArray:
		return FromArray(v.arr.Clone())
	default:
		return v
	}
}

// Equal reports deep equality. Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindObject:
		return v.obj.Equal(o.obj)
	case KindArray:
		return v.arr.Equal(o.arr)
	}
	return false
}

// Truthy reports the boolean interpretation of v: null, false, 0, "" and
// empty containers are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	case KindObject:
		return v.obj.Len() > 0
	case KindArray:
		return v.arr.Len() > 0
	default:
		return false
	}
}

// Text renders v the way it appears when interpolated into document text.
// Null renders as the empty string; containers render as JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.n)
	case KindString:
		return v.s
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// String implements fmt.Stringer with a literal-style rendering: strings are
// quoted, null is spelled out.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.s)
	default:
		return v.Text()
	}
}

// FormatNumber prints integral numbers without a fractional part.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if strings.Contains(s, "e") {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return s
}
