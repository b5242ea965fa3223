package value

// Object is a string-keyed map that remembers insertion order.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Len returns the number of entries. A nil Object is empty.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. New keys are appended; existing keys keep their
// position.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Range(func(k string, v Value) bool {
		out.Set(k, v.Clone())
		return true
	})
	return out
}

// Equal reports deep equality. Key order is not significant.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	equal := true
	o.Range(func(k string, v Value) bool {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			equal = false
		}
		return equal
	})
	return equal
}

// Array is an ordered sequence of values.
type Array struct {
	items []Value
}

// NewArray returns an Array holding the given items.
func NewArray(items ...Value) *Array {
	return &Array{items: append([]Value(nil), items...)}
}

// Len returns the number of items. A nil Array is empty.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Get returns the item at index i.
func (a *Array) Get(i int) (Value, bool) {
	if a == nil || i < 0 || i >= len(a.items) {
		return Null(), false
	}
	return a.items[i], true
}

// Set stores v at index i, growing the array with nulls when i is past the end.
func (a *Array) Set(i int, v Value) {
	for len(a.items) <= i {
		a.items = append(a.items, Null())
	}
	a.items[i] = v
}

// Append adds v to the end of the array.
func (a *Array) Append(v Value) {
	a.items = append(a.items, v)
}

// Items returns a shallow copy of the items.
func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	return append([]Value(nil), a.items...)
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	out := &Array{items: make([]Value, a.Len())}
	for i := 0; i < a.Len(); i++ {
		out.items[i] = a.items[i].Clone()
	}
	return out
}

// Equal reports element-wise deep equality.
func (a *Array) Equal(other *Array) bool {
	if a.Len() != other.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !a.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}
