package state

import (
	"github.com/vk/mdrun/internal/value"
)

// Store is the variable table of one document instance. It is not safe for
// concurrent use; the owning instance serialises all access.
type Store struct {
	root    *value.Object
	changed []value.Path
}

// New returns an empty store.
func New() *Store {
	return &Store{root: value.NewObject()}
}

// Get resolves p. Missing segments, out-of-range indexes and segments that
// address the wrong kind of container all resolve to null.
func (s *Store) Get(p value.Path) value.Value {
	v, ok := s.root.Get(p.Root)
	if !ok {
		return value.Null()
	}
	for _, seg := range p.Segments {
		if seg.IsIndex() {
			v, _ = v.AsArray().Get(seg.Index)
		} else {
			v, _ = v.AsObject().Get(seg.Key)
		}
		if v.IsNull() {
			return value.Null()
		}
	}
	return v
}

// Has reports whether the top-level variable name is present.
func (s *Store) Has(name string) bool {
	return s.root.Has(name)
}

// Set writes v at p, creating intermediate containers as the path shape
// requires: a key segment creates an Object, an index segment creates an
// Array padded with nulls. If an existing value on the way is a scalar, or a
// container of the other kind, Set returns a *PathConflictError and leaves
// the store unchanged. An index above MaxIndex fails with *IndexRangeError.
func (s *Store) Set(p value.Path, v value.Value) error {
	if err := s.Check(p); err != nil {
		return err
	}

	if len(p.Segments) == 0 {
		s.root.Set(p.Root, v)
		s.markChanged(p)
		return nil
	}

	cur, ok := s.root.Get(p.Root)
	if !ok || cur.IsNull() {
		cur = newContainerFor(p.Segments[0])
		s.root.Set(p.Root, cur)
	}
	for i, seg := range p.Segments {
		last := i == len(p.Segments)-1
		var next value.Value
		if last {
			next = v
		} else {
			existing := lookup(cur, seg)
			if existing.IsNull() {
				existing = newContainerFor(p.Segments[i+1])
			}
			next = existing
		}
		if seg.IsIndex() {
			cur.AsArray().Set(seg.Index, next)
		} else {
			cur.AsObject().Set(seg.Key, next)
		}
		cur = next
	}
	s.markChanged(p)
	return nil
}

// Check walks p without mutating anything and reports the first conflict
// Set would hit, including an index beyond MaxIndex.
func (s *Store) Check(p value.Path) error {
	for _, seg := range p.Segments {
		if seg.Index > MaxIndex {
			return &IndexRangeError{Path: p, Index: seg.Index}
		}
	}

	cur, ok := s.root.Get(p.Root)
	at := value.Var(p.Root)
	for _, seg := range p.Segments {
		if !ok || cur.IsNull() {
			return nil
		}
		needed := value.KindObject
		if seg.IsIndex() {
			needed = value.KindArray
		}
		if cur.Kind() != needed {
			return &PathConflictError{Path: p, At: at, Found: cur.Kind(), Needed: needed}
		}
		cur = lookup(cur, seg)
		ok = !cur.IsNull()
		at = at.Child(seg)
	}
	return nil
}

// SetDefault assigns v to the top-level variable name unless it is already
// present. With overwrite set the value is always assigned. It reports
// whether the store was written.
func (s *Store) SetDefault(name string, v value.Value, overwrite bool) bool {
	if !overwrite && s.root.Has(name) {
		return false
	}
	s.root.Set(name, v.Clone())
	s.markChanged(value.Var(name))
	return true
}

// Snapshot returns a deep, independent copy of every variable.
func (s *Store) Snapshot() *value.Object {
	return s.root.Clone()
}

// Restore replaces the store contents with a copy of snap. Every variable in
// the old and new contents is reported as changed.
func (s *Store) Restore(snap *value.Object) {
	for _, k := range s.root.Keys() {
		s.markChanged(value.Var(k))
	}
	if snap == nil {
		s.root = value.NewObject()
		return
	}
	s.root = snap.Clone()
	for _, k := range s.root.Keys() {
		s.markChanged(value.Var(k))
	}
}

// Keys returns the top-level variable names in insertion order.
func (s *Store) Keys() []string {
	return s.root.Keys()
}

// Changed returns the paths written since the last ResetChanged.
func (s *Store) Changed() []value.Path {
	return append([]value.Path(nil), s.changed...)
}

// ResetChanged clears the change log.
func (s *Store) ResetChanged() {
	s.changed = s.changed[:0]
}

func (s *Store) markChanged(p value.Path) {
	s.changed = append(s.changed, p)
}

func lookup(v value.Value, seg value.Segment) value.Value {
	var out value.Value
	if seg.IsIndex() {
		out, _ = v.AsArray().Get(seg.Index)
	} else {
		out, _ = v.AsObject().Get(seg.Key)
	}
	return out
}

func newContainerFor(seg value.Segment) value.Value {
	if seg.IsIndex() {
		return value.FromArray(value.NewArray())
	}
	return value.FromObject(value.NewObject())
}
