package expr

import (
	"github.com/vk/mdrun/internal/value"
)

// Scope resolves variable references during evaluation. A *value.Object
// snapshot is wrapped with SnapshotScope.
type Scope interface {
	Lookup(p value.Path) value.Value
}

// SnapshotScope resolves paths against an immutable snapshot.
type SnapshotScope struct {
	Root *value.Object
}

// Lookup walks p through the snapshot; anything missing is null.
func (s SnapshotScope) Lookup(p value.Path) value.Value {
	v, ok := s.Root.Get(p.Root)
	if !ok {
		return value.Null()
	}
	for _, seg := range p.Segments {
		if seg.IsIndex() {
			v, _ = v.AsArray().Get(seg.Index)
		} else {
			v, _ = v.AsObject().Get(seg.Key)
		}
	}
	return v
}

// Eval evaluates e against scope. It is a pure function of its inputs and
// never fails.
func Eval(e Expr, scope Scope) value.Value {
	switch n := e.(type) {
	case *Literal:
		return n.Value
	case *Ref:
		if scope == nil {
			return value.Null()
		}
		return scope.Lookup(n.Path)
	case *Not:
		return value.Bool(!Eval(n.X, scope).Truthy())
	case *Logical:
		l := Eval(n.L, scope).Truthy()
		if n.Op == OpAnd {
			return value.Bool(l && Eval(n.R, scope).Truthy())
		}
		return value.Bool(l || Eval(n.R, scope).Truthy())
	case *Compare:
		return value.Bool(compare(n.Op, Eval(n.L, scope), Eval(n.R, scope)))
	}
	return value.Null()
}

// Test evaluates e and reports its truthiness.
func Test(e Expr, scope Scope) bool {
	return Eval(e, scope).Truthy()
}

// compare applies op without implicit coercion.
func compare(op Op, l, r value.Value) bool {
	switch op {
	case OpEq, OpNe:
		if l.IsNull() || r.IsNull() {
			eq := l.IsNull() && r.IsNull()
			if op == OpEq {
				return eq
			}
			return !eq
		}
		if l.Kind() != r.Kind() {
			return false
		}
		if op == OpEq {
			return l.Equal(r)
		}
		return !l.Equal(r)
	}

	if ln, ok := l.AsNumber(); ok {
		rn, ok := r.AsNumber()
		if !ok {
			return false
		}
		return order(op, cmpNumber(ln, rn))
	}
	if ls, ok := l.AsString(); ok {
		rs, ok := r.AsString()
		if !ok {
			return false
		}
		return order(op, cmpString(ls, rs))
	}
	return false
}

func order(op Op, c int) bool {
	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}

func cmpNumber(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
