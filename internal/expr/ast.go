package expr

import (
	"fmt"

	"github.com/vk/mdrun/internal/value"
)

// Expr is a node of the immutable expression AST. The set of node types is
// closed; all of them live in this file.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

// Ref reads a variable.
type Ref struct {
	Path value.Path
}

// Not negates the truthiness of its operand.
type Not struct {
	X Expr
}

// Logical is a short-circuiting `and` or `or`.
type Logical struct {
	Op   Op
	L, R Expr
}

// Compare is a binary comparison.
type Compare struct {
	Op   Op
	L, R Expr
}

// Op names a binary operator.
type Op string

const (
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpEq  Op = "=="
	OpNe  Op = "!="
	OpLt  Op = "<"
	OpLe  Op = "<="
	OpGt  Op = ">"
	OpGe  Op = ">="
)

func (*Literal) exprNode() {}
func (*Ref) exprNode()     {}
func (*Not) exprNode()     {}
func (*Logical) exprNode() {}
func (*Compare) exprNode() {}

func (e *Literal) String() string { return e.Value.String() }
func (e *Ref) String() string     { return e.Path.String() }
func (e *Not) String() string     { return "not " + e.X.String() }

func (e *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R)
}

func (e *Compare) String() string {
	return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R)
}

// Refs returns every variable path read by e, in source order. Duplicates
// are kept out.
func Refs(e Expr) []value.Path {
	var out []value.Path
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Ref:
			for _, seen := range out {
				if seen.Equal(n.Path) {
					return
				}
			}
			out = append(out, n.Path)
		case *Not:
			walk(n.X)
		case *Logical:
			walk(n.L)
			walk(n.R)
		case *Compare:
			walk(n.L)
			walk(n.R)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}
