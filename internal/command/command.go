package command

import (
	"fmt"
	"strings"

	"github.com/vk/mdrun/internal/value"
)

// Op is a command verb.
type Op string

const (
	OpSet    Op = "set"
	OpInc    Op = "inc"
	OpDec    Op = "dec"
	OpToggle Op = "toggle"
)

// Operand is the right-hand side of set, inc and dec: a literal or a
// reference that is read when the command runs.
type Operand struct {
	Literal value.Value
	Ref     *value.Path
}

// Resolve returns the operand's value. References are read through get.
func (o Operand) Resolve(get func(value.Path) value.Value) value.Value {
	if o.Ref != nil {
		return get(*o.Ref).Clone()
	}
	return o.Literal.Clone()
}

func (o Operand) String() string {
	if o.Ref != nil {
		return o.Ref.String()
	}
	return o.Literal.String()
}

// Command is one parsed line.
type Command struct {
	Op     Op
	Target value.Path
	Arg    Operand
	// Line is the 1-based line within the parsed text.
	Line int
	Raw  string
	// Err is set when the target path is malformed. Such a command is kept
	// so that execution can stop at it, after the commands before it.
	Err error
}

func (c Command) String() string {
	return strings.TrimSpace(c.Raw)
}

// Refs lists every path the command reads or writes.
func (c Command) Refs() []value.Path {
	var out []value.Path
	if !c.Target.IsZero() {
		out = append(out, c.Target)
	}
	if c.Arg.Ref != nil {
		out = append(out, *c.Arg.Ref)
	}
	return out
}

// Refs lists the paths used by a command list, without duplicates.
func Refs(cmds []Command) []value.Path {
	var out []value.Path
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, p := range c.Refs() {
			if k := p.String(); !seen[k] {
				seen[k] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseError describes a line that is not a command.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, strings.TrimSpace(e.Text))
}
