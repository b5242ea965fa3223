package command

import (
	"fmt"

	"github.com/vk/mdrun/internal/value"
)

// Store is the part of the state store commands need.
type Store interface {
	Get(p value.Path) value.Value
	Set(p value.Path, v value.Value) error
}

// ExecError reports the command that stopped a sequence.
type ExecError struct {
	Command Command
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Command.Line, e.Command, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Apply runs cmds in order. It stops at the first failing command and
// returns how many commands were applied before it; their effects are kept.
func Apply(cmds []Command, st Store) (int, error) {
	for i, c := range cmds {
		if err := Run(c, st); err != nil {
			return i, &ExecError{Command: c, Err: err}
		}
	}
	return len(cmds), nil
}

// Run executes a single command.
func Run(c Command, st Store) error {
	if c.Err != nil {
		return c.Err
	}
	switch c.Op {
	case OpSet:
		return st.Set(c.Target, c.Arg.Resolve(st.Get))

	case OpInc, OpDec:
		delta, ok := c.Arg.Resolve(st.Get).AsNumber()
		if !ok {
			return fmt.Errorf("%s amount %s is not a number", c.Op, c.Arg)
		}
		if c.Op == OpDec {
			delta = -delta
		}
		cur := st.Get(c.Target)
		var n float64
		switch cur.Kind() {
		case value.KindNull:
		case value.KindNumber:
			n, _ = cur.AsNumber()
		default:
			return fmt.Errorf("cannot %s %s: it holds a %s", c.Op, c.Target, cur.Kind())
		}
		return st.Set(c.Target, value.Number(n+delta))

	case OpToggle:
		b, _ := st.Get(c.Target).AsBool()
		return st.Set(c.Target, value.Bool(!b))
	}
	return fmt.Errorf("unknown command %q", c.Op)
}
