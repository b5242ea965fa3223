package expr

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every SyntaxError.
var ErrSyntax = errors.New("expression syntax error")

// SyntaxError describes why an expression could not be tokenized or parsed.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Msg, e.Pos, e.Source)
}

// Is makes errors.Is(err, ErrSyntax) hold.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
