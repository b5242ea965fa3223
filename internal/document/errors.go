package document

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

var (
	// ErrUnterminatedFence is reported when a fence is never closed.
	ErrUnterminatedFence = errors.New("unterminated fence")
	// ErrOrphanElse is reported when an else block does not directly follow an if block.
	ErrOrphanElse = errors.New("else without a preceding if")
)

// LoadError is a fatal scan failure. It is the only error Scan returns.
type LoadError struct {
	Range  hcl.Range
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Range, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
