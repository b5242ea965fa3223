package state

import (
	"errors"
	"fmt"

	"github.com/vk/mdrun/internal/value"
)

// ErrPathConflict is matched by every PathConflictError.
var ErrPathConflict = errors.New("path conflict")

// PathConflictError reports a write whose path would have to pass through an
// existing value that cannot hold the next segment.
type PathConflictError struct {
	Path   value.Path // the full path being written
	At     value.Path // the prefix holding the conflicting value
	Found  value.Kind // kind of the value found at At
	Needed value.Kind // container kind the next segment requires
}

func (e *PathConflictError) Error() string {
	return fmt.Sprintf("cannot write %s: %s holds a %s where an %s is needed", e.Path, e.At, e.Found, e.Needed)
}

// Is makes errors.Is(err, ErrPathConflict) hold.
func (e *PathConflictError) Is(target error) bool {
	return target == ErrPathConflict
}

// MaxIndex is the largest array index a write may address. Writing past
// the end pads the array with nulls, so the bound caps what one command can
// allocate.
const MaxIndex = 4095

// IndexRangeError reports a write to an array index above MaxIndex. It
// matches ErrPathConflict so callers handle both as a rejected path.
type IndexRangeError struct {
	Path  value.Path
	Index int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("cannot write %s: index %d exceeds the maximum of %d", e.Path, e.Index, MaxIndex)
}

// Is makes errors.Is(err, ErrPathConflict) hold.
func (e *IndexRangeError) Is(target error) bool {
	return target == ErrPathConflict
}
