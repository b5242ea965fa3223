package registry

import "errors"

// ErrInvalidInput is matched by errors for rejected host input, such as a
// form submission that fails validation. Nothing is applied when an event
// fails with it.
var ErrInvalidInput = errors.New("invalid input")
