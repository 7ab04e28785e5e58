package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownObject is wrapped by every ReferenceError.
var ErrUnknownObject = errors.New("unknown object")

// ReferenceError reports a trigger, action or motion that names an object
// missing from the table. It aborts the frame being updated.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("engine: couldn't find object with name %q", e.Name)
}

// Unwrap lets errors.Is match ErrUnknownObject.
func (e *ReferenceError) Unwrap() error {
	return ErrUnknownObject
}
