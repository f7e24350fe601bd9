package tool

import (
	"errors"
	"fmt"
)

// ErrDuplicateTool is returned when registering a name that is already taken.
var ErrDuplicateTool = errors.New("tool name already registered")

// TransportError wraps a network or protocol failure while talking to a
// remote agent. The registry folds it into the response envelope like any
// other tool failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote agent %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
