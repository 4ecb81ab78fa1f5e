package agent

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned when a request carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// UnsupportedOperationError is returned by the executor for operations
// other than create.
type UnsupportedOperationError struct {
	Operation ActionOperation
	Type      ActionType
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q for %s actions: only create is executed", e.Operation, e.Type)
}

// UnknownActionTypeError is returned by the executor when an action's
// type does not map to any collaborator.
type UnknownActionTypeError struct {
	Type ActionType
}

func (e *UnknownActionTypeError) Error() string {
	return fmt.Sprintf("unknown action type %q", e.Type)
}
