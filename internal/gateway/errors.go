package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the remote reports that an id does not exist.
var ErrNotFound = errors.New("item not found")

// ValidationError means the remote rejected the payload shape.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "remote rejected payload"
	}
	return fmt.Sprintf("remote rejected payload: %s", e.Message)
}

// NetworkError wraps transport failures and 5xx responses.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
