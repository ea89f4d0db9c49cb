// internal/modbus/errors.go
package modbus

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the slave did not deliver the expected
	// number of bytes before the transaction deadline.
	ErrTimeout = errors.New("modbus: response timeout")

	// ErrRequest is returned for request geometry the protocol cannot carry.
	ErrRequest = errors.New("modbus: invalid request")
)

// IOError wraps a failure of the underlying byte channel.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("modbus: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
