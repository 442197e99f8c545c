// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-cc/api"
)

var (
	// ErrExecutorClosed indicates the executor has been terminated.
	ErrExecutorClosed = fmt.Errorf("executor is closed: %w", api.ErrClosed)

	// ErrInvalidWorkerCount indicates invalid worker count configuration.
	ErrInvalidWorkerCount = fmt.Errorf("invalid worker count: %w", api.ErrInvalidArgument)

	// ErrNilTask indicates a nil task function was submitted.
	ErrNilTask = fmt.Errorf("nil task: %w", api.ErrInvalidArgument)

	// ErrUnknownPolicy indicates an unrecognised completion policy name.
	ErrUnknownPolicy = fmt.Errorf("unknown completion policy: %w", api.ErrInvalidArgument)

	// ErrTaskNotStarted is returned by DeferredTask.Get when no function was assigned.
	ErrTaskNotStarted = errors.New("task was never started")
)

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}
