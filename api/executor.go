// Package api
// Author: momentics
//
// Executor contract for pooled task dispatch with completion tracking.

package api

// Executor abstracts a worker pool that tracks tasks by identifier.
type Executor interface {
	// Submit schedules task and returns its identifier.
	Submit(task func()) (uint64, error)

	// SubmitWithCompletion schedules task followed by completion.
	SubmitWithCompletion(task, completion func()) (uint64, error)

	// Wait blocks until no task is waiting or active.
	Wait()

	// WaitFor blocks until the task with the given id has completed.
	WaitFor(id uint64)

	// Terminate drains the queue and joins all workers.
	Terminate()

	// NumWorkers returns the number of worker routines.
	NumWorkers() int
}
