// File: core/concurrency/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Goroutine-backed tasks whose result, or recovered panic, is collected
// by the owner.

package concurrency

import "sync"

type taskResult[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newTaskResult[T any]() *taskResult[T] {
	return &taskResult[T]{done: make(chan struct{})}
}

func (r *taskResult[T]) run(fn func() (T, error)) {
	defer close(r.done)
	defer func() {
		if p := recover(); p != nil {
			r.err = &PanicError{Value: p}
		}
	}()
	r.value, r.err = fn()
}

// ScopedTask runs a function on its own goroutine from construction.
type ScopedTask[T any] struct {
	res *taskResult[T]
}

// Go starts fn immediately.
func Go[T any](fn func() (T, error)) *ScopedTask[T] {
	t := &ScopedTask[T]{res: newTaskResult[T]()}
	go t.res.run(fn)
	return t
}

// Wait blocks until the function returns.
func (t *ScopedTask[T]) Wait() { <-t.res.done }

// Done is closed when the function returns.
func (t *ScopedTask[T]) Done() <-chan struct{} { return t.res.done }

// Get waits and returns the function's result. A panic is reported as *PanicError.
func (t *ScopedTask[T]) Get() (T, error) {
	<-t.res.done
	return t.res.value, t.res.err
}

// DeferredTask holds a function that runs on its own goroutine once Start is called.
type DeferredTask[T any] struct {
	mu      sync.Mutex
	fn      func() (T, error)
	res     *taskResult[T]
	started bool
}

// NewDeferredTask creates a task for fn; fn may be nil and assigned later.
func NewDeferredTask[T any](fn func() (T, error)) *DeferredTask[T] {
	return &DeferredTask[T]{fn: fn}
}

// Assign replaces the function to run. It has no effect after Start.
func (t *DeferredTask[T]) Assign(fn func() (T, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		t.fn = fn
	}
}

// Start launches the assigned function. Later calls do nothing; without a
// function it does nothing either.
func (t *DeferredTask[T]) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.fn == nil {
		return
	}
	t.started = true
	t.res = newTaskResult[T]()
	go t.res.run(t.fn)
}

// StartWith assigns fn and starts it.
func (t *DeferredTask[T]) StartWith(fn func() (T, error)) {
	t.Assign(fn)
	t.Start()
}

// Wait blocks until the started function returns; it returns immediately
// if the task never started.
func (t *DeferredTask[T]) Wait() {
	if res := t.result(); res != nil {
		<-res.done
	}
}

// Get waits for the result. It returns ErrTaskNotStarted if Start never ran.
func (t *DeferredTask[T]) Get() (T, error) {
	res := t.result()
	if res == nil {
		var zero T
		return zero, ErrTaskNotStarted
	}
	<-res.done
	return res.value, res.err
}

func (t *DeferredTask[T]) result() *taskResult[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.res
}
