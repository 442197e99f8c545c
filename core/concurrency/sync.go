// File: core/concurrency/sync.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync"

// Sync holds a value that goroutines can wait to take on a specific state.
type Sync[T comparable] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value T
}

// NewSync creates a Sync holding v.
func NewSync[T comparable](v T) *Sync[T] {
	s := &Sync[T]{value: v}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// WaitFor blocks until the held value equals v.
func (s *Sync[T]) WaitFor(v T) {
	s.mu.Lock()
	for s.value != v {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Get returns the held value.
func (s *Sync[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the held value and wakes waiters.
func (s *Sync[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.cond.Broadcast()
	s.mu.Unlock()
}
