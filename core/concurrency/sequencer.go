// File: core/concurrency/sequencer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync"

// Sequencer is a monotonic counter that goroutines can wait on. It serializes
// work in a fixed order: holder k waits for value k, acts, then calls Next.
type Sequencer struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value uint64
}

// NewSequencer creates a sequencer starting at v.
func NewSequencer(v uint64) *Sequencer {
	s := &Sequencer{value: v}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// WaitFor blocks until the counter equals v.
func (s *Sequencer) WaitFor(v uint64) {
	s.mu.Lock()
	for s.value != v {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Value returns the counter.
func (s *Sequencer) Value() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next advances the counter by one.
func (s *Sequencer) Next() { s.Advance(1) }

// Advance adds n to the counter and wakes waiters.
func (s *Sequencer) Advance(n uint64) {
	s.mu.Lock()
	s.value += n
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Reset sets the counter to n and wakes waiters.
func (s *Sequencer) Reset(n uint64) {
	s.mu.Lock()
	s.value = n
	s.cond.Broadcast()
	s.mu.Unlock()
}
