// File: core/concurrency/barrier.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync"

// Barrier is a reusable rendezvous for a fixed number of participants.
// When the last participant of a phase arrives the completion function runs
// under the barrier lock, then every waiter of that phase is released and
// the count resets for the next phase.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	threshold  int
	count      int
	generation uint64
	completion func()
}

// NewBarrier creates a barrier for count participants. completion may be nil.
func NewBarrier(count int, completion func()) *Barrier {
	if count <= 0 {
		panic("concurrency: barrier count must be > 0")
	}
	b := &Barrier{threshold: count, count: count, completion: completion}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arrive counts the caller toward the current phase without waiting.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	b.decrementLocked()
	b.mu.Unlock()
}

// Wait blocks until the current phase completes.
func (b *Barrier) Wait() {
	b.mu.Lock()
	b.waitLocked(b.generation)
	b.mu.Unlock()
}

// ArriveAndWait arrives and blocks until the phase completes.
func (b *Barrier) ArriveAndWait() {
	b.mu.Lock()
	gen := b.generation
	if !b.decrementLocked() {
		b.waitLocked(gen)
	}
	b.mu.Unlock()
}

// ArriveAndDrop arrives for the current phase and removes the caller from
// all later phases.
func (b *Barrier) ArriveAndDrop() {
	b.mu.Lock()
	b.threshold--
	b.decrementLocked()
	b.mu.Unlock()
}

// decrementLocked reports whether it completed the phase.
func (b *Barrier) decrementLocked() bool {
	b.count--
	if b.count > 0 {
		return false
	}
	if b.completion != nil {
		b.completion()
	}
	b.generation++
	b.count = b.threshold
	b.cond.Broadcast()
	return true
}

func (b *Barrier) waitLocked(gen uint64) {
	for b.generation == gen {
		b.cond.Wait()
	}
}
