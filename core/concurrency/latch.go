// File: core/concurrency/latch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync"

// Latch is a single-use countdown. Waiters are released when it reaches zero.
type Latch struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// NewLatch creates a latch expecting count arrivals.
func NewLatch(count int) *Latch {
	if count < 0 {
		panic("concurrency: latch count must be >= 0")
	}
	l := &Latch{count: count}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// CountDown decrements the counter by n. Going below zero panics.
func (l *Latch) CountDown(n int) {
	l.mu.Lock()
	l.decrementLocked(n)
	l.mu.Unlock()
}

// TryWait reports whether the counter has reached zero.
func (l *Latch) TryWait() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count == 0
}

// Wait blocks until the counter reaches zero.
func (l *Latch) Wait() {
	l.mu.Lock()
	for l.count > 0 {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

// ArriveAndWait counts down by one and waits.
func (l *Latch) ArriveAndWait() {
	l.mu.Lock()
	l.decrementLocked(1)
	for l.count > 0 {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

func (l *Latch) decrementLocked(n int) {
	if n > l.count {
		l.mu.Unlock()
		panic("concurrency: latch counted below zero")
	}
	l.count -= n
	if l.count == 0 {
		l.cond.Broadcast()
	}
}
