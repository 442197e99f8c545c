// File: core/queue/mpmc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking unbounded MPMC queue: mutex + condition variable over a growable
// ring buffer (eapache/queue).

package queue

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-cc/api"
)

var _ api.Queue[any] = (*MPMC[any])(nil)

// MPMC is an unbounded queue. Consumers sleep while it is empty.
type MPMC[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      *queue.Queue
	pushed   uint64
	popped   uint64
	sentinel uint64
}

// NewMPMC creates an empty blocking queue.
func NewMPMC[T any]() *MPMC[T] {
	q := &MPMC[T]{
		buf:      queue.New(),
		sentinel: noSentinel,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v and wakes one consumer.
func (q *MPMC[T]) Push(v T) {
	q.mu.Lock()
	if q.pushed < q.sentinel {
		q.buf.Add(v)
		q.pushed++
	}
	q.mu.Unlock()
	q.cond.Signal()
}

// PushSlice appends vs atomically with respect to other producers.
func (q *MPMC[T]) PushSlice(vs []T) {
	if len(vs) == 0 {
		return
	}
	q.mu.Lock()
	if q.pushed < q.sentinel {
		for _, v := range vs {
			q.buf.Add(v)
		}
		q.pushed += uint64(len(vs))
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// PushSentinel fixes end-of-stream at the number of elements pushed so far
// and wakes every consumer.
func (q *MPMC[T]) PushSentinel() {
	q.mu.Lock()
	if q.sentinel == noSentinel {
		q.sentinel = q.pushed
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Pop removes the oldest element, blocking while the queue is empty and the
// sentinel has not been reached.
func (q *MPMC[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Length() == 0 && q.popped < q.sentinel {
		q.cond.Wait()
	}
	if q.popped >= q.sentinel {
		var zero T
		return zero, false
	}
	return q.take(), true
}

// PopSlice blocks like Pop and then removes up to len(dst) elements.
func (q *MPMC[T]) PopSlice(dst []T) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Length() == 0 && q.popped < q.sentinel {
		q.cond.Wait()
	}
	if q.popped >= q.sentinel {
		return 0, false
	}
	n := 0
	for n < len(dst) && q.buf.Length() > 0 {
		dst[n] = q.take()
		n++
	}
	return n, true
}

// PopNoWait removes the oldest element without blocking.
func (q *MPMC[T]) PopNoWait() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.buf.Length() == 0 || q.popped >= q.sentinel {
		var zero T
		return zero, false
	}
	return q.take(), true
}

// Empty reports whether no element is buffered.
func (q *MPMC[T]) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of buffered elements.
func (q *MPMC[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

// take must be called with mu held and a non-empty buffer.
func (q *MPMC[T]) take() T {
	q.popped++
	v, _ := q.buf.Remove().(T)
	return v
}
