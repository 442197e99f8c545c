// File: core/queue/lockfree_mpmc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded lock-free MPMC queue. Each slot carries a turn counter encoding
// (generation, phase): 2g means empty for generation g, 2g+1 means full.

package queue

import (
	"math"
	"math/bits"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-cc/api"
	"github.com/momentics/hioload-cc/internal/concurrency"
)

// Ensure compile-time interface compliance.
var _ api.Queue[any] = (*LockFreeMPMC[any])(nil)

const noSentinel = math.MaxUint64

type turnSlot[T any] struct {
	turn atomic.Uint64
	_    cpu.CacheLinePad
	val  T
}

// LockFreeMPMC is a bounded queue safe for any number of producer and
// consumer goroutines. Blocking operations spin; Try variants never block.
type LockFreeMPMC[T any] struct {
	_        cpu.CacheLinePad
	mask     uint64
	shift    uint
	capacity uint64
	slots    []turnSlot[T]
	_        cpu.CacheLinePad
	head     atomic.Uint64 // next index to produce
	_        cpu.CacheLinePad
	tail     atomic.Uint64 // next index to consume
	_        cpu.CacheLinePad
	sentinel atomic.Uint64
	_        cpu.CacheLinePad
}

// NewLockFreeMPMC creates a queue. capacity must be a power of two.
func NewLockFreeMPMC[T any](capacity uint64) *LockFreeMPMC[T] {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic("queue: mpmc capacity must be power of 2 and > 0")
	}
	q := &LockFreeMPMC[T]{
		mask:     capacity - 1,
		shift:    uint(bits.TrailingZeros64(capacity)),
		capacity: capacity,
		slots:    make([]turnSlot[T], capacity),
	}
	q.sentinel.Store(noSentinel)
	return q
}

func (q *LockFreeMPMC[T]) idx(i uint64) uint64  { return i & q.mask }
func (q *LockFreeMPMC[T]) turn(i uint64) uint64 { return i >> q.shift }

// Emplace reserves the next slot and lets fill construct the element in place.
// It spins while the slot still belongs to a previous generation.
func (q *LockFreeMPMC[T]) Emplace(fill func(*T)) {
	head := q.head.Add(1) - 1
	s := &q.slots[q.idx(head)]
	want := q.turn(head) * 2
	var sp concurrency.Spinner
	for s.turn.Load() != want {
		sp.Spin()
	}
	fill(&s.val)
	s.turn.Store(want + 1)
}

// Push appends v, spinning while the queue is full.
func (q *LockFreeMPMC[T]) Push(v T) {
	q.Emplace(func(p *T) { *p = v })
}

// PushSlice appends every element of vs. Elements from concurrent producers
// may interleave with them.
func (q *LockFreeMPMC[T]) PushSlice(vs []T) {
	for _, v := range vs {
		q.Push(v)
	}
}

// TryEmplace is the non-blocking Emplace. It returns false if the queue is full.
func (q *LockFreeMPMC[T]) TryEmplace(fill func(*T)) bool {
	head := q.head.Load()
	for {
		s := &q.slots[q.idx(head)]
		want := q.turn(head) * 2
		if s.turn.Load() == want {
			if q.head.CompareAndSwap(head, head+1) {
				fill(&s.val)
				s.turn.Store(want + 1)
				return true
			}
			head = q.head.Load()
			continue
		}
		prev := head
		head = q.head.Load()
		if head == prev {
			return false
		}
	}
}

// TryPush appends v unless the queue is full.
func (q *LockFreeMPMC[T]) TryPush(v T) bool {
	return q.TryEmplace(func(p *T) { *p = v })
}

// PushSentinel marks the current head as end-of-stream. Only the first call
// has an effect.
func (q *LockFreeMPMC[T]) PushSentinel() {
	q.sentinel.CompareAndSwap(noSentinel, q.head.Load())
}

// Pop removes the next element, spinning until one is published.
// It returns false once the sentinel index has been reached.
func (q *LockFreeMPMC[T]) Pop() (T, bool) {
	var zero T
	tail := q.tail.Add(1) - 1
	s := &q.slots[q.idx(tail)]
	want := q.turn(tail)*2 + 1
	var sp concurrency.Spinner
	for s.turn.Load() != want {
		if tail >= q.sentinel.Load() {
			return zero, false
		}
		sp.Spin()
	}
	// A slot filled after the sentinel was set is not delivered.
	if tail >= q.sentinel.Load() {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.turn.Store(want + 1)
	return v, true
}

// PopSlice pops one element into dst[0]; with several consumers a batch
// cannot be taken atomically.
func (q *LockFreeMPMC[T]) PopSlice(dst []T) (int, bool) {
	if len(dst) == 0 {
		return 0, true
	}
	v, ok := q.Pop()
	if !ok {
		return 0, false
	}
	dst[0] = v
	return 1, true
}

// TryPop removes the next element if one is ready.
func (q *LockFreeMPMC[T]) TryPop() (T, bool) {
	var zero T
	tail := q.tail.Load()
	for {
		s := &q.slots[q.idx(tail)]
		want := q.turn(tail)*2 + 1
		if s.turn.Load() == want {
			if tail >= q.sentinel.Load() {
				return zero, false
			}
			if q.tail.CompareAndSwap(tail, tail+1) {
				v := s.val
				s.val = zero
				s.turn.Store(want + 1)
				return v, true
			}
			tail = q.tail.Load()
			continue
		}
		prev := tail
		tail = q.tail.Load()
		if tail == prev {
			return zero, false
		}
	}
}

// Len returns an approximate number of queued elements.
func (q *LockFreeMPMC[T]) Len() int {
	head, tail := q.head.Load(), q.tail.Load()
	if tail >= head {
		return 0
	}
	return int(head - tail)
}

// Cap returns the fixed queue capacity.
func (q *LockFreeMPMC[T]) Cap() int {
	return int(q.capacity)
}

// Sentinel returns the sentinel index and whether it has been set.
func (q *LockFreeMPMC[T]) Sentinel() (uint64, bool) {
	s := q.sentinel.Load()
	return s, s != noSentinel
}
