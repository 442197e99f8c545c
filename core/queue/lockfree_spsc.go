// File: core/queue/lockfree_spsc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-producer/single-consumer queue tuned for byte and POD throughput.
// Each side batches through a private cache so the shared ring indices are
// touched once per cache fill instead of once per element.

package queue

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-cc/api"
	"github.com/momentics/hioload-cc/internal/concurrency"
)

var _ api.Queue[byte] = (*LockFreeSPSC[byte])(nil)

// LockFreeSPSC is safe for exactly one producer goroutine and one consumer
// goroutine. Elements become visible to the consumer when the producer cache
// fills, on Flush, or on PushSentinel.
type LockFreeSPSC[T any] struct {
	_        cpu.CacheLinePad
	capacity uint64
	ring     []T
	_        cpu.CacheLinePad
	// producer side
	pushBuf []T
	pushIdx int
	_       cpu.CacheLinePad
	head    atomic.Uint64 // total elements published to ring
	_       cpu.CacheLinePad
	terminal atomic.Uint64
	_        cpu.CacheLinePad
	tail     atomic.Uint64 // total elements taken from ring
	_        cpu.CacheLinePad
	// consumer side
	popBuf []T
	popIdx int
	popLen int
	_      cpu.CacheLinePad
}

// NewLockFreeSPSC creates a queue whose shared region holds capacity elements
// and whose per-side caches hold cacheCapacity elements each.
func NewLockFreeSPSC[T any](capacity, cacheCapacity int) *LockFreeSPSC[T] {
	if capacity <= 0 || cacheCapacity <= 0 {
		panic("queue: spsc capacity and cache capacity must be > 0")
	}
	q := &LockFreeSPSC[T]{
		capacity: uint64(capacity),
		ring:     make([]T, capacity),
		pushBuf:  make([]T, cacheCapacity),
		popBuf:   make([]T, cacheCapacity),
	}
	q.terminal.Store(noSentinel)
	return q
}

// Capacity returns the size of the shared region.
func (q *LockFreeSPSC[T]) Capacity() int { return int(q.capacity) }

// CacheCapacity returns the size of each side's cache.
func (q *LockFreeSPSC[T]) CacheCapacity() int { return len(q.pushBuf) }

// Push appends v to the producer cache, flushing when it fills.
func (q *LockFreeSPSC[T]) Push(v T) {
	q.pushBuf[q.pushIdx] = v
	q.pushIdx++
	if q.pushIdx == len(q.pushBuf) {
		q.Flush()
	}
}

// PushSlice appends vs through the producer cache.
func (q *LockFreeSPSC[T]) PushSlice(vs []T) {
	for len(vs) > 0 {
		if q.pushIdx == len(q.pushBuf) {
			q.Flush()
		}
		n := copy(q.pushBuf[q.pushIdx:], vs)
		q.pushIdx += n
		vs = vs[n:]
	}
	if q.pushIdx == len(q.pushBuf) {
		q.Flush()
	}
}

// Flush publishes the producer cache to the consumer.
func (q *LockFreeSPSC[T]) Flush() {
	if q.pushIdx == 0 {
		return
	}
	q.putToRing(q.pushBuf[:q.pushIdx])
	q.pushIdx = 0
}

// PushSentinel flushes and publishes the terminal index.
func (q *LockFreeSPSC[T]) PushSentinel() {
	q.Flush()
	q.terminal.CompareAndSwap(noSentinel, q.head.Load())
}

// Pop removes one element, spinning until data or the terminal index appears.
func (q *LockFreeSPSC[T]) Pop() (T, bool) {
	if q.popIdx == q.popLen && !q.refill() {
		var zero T
		return zero, false
	}
	v := q.popBuf[q.popIdx]
	q.popIdx++
	return v, true
}

// PopSlice copies up to len(dst) elements from the consumer cache, refilling
// it first if empty.
func (q *LockFreeSPSC[T]) PopSlice(dst []T) (int, bool) {
	if q.popIdx == q.popLen && !q.refill() {
		return 0, false
	}
	n := copy(dst, q.popBuf[q.popIdx:q.popLen])
	q.popIdx += n
	return n, true
}

// refill moves the next batch from the shared ring into the consumer cache.
func (q *LockFreeSPSC[T]) refill() bool {
	tail := q.tail.Load()
	var head uint64
	var sp concurrency.Spinner
	for {
		head = q.head.Load()
		if head != tail {
			break
		}
		if tail == q.terminal.Load() {
			return false
		}
		sp.Spin()
	}
	// Elements published after the sentinel are not delivered.
	if term := q.terminal.Load(); term < head {
		if tail >= term {
			return false
		}
		head = term
	}

	n := min(uint64(len(q.popBuf)), head-tail)
	start := tail % q.capacity
	first := min(n, q.capacity-start)
	copy(q.popBuf, q.ring[start:start+first])
	copy(q.popBuf[first:n], q.ring[:n-first])
	q.popIdx, q.popLen = 0, int(n)
	q.tail.Store(tail + n)
	return true
}

// putToRing copies src into the shared region, waiting for free space.
func (q *LockFreeSPSC[T]) putToRing(src []T) {
	head := q.head.Load()
	var sp concurrency.Spinner
	for len(src) > 0 {
		free := q.capacity - (head - q.tail.Load())
		if free == 0 {
			sp.Spin()
			continue
		}
		sp.Reset()
		n := min(uint64(len(src)), free)
		start := head % q.capacity
		first := min(n, q.capacity-start)
		copy(q.ring[start:start+first], src[:first])
		copy(q.ring[:n-first], src[first:n])
		head += n
		q.head.Store(head)
		src = src[n:]
	}
}
