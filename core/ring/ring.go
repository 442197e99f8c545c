// File: core/ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import "sync/atomic"

// Ring is a fixed power-of-two slot array addressed by sequence number.
// It performs no synchronization of its own; access is coordinated by the
// processors' cursors.
type Ring[T any] struct {
	mask uint64
	data []T
	end  atomic.Int64
}

// NewRing allocates a ring of size slots. size must be a power of two.
func NewRing[T any](size int) *Ring[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be power of 2 and > 0")
	}
	r := &Ring[T]{
		mask: uint64(size - 1),
		data: make([]T, size),
	}
	r.end.Store(FinalSequence)
	return r
}

// Size returns the number of slots.
func (r *Ring[T]) Size() int { return len(r.data) }

// At returns the slot for seq.
func (r *Ring[T]) At(seq int64) *T { return &r.data[uint64(seq)&r.mask] }

// Get returns the value stored for seq.
func (r *Ring[T]) Get(seq int64) T { return r.data[uint64(seq)&r.mask] }

// Set stores v in the slot for seq.
func (r *Ring[T]) Set(seq int64, v T) { r.data[uint64(seq)&r.mask] = v }

// End returns the terminal sequence: the first sequence that will never be
// produced. It is FinalSequence until SetEnd is called.
func (r *Ring[T]) End() int64 { return r.end.Load() }

// SetEnd records the terminal sequence.
func (r *Ring[T]) SetEnd(seq int64) { r.end.Store(seq) }
