// Package api
// Author: momentics@gmail.com
//
// Queue contract shared by every producer/consumer hand-off in the toolkit.

package api

// Producer is the writing half of the queue contract.
type Producer[T any] interface {
	// Push appends a single element.
	Push(v T)
	// PushSlice appends all elements of vs in order.
	PushSlice(vs []T)
	// PushSentinel marks end-of-stream. Irreversible.
	PushSentinel()
}

// Consumer is the reading half of the queue contract.
type Consumer[T any] interface {
	// Pop removes the oldest element. It returns false only after the
	// sentinel has been reached and every element before it was drained.
	Pop() (T, bool)
	// PopSlice removes up to len(dst) elements into dst and returns the count.
	// It follows the same end-of-stream rule as Pop.
	PopSlice(dst []T) (int, bool)
}

// Queue is both halves of the contract.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// SequenceBarrier is a read-only view of a monotonic sequence number.
type SequenceBarrier interface {
	Get() int64
}
