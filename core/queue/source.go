// File: core/queue/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package queue

import "github.com/momentics/hioload-cc/api"

var _ api.Consumer[byte] = (*Source[byte])(nil)

// Source is a read-only consumer over existing storage. It reaches its
// sentinel when the storage is exhausted. Not safe for concurrent use.
type Source[T any] struct {
	data []T
	pos  int
}

// NewSource wraps data without copying it.
func NewSource[T any](data []T) *Source[T] {
	return &Source[T]{data: data}
}

// NewStringSource exposes the bytes of s as a Source.
func NewStringSource(s string) *Source[byte] {
	return NewSource([]byte(s))
}

// Empty reports whether every element has been consumed.
func (s *Source[T]) Empty() bool { return s.pos == len(s.data) }

// Active reports whether elements remain.
func (s *Source[T]) Active() bool { return s.pos < len(s.data) }

// Remaining returns the number of unconsumed elements.
func (s *Source[T]) Remaining() int { return len(s.data) - s.pos }

// Pop returns the next element.
func (s *Source[T]) Pop() (T, bool) {
	if s.pos == len(s.data) {
		var zero T
		return zero, false
	}
	v := s.data[s.pos]
	s.pos++
	return v, true
}

// PopSlice copies up to len(dst) elements.
func (s *Source[T]) PopSlice(dst []T) (int, bool) {
	if s.pos == len(s.data) {
		return 0, false
	}
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	return n, true
}
