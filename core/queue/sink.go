// File: core/queue/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package queue

import "github.com/momentics/hioload-cc/api"

var _ api.Producer[byte] = (*Sink[byte])(nil)

// Sink is an append-only producer that collects everything pushed before
// its sentinel. Not safe for concurrent use.
type Sink[T any] struct {
	data   []T
	closed bool
}

// NewSink creates a sink with room for reserve elements.
func NewSink[T any](reserve int) *Sink[T] {
	return &Sink[T]{data: make([]T, 0, max(reserve, 0))}
}

// Push appends v unless the sink is closed.
func (s *Sink[T]) Push(v T) {
	if !s.closed {
		s.data = append(s.data, v)
	}
}

// PushSlice appends vs unless the sink is closed.
func (s *Sink[T]) PushSlice(vs []T) {
	if !s.closed {
		s.data = append(s.data, vs...)
	}
}

// PushSentinel closes the sink.
func (s *Sink[T]) PushSentinel() { s.closed = true }

// Data returns the collected elements. The slice aliases internal storage.
func (s *Sink[T]) Data() []T { return s.data }

// Len returns the number of collected elements.
func (s *Sink[T]) Len() int { return len(s.data) }

// Empty reports whether nothing was collected.
func (s *Sink[T]) Empty() bool { return len(s.data) == 0 }

// Closed reports whether the sentinel was pushed.
func (s *Sink[T]) Closed() bool { return s.closed }
