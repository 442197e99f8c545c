// File: core/queue/tunnel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Zero-storage rendezvous between one producer and one consumer.

package queue

import (
	"sync/atomic"

	"github.com/momentics/hioload-cc/api"
	"github.com/momentics/hioload-cc/internal/concurrency"
)

var _ api.Queue[byte] = (*Tunnel[byte])(nil)

// request states
const (
	reqPending int32 = iota
	reqClaimed
	reqFilled
	reqRetracted
)

type tunnelRequest[T any] struct {
	dst   []T
	n     int
	state atomic.Int32
}

// Tunnel hands data from the producer directly into the consumer's buffer.
// The consumer publishes its destination; the producer copies into it.
// Both sides spin while waiting for the other.
type Tunnel[T any] struct {
	req      atomic.Pointer[tunnelRequest[T]]
	terminal atomic.Bool
}

// NewTunnel creates an idle tunnel.
func NewTunnel[T any]() *Tunnel[T] {
	return &Tunnel[T]{}
}

// PopSlice publishes dst and waits until the producer fills it or the
// sentinel is pushed.
func (t *Tunnel[T]) PopSlice(dst []T) (int, bool) {
	if len(dst) == 0 {
		return 0, !t.terminal.Load()
	}
	r := &tunnelRequest[T]{dst: dst}
	t.req.Store(r)
	var sp concurrency.Spinner
	for {
		// A filled request wins over the sentinel so no data is lost.
		if r.state.Load() == reqFilled {
			return r.n, true
		}
		if t.terminal.Load() && r.state.CompareAndSwap(reqPending, reqRetracted) {
			t.req.CompareAndSwap(r, nil)
			return 0, false
		}
		sp.Spin()
	}
}

// Pop receives a single element.
func (t *Tunnel[T]) Pop() (T, bool) {
	var buf [1]T
	_, ok := t.PopSlice(buf[:])
	return buf[0], ok
}

// PushSlice blocks until every element of vs has been copied into consumer
// buffers. Elements pushed after the sentinel are dropped.
func (t *Tunnel[T]) PushSlice(vs []T) {
	var sp concurrency.Spinner
	for len(vs) > 0 {
		if t.terminal.Load() {
			return
		}
		r := t.req.Load()
		if r == nil || !r.state.CompareAndSwap(reqPending, reqClaimed) {
			sp.Spin()
			continue
		}
		sp.Reset()
		t.req.CompareAndSwap(r, nil)
		r.n = copy(r.dst, vs)
		vs = vs[r.n:]
		r.state.Store(reqFilled)
	}
}

// Push delivers a single element.
func (t *Tunnel[T]) Push(v T) {
	t.PushSlice([]T{v})
}

// PushSentinel ends the stream; a waiting consumer returns false.
func (t *Tunnel[T]) PushSentinel() {
	t.terminal.Store(true)
}
