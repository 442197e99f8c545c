// File: core/queue/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Glue between byte queues and io.Reader / io.Writer.

package queue

import (
	"errors"
	"io"
	"sync"

	"github.com/momentics/hioload-cc/api"
)

// StreamChunkSize is the read and write granularity of the stream glue.
const StreamChunkSize = 64 * 1024

// ReadFrom copies r into dst in StreamChunkSize pieces until EOF, then pushes
// the sentinel. The sentinel is pushed on error too, so consumers terminate.
func ReadFrom(r io.Reader, dst api.Producer[byte]) (int64, error) {
	defer dst.PushSentinel()
	buf := make([]byte, StreamChunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			dst.PushSlice(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteTo drains src into w until the sentinel is reached.
func WriteTo(src api.Consumer[byte], w io.Writer) (int64, error) {
	buf := make([]byte, StreamChunkSize)
	var total int64
	for {
		n, ok := src.PopSlice(buf)
		if n > 0 {
			m, err := w.Write(buf[:n])
			total += int64(m)
			if err != nil {
				return total, err
			}
		}
		if !ok {
			return total, nil
		}
	}
}

type consumerReader struct {
	src api.Consumer[byte]
	eof bool
}

// NewReader exposes a byte consumer as an io.Reader that returns io.EOF
// after the sentinel.
func NewReader(src api.Consumer[byte]) io.Reader {
	return &consumerReader{src: src}
}

func (r *consumerReader) Read(p []byte) (int, error) {
	if r.eof {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, ok := r.src.PopSlice(p)
	if !ok {
		r.eof = true
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n, nil
}

type producerWriter struct {
	dst    api.Producer[byte]
	once   sync.Once
	closed bool
}

// NewWriter exposes a byte producer as an io.WriteCloser. Close pushes the
// sentinel.
func NewWriter(dst api.Producer[byte]) io.WriteCloser {
	return &producerWriter{dst: dst}
}

func (w *producerWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, api.ErrClosed
	}
	w.dst.PushSlice(p)
	return len(p), nil
}

func (w *producerWriter) Close() error {
	w.once.Do(func() {
		w.closed = true
		w.dst.PushSentinel()
	})
	return nil
}
