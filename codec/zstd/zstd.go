// File: codec/zstd/zstd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// zstd compression as a client of the queue contract. Compress and
// Decompress move bytes between queues; the Stream variants put a
// LockFreeSPSC between an io.Reader and the codec so reading and
// (de)compression run on separate goroutines.

package zstd

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-cc/api"
	"github.com/momentics/hioload-cc/control"
	"github.com/momentics/hioload-cc/core/queue"
)

// Default hand-off queue sizing for the stream variants.
const (
	DefaultQueueCapacity = 256 * 1024
	DefaultCacheCapacity = 8 * 1024
)

type options struct {
	queueCapacity int
	cacheCapacity int
	level         zstd.EncoderLevel
}

// Option tunes the codec.
type Option func(*options)

// WithQueue sets the SPSC capacity and per-side cache used by the stream variants.
func WithQueue(capacity, cache int) Option {
	return func(o *options) {
		o.queueCapacity = capacity
		o.cacheCapacity = cache
	}
}

// WithQueueConfig applies the SPSC sizes from cfg. Non-positive sizes keep the defaults.
func WithQueueConfig(cfg control.QueueConfig) Option {
	return func(o *options) {
		if cfg.SPSCCapacity > 0 {
			o.queueCapacity = cfg.SPSCCapacity
		}
		if cfg.SPSCCacheSize > 0 {
			o.cacheCapacity = cfg.SPSCCacheSize
		}
	}
}

// WithLevel sets the encoder level.
func WithLevel(level zstd.EncoderLevel) Option {
	return func(o *options) { o.level = level }
}

func buildOptions(opts []Option) options {
	o := options{
		queueCapacity: DefaultQueueCapacity,
		cacheCapacity: DefaultCacheCapacity,
		level:         zstd.SpeedDefault,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compress reads src until its sentinel, writes the zstd frame to dst and
// pushes dst's sentinel. The sentinel is pushed on failure as well.
func Compress(src api.Consumer[byte], dst api.Producer[byte], opts ...Option) error {
	o := buildOptions(opts)
	w := queue.NewWriter(dst)
	defer w.Close()
	return compressTo(src, w, o)
}

// Decompress reads a zstd stream from src until its sentinel and pushes the
// decoded bytes followed by the sentinel to dst.
func Decompress(src api.Consumer[byte], dst api.Producer[byte]) error {
	dec, err := newDecoder(src)
	if err != nil {
		dst.PushSentinel()
		drain(src)
		return err
	}
	_, err = queue.ReadFrom(dec, dst)
	dec.Close()
	if err != nil {
		drain(src)
		return fmt.Errorf("zstd: decompress: %w", err)
	}
	return nil
}

// CompressStream compresses r into w. One goroutine reads r into an SPSC
// queue while another encodes from it.
func CompressStream(r io.Reader, w io.Writer, opts ...Option) error {
	o := buildOptions(opts)
	q := queue.NewLockFreeSPSC[byte](o.queueCapacity, o.cacheCapacity)

	var g errgroup.Group
	g.Go(func() error {
		if _, err := queue.ReadFrom(r, q); err != nil {
			return fmt.Errorf("zstd: read input: %w", err)
		}
		return nil
	})
	g.Go(func() error { return compressTo(q, w, o) })
	return g.Wait()
}

// DecompressStream decodes r into w, reading r on a separate goroutine.
func DecompressStream(r io.Reader, w io.Writer, opts ...Option) error {
	o := buildOptions(opts)
	q := queue.NewLockFreeSPSC[byte](o.queueCapacity, o.cacheCapacity)

	var g errgroup.Group
	g.Go(func() error {
		if _, err := queue.ReadFrom(r, q); err != nil {
			return fmt.Errorf("zstd: read input: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		dec, err := newDecoder(q)
		if err != nil {
			drain(q)
			return err
		}
		_, err = dec.WriteTo(w)
		dec.Close()
		if err != nil {
			drain(q)
			return fmt.Errorf("zstd: decompress: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func compressTo(src api.Consumer[byte], w io.Writer, o options) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(o.level))
	if err != nil {
		drain(src)
		return fmt.Errorf("zstd: new writer: %w", err)
	}
	_, werr := queue.WriteTo(src, enc)
	cerr := enc.Close()
	if werr != nil {
		drain(src)
	}
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("zstd: compress: %w", err)
	}
	return nil
}

// newDecoder reads src synchronously on the caller's goroutine, so src keeps
// a single consumer.
func newDecoder(src api.Consumer[byte]) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(queue.NewReader(src), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: new reader: %w", err)
	}
	return dec, nil
}

// drain discards src up to its sentinel so a blocked producer can finish.
func drain(src api.Consumer[byte]) {
	buf := make([]byte, queue.StreamChunkSize)
	for {
		if _, ok := src.PopSlice(buf); !ok {
			return
		}
	}
}
