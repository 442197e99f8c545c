// File: core/ring/claim.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Claim strategies decide which sequences a producer may fill next.
//
// A claim of [start, end) is safe once
//   - every read barrier has published at least end-1, and
//   - every write barrier has published at least end-size,
// so the producer neither overtakes its upstream nor laps its downstream.

package ring

import (
	"sync/atomic"

	"github.com/momentics/hioload-cc/internal/concurrency"
)

// ClaimStrategy reserves ranges of sequence numbers for a processor.
type ClaimStrategy interface {
	// Claim reserves count sequences and spins until they are safe to fill.
	Claim(count int64, read, write Cursors) Range
	// ClaimAll reserves the largest range that is safe right now, possibly
	// empty. It never spins.
	ClaimAll(read, write Cursors) Range
	// Next returns the first sequence not yet claimed.
	Next() int64
}

// readLimit is the first sequence the read barriers do not yet cover.
// A barrier at FinalSequence imposes no limit.
func readLimit(read Cursors) int64 {
	m := read.Min()
	if m == FinalSequence {
		return FinalSequence
	}
	return m + 1
}

// writeLimit is the first sequence that would lap the write barriers.
// Saturates at FinalSequence instead of wrapping.
func writeLimit(write Cursors, size int64) int64 {
	m := write.Min()
	if m > FinalSequence-size {
		return FinalSequence
	}
	return m + size
}

func awaitBarriers(end, size int64, read, write Cursors) {
	var sp concurrency.Spinner
	for readLimit(read) < end {
		sp.Spin()
	}
	for writeLimit(write, size) < end {
		sp.Spin()
	}
}

func safeEnd(start, size int64, read, write Cursors) int64 {
	return min(start+size, readLimit(read), writeLimit(write, size))
}

// SingleThreadClaimStrategy serves a processor driven by one goroutine.
type SingleThreadClaimStrategy struct {
	size        int64
	toBeClaimed int64
}

// NewSingleThreadClaimStrategy creates a strategy for a ring of size slots.
func NewSingleThreadClaimStrategy(size int) *SingleThreadClaimStrategy {
	return &SingleThreadClaimStrategy{size: int64(size)}
}

func (s *SingleThreadClaimStrategy) Claim(count int64, read, write Cursors) Range {
	start := s.toBeClaimed
	s.toBeClaimed += count
	awaitBarriers(s.toBeClaimed, s.size, read, write)
	return Range{Start: start, End: s.toBeClaimed}
}

func (s *SingleThreadClaimStrategy) ClaimAll(read, write Cursors) Range {
	start := s.toBeClaimed
	end := safeEnd(start, s.size, read, write)
	if end <= start {
		return Range{Start: start, End: start}
	}
	s.toBeClaimed = end
	return Range{Start: start, End: end}
}

func (s *SingleThreadClaimStrategy) Next() int64 { return s.toBeClaimed }

// MultiThreadClaimStrategy lets several goroutines claim from one processor.
// Ranges are handed out atomically; they must be published in claim order
// (see Processor.PublishOrdered) so the shared cursor stays contiguous.
type MultiThreadClaimStrategy struct {
	size        int64
	toBeClaimed atomic.Int64
}

// NewMultiThreadClaimStrategy creates a strategy for a ring of size slots.
func NewMultiThreadClaimStrategy(size int) *MultiThreadClaimStrategy {
	return &MultiThreadClaimStrategy{size: int64(size)}
}

func (s *MultiThreadClaimStrategy) Claim(count int64, read, write Cursors) Range {
	end := s.toBeClaimed.Add(count)
	awaitBarriers(end, s.size, read, write)
	return Range{Start: end - count, End: end}
}

func (s *MultiThreadClaimStrategy) ClaimAll(read, write Cursors) Range {
	for {
		start := s.toBeClaimed.Load()
		end := safeEnd(start, s.size, read, write)
		if end <= start {
			return Range{Start: start, End: start}
		}
		if s.toBeClaimed.CompareAndSwap(start, end) {
			return Range{Start: start, End: end}
		}
	}
}

func (s *MultiThreadClaimStrategy) Next() int64 { return s.toBeClaimed.Load() }
