// File: internal/concurrency/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Busy-wait helper shared by the lock-free queues and the ring claim strategies.

package concurrency

import (
	"runtime"

	"github.com/valyala/fastrand"
)

const (
	// activeSpins is the number of iterations spent spinning before yielding.
	activeSpins = 64
	// yieldEvery bounds the random yield interval while still in the active phase.
	yieldEvery = 16
)

// Spinner backs off a busy-wait loop. The zero value is ready to use.
// A Spinner is owned by a single goroutine.
//
// During the first activeSpins iterations it yields only occasionally, with a
// random period so goroutines contending on the same slot drift apart.
// After that every call yields the processor.
type Spinner struct {
	n uint32
}

// Spin performs one backoff step.
func (s *Spinner) Spin() {
	s.n++
	if s.n > activeSpins || fastrand.Uint32n(yieldEvery) == 0 {
		runtime.Gosched()
	}
}

// Count returns the number of Spin calls since the last Reset.
func (s *Spinner) Count() uint32 {
	return s.n
}

// Reset returns the spinner to its initial phase.
func (s *Spinner) Reset() {
	s.n = 0
}

// SpinUntil spins until cond reports true.
func SpinUntil(cond func() bool) {
	var s Spinner
	for !cond() {
		s.Spin()
	}
}
