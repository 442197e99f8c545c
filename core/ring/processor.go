// File: core/ring/processor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Processor is one pipeline stage: a cursor, a claim strategy and the
// barrier cursors that bound what it may claim.

package ring

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-cc/control"
	"github.com/momentics/hioload-cc/internal/concurrency"
)

// ProcessorState is the observable phase of a processor.
type ProcessorState int32

const (
	StateIdle ProcessorState = iota
	StateClaiming
	StateFilling
	StatePublished
)

func (s ProcessorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClaiming:
		return "claiming"
	case StateFilling:
		return "filling"
	case StatePublished:
		return "published"
	default:
		return "unknown"
	}
}

// BarrierTarget receives barrier cursors from a DependencyGraph.
type BarrierTarget interface {
	Cursor() *Cursor
	AddReadBarrier(c *Cursor)
	AddWriteBarrier(c *Cursor)
}

var _ BarrierTarget = (*Processor)(nil)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithClaimStrategy replaces the default SingleThreadClaimStrategy.
func WithClaimStrategy(s ClaimStrategy) ProcessorOption {
	return func(p *Processor) { p.strategy = s }
}

// WithMultiThreadClaims installs a MultiThreadClaimStrategy sized to the processor.
func WithMultiThreadClaims() ProcessorOption {
	return func(p *Processor) { p.strategy = NewMultiThreadClaimStrategy(int(p.size)) }
}

// WithStageMetrics reports every publish to m under the given stage name.
func WithStageMetrics(m *control.Metrics, stage string) ProcessorOption {
	return func(p *Processor) {
		p.metrics = m
		p.stage = stage
	}
}

// Processor coordinates one stage over a ring of Size slots.
// Barrier cursors must be attached before claiming starts.
type Processor struct {
	size     int64
	cursor   Cursor
	read     Cursors
	write    Cursors
	strategy ClaimStrategy
	state    atomic.Int32

	metrics *control.Metrics
	stage   string
}

// NewProcessor creates a stage for a ring of size slots.
func NewProcessor(size int, opts ...ProcessorOption) *Processor {
	if size <= 0 {
		panic("ring: processor size must be > 0")
	}
	p := &Processor{size: int64(size)}
	p.cursor.Set(InitialSequence)
	for _, opt := range opts {
		opt(p)
	}
	if p.strategy == nil {
		p.strategy = NewSingleThreadClaimStrategy(size)
	}
	return p
}

// Size returns the ring size the processor was built for.
func (p *Processor) Size() int { return int(p.size) }

// Cursor returns the processor's published position.
func (p *Processor) Cursor() *Cursor { return &p.cursor }

// ReadBarriers returns the upstream cursors.
func (p *Processor) ReadBarriers() Cursors { return p.read }

// WriteBarriers returns the downstream cursors.
func (p *Processor) WriteBarriers() Cursors { return p.write }

// AddReadBarrier bounds claims by c: nothing beyond c may be claimed.
func (p *Processor) AddReadBarrier(c *Cursor) { p.read = append(p.read, c) }

// AddWriteBarrier bounds claims by c+Size so downstream is never lapped.
func (p *Processor) AddWriteBarrier(c *Cursor) { p.write = append(p.write, c) }

// State returns the current phase.
func (p *Processor) State() ProcessorState { return ProcessorState(p.state.Load()) }

// ClaimOne blocks until a single sequence can be claimed and returns it.
func (p *Processor) ClaimOne() int64 { return p.Claim(1).Start }

// Claim blocks until count sequences can be claimed. With write barriers
// attached at most Size()-1 sequences fit in one claim; larger counts panic.
func (p *Processor) Claim(count int64) Range {
	if count >= p.size && len(p.write) > 0 {
		panic(fmt.Sprintf("ring: claim of %d exceeds %d slots available behind write barriers", count, p.size-1))
	}
	p.setState(StateClaiming)
	r := p.strategy.Claim(count, p.read, p.write)
	p.setState(StateFilling)
	return r
}

// ClaimAll claims whatever is safe right now; the range may be empty.
func (p *Processor) ClaimAll() Range {
	p.setState(StateClaiming)
	r := p.strategy.ClaimAll(p.read, p.write)
	if r.Empty() {
		p.setState(StateIdle)
	} else {
		p.setState(StateFilling)
	}
	return r
}

// Publish makes every sequence up to and including seq visible downstream.
func (p *Processor) Publish(seq int64) {
	p.cursor.Set(seq)
	p.setState(StatePublished)
	p.metrics.ObserveCursor(p.stage, seq)
}

// PublishRange publishes through the last sequence of r. Empty ranges are ignored.
func (p *Processor) PublishRange(r Range) {
	if r.Empty() {
		return
	}
	p.Publish(r.Last())
}

// PublishClaimed publishes everything claimed so far.
func (p *Processor) PublishClaimed() {
	p.Publish(p.strategy.Next() - 1)
}

// PublishOrdered waits until every range claimed before r is published and
// then publishes r. Goroutines sharing a MultiThreadClaimStrategy use it.
func (p *Processor) PublishOrdered(r Range) {
	if r.Empty() {
		return
	}
	var sp concurrency.Spinner
	for p.cursor.Get() != r.Start-1 {
		sp.Spin()
	}
	p.Publish(r.Last())
}

func (p *Processor) setState(s ProcessorState) { p.state.Store(int32(s)) }
