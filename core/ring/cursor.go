// File: core/ring/cursor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cursor is the unit every stage synchronizes on.

package ring

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-cc/api"
)

var _ api.SequenceBarrier = (*Cursor)(nil)

// noCopy lets go vet flag accidental copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Cursor holds the highest sequence a stage has finished with.
// Loads acquire and stores release, so a reader that observes a value also
// observes every slot write made before it was published.
type Cursor struct {
	noCopy noCopy
	_      cpu.CacheLinePad
	seq    atomic.Int64
	_      cpu.CacheLinePad
}

// NewCursor returns a cursor positioned at InitialSequence.
func NewCursor() *Cursor {
	return NewCursorAt(InitialSequence)
}

// NewCursorAt returns a cursor positioned at seq.
func NewCursorAt(seq int64) *Cursor {
	c := &Cursor{}
	c.seq.Store(seq)
	return c
}

// Get returns the current position.
func (c *Cursor) Get() int64 { return c.seq.Load() }

// End returns one past the current position.
func (c *Cursor) End() int64 { return c.Get() + 1 }

// Set moves the cursor to v.
func (c *Cursor) Set(v int64) { c.seq.Store(v) }

// Incr adds delta and returns the new position.
func (c *Cursor) Incr(delta int64) int64 { return c.seq.Add(delta) }

// Cursors is a set of barrier cursors.
type Cursors []*Cursor

// Min returns the lowest position in cs, FinalSequence when cs is empty.
func (cs Cursors) Min() int64 {
	m := FinalSequence
	for _, c := range cs {
		m = min(m, c.Get())
	}
	return m
}
