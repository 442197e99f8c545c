// File: core/ring/sequence.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"
	"math"
)

const (
	// InitialSequence is the cursor value before anything was published.
	InitialSequence int64 = -1
	// FinalSequence marks a cursor or ring that will never advance again.
	FinalSequence int64 = math.MaxInt64
)

// Range is the half-open interval of sequence numbers [Start, End).
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of sequences in r, zero for an empty range.
func (r Range) Len() int64 { return max(r.End-r.Start, 0) }

// Empty reports whether r holds no sequences.
func (r Range) Empty() bool { return r.End <= r.Start }

// Last returns the highest sequence in r.
func (r Range) Last() int64 { return r.End - 1 }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }
