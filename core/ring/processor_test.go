package ring

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-cc/control"
)

func TestRangeAndCursorBasics(t *testing.T) {
	r := Range{Start: 3, End: 7}
	assert.Equal(t, int64(4), r.Len())
	assert.Equal(t, int64(6), r.Last())
	assert.False(t, r.Empty())
	assert.True(t, Range{Start: 5, End: 5}.Empty())
	assert.Equal(t, "[3,7)", r.String())

	c := NewCursor()
	assert.Equal(t, InitialSequence, c.Get())
	assert.Equal(t, int64(0), c.End())
	assert.Equal(t, int64(4), c.Incr(5))

	assert.Equal(t, FinalSequence, Cursors{}.Min())
	assert.Equal(t, int64(2), Cursors{NewCursorAt(9), NewCursorAt(2)}.Min())
}

func TestRingIndexing(t *testing.T) {
	r := NewRing[int](8)
	assert.Equal(t, 8, r.Size())
	r.Set(3, 30)
	assert.Equal(t, 30, r.Get(11))
	*r.At(12) = 5
	assert.Equal(t, 5, r.Get(4))

	assert.Equal(t, FinalSequence, r.End())
	r.SetEnd(100)
	assert.Equal(t, int64(100), r.End())

	assert.Panics(t, func() { NewRing[int](12) })
}

func TestClaimAllRespectsBarriers(t *testing.T) {
	p := NewProcessor(16)
	r := p.ClaimAll()
	assert.Equal(t, Range{Start: 0, End: 16}, r, "no barriers: whole ring")

	up := NewCursor()
	c := NewProcessor(16)
	c.AddReadBarrier(up)
	r = c.ClaimAll()
	assert.True(t, r.Empty())
	assert.Equal(t, StateIdle, c.State())

	up.Set(9)
	r = c.ClaimAll()
	assert.Equal(t, Range{Start: 0, End: 10}, r)
	assert.Equal(t, StateFilling, c.State())

	down := NewCursor()
	w := NewProcessor(4)
	w.AddWriteBarrier(down)
	assert.Equal(t, Range{Start: 0, End: 3}, w.ClaimAll())
	assert.True(t, w.ClaimAll().Empty())
	down.Set(1)
	assert.Equal(t, Range{Start: 3, End: 5}, w.ClaimAll())
}

func TestPublishVariants(t *testing.T) {
	p := NewProcessor(8)
	r := p.Claim(3)
	assert.Equal(t, Range{Start: 0, End: 3}, r)
	p.PublishRange(r)
	assert.Equal(t, int64(2), p.Cursor().Get())
	assert.Equal(t, StatePublished, p.State())

	p.PublishRange(Range{Start: 3, End: 3})
	assert.Equal(t, int64(2), p.Cursor().Get(), "empty range is ignored")

	assert.Equal(t, int64(3), p.ClaimOne())
	p.Claim(2)
	p.PublishClaimed()
	assert.Equal(t, int64(5), p.Cursor().Get())
}

func TestProcessorStateNames(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "claiming", StateClaiming.String())
	assert.Equal(t, "filling", StateFilling.String())
	assert.Equal(t, "published", StatePublished.String())
}

func TestProducerConsumerNeverOverlap(t *testing.T) {
	const (
		size = 64
		n    = 50000
	)
	buf := NewRing[int64](size)
	prod := NewProcessor(size)
	cons := NewProcessor(size)
	prod.AddWriteBarrier(cons.Cursor())
	cons.AddReadBarrier(prod.Cursor())

	go func() {
		for i := int64(0); i < n; i++ {
			seq := prod.ClaimOne()
			buf.Set(seq, seq)
			prod.Publish(seq)
		}
	}()

	var bad int
	for got := int64(0); got < n; {
		r := cons.ClaimAll()
		for s := r.Start; s < r.End; s++ {
			if buf.Get(s) != s {
				bad++
			}
		}
		cons.PublishRange(r)
		got += r.Len()
	}
	assert.Zero(t, bad)
	assert.Equal(t, int64(n-1), cons.Cursor().Get())
}

func TestMultiThreadClaimsPublishInOrder(t *testing.T) {
	const (
		size      = 128
		producers = 4
		perProd   = 5000
		total     = producers * perProd
	)
	buf := NewRing[int64](size)
	prod := NewProcessor(size, WithMultiThreadClaims())
	cons := NewProcessor(size)
	prod.AddWriteBarrier(cons.Cursor())
	cons.AddReadBarrier(prod.Cursor())

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				r := prod.Claim(1)
				buf.Set(r.Start, r.Start+1)
				prod.PublishOrdered(r)
			}
		}()
	}

	var sum atomic.Int64
	for got := int64(0); got < total; {
		r := cons.Claim(1)
		sum.Add(buf.Get(r.Start))
		cons.PublishRange(r)
		got++
	}
	wg.Wait()
	assert.Equal(t, int64(total*(total+1)/2), sum.Load())
	assert.Equal(t, int64(total), prod.strategy.Next())
}

func TestProcessorReportsCursorMetric(t *testing.T) {
	m, err := control.NewMetrics(prometheus.NewRegistry(), "ring")
	require.NoError(t, err)
	p := NewProcessor(8, WithStageMetrics(m, "sink"))
	p.Publish(6)
	assert.Equal(t, 6.0, testutil.ToFloat64(m.CursorPosition.WithLabelValues("sink")))
}

func TestFinalBarriersImposeNoLimit(t *testing.T) {
	up := NewCursorAt(FinalSequence)
	c := NewProcessor(16)
	c.AddReadBarrier(up)
	assert.Equal(t, Range{Start: 0, End: 16}, c.ClaimAll())
	assert.Equal(t, Range{Start: 16, End: 20}, c.Claim(4))

	down := NewCursorAt(FinalSequence)
	w := NewProcessor(8)
	w.AddWriteBarrier(down)
	assert.Equal(t, Range{Start: 0, End: 8}, w.ClaimAll())

	done := make(chan Range, 1)
	go func() { done <- w.Claim(1) }()
	select {
	case r := <-done:
		assert.Equal(t, Range{Start: 8, End: 9}, r)
	case <-time.After(2 * time.Second):
		t.Fatal("Claim behind a finished write barrier did not return")
	}

	m := NewProcessor(8, WithMultiThreadClaims())
	m.AddReadBarrier(NewCursorAt(FinalSequence))
	m.AddWriteBarrier(NewCursorAt(FinalSequence))
	assert.Equal(t, Range{Start: 0, End: 8}, m.ClaimAll())
}

func TestClaimLargerThanWriteWindowPanics(t *testing.T) {
	p := NewProcessor(8)
	assert.NotPanics(t, func() { p.Claim(8) }, "no write barrier")

	w := NewProcessor(8)
	w.AddWriteBarrier(NewCursor())
	assert.Panics(t, func() { w.Claim(8) })
	assert.Equal(t, Range{Start: 0, End: 7}, w.Claim(7))
}
