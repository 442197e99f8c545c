package queue

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFreeMPMCConservation(t *testing.T) {
	const (
		producers = 4
		consumers = 4
		perProd   = 5000
		total     = producers * perProd
	)
	q := NewLockFreeMPMC[int64](1024)

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(base int) {
			defer pwg.Done()
			for i := 0; i < perProd; i++ {
				q.Push(int64(base + i))
			}
		}(p * perProd)
	}

	var sum, count atomic.Int64
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				v, ok := q.Pop()
				if !ok {
					return
				}
				sum.Add(v)
				count.Add(1)
			}
		}()
	}

	pwg.Wait()
	q.PushSentinel()
	cwg.Wait()

	assert.Equal(t, int64(total), count.Load())
	assert.Equal(t, int64(total*(total-1)/2), sum.Load())
}

func TestLockFreeMPMCSingleThreadFIFO(t *testing.T) {
	q := NewLockFreeMPMC[int](8)
	q.PushSlice([]int{1, 2, 3})
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 8, q.Cap())

	for want := 1; want <= 3; want++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestLockFreeMPMCTryVariants(t *testing.T) {
	q := NewLockFreeMPMC[int](4)
	for i := 0; i < 4; i++ {
		require.True(t, q.TryPush(i))
	}
	assert.False(t, q.TryPush(99), "queue is full")

	v, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, q.TryPush(4), "slot freed by pop")

	for want := 1; want <= 4; want++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok = q.TryPop()
	assert.False(t, ok, "queue is empty")
}

func TestLockFreeMPMCSentinel(t *testing.T) {
	q := NewLockFreeMPMC[string](8)
	q.Push("a")
	q.Emplace(func(s *string) { *s = "b" })
	q.PushSentinel()
	q.Push("after")

	idx, set := q.Sentinel()
	require.True(t, set)
	assert.Equal(t, uint64(2), idx)

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = q.Pop()
	assert.False(t, ok, "element pushed after sentinel is not delivered")
	_, ok = q.TryPop()
	assert.False(t, ok)
}

func TestLockFreeMPMCSentinelWakesSpinningConsumer(t *testing.T) {
	q := NewLockFreeMPMC[int](4)
	done := make(chan bool)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()
	q.PushSentinel()
	assert.False(t, <-done)
}

func TestLockFreeMPMCPopSlice(t *testing.T) {
	q := NewLockFreeMPMC[int](4)
	q.Push(7)
	q.PushSentinel()

	dst := make([]int, 3)
	n, ok := q.PopSlice(dst)
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, 7, dst[0])

	n, ok = q.PopSlice(dst)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestLockFreeMPMCRejectsBadCapacity(t *testing.T) {
	assert.Panics(t, func() { NewLockFreeMPMC[int](0) })
	assert.Panics(t, func() { NewLockFreeMPMC[int](6) })
	assert.NotPanics(t, func() { NewLockFreeMPMC[int](1) })
}
