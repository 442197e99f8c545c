package queue

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMPMCConservation(t *testing.T) {
	const (
		producers = 8
		consumers = 8
		perProd   = 2000
		total     = producers * perProd
	)
	q := NewMPMC[int]()

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(base int) {
			defer pwg.Done()
			for i := 0; i < perProd; i += 2 {
				q.PushSlice([]int{base + i, base + i + 1})
			}
		}(p * perProd)
	}

	var sum, count atomic.Int64
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			buf := make([]int, 3)
			for {
				n, ok := q.PopSlice(buf)
				if !ok {
					return
				}
				for _, v := range buf[:n] {
					sum.Add(int64(v))
				}
				count.Add(int64(n))
			}
		}()
	}

	pwg.Wait()
	q.PushSentinel()
	cwg.Wait()

	assert.Equal(t, int64(total), count.Load())
	assert.Equal(t, int64(total*(total-1)/2), sum.Load())
	assert.True(t, q.Empty())
}

func TestMPMCSentinelFreezesLength(t *testing.T) {
	q := NewMPMC[string]()
	q.Push("x")
	q.Push("y")
	q.PushSentinel()
	q.Push("z")
	assert.Equal(t, 2, q.Len())

	v, ok := q.PopNoWait()
	require.True(t, ok)
	assert.Equal(t, "x", v)
	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, "y", v)

	_, ok = q.Pop()
	assert.False(t, ok)
	_, ok = q.PopNoWait()
	assert.False(t, ok)
}

func TestMPMCPopNoWaitOnEmpty(t *testing.T) {
	q := NewMPMC[int]()
	_, ok := q.PopNoWait()
	assert.False(t, ok)
	assert.True(t, q.Empty())
}

func TestMPMCBlockedPopWakesOnPush(t *testing.T) {
	q := NewMPMC[int]()
	got := make(chan int)
	go func() {
		v, _ := q.Pop()
		got <- v
	}()
	q.Push(42)
	assert.Equal(t, 42, <-got)
}

func TestMPMCNilInterfaceElement(t *testing.T) {
	q := NewMPMC[any]()
	q.Push(nil)
	v, ok := q.Pop()
	require.True(t, ok)
	assert.Nil(t, v)
}
