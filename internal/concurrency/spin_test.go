package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerCountAndReset(t *testing.T) {
	var s Spinner
	for i := 0; i < 200; i++ {
		s.Spin()
	}
	assert.Equal(t, uint32(200), s.Count())
	s.Reset()
	assert.Equal(t, uint32(0), s.Count())
}

func TestSpinUntilObservesOtherGoroutine(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(10 * time.Millisecond)
		flag.Store(true)
	}()

	done := make(chan struct{})
	go func() {
		SpinUntil(flag.Load)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("SpinUntil did not observe flag")
	}
}

func TestPinCurrentThread(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		err := PinCurrentThread(0)
		_ = UnpinCurrentThread()
		done <- err
	}()
	if err := <-done; err != nil {
		t.Skipf("pinning unavailable: %v", err)
	}
}
