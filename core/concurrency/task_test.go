package concurrency

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedTaskResult(t *testing.T) {
	task := Go(func() (int, error) { return 42, nil })
	v, err := task.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	<-task.Done()
	task.Wait()
}

func TestScopedTaskError(t *testing.T) {
	boom := errors.New("boom")
	task := Go(func() (string, error) { return "", boom })
	_, err := task.Get()
	assert.ErrorIs(t, err, boom)
}

func TestScopedTaskPanicBecomesError(t *testing.T) {
	task := Go(func() (int, error) { panic("bad input") })
	_, err := task.Get()
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad input", pe.Value)
}

func TestDeferredTask(t *testing.T) {
	var d DeferredTask[int]
	_, err := d.Get()
	assert.ErrorIs(t, err, ErrTaskNotStarted)
	d.Wait()

	d.Start()
	_, err = d.Get()
	assert.ErrorIs(t, err, ErrTaskNotStarted, "start without a function does nothing")

	d.Assign(func() (int, error) { return 7, nil })
	d.Start()
	v, err := d.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	d.Assign(func() (int, error) { return 8, nil })
	d.Start()
	v, _ = d.Get()
	assert.Equal(t, 7, v, "assign after start has no effect")
}

func TestDeferredTaskStartWith(t *testing.T) {
	d := NewDeferredTask[string](nil)
	d.StartWith(func() (string, error) { return "ok", nil })
	v, err := d.Get()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
