package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-cc/api"
)

func TestProbesSnapshot(t *testing.T) {
	p := NewProbes()
	pos := int64(41)
	require.NoError(t, p.Register("stage.sink.cursor", func() any { return pos }))
	require.NoError(t, p.Register("executor.workers", func() any { return 4 }))

	assert.Equal(t, []string{"executor.workers", "stage.sink.cursor"}, p.Names())
	pos++
	snap := p.Snapshot()
	assert.Equal(t, int64(42), snap["stage.sink.cursor"])
	assert.Equal(t, 4, snap["executor.workers"])

	err := p.Register("executor.workers", func() any { return 0 })
	assert.ErrorIs(t, err, api.ErrAlreadyExists)
	assert.ErrorIs(t, p.Register("nil", nil), api.ErrInvalidArgument)

	p.Unregister("executor.workers")
	assert.Equal(t, []string{"stage.sink.cursor"}, p.Names())
}

func TestRuntimeProbes(t *testing.T) {
	p := NewProbes()
	require.NoError(t, RegisterRuntimeProbes(p))
	snap := p.Snapshot()
	assert.Positive(t, snap["runtime.cpus"])
	assert.Positive(t, snap["runtime.goroutines"])
	assert.Error(t, RegisterRuntimeProbes(p))
}
