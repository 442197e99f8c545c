// File: core/ring/shared_data.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-cc/api"
)

var (
	ErrSharedDataType    = fmt.Errorf("shared data: %w", api.ErrTypeMismatch)
	ErrSharedDataSize    = fmt.Errorf("shared data size mismatch: %w", api.ErrInvalidArgument)
	ErrSharedDataMissing = fmt.Errorf("shared data: %w", api.ErrNotFound)
)

type sharedEntry struct {
	value any
	size  int
}

// SharedData is a registry of named values handed between stages, such as
// the ring a producer creates and its consumers look up.
type SharedData struct {
	mu   sync.Mutex
	data map[string]sharedEntry
}

// NewSharedData returns an empty registry.
func NewSharedData() *SharedData {
	return &SharedData{data: make(map[string]sharedEntry)}
}

// GetOrCreate returns the value named id, calling ctor(size) to create it on
// first use. Fails if id exists with another type or size.
func GetOrCreate[T any](sd *SharedData, id string, size int, ctor func(size int) T) (T, error) {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	if e, ok := sd.data[id]; ok {
		v, ok := e.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: %q holds %T", ErrSharedDataType, id, e.value)
		}
		if e.size != size {
			return v, fmt.Errorf("%w: %q has size %d, requested %d", ErrSharedDataSize, id, e.size, size)
		}
		return v, nil
	}
	v := ctor(size)
	sd.data[id] = sharedEntry{value: v, size: size}
	return v, nil
}

// Lookup returns the existing value named id.
func Lookup[T any](sd *SharedData, id string) (T, error) {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	var zero T
	e, ok := sd.data[id]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrSharedDataMissing, id)
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T", ErrSharedDataType, id, e.value)
	}
	return v, nil
}
