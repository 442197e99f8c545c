// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Named probes for runtime inspection of pipeline stages and executors.

package control

import (
	"runtime"
	"slices"
	"sync"

	"github.com/momentics/hioload-cc/api"
)

// Probes is a registry of named inspection hooks, such as a stage's cursor
// position or an executor's worker count.
type Probes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewProbes creates an empty registry.
func NewProbes() *Probes {
	return &Probes{probes: make(map[string]func() any)}
}

// Register adds a probe. Names are unique.
func (p *Probes) Register(name string, fn func() any) error {
	if fn == nil {
		return api.Errorf(api.ErrCodeInvalidArgument, "probe %q: nil function", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.probes[name]; dup {
		return api.Errorf(api.ErrCodeAlreadyExists, "probe %q already registered", name).WithContext("probe", name)
	}
	p.probes[name] = fn
	return nil
}

// Unregister removes a probe if present.
func (p *Probes) Unregister(name string) {
	p.mu.Lock()
	delete(p.probes, name)
	p.mu.Unlock()
}

// Names returns the registered probe names in sorted order.
func (p *Probes) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.probes))
	for n := range p.probes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Snapshot evaluates every probe.
func (p *Probes) Snapshot() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]any, len(p.probes))
	for k, fn := range p.probes {
		out[k] = fn()
	}
	return out
}

// RegisterRuntimeProbes adds CPU and goroutine counts.
func RegisterRuntimeProbes(p *Probes) error {
	if err := p.Register("runtime.cpus", func() any { return runtime.NumCPU() }); err != nil {
		return err
	}
	return p.Register("runtime.goroutines", func() any { return runtime.NumGoroutine() })
}
