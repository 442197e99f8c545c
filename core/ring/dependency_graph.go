// File: core/ring/dependency_graph.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Declarative wiring of named stages into read/write barrier sets.
// Stages may be constructed in any order: each registers its cursor under
// its name, and ApplyBarriers waits until every configured name is present.

package ring

import (
	"fmt"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"

	"github.com/momentics/hioload-cc/api"
)

// NodeConfig describes one stage.
//
//	size:  ring capacity owned by the stage
//	read:  stages this stage may not overtake
//	write: stages this stage may not lap
//	rw:    stages read from; each of them gains this stage as a write barrier
type NodeConfig struct {
	Size  *int     `mapstructure:"size"`
	Read  []string `mapstructure:"read"`
	Write []string `mapstructure:"write"`
	RW    []string `mapstructure:"rw"`
}

// GraphConfig maps stage names to their configuration.
type GraphConfig map[string]NodeConfig

// DependencyGraph resolves stage names to cursors.
type DependencyGraph struct {
	mu           sync.Mutex
	cond         *sync.Cond
	configured   map[string]struct{}
	unregistered map[string]struct{}
	cursors      map[string]*Cursor
	readDeps     map[string][]string
	writeDeps    map[string][]string
	sizes        map[string]int
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	g := &DependencyGraph{
		configured:   make(map[string]struct{}),
		unregistered: make(map[string]struct{}),
		cursors:      make(map[string]*Cursor),
		readDeps:     make(map[string][]string),
		writeDeps:    make(map[string][]string),
		sizes:        make(map[string]int),
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Configure adds the stages of cfg to the graph. The configuration is
// validated as a whole before anything is recorded.
func (g *DependencyGraph) Configure(cfg GraphConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	slices.Sort(names)

	known := func(n string) bool {
		if _, ok := cfg[n]; ok {
			return true
		}
		_, ok := g.configured[n]
		return ok
	}
	for _, name := range names {
		if _, dup := g.configured[name]; dup {
			return api.Errorf(api.ErrCodeAlreadyExists, "stage %q already configured", name).
				WithContext("stage", name)
		}
		node := cfg[name]
		if node.Size != nil && *node.Size <= 0 {
			return api.Errorf(api.ErrCodeInvalidArgument, "stage %q: size must be positive, got %d", name, *node.Size).
				WithContext("stage", name)
		}
		for _, deps := range [][]string{node.Read, node.Write, node.RW} {
			for _, dep := range deps {
				if !known(dep) {
					return api.Errorf(api.ErrCodeNotFound, "stage %q depends on unknown stage %q", name, dep).
						WithContext("stage", name).
						WithContext("dependency", dep)
				}
			}
		}
	}

	for _, name := range names {
		node := cfg[name]
		for _, b := range node.RW {
			g.readDeps[name] = append(g.readDeps[name], b)
			g.writeDeps[b] = append(g.writeDeps[b], name)
		}
		g.readDeps[name] = append(g.readDeps[name], node.Read...)
		g.writeDeps[name] = append(g.writeDeps[name], node.Write...)
		if node.Size != nil {
			g.sizes[name] = *node.Size
		}
		g.configured[name] = struct{}{}
		if _, ok := g.cursors[name]; !ok {
			g.unregistered[name] = struct{}{}
		}
	}
	return nil
}

// ConfigureYAML parses a YAML (or JSON) document mapping stage names to
// node objects and configures the graph from it.
func (g *DependencyGraph) ConfigureYAML(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return api.Errorf(api.ErrCodeInvalidArgument, "parse dependency graph: %v", err)
	}
	cfg := make(GraphConfig, len(raw))
	for name, v := range raw {
		var node NodeConfig
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &node,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return fmt.Errorf("new decoder: %w", err)
		}
		if err := dec.Decode(v); err != nil {
			return api.Errorf(api.ErrCodeInvalidArgument, "decode stage %q: %v", name, err).
				WithContext("stage", name)
		}
		cfg[name] = node
	}
	return g.Configure(cfg)
}

// Names returns the configured stage names in sorted order.
func (g *DependencyGraph) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.configured))
	for n := range g.configured {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Size returns the configured ring size of stage id.
func (g *DependencyGraph) Size(id string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sizeLocked(id)
}

func (g *DependencyGraph) sizeLocked(id string) (int, error) {
	if n, ok := g.sizes[id]; ok {
		return n, nil
	}
	return 0, api.Errorf(api.ErrCodeNotFound, "size for stage %q not found", id).WithContext("stage", id)
}

// Sources returns the read dependencies of id, in configuration order.
func (g *DependencyGraph) Sources(id string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.readDeps[id])
}

// Source returns the i'th read dependency of id.
func (g *DependencyGraph) Source(id string, i int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sourceLocked(id, i)
}

func (g *DependencyGraph) sourceLocked(id string, i int) (string, error) {
	deps, ok := g.readDeps[id]
	if !ok || len(deps) == 0 {
		return "", api.Errorf(api.ErrCodeNotFound, "no read dependencies for stage %q", id).WithContext("stage", id)
	}
	if i < 0 || i >= len(deps) {
		return "", api.Errorf(api.ErrCodeNotFound, "stage %q has %d read dependencies, index %d", id, len(deps), i).
			WithContext("stage", id)
	}
	return deps[i], nil
}

// SourceSize returns the ring size of the i'th read dependency of id.
func (g *DependencyGraph) SourceSize(id string, i int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	src, err := g.sourceLocked(id, i)
	if err != nil {
		return 0, err
	}
	return g.sizeLocked(src)
}

// RegisterCursor associates c with stage id and wakes waiters once every
// configured stage is registered.
func (g *DependencyGraph) RegisterCursor(c *Cursor, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.cursors[id]; dup {
		return api.Errorf(api.ErrCodeAlreadyExists, "cursor for stage %q already registered", id).
			WithContext("stage", id)
	}
	g.cursors[id] = c
	delete(g.unregistered, id)
	g.cond.Broadcast()
	return nil
}

// WaitForAllRegistrations blocks until every configured stage has a cursor.
func (g *DependencyGraph) WaitForAllRegistrations() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for len(g.unregistered) > 0 {
		g.cond.Wait()
	}
}

// ApplyBarriers waits for all registrations and then attaches the read and
// write barrier cursors configured for id to p.
func (g *DependencyGraph) ApplyBarriers(p BarrierTarget, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for len(g.unregistered) > 0 {
		g.cond.Wait()
	}
	read, err := g.lookupLocked(g.readDeps[id])
	if err != nil {
		return err
	}
	write, err := g.lookupLocked(g.writeDeps[id])
	if err != nil {
		return err
	}
	for _, c := range read {
		p.AddReadBarrier(c)
	}
	for _, c := range write {
		p.AddWriteBarrier(c)
	}
	return nil
}

func (g *DependencyGraph) lookupLocked(ids []string) (Cursors, error) {
	out := make(Cursors, 0, len(ids))
	for _, id := range ids {
		c, ok := g.cursors[id]
		if !ok {
			return nil, api.Errorf(api.ErrCodeNotFound, "cursor for stage %q not found", id).WithContext("stage", id)
		}
		out = append(out, c)
	}
	return out, nil
}
