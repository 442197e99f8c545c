// File: core/concurrency/gate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync"

// Gate is a two-state latch that can be opened and closed repeatedly.
// Waiters for each state have their own condition, so a controller can
// open the gate and sleep until workers close it again. Initially closed.
type Gate struct {
	mu     sync.Mutex
	opened *sync.Cond
	closed *sync.Cond
	open   bool
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	g := &Gate{}
	g.opened = sync.NewCond(&g.mu)
	g.closed = sync.NewCond(&g.mu)
	return g
}

// Open opens the gate and releases WaitUntilOpen callers.
func (g *Gate) Open() {
	g.mu.Lock()
	g.open = true
	g.opened.Broadcast()
	g.mu.Unlock()
}

// Close closes the gate and releases WaitUntilClosed callers.
func (g *Gate) Close() {
	g.mu.Lock()
	g.open = false
	g.closed.Broadcast()
	g.mu.Unlock()
}

// OpenAndWait opens the gate and blocks until someone closes it.
func (g *Gate) OpenAndWait() {
	g.mu.Lock()
	g.open = true
	g.opened.Broadcast()
	for g.open {
		g.closed.Wait()
	}
	g.mu.Unlock()
}

// CloseAndWait closes the gate and blocks until someone opens it.
func (g *Gate) CloseAndWait() {
	g.mu.Lock()
	g.open = false
	g.closed.Broadcast()
	for !g.open {
		g.opened.Wait()
	}
	g.mu.Unlock()
}

// WaitUntilOpen blocks while the gate is closed.
func (g *Gate) WaitUntilOpen() {
	g.mu.Lock()
	for !g.open {
		g.opened.Wait()
	}
	g.mu.Unlock()
}

// WaitUntilClosed blocks while the gate is open.
func (g *Gate) WaitUntilClosed() {
	g.mu.Lock()
	for g.open {
		g.closed.Wait()
	}
	g.mu.Unlock()
}

// IsOpen reports the current state.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}
