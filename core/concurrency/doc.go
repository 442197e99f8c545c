// Package concurrency provides blocking synchronization primitives
// (Barrier, Latch, Gate, Sequencer, Sync), goroutine-scoped tasks and the
// pooled Executor with its completion-ordering policies.
//
// Everything here suspends on sync.Cond rather than spinning; the
// lock-free hand-offs live in core/queue and core/ring.
package concurrency
