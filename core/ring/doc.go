// Package ring implements a disruptor-style pipeline: a shared power-of-two
// ring buffer whose slots are claimed, filled and published by independent
// stages (processors). Each stage owns a monotonic Cursor. A stage may not
// run ahead of the cursors it reads from, nor lap the cursors that read from
// it by more than the ring size. DependencyGraph wires those barrier
// relations from a declarative description.
package ring
