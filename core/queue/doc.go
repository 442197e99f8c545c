// Package queue
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer/consumer hand-off structures that share one contract (api.Queue):
//
//   - LockFreeMPMC: bounded array of turn-stamped slots, many producers and consumers.
//   - LockFreeSPSC: cache-batched circular region for one producer and one consumer.
//   - MPMC: unbounded mutex/cond queue for the cases where simplicity wins.
//   - Tunnel: zero-storage rendezvous copying straight into the consumer's buffer.
//   - Source / Sink: adapters over existing storage.
//
// Every variant records end-of-stream the same way: PushSentinel freezes the
// total number of elements pushed so far, and consumers fail once they have
// consumed exactly that many. Elements pushed after the sentinel are never
// delivered.
package queue
