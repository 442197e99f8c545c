// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Low-level helpers for the concurrency core: busy-wait backoff used by the
// lock-free queues and ring claim strategies, and OS-thread CPU pinning used
// by executor workers.
package concurrency
