// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration and telemetry layer for the concurrency toolkit.
//
// Provides:
//   - Environment-driven defaults for executors, queues and rings (envconfig)
//   - Prometheus collectors for executor task flow and ring cursor progress
package control
