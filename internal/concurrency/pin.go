// File: internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU pinning for worker goroutines.

package concurrency

import (
	"errors"
	"runtime"
)

// ErrAffinityNotSupported indicates CPU affinity is not supported on this platform.
var ErrAffinityNotSupported = errors.New("CPU affinity not supported")

// PinCurrentThread locks the calling goroutine to its OS thread and binds that
// thread to cpuID. The goroutine stays locked even when binding fails so that
// callers can always pair it with UnpinCurrentThread.
func PinCurrentThread(cpuID int) error {
	runtime.LockOSThread()
	if cpuID < 0 {
		return nil
	}
	return platformPinCurrentThread(cpuID % NumCPUs())
}

// UnpinCurrentThread removes CPU affinity constraints from the current thread
// and unlocks the goroutine from it.
func UnpinCurrentThread() error {
	defer runtime.UnlockOSThread()
	return platformUnpinCurrentThread()
}

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}
