//go:build linux

// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux implementation of thread pinning via sched_setaffinity.

package concurrency

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func platformPinCurrentThread(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return nil
}

func platformUnpinCurrentThread() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < NumCPUs(); i++ {
		set.Set(i)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin: sched_setaffinity reset: %w", err)
	}
	return nil
}
