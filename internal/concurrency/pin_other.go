//go:build !linux

// File: internal/concurrency/pin_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback for platforms without thread affinity support.

package concurrency

func platformPinCurrentThread(cpuID int) error {
	return ErrAffinityNotSupported
}

func platformUnpinCurrentThread() error {
	return nil
}
