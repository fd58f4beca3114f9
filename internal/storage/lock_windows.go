//go:build windows

package storage

import (
	"os"
)

// flockAcquire is a no-op on Windows; Badger's own directory lock still
// rejects a second process.
func flockAcquire(file *os.File) error {
	return nil
}

// flockRelease is a no-op on Windows.
func flockRelease(file *os.File) error {
	return nil
}

// isProcessRunning checks if a process with the given PID is still running.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Opening a handle succeeds only for live processes
	_ = process.Release()
	return true
}
