//go:build unix

package savestore

import (
	"fmt"
	"os"
	"syscall"
)

// lockHandle takes a non-blocking exclusive lock on f.
func lockHandle(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		return fmt.Errorf("%w: %w", ErrHandleLocked, err)
	}
	return nil
}

// unlockHandle releases the lock taken by lockHandle.
func unlockHandle(f *os.File) {
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
