//go:build !unix

package savestore

import "os"

// File locking is not available via syscall.Flock here. Handles are still
// exclusive within a Store, but not across processes.

func lockHandle(f *os.File) error { return nil }

func unlockHandle(f *os.File) {}
