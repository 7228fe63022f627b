// Package lock keeps two runs of the same suite from overlapping.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrHeld is returned when a live process already holds the lock.
var ErrHeld = errors.New("lock held by another process")

// Lock is a PID file. A file left by a process that has exited is taken over.
type Lock struct {
	path string
}

// Acquire creates the lock file at path with the current process PID.
func Acquire(path string) (*Lock, error) {
	if held, pid, err := IsHeld(path); err != nil {
		return nil, err
	} else if held && pid != os.Getpid() {
		return nil, fmt.Errorf("%w (PID %d): %s", ErrHeld, pid, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("writing lock: %w", err)
	}
	return &Lock{path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release removes the lock file. Releasing twice is not an error.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsHeld reports whether the lock at path belongs to a running process, and
// the PID recorded in it.
func IsHeld(path string) (bool, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0, nil
	}
	return isProcessRunning(pid), pid, nil
}

func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
