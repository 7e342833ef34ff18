// Package lock keeps a single interactive session per data directory
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/logger"
)

var (
	// ErrLocked is returned when another live habitual process holds the lock
	ErrLocked = errors.New("another habitual session is running")

	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
	now             = time.Now
)

// Holder is the content of a lockfile
type Holder struct {
	PID     int
	Started time.Time
}

// Lock is a held lockfile
type Lock struct {
	path   string
	holder Holder
}

// Acquire takes the lock in dir. A lockfile left by a process that is no
// longer running (or is not habitual) is treated as stale and replaced.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, constants.LockfileName)

	if holder, err := readHolder(path); err == nil {
		if holder.PID != getpid() && isRunning(holder.PID) {
			return nil, fmt.Errorf("%w (pid %d, started %s)", ErrLocked, holder.PID, holder.Started.Format(time.DateTime))
		}
		logger.Warn("Replacing stale lockfile", "path", path, "pid", holder.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	} else if !os.IsNotExist(err) {
		logger.Warn("Replacing malformed lockfile", "path", path, "error", err)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove malformed lockfile: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()

	holder := Holder{PID: getpid(), Started: now().UTC().Truncate(time.Second)}
	if _, err := fmt.Fprintf(f, "%d|%s", holder.PID, holder.Started.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	logger.Debug("Lock acquired", "path", path, "pid", holder.PID)
	return &Lock{path: path, holder: holder}, nil
}

// Release removes the lockfile if it still belongs to this lock
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := readHolder(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if holder.PID != l.holder.PID {
		return nil
	}
	return os.Remove(l.path)
}

// Inspect returns the current holder of the lock in dir, if any
func Inspect(dir string) (Holder, bool, error) {
	holder, err := readHolder(filepath.Join(dir, constants.LockfileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Holder{}, false, nil
		}
		return Holder{}, false, err
	}
	return holder, isRunning(holder.PID), nil
}

func readHolder(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	started, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return Holder{}, errors.New("invalid start time in lockfile")
	}
	return Holder{PID: pid, Started: started}, nil
}

// isRunning reports whether pid is a live habitual process
func isRunning(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
