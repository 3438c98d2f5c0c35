package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

// lockInfo is persisted inside the lock file.
type lockInfo struct {
	PID     int       `json:"pid"`
	Command string    `json:"command,omitempty"`
	Since   time.Time `json:"since"`
}

// AcquireLock creates a lock file in dataDir so only one process mutates
// the snapshots at a time. A lock left by a dead process is taken over.
func AcquireLock(dataDir, command string) (func() error, error) {
	if dataDir == "" {
		return nil, helpers.ErrDataDirEmpty
	}
	if err := os.MkdirAll(dataDir, helpers.DirMod); err != nil {
		return nil, err
	}

	lockPath := filepath.Join(dataDir, helpers.StoreDBLock)
	payload, err := json.Marshal(&lockInfo{PID: os.Getpid(), Command: command, Since: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	for {
		release, ok, err := tryCreateLock(lockPath, payload)
		if ok || err != nil {
			return release, err
		}
		if err := takeOverStaleLock(lockPath); err != nil {
			return nil, err
		}
	}
}

func tryCreateLock(lockPath string, payload []byte) (func() error, bool, error) {
	//nolint:gosec // lockPath is derived from dataDir.
	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, helpers.FileMod)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(lockPath)
		return nil, false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(lockPath)
		return nil, false, err
	}
	return func() error { return releaseLock(lockPath, payload) }, true, nil
}

func takeOverStaleLock(lockPath string) error {
	//nolint:gosec // lockPath is derived from dataDir.
	existing, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var current lockInfo
	if err := json.Unmarshal(existing, &current); err != nil {
		return fmt.Errorf("lock file %s exists but is invalid: %w", lockPath, err)
	}
	if isProcessAlive(current.PID) {
		return fmt.Errorf("%w (pid %d, %s)", helpers.ErrAnotherInstanceIsRunning, current.PID, current.Command)
	}
	if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// releaseLock removes the lock file if it still holds our payload.
func releaseLock(lockPath string, payload []byte) error {
	//nolint:gosec // lockPath is created by AcquireLock.
	existing, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !bytes.Equal(existing, payload) {
		return nil
	}
	return os.Remove(lockPath)
}

func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
