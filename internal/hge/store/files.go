package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

const tempPrefix = ".go-hge-"

// WriteFileAtomic writes payload to a temp file next to path and renames it
// into place, so readers never observe a partial file.
func WriteFileAtomic(path string, payload []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, helpers.DirMod); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, tempPrefix+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(payload); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteJSON marshals v and writes it atomically.
func WriteJSON(path string, v any, perm os.FileMode) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, payload, perm)
}

// CacheFiles lists the files ClearCacheFiles would remove from dataDir.
func CacheFiles(dataDir string, all bool) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !shouldDeleteFile(entry.Name(), all) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// ClearCacheFiles removes derived and cached files from dataDir.
// With all set, the EDDB snapshots and the index are removed as well;
// the commander profile and the config file are always kept.
func ClearCacheFiles(dataDir string, all bool) ([]string, error) {
	names, err := CacheFiles(dataDir, all)
	if err != nil {
		return nil, err
	}
	removed := make([]string, 0, len(names))
	for _, name := range names {
		if err := os.Remove(filepath.Join(dataDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func shouldDeleteFile(name string, all bool) bool {
	keep := []string{helpers.StoreProfile, helpers.StoreConfig}
	if slices.Contains(keep, name) {
		return false
	}
	if name == helpers.StoreDBCache || (strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, ".tmp")) {
		return true
	}
	if !all {
		return false
	}
	snapshots := []string{helpers.StoreSystemsSnapshot, helpers.StoreFactionsSnapshot, helpers.StoreIndexSnapshot}
	return slices.Contains(snapshots, name)
}
