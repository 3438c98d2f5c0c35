package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) Printf(string, ...any) {}

func (r *recorder) PersistentPrintf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) Debugf(string, ...any) {}

func (r *recorder) DebugSincef(time.Time, string, ...any) {}

func (r *recorder) text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}

func seed(t *testing.T, dir string) {
	t.Helper()
	for _, name := range []string{helpers.StoreDBCache, helpers.StoreProfile, helpers.StoreIndexSnapshot, helpers.StoreSystemsSnapshot} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), helpers.FileMod); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
	}
}

func TestStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		all     bool
		dryRun  bool
		gone    []string
		kept    []string
		message string
	}{
		{
			name:    "cache only",
			gone:    []string{helpers.StoreDBCache},
			kept:    []string{helpers.StoreProfile, helpers.StoreIndexSnapshot, helpers.StoreSystemsSnapshot},
			message: "Removed 1 files",
		},
		{
			name:    "all",
			all:     true,
			gone:    []string{helpers.StoreDBCache, helpers.StoreIndexSnapshot, helpers.StoreSystemsSnapshot},
			kept:    []string{helpers.StoreProfile},
			message: "Removed 3 files",
		},
		{
			name:    "dry run",
			all:     true,
			dryRun:  true,
			kept:    []string{helpers.StoreDBCache, helpers.StoreProfile, helpers.StoreIndexSnapshot, helpers.StoreSystemsSnapshot},
			message: "Would remove 3 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			seed(t, dir)
			out := &recorder{}
			cfg := &config.Config{DataDir: dir, All: tt.all, DryRun: tt.dryRun}

			if err := Start(context.Background(), cfg, infra.New(out, nil, nil, nil)); err != nil {
				t.Fatalf("Start error: %v", err)
			}
			for _, name := range tt.gone {
				if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
					t.Fatalf("expected %s to be removed, stat err: %v", name, err)
				}
			}
			for _, name := range tt.kept {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Fatalf("expected %s to be kept: %v", name, err)
				}
			}
			if !strings.Contains(out.text(), tt.message) {
				t.Fatalf("expected %q in output, got %q", tt.message, out.text())
			}
			if _, err := os.Stat(filepath.Join(dir, helpers.StoreDBLock)); !os.IsNotExist(err) {
				t.Fatalf("expected lock to be released, stat err: %v", err)
			}
		})
	}
}

func TestStartNothingToClean(t *testing.T) {
	t.Parallel()
	out := &recorder{}
	dir := t.TempDir()
	if err := Start(context.Background(), &config.Config{DataDir: dir}, infra.New(out, nil, nil, nil)); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !strings.Contains(out.text(), "Nothing to clean") {
		t.Fatalf("unexpected output: %q", out.text())
	}
}
