package cleanup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// Start removes the response cache from the data directory and, with
// cfg.All, the EDDB snapshots and the index as well.
func Start(ctx context.Context, cfg *config.Config, runtime *infra.Infra) (err error) {
	defer func() {
		if err != nil {
			runtime.Output.PersistentPrintf("❌ Error: %s", err.Error())
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}

	runtime.Output.Printf("🔒 lock %s", cfg.DataDir)
	release, err := store.AcquireLock(cfg.DataDir, "cleanup")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, release())
	}()

	if cfg.DryRun {
		names, err := store.CacheFiles(cfg.DataDir, cfg.All)
		if err != nil {
			return fmt.Errorf("failed to list cache files: %w", err)
		}
		report(runtime, cfg.DataDir, names, "Would remove")
		return nil
	}

	runtime.Output.Printf("🧹 remove cached files")
	removed, err := store.ClearCacheFiles(cfg.DataDir, cfg.All)
	if err != nil {
		return fmt.Errorf("failed to remove cache files: %w", err)
	}
	report(runtime, cfg.DataDir, removed, "Removed")
	return nil
}

func report(runtime *infra.Infra, dataDir string, names []string, verb string) {
	if len(names) == 0 {
		runtime.Output.PersistentPrintf("ℹ️ Nothing to clean in %s", dataDir)
		return
	}
	for _, name := range names {
		runtime.Output.PersistentPrintf("🗑️ %s: %s", verb, filepath.Join(dataDir, name))
	}
	runtime.Output.PersistentPrintf("🤩 %s %d files", verb, len(names))
}
