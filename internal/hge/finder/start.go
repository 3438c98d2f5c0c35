package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/greeddj/go-hge/internal/hge/cache"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/edsm"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/mmdb"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// Find searches the systems around the commander, or around --system,
// and writes the results to w. With a watch interval it repeats until ctx
// is cancelled.
func Find(ctx context.Context, cfg *config.Config, runtime *infra.Infra, w io.Writer) error {
	err := runFind(ctx, cfg, runtime, w)
	if err != nil {
		runtime.Output.PersistentPrintf("❌ Error: %s", err.Error())
	}
	return err
}

func runFind(ctx context.Context, cfg *config.Config, runtime *infra.Infra, w io.Writer) (err error) {
	if err := cfg.ValidateSearch(); err != nil {
		return err
	}
	query, err := QueryFromConfig(cfg)
	if err != nil {
		return err
	}
	var profile *config.Profile
	if query.System == "" {
		if profile, err = config.LoadProfile(cfg.ProfilePath); err != nil {
			return err
		}
	}

	sess, err := openSession(cfg, runtime, "find")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.close(runtime))
	}()

	index := mmdb.New(cfg, runtime)
	if cfg.Offline {
		runtime.Output.Printf("📦 offline, using local snapshots")
	} else if err := updateIndex(ctx, runtime, index, cfg.Force); err != nil {
		if !index.Loaded() {
			return err
		}
		runtime.Logger.Warn("index update failed, using held records", "err", err)
	}

	search := &Search{
		Index:   index,
		Locator: newLocator(cfg, runtime, sess.store),
		Profile: profile,
		Logger:  runtime.Logger,
	}
	if cfg.Watch > 0 {
		refresh := helpers.WatchIndexRefresh
		if cfg.Offline {
			refresh = 0
		}
		return Watch(ctx, search, query, cfg.Watch, refresh, w, runtime.Output)
	}

	runtime.Output.Printf("🔭 search nearby systems")
	report, err := search.Run(ctx, query)
	if err != nil {
		return err
	}
	return Render(w, report)
}

// Update runs the index refresh cascade, rebuilding when forced.
func Update(ctx context.Context, cfg *config.Config, runtime *infra.Infra) (err error) {
	defer func() {
		if err != nil {
			runtime.Output.PersistentPrintf("❌ Error: %s", err.Error())
		}
	}()

	release, err := store.AcquireLock(cfg.DataDir, "update")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, release())
	}()

	start := time.Now()
	index := mmdb.New(cfg, runtime)
	if err := updateIndex(ctx, runtime, index, cfg.Force); err != nil {
		return err
	}
	runtime.Output.PersistentPrintf("🤩 Index holds %d systems, built %s. Took %s",
		index.Len(), index.LastUpdate().Local().Format(time.DateTime), time.Since(start).Round(time.Millisecond))
	return nil
}

func updateIndex(ctx context.Context, runtime *infra.Infra, index *mmdb.Index, force bool) error {
	start := time.Now()
	runtime.Output.Printf("🛰️ check EDDB mirrors")
	rebuilt, err := index.CheckUpdate(ctx, force)
	if err != nil {
		return fmt.Errorf("failed to update index: %w", err)
	}
	if rebuilt {
		runtime.Output.PersistentPrintf("✅ Index rebuilt: %d systems", index.Len())
	}
	runtime.Output.DebugSincef(start, "%s", "check index")
	return nil
}

func newLocator(cfg *config.Config, runtime *infra.Infra, st *store.Store) *edsm.Client {
	return edsm.New(cfg.EDSMServer, runtime.EDSM, st, cache.PolicyFor(cfg, helpers.CacheSphereTTL), runtime.Logger)
}
