package finder

import (
	"errors"
	"fmt"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// session holds the data directory lock and the response store for the
// lifetime of one command.
type session struct {
	db      *store.DB
	store   *store.Store
	release func() error
}

func openSession(cfg *config.Config, runtime *infra.Infra, command string) (*session, error) {
	runtime.Output.Printf("🔒 lock %s", cfg.DataDir)
	release, err := store.AcquireLock(cfg.DataDir, command)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	db, err := store.Open(cfg.DataDir)
	if err != nil {
		_ = release()
		return nil, err
	}
	st, err := store.Load(db)
	if err != nil {
		_ = db.Close()
		_ = release()
		return nil, err
	}
	runtime.Output.DebugSincef(start, "%s", "load response store")
	return &session{db: db, store: st, release: release}, nil
}

// close prunes old responses, persists the store and releases the lock.
func (s *session) close(runtime *infra.Infra) error {
	if s == nil {
		return nil
	}
	start := time.Now()
	if pruned := s.store.PruneAPICache(runtime.Now(), helpers.CachePruneAfter); pruned > 0 {
		runtime.Logger.Debug("pruned cached responses", "count", pruned)
	}
	var errs []error
	if err := store.Save(s.db, s.store); err != nil {
		errs = append(errs, fmt.Errorf("failed to save response store: %w", err))
	}
	runtime.Output.DebugSincef(start, "%s", "save response store")
	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
