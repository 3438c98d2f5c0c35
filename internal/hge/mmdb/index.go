// Package mmdb maintains the materialized per-system state index built
// from the EDDB systems and factions mirrors.
package mmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/eddb"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/mirror"
	"github.com/greeddj/go-hge/internal/hge/store"
	"golang.org/x/sync/errgroup"
)

// Index owns the two EDDB mirrors and the records derived from them.
type Index struct {
	systems  *eddb.SystemsMirror
	factions *eddb.FactionsMirror
	path     string
	logger   *slog.Logger
	now      func() time.Time

	mu            sync.RWMutex
	records       map[int64]Record
	loaded        bool
	lastUpdate    time.Time
	schemaVersion int
	sources       map[string]time.Time

	buildMu sync.Mutex
}

// RebuildStats summarizes one rebuild.
type RebuildStats struct {
	Systems int
	Records int
	Skipped int
	Took    time.Duration
}

// document is the on-disk index.
type document struct {
	Records       map[int64]Record     `json:"records"`
	Timestamp     time.Time            `json:"timestamp"`
	SchemaVersion int                  `json:"schemaVersion"`
	Sources       map[string]time.Time `json:"sources,omitempty"`
}

// New builds an index and its mirrors from cfg.
func New(cfg *config.Config, runtime *infra.Infra) *Index {
	opts := mirror.Options{Client: runtime.HTTP, Logger: runtime.Logger, Now: runtime.Now}
	systems := eddb.NewSystemsMirror(cfg.SystemsURL, cfg.SystemsSnapshotPath(), opts)
	factions := eddb.NewFactionsMirror(cfg.FactionsURL, cfg.FactionsSnapshotPath(), opts)
	return NewWithMirrors(cfg.IndexSnapshotPath(), systems, factions, runtime.Logger, runtime.Now)
}

// NewWithMirrors builds an index persisted at path over the given mirrors.
func NewWithMirrors(path string, systems *eddb.SystemsMirror, factions *eddb.FactionsMirror, logger *slog.Logger, now func() time.Time) *Index {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if now == nil {
		now = time.Now
	}
	return &Index{
		systems:  systems,
		factions: factions,
		path:     path,
		logger:   logger.With("index", "mmdb"),
		now:      now,
	}
}

// Systems returns the owned systems mirror.
func (x *Index) Systems() *eddb.SystemsMirror { return x.systems }

// Factions returns the owned factions mirror.
func (x *Index) Factions() *eddb.FactionsMirror { return x.factions }

// Path returns the index document location.
func (x *Index) Path() string { return x.path }

// LastUpdate returns when the held records were built; zero when never.
func (x *Index) LastUpdate() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.lastUpdate
}

// SchemaVersion returns the schema version of the held records.
func (x *Index) SchemaVersion() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.schemaVersion
}

// Len returns the number of held records.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

// Loaded reports whether records are held.
func (x *Index) Loaded() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loaded
}

// Load reads the index document. A missing document reports os.ErrNotExist;
// an unreadable or partial one reports ErrSnapshotCorrupt. Either way the
// held records are left untouched.
func (x *Index) Load() error {
	//nolint:gosec // path is derived from the data directory.
	data, err := os.ReadFile(x.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			x.logger.Error("failed to read index", "path", x.path, "err", err)
		}
		return err
	}
	doc, err := decodeDocument(data)
	if err != nil {
		x.logger.Error("corrupt index", "path", x.path, "err", err)
		return fmt.Errorf("%w: %s: %w", helpers.ErrSnapshotCorrupt, x.path, err)
	}
	x.commit(doc)
	x.logger.Info("index loaded", "records", len(doc.Records), "schema", doc.SchemaVersion)
	return nil
}

func decodeDocument(data []byte) (document, error) {
	var raw struct {
		Records       map[int64]Record     `json:"records"`
		Timestamp     *time.Time           `json:"timestamp"`
		SchemaVersion *int                 `json:"schemaVersion"`
		Sources       map[string]time.Time `json:"sources"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return document{}, err
	}
	if raw.Records == nil || raw.Timestamp == nil || raw.SchemaVersion == nil {
		return document{}, errors.New("records, timestamp and schemaVersion must all be present")
	}
	return document{
		Records:       raw.Records,
		Timestamp:     *raw.Timestamp,
		SchemaVersion: *raw.SchemaVersion,
		Sources:       raw.Sources,
	}, nil
}

func (x *Index) commit(doc document) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.records = doc.Records
	x.lastUpdate = doc.Timestamp
	x.schemaVersion = doc.SchemaVersion
	x.sources = doc.Sources
	x.loaded = true
}

// Records returns the held records, loading or building them on first access.
// Like Mirror.Database it does not check staleness.
func (x *Index) Records(ctx context.Context) (mirror.Table[int64, Record], error) {
	if !x.Loaded() {
		if err := x.Load(); err != nil {
			x.logger.Info("building index", "reason", err)
			if _, err := x.Rebuild(ctx); err != nil {
				return mirror.Table[int64, Record]{}, err
			}
		}
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return mirror.NewTable(x.records), nil
}

// Rebuild derives every record from the current mirror content and swaps
// the result in as a whole. Systems whose faction presences cannot be
// resolved are skipped with a warning. The mirrors are loaded on demand
// but not probed for staleness.
func (x *Index) Rebuild(ctx context.Context) (RebuildStats, error) {
	x.buildMu.Lock()
	defer x.buildMu.Unlock()

	start := x.now()
	systems, err := x.systems.Systems(ctx)
	if err != nil {
		return RebuildStats{}, err
	}
	if systems.Len() == 0 {
		return RebuildStats{}, fmt.Errorf("%s: %w", x.systems.Name(), helpers.ErrMirrorEmpty)
	}
	factions, err := x.factions.Factions(ctx)
	if err != nil {
		return RebuildStats{}, err
	}

	records := make(map[int64]Record, systems.Len())
	stats := RebuildStats{Systems: systems.Len()}
	for _, sys := range systems.All() {
		if !sys.IsPopulated {
			continue
		}
		record, err := derive(sys, factions)
		if err != nil {
			stats.Skipped++
			x.logger.Warn("skipping system", "system", sys.Name, "edsm_id", sys.EDSMID, "err", err)
			continue
		}
		records[record.EDSMID] = record
	}
	stats.Records = len(records)

	doc := document{
		Records:       records,
		Timestamp:     x.now().UTC(),
		SchemaVersion: helpers.IndexSchemaVersion,
		Sources: map[string]time.Time{
			x.systems.Name():  x.systems.LastUpdate(),
			x.factions.Name(): x.factions.LastUpdate(),
		},
	}
	x.commit(doc)
	stats.Took = x.now().Sub(start)
	x.logger.Info("index rebuilt", "records", stats.Records, "skipped", stats.Skipped, "took", stats.Took)

	if err := store.WriteJSON(x.path, &doc, helpers.FileMod); err != nil {
		x.logger.Error("failed to persist index", "path", x.path, "err", err)
		return stats, fmt.Errorf("%w: %s: %w", helpers.ErrMirrorPersistFailed, x.path, err)
	}
	return stats, nil
}

// Verdict is the staleness outcome for the index and its mirrors.
type Verdict struct {
	Stale    bool
	Reason   mirror.Reason
	Systems  mirror.Staleness
	Factions mirror.Staleness
	// Errors holds probe failures per mirror name.
	Errors map[string]error
}

// Probe checks the held document first (missing, corrupt or written by
// another schema version is stale without any network access) and then
// probes both mirrors concurrently. A mirror whose probe fails counts as fresh.
func (x *Index) Probe(ctx context.Context) Verdict {
	if !x.Loaded() {
		if err := x.Load(); err != nil {
			return Verdict{Stale: true, Reason: mirror.ReasonNeverFetched}
		}
	}
	if x.schemaOutdated() {
		return Verdict{Stale: true, Reason: mirror.ReasonSchemaOutdated}
	}

	verdict := Verdict{Reason: mirror.ReasonUpToDate, Errors: make(map[string]error)}
	var mu sync.Mutex
	var g errgroup.Group
	probe := func(name string, fn func(context.Context) (mirror.Staleness, error), dst *mirror.Staleness) {
		g.Go(func() error {
			s, err := fn(ctx)
			mu.Lock()
			defer mu.Unlock()
			*dst = s
			if err != nil {
				x.logger.Warn("cannot confirm freshness", "mirror", name, "err", err)
				verdict.Errors[name] = err
			}
			return nil
		})
	}
	probe(x.systems.Name(), x.systems.Probe, &verdict.Systems)
	probe(x.factions.Name(), x.factions.Probe, &verdict.Factions)
	_ = g.Wait()

	if verdict.Systems.Stale || verdict.Factions.Stale {
		verdict.Stale = true
		verdict.Reason = mirror.ReasonRemoteNewer
	}
	return verdict
}

// ShouldRefresh reports whether the index needs a rebuild: the held schema
// differs from the current one, or either mirror has a newer remote document.
func (x *Index) ShouldRefresh(ctx context.Context) bool {
	return x.Probe(ctx).Stale
}

func (x *Index) schemaOutdated() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loaded && x.schemaVersion != helpers.IndexSchemaVersion
}

// behindMirrors reports whether the records were built from older mirror content.
func (x *Index) behindMirrors() bool {
	x.mu.RLock()
	sources := maps.Clone(x.sources)
	x.mu.RUnlock()
	for _, m := range []interface {
		Name() string
		LastUpdate() time.Time
	}{x.systems, x.factions} {
		if m.LastUpdate().After(sources[m.Name()]) {
			return true
		}
	}
	return false
}

// CheckUpdate brings both mirrors up to date concurrently, waits for both,
// and rebuilds when the index is missing, outdated, forced, or older than
// the mirror content. Mirror failures are logged and the rebuild proceeds
// with whatever content is held. A mirror left without content is not
// fetched again: the held index is kept, or ErrMirrorEmpty is returned
// when there is none or a rebuild was forced.
func (x *Index) CheckUpdate(ctx context.Context, force bool) (bool, error) {
	if !x.Loaded() {
		if err := x.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			x.logger.Warn("index will be rebuilt", "err", err)
		}
	}

	var g errgroup.Group
	var errs [2]error
	update := func(slot int, name string, fn func(context.Context) (bool, error)) {
		g.Go(func() error {
			downloaded, err := fn(ctx)
			if err != nil {
				errs[slot] = err
				x.logger.Warn("mirror update failed, using held content", "mirror", name, "err", err)
				return nil
			}
			if downloaded {
				x.logger.Info("mirror updated", "mirror", name)
			}
			return nil
		})
	}
	update(0, x.systems.Name(), x.systems.CheckUpdate)
	update(1, x.factions.Name(), x.factions.CheckUpdate)
	_ = g.Wait()

	if !x.systems.Loaded() || !x.factions.Loaded() {
		if !force && x.Loaded() {
			x.logger.Warn("mirror content unavailable, keeping held index")
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", helpers.ErrMirrorEmpty, errors.Join(errs[:]...))
	}
	if !force && x.Loaded() && !x.schemaOutdated() && !x.behindMirrors() {
		x.logger.Debug("index is up to date")
		return false, nil
	}
	if _, err := x.Rebuild(ctx); err != nil {
		return false, err
	}
	return true, nil
}
