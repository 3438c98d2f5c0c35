// Package finder runs the go-hge commands: it locates the commander,
// lists nearby systems and joins them with the materialized index.
package finder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/crossref"
	"github.com/greeddj/go-hge/internal/hge/edsm"
	"github.com/greeddj/go-hge/internal/hge/mirror"
	"github.com/greeddj/go-hge/internal/hge/mmdb"
	"github.com/greeddj/go-hge/internal/hge/states"
)

// Locator resolves the commander's position and the systems around it.
type Locator interface {
	Position(ctx context.Context, profile *config.Profile) (edsm.Position, error)
	Nearby(ctx context.Context, system string, radius float64) ([]crossref.Nearby, error)
}

// Indexer serves the materialized index records.
type Indexer interface {
	CheckUpdate(ctx context.Context, force bool) (bool, error)
	Records(ctx context.Context) (mirror.Table[int64, mmdb.Record], error)
}

// Query describes one nearby-systems search.
type Query struct {
	// System overrides the commander position when set.
	System        string
	Radius        float64
	Limit         int
	MinPopulation int64
	// Material keeps only results yielding it when set.
	Material *states.Material
}

// QueryFromConfig builds a Query, resolving the material filter.
func QueryFromConfig(cfg *config.Config) (Query, error) {
	q := Query{
		System:        cfg.System,
		Radius:        cfg.Radius,
		Limit:         cfg.Limit,
		MinPopulation: cfg.MinPopulation,
	}
	if cfg.Material != "" {
		m, err := states.MaterialByName(cfg.Material)
		if err != nil {
			return Query{}, err
		}
		q.Material = &m
	}
	return q, nil
}

// Report is the outcome of one search.
type Report struct {
	Origin string
	// Stale is set when the origin is a last known location.
	Stale   bool
	SeenAt  time.Time
	Radius  float64
	Nearby  int
	Results []crossref.Result
}

// Search joins locator output with index records.
type Search struct {
	Index   Indexer
	Locator Locator
	Profile *config.Profile
	Logger  *slog.Logger
}

// Run performs one locate, nearby, crossref pass.
func (s *Search) Run(ctx context.Context, q Query) (Report, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := Report{Origin: q.System, Radius: q.Radius}
	if report.Origin == "" {
		pos, err := s.Locator.Position(ctx, s.Profile)
		if err != nil {
			return Report{}, err
		}
		report.Origin = pos.System
		report.Stale = pos.Stale
		report.SeenAt = pos.SeenAt
	}

	records, err := s.Index.Records(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load index: %w", err)
	}

	nearby, err := s.Locator.Nearby(ctx, report.Origin, q.Radius)
	if err != nil {
		return Report{}, err
	}
	nearby = crossref.FilterByPopulation(nearby, q.MinPopulation)
	report.Nearby = len(nearby)

	results := crossref.Crossref(records, nearby)
	if q.Material != nil {
		results = crossref.FilterByMaterial(results, *q.Material)
	}
	crossref.SortByDistance(results)
	report.Results = crossref.Limit(results, q.Limit)
	logger.Debug("search done", "origin", report.Origin, "nearby", report.Nearby, "matched", len(results), "shown", len(report.Results))
	return report, nil
}
