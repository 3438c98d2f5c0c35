package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/mirror"
	"github.com/greeddj/go-hge/internal/hge/mmdb"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// MirrorStatus describes one local mirror snapshot.
type MirrorStatus struct {
	Name       string
	URL        string
	Path       string
	Present    bool
	LastUpdate time.Time
	Items      int
	Staleness  mirror.Staleness
	Err        error
}

// IndexStatus describes the local index document.
type IndexStatus struct {
	Path          string
	Present       bool
	LastUpdate    time.Time
	SchemaVersion int
	Records       int
	Err           error
}

// StatusReport is what the status command prints.
type StatusReport struct {
	DataDir   string
	Commander string
	Index     IndexStatus
	Systems   MirrorStatus
	Factions  MirrorStatus
	// Probed is false when the remote was not asked.
	Probed    bool
	Verdict   mmdb.Verdict
	Responses int
	Locations int
}

// Status prints local snapshot details and, unless offline, the staleness verdict.
func Status(ctx context.Context, cfg *config.Config, runtime *infra.Infra, w io.Writer) error {
	runtime.Output.Printf("🔎 inspect %s", cfg.DataDir)
	report := CollectStatus(ctx, mmdb.New(cfg, runtime), !cfg.Offline)
	report.DataDir = cfg.DataDir

	if profile, err := config.LoadProfile(cfg.ProfilePath); err == nil {
		report.Commander = profile.Commander
	}
	if _, err := os.Stat(cfg.DataDir); err == nil {
		db, err := store.Open(cfg.DataDir)
		if err != nil {
			runtime.Logger.Warn("response store unavailable", "err", err)
		} else {
			if st, err := store.Load(db); err == nil {
				report.Responses, report.Locations = st.Len()
			}
			_ = db.Close()
		}
	}
	return RenderStatus(w, report)
}

// CollectStatus loads whatever snapshots exist without downloading and,
// when probe is set, asks the remotes whether they hold newer documents.
func CollectStatus(ctx context.Context, index *mmdb.Index, probe bool) StatusReport {
	report := StatusReport{
		Systems:  MirrorStatus{Name: index.Systems().Name(), URL: index.Systems().URL(), Path: index.Systems().Path()},
		Factions: MirrorStatus{Name: index.Factions().Name(), URL: index.Factions().URL(), Path: index.Factions().Path()},
		Index:    IndexStatus{Path: index.Path()},
	}

	if loadIfPresent(ctx, index.Systems().Path(), index.Systems().Load, &report.Systems.Present, &report.Systems.Err) {
		report.Systems.LastUpdate = index.Systems().LastUpdate()
		if systems, err := index.Systems().Systems(ctx); err == nil {
			report.Systems.Items = systems.Len()
		}
	}
	if loadIfPresent(ctx, index.Factions().Path(), index.Factions().Load, &report.Factions.Present, &report.Factions.Err) {
		report.Factions.LastUpdate = index.Factions().LastUpdate()
		if factions, err := index.Factions().Factions(ctx); err == nil {
			report.Factions.Items = factions.Len()
		}
	}

	err := index.Load()
	report.Index.Present = !errors.Is(err, os.ErrNotExist)
	if err == nil {
		report.Index.LastUpdate = index.LastUpdate()
		report.Index.SchemaVersion = index.SchemaVersion()
		report.Index.Records = index.Len()
	} else if report.Index.Present {
		report.Index.Err = err
	}

	if probe {
		report.Probed = true
		report.Verdict = index.Probe(ctx)
		report.Systems.Staleness = report.Verdict.Systems
		report.Factions.Staleness = report.Verdict.Factions
	}
	return report
}

func loadIfPresent(ctx context.Context, path string, load func(context.Context) error, present *bool, loadErr *error) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	*present = true
	if err := load(ctx); err != nil {
		*loadErr = err
		return false
	}
	return true
}

// RenderStatus writes a status report.
func RenderStatus(w io.Writer, r StatusReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("go-hge status"))
	fmt.Fprintf(&b, "data dir:   %s\n", r.DataDir)
	commander := r.Commander
	if commander == "" {
		commander = mutedStyle.Render("no profile")
	}
	fmt.Fprintf(&b, "commander:  %s\n", commander)
	fmt.Fprintf(&b, "cache:      %d responses, %d locations\n", r.Responses, r.Locations)

	for _, m := range []MirrorStatus{r.Systems, r.Factions} {
		fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("mirror "+m.Name))
		fmt.Fprintf(&b, "  url:      %s\n", m.URL)
		fmt.Fprintf(&b, "  path:     %s\n", m.Path)
		switch {
		case !m.Present:
			fmt.Fprintf(&b, "  snapshot: %s\n", mutedStyle.Render("missing"))
		case m.Err != nil:
			fmt.Fprintf(&b, "  snapshot: %s\n", warningStyle.Render(m.Err.Error()))
		default:
			fmt.Fprintf(&b, "  snapshot: %d items, %s\n", m.Items, formatStamp(m.LastUpdate))
		}
		if r.Probed && m.Staleness.Reason != "" {
			fmt.Fprintf(&b, "  remote:   %s\n", m.Staleness)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("index"))
	fmt.Fprintf(&b, "  path:     %s\n", r.Index.Path)
	switch {
	case !r.Index.Present:
		fmt.Fprintf(&b, "  document: %s\n", mutedStyle.Render("missing"))
	case r.Index.Err != nil:
		fmt.Fprintf(&b, "  document: %s\n", warningStyle.Render(r.Index.Err.Error()))
	default:
		fmt.Fprintf(&b, "  document: %d records, %s\n", r.Index.Records, formatStamp(r.Index.LastUpdate))
		schema := fmt.Sprintf("%d", r.Index.SchemaVersion)
		if r.Index.SchemaVersion != helpers.IndexSchemaVersion {
			schema = warningStyle.Render(fmt.Sprintf("%d (current %d)", r.Index.SchemaVersion, helpers.IndexSchemaVersion))
		}
		fmt.Fprintf(&b, "  schema:   %s\n", schema)
	}
	if r.Probed {
		verdict := "up to date"
		if r.Verdict.Stale {
			verdict = warningStyle.Render("stale: " + string(r.Verdict.Reason))
		}
		fmt.Fprintf(&b, "  verdict:  %s\n", verdict)
		for name, err := range r.Verdict.Errors {
			fmt.Fprintf(&b, "  %s:  %s\n", name, warningStyle.Render("probe failed: "+err.Error()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
