package finder

import (
	"context"
	"io"
	"time"

	"github.com/greeddj/go-hge/internal/hge/output"
)

// Watch repeats the search every interval until ctx is cancelled. A report
// is rendered whenever the origin system changes; failed passes are
// reported and retried on the next tick. Every refresh the index is brought
// up to date before the pass runs. A zero refresh keeps the index fixed for
// the whole session.
func Watch(ctx context.Context, search *Search, q Query, interval, refresh time.Duration, w io.Writer, out output.Printer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	every := 0
	if refresh > 0 {
		every = max(int(refresh/interval), 1)
	}
	lastOrigin := ""
	for pass := 0; ; pass++ {
		if every > 0 && pass > 0 && pass%every == 0 {
			refreshIndex(ctx, search, out)
		}
		out.Printf("🔭 tracking, next check in %s", interval)
		report, err := search.Run(ctx, q)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			out.PersistentPrintf("⚠️ %s", err.Error())
		case report.Origin != lastOrigin:
			lastOrigin = report.Origin
			if err := Render(w, report); err != nil {
				return err
			}
		default:
			out.Debugf("still in %s", report.Origin)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func refreshIndex(ctx context.Context, search *Search, out output.Printer) {
	out.Printf("🛰️ check EDDB mirrors")
	rebuilt, err := search.Index.CheckUpdate(ctx, false)
	switch {
	case err != nil:
		out.PersistentPrintf("⚠️ index update failed, using held records: %s", err.Error())
	case rebuilt:
		out.PersistentPrintf("✅ Index rebuilt")
	}
}
