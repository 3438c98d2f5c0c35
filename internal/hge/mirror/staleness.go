package mirror

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/greeddj/go-hge/internal/hge/cache"
)

// Reason explains a staleness verdict.
type Reason string

const (
	// ReasonRemoteNewer means the remote document is newer than the held one.
	ReasonRemoteNewer Reason = "remote newer"
	// ReasonUpToDate means the held document is at least as new as the remote one.
	ReasonUpToDate Reason = "up to date"
	// ReasonProbeFailed means the remote could not be asked.
	ReasonProbeFailed Reason = "probe failed"
	// ReasonNeverFetched means nothing is held locally yet.
	ReasonNeverFetched Reason = "never fetched"
	// ReasonSchemaOutdated means a derived document was written by an older schema.
	ReasonSchemaOutdated Reason = "schema outdated"
)

// Staleness is the outcome of a freshness probe.
type Staleness struct {
	Stale  bool
	Reason Reason
	Local  time.Time
	Remote time.Time
}

// Probe asks the remote for its document timestamp with a HEAD request and
// compares it with the held one. Only a strictly newer remote is stale.
func (m *Mirror[T]) Probe(ctx context.Context) (Staleness, error) {
	local := m.LastUpdate()
	verdict := Staleness{Reason: ReasonProbeFailed, Local: local}

	resp, err := m.do(ctx, http.MethodHead)
	if err != nil {
		return verdict, err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return verdict, &cache.HTTPStatusError{URL: m.source.URL, Status: resp.Status, Code: resp.StatusCode}
	}
	remote, err := lastModified(resp.Header)
	if err != nil {
		return verdict, err
	}

	verdict.Remote = remote
	if remote.After(local) {
		verdict.Stale = true
		verdict.Reason = ReasonRemoteNewer
	} else {
		verdict.Reason = ReasonUpToDate
	}
	return verdict, nil
}

// ShouldRefresh reports whether the remote holds a newer document. When
// freshness cannot be confirmed it logs a warning and returns false, so
// held data stays in use.
func (m *Mirror[T]) ShouldRefresh(ctx context.Context) bool {
	verdict, err := m.Probe(ctx)
	if err != nil {
		m.logger.Warn("cannot confirm freshness, keeping local copy", "url", m.source.URL, "err", err)
		return false
	}
	m.logger.Debug("freshness probe", "reason", verdict.Reason, "local", verdict.Local, "remote", verdict.Remote)
	return verdict.Stale
}

// String implements fmt.Stringer.
func (s Staleness) String() string {
	if s.Remote.IsZero() {
		return string(s.Reason)
	}
	return fmt.Sprintf("%s (local %s, remote %s)", s.Reason, formatTime(s.Local), formatTime(s.Remote))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
