// Package edsm talks to the EDSM API to locate a commander and list the
// systems around a point.
package edsm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/greeddj/go-hge/internal/hge/cache"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/crossref"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// dateLayout is the format of the position "date" field.
const dateLayout = "2006-01-02 15:04:05"

// Client is an EDSM API client.
type Client struct {
	server string
	http   *http.Client
	store  *store.Store
	policy cache.Policy
	logger *slog.Logger
	now    func() time.Time
}

// New builds a client. st may be nil, which disables response caching and
// the last known location fallback.
func New(server string, httpClient *http.Client, st *store.Store, policy cache.Policy, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		server: strings.TrimRight(server, "/"),
		http:   httpClient,
		store:  st,
		policy: policy,
		logger: logger.With("api", "edsm"),
		now:    time.Now,
	}
}

// Position returns the commander's current system. The credentials travel in
// the POST body, never in the URL. When EDSM cannot be
// reached the last known location is returned with Stale set.
func (c *Client) Position(ctx context.Context, profile *config.Profile) (Position, error) {
	if err := profile.Validate(); err != nil {
		return Position{}, err
	}
	form := url.Values{}
	form.Set("commanderName", profile.Commander)
	form.Set("apiKey", profile.APIKey)
	form.Set("showId", "1")

	var resp positionResponse
	err := cache.PostForm(ctx, c.http, c.server+helpers.EDSMPositionPath, form, &resp)
	if err != nil {
		if loc, ok := c.store.GetLocation(profile.Commander); ok && isTransportError(err) {
			c.logger.Warn("EDSM unreachable, using last known location", "system", loc.System, "seen_at", loc.SeenAt, "err", err)
			return Position{System: loc.System, SystemID: loc.SystemID, SeenAt: loc.SeenAt, Stale: true}, nil
		}
		return Position{}, fmt.Errorf("%w: %w", helpers.ErrPositionUnavailable, err)
	}
	if resp.MsgNum != helpers.EDSMPositionOK {
		return Position{}, fmt.Errorf("%w: %s (msgnum %d)", helpers.ErrPositionUnavailable, resp.Msg, resp.MsgNum)
	}
	if resp.System == "" {
		return Position{}, fmt.Errorf("%w: EDSM has no public position for %s", helpers.ErrPositionUnavailable, profile.Commander)
	}

	pos := Position{System: resp.System, SystemID: resp.SystemID, SeenAt: c.now().UTC()}
	if seen, err := time.Parse(dateLayout, resp.Date); err == nil {
		pos.SeenAt = seen.UTC()
	}
	c.store.SetLocation(profile.Commander, store.Location{System: pos.System, SystemID: pos.SystemID, SeenAt: pos.SeenAt})
	return pos, nil
}

// Nearby lists systems within radius light years of system.
func (c *Client) Nearby(ctx context.Context, system string, radius float64) ([]crossref.Nearby, error) {
	system = strings.TrimSpace(system)
	if system == "" {
		return nil, helpers.ErrSystemNameEmpty
	}
	if radius <= 0 || radius > helpers.EDSMMaxRadius {
		return nil, fmt.Errorf("%w: %g", helpers.ErrInvalidRadius, radius)
	}
	query := url.Values{}
	query.Set("systemName", system)
	query.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	query.Set("showInformation", "1")
	query.Set("showId", "1")

	var systems []sphereSystem
	if err := cache.FetchJSON(ctx, c.http, c.endpoint(helpers.EDSMSpherePath, query), c.store, &systems, c.policy); err != nil {
		return nil, fmt.Errorf("failed to list systems around %s: %w", system, err)
	}
	c.logger.Debug("sphere systems", "system", system, "radius", radius, "count", len(systems))

	out := make([]crossref.Nearby, 0, len(systems))
	for _, s := range systems {
		out = append(out, crossref.Nearby{
			ID:         s.ID,
			Name:       s.Name,
			Distance:   s.Distance,
			Population: s.Information.Population,
		})
	}
	return out, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	return c.server + path + "?" + query.Encode()
}

// isTransportError reports failures where EDSM gave no usable answer.
func isTransportError(err error) bool {
	var statusErr *cache.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && !errors.Is(err, context.Canceled)
}
