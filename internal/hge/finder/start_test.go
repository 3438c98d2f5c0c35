package finder

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/hge/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	upstreamSystems = `[
  {"id": 1, "edsm_id": 27, "name": "Sol", "population": 22780919531, "is_populated": true,
   "minor_faction_presences": [{"minor_faction_id": 3, "active_states": [{"id": 16, "name": "Boom"}]}]},
  {"id": 2, "edsm_id": 4, "name": "Alpha Centauri", "population": 100, "is_populated": true,
   "minor_faction_presences": [{"minor_faction_id": 4, "active_states": [{"id": 73, "name": "War"}]}]}
]`
	upstreamFactions = `[
  {"id": 3, "name": "Mother Gaia", "allegiance": "Federation"},
  {"id": 4, "name": "Alpha Centauri Fed", "allegiance": "Independent"}
]`
	upstreamSphere = `[
  {"distance": 0, "name": "Sol", "id": 27, "information": {"population": 22780919531}},
  {"distance": 4.38, "name": "Alpha Centauri", "id": 4, "information": []},
  {"distance": 6.0, "name": "Barnard's Star", "id": 5, "information": []}
]`
	upstreamPosition = `{"msgnum": 100, "msg": "OK", "system": "Sol", "systemId": 27, "date": "2026-10-01 12:00:00"}`
)

var upstreamModified = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	dump := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Last-Modified", upstreamModified.Format(http.TimeFormat))
			if r.Method == http.MethodHead {
				return
			}
			_, _ = w.Write([]byte(body))
		}
	}
	mux.Handle("/archive/systems_populated.json", dump(upstreamSystems))
	mux.Handle("/archive/factions.json", dump(upstreamFactions))
	mux.HandleFunc(helpers.EDSMSpherePath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(upstreamSphere))
	})
	mux.HandleFunc(helpers.EDSMPositionPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.FormValue("apiKey") != "secret" {
			_, _ = w.Write([]byte(`{"msgnum": 203, "msg": "Commander name/API Key not found"}`))
			return
		}
		_, _ = w.Write([]byte(upstreamPosition))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRuntime(srv *httptest.Server) *infra.Infra {
	return infra.New(output.Discard{}, nil, srv.Client(), srv.Client())
}

func newTestConfig(t *testing.T, srv *httptest.Server) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:     dir,
		SystemsURL:  srv.URL + "/archive/systems_populated.json",
		FactionsURL: srv.URL + "/archive/factions.json",
		EDSMServer:  srv.URL,
		Radius:      20,
		Limit:       10,
		ProfilePath: filepath.Join(dir, helpers.StoreProfile),
	}
}

func TestFindAroundSystem(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)
	cfg.System = "Sol"

	var out bytes.Buffer
	require.NoError(t, Find(context.Background(), cfg, newTestRuntime(srv), &out))
	text := out.String()
	assert.Contains(t, text, "Around Sol (20 ly)")
	assert.Contains(t, text, "federation, boom")
	assert.Contains(t, text, "Alpha Centauri")
	assert.Contains(t, text, "Thermic, Capacitors")
	assert.NotContains(t, text, "Barnard's Star", "systems missing from the index are dropped")

	for _, name := range []string{helpers.StoreIndexSnapshot, helpers.StoreSystemsSnapshot, helpers.StoreFactionsSnapshot, helpers.StoreDBCache} {
		assert.FileExists(t, filepath.Join(cfg.DataDir, name))
	}
	assert.NoFileExists(t, filepath.Join(cfg.DataDir, helpers.StoreDBLock), "lock is released")
}

func TestFindOfflineUsesHeldIndex(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)
	cfg.System = "Sol"
	require.NoError(t, Update(context.Background(), cfg, newTestRuntime(srv)))

	cfg.Offline = true
	cfg.Material = "capacitors"
	var out bytes.Buffer
	require.NoError(t, Find(context.Background(), cfg, newTestRuntime(srv), &out))
	assert.Contains(t, out.String(), "Alpha Centauri")
	assert.NotContains(t, out.String(), "federation, boom")
}

func TestFindWithProfile(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)

	err := Find(context.Background(), cfg, newTestRuntime(srv), &bytes.Buffer{})
	require.ErrorIs(t, err, helpers.ErrProfileMissing)

	require.NoError(t, config.SaveProfile(cfg.ProfilePath, &config.Profile{Commander: "Jameson", APIKey: "secret"}))
	var out bytes.Buffer
	require.NoError(t, Find(context.Background(), cfg, newTestRuntime(srv), &out))
	assert.Contains(t, out.String(), "Around Sol")
}

func TestFindWithoutMirrorsDownloadsOnce(t *testing.T) {
	t.Parallel()
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	cfg := newTestConfig(t, srv)
	cfg.System = "Sol"

	err := Find(context.Background(), cfg, newTestRuntime(srv), &bytes.Buffer{})
	require.ErrorIs(t, err, helpers.ErrMirrorEmpty)
	assert.Equal(t, int32(2), gets.Load(), "one download attempt per mirror")
	assert.NoFileExists(t, filepath.Join(cfg.DataDir, helpers.StoreIndexSnapshot))
}

func TestFindRejectsInvalidSettings(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)
	cfg.System = "Sol"
	cfg.Radius = 500
	require.ErrorIs(t, Find(context.Background(), cfg, newTestRuntime(srv), &bytes.Buffer{}), helpers.ErrInvalidRadius)

	cfg.Radius = 10
	cfg.Material = "unobtainium"
	require.ErrorIs(t, Find(context.Background(), cfg, newTestRuntime(srv), &bytes.Buffer{}), helpers.ErrUnknownMaterial)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)

	var before bytes.Buffer
	require.NoError(t, Status(context.Background(), cfg, newTestRuntime(srv), &before))
	assert.Contains(t, before.String(), "missing")
	assert.Contains(t, before.String(), "stale: never fetched")

	require.NoError(t, Update(context.Background(), cfg, newTestRuntime(srv)))
	var after bytes.Buffer
	require.NoError(t, Status(context.Background(), cfg, newTestRuntime(srv), &after))
	text := after.String()
	assert.Contains(t, text, "2 records")
	assert.Contains(t, text, "2 items")
	assert.Contains(t, text, "verdict:  up to date")
}

func TestSetupProfile(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)

	var prefilled *config.Profile
	ask := func(current *config.Profile) (*config.Profile, error) {
		prefilled = current
		return &config.Profile{Commander: "Jameson", APIKey: "secret"}, nil
	}
	require.NoError(t, SetupProfile(context.Background(), cfg, newTestRuntime(srv), ask))
	assert.Nil(t, prefilled)

	saved, err := config.LoadProfile(cfg.ProfilePath)
	require.NoError(t, err)
	assert.Equal(t, "Jameson", saved.Commander)

	require.NoError(t, SetupProfile(context.Background(), cfg, newTestRuntime(srv), ask))
	require.NotNil(t, prefilled)
	assert.Equal(t, "Jameson", prefilled.Commander)
}

func TestSetupProfileRejected(t *testing.T) {
	t.Parallel()
	srv := newUpstream(t)
	cfg := newTestConfig(t, srv)

	err := SetupProfile(context.Background(), cfg, newTestRuntime(srv), func(*config.Profile) (*config.Profile, error) {
		return &config.Profile{Commander: "Jameson", APIKey: "wrong"}, nil
	})
	require.ErrorIs(t, err, helpers.ErrPositionUnavailable)
	_, statErr := os.Stat(cfg.ProfilePath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	err = SetupProfile(context.Background(), cfg, newTestRuntime(srv), func(*config.Profile) (*config.Profile, error) {
		return nil, helpers.ErrPromptCancelled
	})
	require.ErrorIs(t, err, helpers.ErrPromptCancelled)
}
