package eddb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/greeddj/go-hge/internal/hge/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const systemsFixture = `[
  {
    "id": 17072, "edsm_id": 27, "name": "Sol", "population": 22780919531,
    "is_populated": true, "ed_system_address": 10477373803, "minor_factions_updated_at": 1585412417,
    "minor_faction_presences": [
      {"minor_faction_id": 3, "influence": 0.5,
       "active_states": [{"id": 16, "name": "Boom"}],
       "recovering_states": [{"id": 64, "name": "Civil war"}]}
    ]
  }
]`

const factionsFixture = `[
  {"id": 3, "name": "Mother Gaia", "allegiance": "Federation", "is_player_faction": false},
  {"id": 9, "name": "Pilots Federation Local Branch", "allegiance": null, "is_player_faction": false}
]`

func TestSystemDecodesLegacyPresenceField(t *testing.T) {
	t.Parallel()
	var sys System
	require.NoError(t, json.Unmarshal([]byte(`{"edsm_id":1,"name":"A","minor_factions_presences":[{"minor_faction_id":4}]}`), &sys))
	require.Len(t, sys.MinorFactionPresences, 1)
	assert.Equal(t, int64(4), sys.MinorFactionPresences[0].MinorFactionID)
}

func TestMirrors(t *testing.T) {
	t.Parallel()
	modified := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
			w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))
			_, _ = w.Write([]byte(body))
		}
	}
	mux.Handle("/systems_populated.json", serve(systemsFixture))
	mux.Handle("/factions.json", serve(factionsFixture))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	opts := mirror.Options{Client: srv.Client()}
	systems := NewSystemsMirror(srv.URL+"/systems_populated.json", filepath.Join(dir, "systems.json"), opts)
	factions := NewFactionsMirror(srv.URL+"/factions.json", filepath.Join(dir, "factions.json"), opts)

	list, err := systems.Systems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	sol := list.At(0)
	assert.Equal(t, "Sol", sol.Name)
	assert.Equal(t, int64(27), sol.EDSMID)
	require.NotNil(t, sol.EDSystemAddress)
	assert.Equal(t, int64(10477373803), *sol.EDSystemAddress)
	require.Len(t, sol.MinorFactionPresences, 1)
	assert.Equal(t, "Boom", sol.MinorFactionPresences[0].ActiveStates[0].Name)

	table, err := factions.Factions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	gaia, ok := table.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Federation", gaia.AllegianceName())
	branch, ok := table.Get(9)
	require.True(t, ok)
	assert.Empty(t, branch.AllegianceName())

	reloaded := NewFactionsMirror(srv.URL+"/factions.json", filepath.Join(dir, "factions.json"), opts)
	require.NoError(t, reloaded.Load(context.Background()))
	again, err := reloaded.Factions(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Has(3))
	assert.True(t, reloaded.LastUpdate().Equal(modified))
}
