// Package eddb mirrors the EDDB populated systems and factions dumps.
package eddb

import (
	"context"
	"net/http"

	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/mirror"
)

const (
	// SystemsName names the populated systems mirror.
	SystemsName = "systems_populated"
	// FactionsName names the factions mirror.
	FactionsName = "factions"
)

// SystemsMirror holds systems_populated.json as a list.
type SystemsMirror struct {
	*mirror.Mirror[[]System]
}

// FactionsMirror holds factions.json keyed by faction id.
type FactionsMirror struct {
	*mirror.Mirror[map[int64]Faction]
}

// NewSystemsMirror builds the systems mirror persisted at path.
func NewSystemsMirror(url, path string, opts mirror.Options) *SystemsMirror {
	source := mirror.Source{Name: SystemsName, URL: url, Header: requestHeader()}
	return &SystemsMirror{Mirror: mirror.New(source, path, mirror.JSON[[]System](), opts)}
}

// NewFactionsMirror builds the factions mirror persisted at path.
// The downloaded array is re-keyed by faction id.
func NewFactionsMirror(url, path string, opts mirror.Options) *FactionsMirror {
	source := mirror.Source{Name: FactionsName, URL: url, Header: requestHeader()}
	return &FactionsMirror{Mirror: mirror.New(source, path, mirror.Transformed(IndexFactions), opts)}
}

// IndexFactions re-keys a faction list by id.
func IndexFactions(factions []Faction) (map[int64]Faction, error) {
	out := make(map[int64]Faction, len(factions))
	for _, faction := range factions {
		out[faction.ID] = faction
	}
	return out, nil
}

// Systems returns a read-only view of the mirrored systems.
func (m *SystemsMirror) Systems(ctx context.Context) (mirror.List[System], error) {
	content, err := m.Database(ctx)
	if err != nil {
		return mirror.List[System]{}, err
	}
	return mirror.NewList(content), nil
}

// Factions returns a read-only view of the mirrored factions.
func (m *FactionsMirror) Factions(ctx context.Context) (mirror.Table[int64, Faction], error) {
	content, err := m.Database(ctx)
	if err != nil {
		return mirror.Table[int64, Faction]{}, err
	}
	return mirror.NewTable(content), nil
}

func requestHeader() http.Header {
	header := make(http.Header)
	header.Set("Accept-Encoding", helpers.EDDBAcceptEncoding)
	return header
}
