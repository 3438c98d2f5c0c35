package mmdb

import (
	"fmt"

	"github.com/greeddj/go-hge/internal/hge/eddb"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/mirror"
	"github.com/greeddj/go-hge/internal/hge/states"
)

// Record is the derived per-system entry of the index.
type Record struct {
	EDSMID            int64         `json:"edsmId"`
	Name              string        `json:"name"`
	Population        int64         `json:"population"`
	MaterialStates    states.Counts `json:"materialStates"`
	AddressID         *int64        `json:"addressId,omitempty"`
	LastFactionUpdate *int64        `json:"lastFactionUpdate,omitempty"`
}

// derive builds the record of one system. Every faction presence must
// resolve in factions; otherwise ErrUnknownFaction is returned and no
// record is produced.
func derive(sys eddb.System, factions mirror.Table[int64, eddb.Faction]) (Record, error) {
	var names []string
	for _, presence := range sys.MinorFactionPresences {
		faction, ok := factions.Get(presence.MinorFactionID)
		if !ok {
			return Record{}, fmt.Errorf("%w: id %d in %s", helpers.ErrUnknownFaction, presence.MinorFactionID, sys.Name)
		}
		names = append(names, faction.AllegianceName())
		for _, state := range presence.ActiveStates {
			names = append(names, state.Name)
		}
		for _, state := range presence.RecoveringStates {
			names = append(names, state.Name)
		}
	}
	return Record{
		EDSMID:            sys.EDSMID,
		Name:              sys.Name,
		Population:        sys.Population,
		MaterialStates:    states.Tally(names),
		AddressID:         sys.EDSystemAddress,
		LastFactionUpdate: sys.MinorFactionsUpdatedAt,
	}, nil
}
