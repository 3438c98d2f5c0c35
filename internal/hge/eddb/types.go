package eddb

import "encoding/json"

// State is a faction state entry.
type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Presence is a minor faction present in a system.
type Presence struct {
	MinorFactionID   int64    `json:"minor_faction_id"`
	Influence        *float64 `json:"influence,omitempty"`
	ActiveStates     []State  `json:"active_states"`
	PendingStates    []State  `json:"pending_states,omitempty"`
	RecoveringStates []State  `json:"recovering_states"`
}

// System is an entry of systems_populated.json.
type System struct {
	ID                     int64      `json:"id"`
	EDSMID                 int64      `json:"edsm_id"`
	Name                   string     `json:"name"`
	X                      float64    `json:"x"`
	Y                      float64    `json:"y"`
	Z                      float64    `json:"z"`
	Population             int64      `json:"population"`
	IsPopulated            bool       `json:"is_populated"`
	Allegiance             *string    `json:"allegiance,omitempty"`
	EDSystemAddress        *int64     `json:"ed_system_address,omitempty"`
	MinorFactionsUpdatedAt *int64     `json:"minor_factions_updated_at,omitempty"`
	MinorFactionPresences  []Presence `json:"minor_faction_presences"`
}

// UnmarshalJSON accepts the legacy "minor_factions_presences" spelling too.
func (s *System) UnmarshalJSON(data []byte) error {
	type plain System
	var aux struct {
		plain
		Legacy []Presence `json:"minor_factions_presences"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = System(aux.plain)
	if len(s.MinorFactionPresences) == 0 && len(aux.Legacy) > 0 {
		s.MinorFactionPresences = aux.Legacy
	}
	return nil
}

// Faction is an entry of factions.json.
type Faction struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	UpdatedAt       int64   `json:"updated_at,omitempty"`
	Government      *string `json:"government,omitempty"`
	Allegiance      *string `json:"allegiance"`
	HomeSystemID    *int64  `json:"home_system_id,omitempty"`
	IsPlayerFaction bool    `json:"is_player_faction"`
}

// AllegianceName returns the allegiance or "" when unset.
func (f Faction) AllegianceName() string {
	if f.Allegiance == nil {
		return ""
	}
	return *f.Allegiance
}
