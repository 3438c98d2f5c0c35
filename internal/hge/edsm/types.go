package edsm

import (
	"bytes"
	"encoding/json"
	"time"
)

// Position is where EDSM last saw a commander.
type Position struct {
	System   string
	SystemID int64
	SeenAt   time.Time
	// Stale is set when EDSM was unreachable and the last known
	// location was used instead.
	Stale bool
}

type positionResponse struct {
	MsgNum   int    `json:"msgnum"`
	Msg      string `json:"msg"`
	System   string `json:"system"`
	SystemID int64  `json:"systemId"`
	Date     string `json:"date"`
}

type sphereSystem struct {
	Distance    float64     `json:"distance"`
	Name        string      `json:"name"`
	ID          int64       `json:"id"`
	ID64        int64       `json:"id64"`
	Information information `json:"information"`
}

// information is an object, or an empty array when EDSM knows nothing.
type information struct {
	Allegiance   string `json:"allegiance"`
	Government   string `json:"government"`
	Faction      string `json:"faction"`
	FactionState string `json:"factionState"`
	Population   int64  `json:"population"`
	Security     string `json:"security"`
	Economy      string `json:"economy"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *information) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null")) {
		*i = information{}
		return nil
	}
	type plain information
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*i = information(p)
	return nil
}
