package engine

import (
	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// Tick is one minute's published snapshot, matching the wire shape of
// spec §6's `minute` frame.
type Tick struct {
	Minute     int
	Phase      matchstate.Phase
	Possession matchstate.Possession
	BallZone   matchstate.Zone
	Score      matchstate.Score
	Stats      map[matchstate.Side]matchstate.Stats
	Events     []matchstate.Event
	Commentary string
}

// StreamItem is either a Tick or a terminal error; once Err is non-nil the
// producer closes its channel and emits nothing further (spec §4.11
// failure semantics: "terminate the stream with a terminal error frame").
type StreamItem struct {
	Tick *Tick
	Err  error
}

// LineupFrame is the one-time frame describing both sides' starting XI,
// matching spec §6's `lineup` frame shape.
type LineupFrame struct {
	Home SideLineup `json:"home"`
	Away SideLineup `json:"away"`
}

type StartingPlayer struct {
	PlayerID    uuid.UUID `json:"player_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	ShirtNumber int       `json:"shirt_number"`
}

type SideLineup struct {
	TeamName  string           `json:"team_name"`
	Formation string           `json:"formation"`
	Starting  []StartingPlayer `json:"starting"`
}
