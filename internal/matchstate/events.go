package matchstate

import "github.com/google/uuid"

// EventType is the closed set of event tags the engine ever emits. Modeled
// as a discriminated union via this string tag plus a shared payload
// struct, per spec §9 ("prefer a closed set over open inheritance").
type EventType string

const (
	EventGoal            EventType = "goal"
	EventShotOnTarget    EventType = "shot_on_target"
	EventShotOffTarget   EventType = "shot_off_target"
	EventShotBlocked     EventType = "shot_blocked"
	EventSave            EventType = "save"
	EventCorner          EventType = "corner"
	EventFoul            EventType = "foul"
	EventOffside         EventType = "offside"
	EventYellowCard      EventType = "yellow_card"
	EventRedCard         EventType = "red_card"
	EventSubstitution    EventType = "substitution"
	EventPassAttempted   EventType = "pass_attempted"
	EventPassCompleted   EventType = "pass_completed"
	EventTackle          EventType = "tackle"
	EventInterception    EventType = "interception"
	EventClearance       EventType = "clearance"
	EventAssist          EventType = "assist"
)

// Coordinates is a pitch position in [0,100]x[0,100], acting team always
// attacking toward x=100 (spec §4.7 coordinate rule).
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SubAction is one step of a CausalChainBuilder sequence.
type SubAction struct {
	Action     string     `json:"action"`
	ActorID    uuid.UUID  `json:"actor_id"`
	TargetID   *uuid.UUID `json:"target_id,omitempty"`
	BallStart  Coordinates `json:"ball_start"`
	BallEnd    Coordinates `json:"ball_end"`
	DurationMS int         `json:"duration_ms"`
}

// Event is the single payload shape for every event type the engine emits.
// Fields irrelevant to a given Type are left zero; this mirrors the wire
// shape in spec §6 exactly so the streaming layer can serialize it as-is.
type Event struct {
	Type                EventType   `json:"type"`
	Team                Side        `json:"team"`
	PrimaryPlayerID     uuid.UUID   `json:"primary_player_id"`
	PrimaryPlayerName   string      `json:"primary_player_name"`
	SecondaryPlayerID   *uuid.UUID  `json:"secondary_player_id,omitempty"`
	SecondaryPlayerName string      `json:"secondary_player_name,omitempty"`
	Outcome             string      `json:"outcome,omitempty"`
	Coordinates         Coordinates `json:"coordinates"`
	Description         string      `json:"description,omitempty"`
	Sequence            []SubAction `json:"sequence,omitempty"`
}
