package matchtype

import "github.com/google/uuid"

// Team is a read-only squad input: identity plus the full player pool the
// LineupResolver picks a starting XI and bench from.
type Team struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color,omitempty"`
	Players []Player  `json:"players"`
}

// PlayerByID does a linear lookup; team rosters are small (≤ 30-ish) so this
// never needs an index.
func (t Team) PlayerByID(id uuid.UUID) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// FormationSlot is one of the 11 positional slots a Formation defines.
type FormationSlot struct {
	Position Position `json:"position"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}

// Formation is a read-only tactical shape: exactly 11 slots.
type Formation struct {
	Name  string            `json:"name"`
	Slots [11]FormationSlot `json:"slots"`
}

// Mentality, Pressing and DefensiveLine are ordinal tactical scales. The
// zero value of Mentality is Balanced and of DefensiveLine is StandardLine;
// the zero value of Pressing is PressNever, which the tactics package
// treats like PressSometimes (no modifier). A Tactic left entirely unset
// therefore behaves like a neutral default.
type Mentality int

const (
	VeryDefensive Mentality = iota - 2
	Defensive
	Balanced
	Attacking
	VeryAttacking
)

type Pressing int

const (
	PressNever Pressing = iota
	PressSometimes
	PressOften
	PressAlways
)

type DefensiveLine int

const (
	VeryDeep DefensiveLine = iota - 2
	Deep
	StandardLine
	High
	VeryHigh
)

// Tactic is a read-only per-team tactical instruction set. Zero value is
// the balanced/standard default the spec requires for omitted fields.
type Tactic struct {
	Mentality        Mentality     `json:"mentality"`
	Pressing         Pressing      `json:"pressing"`
	Tempo            float64       `json:"tempo"` // 0..1, 0.5 is standard
	Width            float64       `json:"width"` // 0..1, 0.5 is standard
	DefensiveLine    DefensiveLine `json:"defensive_line"`
	OffsideTrap      bool          `json:"offside_trap"`
	CounterAttack    bool          `json:"counter_attack"`
	PlayOutOfDefence bool          `json:"play_out_of_defence"`
}

// Normalized returns a copy with zero-value Tempo/Width filled to the
// standard 0.5 default (Go's zero value for these would otherwise read as
// "minimum", not "standard").
func (t Tactic) Normalized() Tactic {
	if t.Tempo == 0 {
		t.Tempo = 0.5
	}
	if t.Width == 0 {
		t.Width = 0.5
	}
	return t
}

// OnPitchAssignment places one player at one formation slot for the
// duration of the match (until substituted or sent off).
type OnPitchAssignment struct {
	PlayerID uuid.UUID `json:"player_id"`
	Position Position  `json:"position"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
}

// MatchLineup is the engine's starting-state input for one side: 11
// on-pitch assignments plus an ordered bench (≤ 17).
type MatchLineup struct {
	Starting [11]OnPitchAssignment `json:"starting"`
	Bench    []uuid.UUID           `json:"bench,omitempty"`
}

// MatchSide bundles one side's full input: roster, formation, tactic and an
// optional pre-resolved lineup.
type MatchSide struct {
	Team      Team         `json:"team"`
	Formation Formation    `json:"formation"`
	Tactic    Tactic       `json:"tactic"`
	Lineup    *MatchLineup `json:"lineup,omitempty"` // nil triggers LineupResolver auto-suggestion
}

// MatchInput is the engine's complete deep-cloned input snapshot.
type MatchInput struct {
	MatchID uuid.UUID `json:"match_id"`
	Home    MatchSide `json:"home"`
	Away    MatchSide `json:"away"`
	Seed    *uint64   `json:"seed,omitempty"`
}
