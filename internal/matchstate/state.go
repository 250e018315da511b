// Package matchstate holds MatchState, the full mutable game state, and
// Apply(event), the mutation path for score, event-driven stats, cards,
// substitutions and on-pitch rosters. Other packages write some fields
// directly: the engine sets Minute, Phase, possession-tick counts and
// per-player fatigue; possession.Advance sets Possession and BallZone;
// selector.PrecomputeSetPieceTakers sets the set-piece takers.
package matchstate

import (
	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/matchtype"
)

type Side = matchtype.Side

const (
	SideHome = matchtype.SideHome
	SideAway = matchtype.SideAway
)

// Phase is the coarse match stage.
type Phase string

const (
	PhasePreMatch   Phase = "pre_match"
	PhaseFirstHalf  Phase = "first_half"
	PhaseHalfTime   Phase = "half_time"
	PhaseSecondHalf Phase = "second_half"
	PhaseFullTime   Phase = "full_time"
)

// Possession identifies which side currently controls the ball.
type Possession string

const (
	PossessionHome      Possession = "home"
	PossessionAway      Possession = "away"
	PossessionContested Possession = "contested"
)

// Zone is the coarse pitch region from the possessing team's perspective.
type Zone string

const (
	ZoneHomeDefensive Zone = "home_defensive"
	ZoneMidfield      Zone = "midfield"
	ZoneAwayDefensive Zone = "away_defensive"
)

// Score is the running scoreline, derived solely from goal events (I5):
// the engine never increments these fields directly, only Apply does.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Stats is one side's cumulative, monotonically non-decreasing counters
// (I6).
type Stats struct {
	PossessionTicks int `json:"possession_ticks"`
	Shots           int `json:"shots"`
	ShotsOnTarget   int `json:"shots_on_target"`
	Corners         int `json:"corners"`
	Fouls           int `json:"fouls"`
	PassesAttempted int `json:"passes_attempted"`
	PassesCompleted int `json:"passes_completed"`
	Tackles         int `json:"tackles"`
	Interceptions   int `json:"interceptions"`
	Offsides        int `json:"offsides"`
	YellowCards     int `json:"yellow_cards"`
	RedCards        int `json:"red_cards"`
}

// SideState is the full per-side evolving state.
type SideState struct {
	OnPitch            []matchtype.OnPitchAssignment // len decreases only on red card (I1)
	Bench              []uuid.UUID
	SubstitutedOff     map[uuid.UUID]bool
	SubstitutionsUsed  int
	Yellow             map[uuid.UUID]int
	RedSet             map[uuid.UUID]bool
	Fatigue            map[uuid.UUID]float64 // 1.0 fresh .. 0.0 exhausted
	Stats              Stats
	CornerTaker        uuid.UUID
	FreeKickTaker      uuid.UUID
	PenaltyTaker       uuid.UUID
}

// MatchState is the full mutable game state for one match. Created once by
// the engine's start routine; event-driven changes go through Apply, and the
// fields listed in the package doc are written directly.
type MatchState struct {
	MatchID uuid.UUID

	Minute int
	Phase  Phase
	Score  Score

	Home SideState
	Away SideState

	Possession Possession
	BallZone   Zone

	LastEventChain []Event

	Teams map[Side]matchtype.Team // read-only, for player-name lookups
}

// Side returns the mutable per-side state for s.
func (m *MatchState) Side(side Side) *SideState {
	if side == SideHome {
		return &m.Home
	}
	return &m.Away
}

// PlayerName resolves a display name for logging/streaming, falling back
// to the id string if the roster lookup somehow misses (should not happen
// given the input snapshot is deep-cloned and never re-queried).
func (m *MatchState) PlayerName(side Side, id uuid.UUID) string {
	if team, ok := m.Teams[side]; ok {
		if p, ok := team.PlayerByID(id); ok {
			return p.DisplayName
		}
	}
	return id.String()
}

// OnPitchCount is the invariant-checked count for I3.
func (s *SideState) OnPitchCount() int { return len(s.OnPitch) }

// IsOnPitch reports whether player id currently occupies a pitch slot.
func (s *SideState) IsOnPitch(id uuid.UUID) bool {
	for _, a := range s.OnPitch {
		if a.PlayerID == id {
			return true
		}
	}
	return false
}

// GKPlayerID returns the id of the currently assigned on-pitch GK.
func (s *SideState) GKPlayerID() (uuid.UUID, bool) {
	for _, a := range s.OnPitch {
		if a.Position == matchtype.PosGK {
			return a.PlayerID, true
		}
	}
	return uuid.Nil, false
}

// New builds the initial MatchState from resolved lineups for both sides.
func New(matchID uuid.UUID, homeTeam, awayTeam matchtype.Team, home, away matchtype.MatchLineup) *MatchState {
	build := func(l matchtype.MatchLineup) SideState {
		onPitch := make([]matchtype.OnPitchAssignment, 0, 11)
		fatigue := make(map[uuid.UUID]float64, 11)
		for _, a := range l.Starting {
			onPitch = append(onPitch, a)
			fatigue[a.PlayerID] = 1.0
		}
		return SideState{
			OnPitch:        onPitch,
			Bench:          append([]uuid.UUID(nil), l.Bench...),
			SubstitutedOff: make(map[uuid.UUID]bool),
			Yellow:         make(map[uuid.UUID]int),
			RedSet:         make(map[uuid.UUID]bool),
			Fatigue:        fatigue,
		}
	}

	return &MatchState{
		MatchID:    matchID,
		Minute:     0,
		Phase:      PhasePreMatch,
		Possession: PossessionContested,
		BallZone:   ZoneMidfield,
		Home:       build(home),
		Away:       build(away),
		Teams:      map[Side]matchtype.Team{SideHome: homeTeam, SideAway: awayTeam},
	}
}
