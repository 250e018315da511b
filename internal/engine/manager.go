package engine

import (
	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/discipline"
	"github.com/stitts-dev/matchsim/internal/fatigue"
	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// runSubstitutionHeuristic implements the manager's substitution policy
// named in spec §4.8/§4.11 step 7: replace the most fatigued eligible
// outfield player, at most one swap per side per minute, biased toward
// attacking bench options when trailing late. It is a heuristic, not a
// spec invariant — DisciplineModel.SubstitutionAllowed and
// matchstate.Apply still enforce the hard 5-sub cap and eligibility rules.
func (e *Engine) runSubstitutionHeuristic(minute int) []matchstate.Event {
	if minute < 60 || minute%7 != 0 {
		return nil
	}

	var events []matchstate.Event
	for _, side := range []matchstate.Side{matchstate.SideHome, matchstate.SideAway} {
		if ev, ok := e.trySubstitute(side, minute); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (e *Engine) trySubstitute(side matchstate.Side, minute int) (matchstate.Event, bool) {
	if !discipline.SubstitutionAllowed(e.state, side) {
		return matchstate.Event{}, false
	}

	sideState := e.state.Side(side)
	if len(sideState.Bench) == 0 {
		return matchstate.Event{}, false
	}

	team := e.state.Teams[side]
	trailing := e.trailing(side) && minute >= 70

	offID, offPos, found := e.mostFatiguedCandidate(side)
	if !found {
		return matchstate.Event{}, false
	}
	if f := sideState.Fatigue[offID]; !fatigue.NeedsRest(f) && !trailing {
		return matchstate.Event{}, false
	}

	onID, found := bestBenchReplacement(team, sideState.Bench, offPos, trailing)
	if !found {
		return matchstate.Event{}, false
	}

	ev := matchstate.Event{
		Type:              matchstate.EventSubstitution,
		Team:              side,
		PrimaryPlayerID:   offID,
		PrimaryPlayerName: e.state.PlayerName(side, offID),
		SecondaryPlayerID: &onID,
		SecondaryPlayerName: e.state.PlayerName(side, onID),
		Outcome:           "substitution",
	}
	if err := e.state.Apply(ev); err != nil {
		return matchstate.Event{}, false
	}
	return ev, true
}

func (e *Engine) trailing(side matchstate.Side) bool {
	diff := e.state.Score.Home - e.state.Score.Away
	if side == matchstate.SideAway {
		diff = -diff
	}
	return diff < 0
}

// mostFatiguedCandidate returns the lowest-fatigue outfield (non-GK) player
// currently on pitch who has not already been substituted off.
func (e *Engine) mostFatiguedCandidate(side matchstate.Side) (uuid.UUID, matchtype.Position, bool) {
	sideState := e.state.Side(side)
	var bestID uuid.UUID
	var bestPos matchtype.Position
	bestFatigue := 2.0
	found := false
	for _, a := range sideState.OnPitch {
		if a.Position == matchtype.PosGK {
			continue
		}
		f := sideState.Fatigue[a.PlayerID]
		if f < bestFatigue {
			bestFatigue = f
			bestID = a.PlayerID
			bestPos = a.Position
			found = true
		}
	}
	return bestID, bestPos, found
}

// bestBenchReplacement picks the bench player best suited to replace a
// departing player at outPos: same or compatible position, highest
// ability; when trailing, attacking positions are favored regardless of
// positional match, per the manager's attacking-bench bias.
func bestBenchReplacement(team matchtype.Team, bench []uuid.UUID, outPos matchtype.Position, attackBias bool) (uuid.UUID, bool) {
	var bestID uuid.UUID
	bestScore := -1.0
	found := false

	attackPositions := map[matchtype.Position]bool{
		matchtype.PosST: true, matchtype.PosCF: true, matchtype.PosF9: true,
		matchtype.PosLW: true, matchtype.PosRW: true, matchtype.PosAM: true,
	}

	for _, id := range bench {
		p, ok := team.PlayerByID(id)
		if !ok || p.IsInjured {
			continue
		}
		score := float64(p.Attributes.Ability())
		compatible := compatiblePosition(p.PrimaryPosition, outPos)
		if attackBias && attackPositions[p.PrimaryPosition] {
			score += 40
		} else if compatible {
			score += 20
		} else {
			score -= 15
		}
		if score > bestScore {
			bestScore = score
			bestID = id
			found = true
		}
	}
	return bestID, found
}

func compatiblePosition(a, b matchtype.Position) bool {
	if a == b {
		return true
	}
	groups := [][]matchtype.Position{
		{matchtype.PosCB, matchtype.PosSW},
		{matchtype.PosLB, matchtype.PosWB},
		{matchtype.PosRB, matchtype.PosWB},
		{matchtype.PosCM, matchtype.PosDM, matchtype.PosAM},
		{matchtype.PosLM, matchtype.PosLW},
		{matchtype.PosRM, matchtype.PosRW},
		{matchtype.PosST, matchtype.PosCF, matchtype.PosF9},
	}
	for _, g := range groups {
		in := false
		for _, p := range g {
			if p == a || p == b {
				in = true
				break
			}
		}
		if in {
			hasA, hasB := false, false
			for _, p := range g {
				if p == a {
					hasA = true
				}
				if p == b {
					hasB = true
				}
			}
			if hasA && hasB {
				return true
			}
		}
	}
	return false
}
