// Package possession implements PossessionEngine: per-tick transitions of
// which side/zone has the ball, and the base event-ignition probability.
package possession

import (
	"math/rand"

	"github.com/stitts-dev/matchsim/internal/attribute"
	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
	"github.com/stitts-dev/matchsim/internal/tactics"
)

// Engine holds the per-match RNG and tactic modifiers; it is stateless
// beyond that, consulted once per tick by SimulationEngine.
type Engine struct {
	rng         *rand.Rand
	homeTactic  matchtype.Tactic
	awayTactic  matchtype.Tactic
}

func New(rng *rand.Rand, homeTactic, awayTactic matchtype.Tactic) *Engine {
	return &Engine{rng: rng, homeTactic: homeTactic, awayTactic: awayTactic}
}

// midfieldRating averages the effective mid rating of on-pitch CM/DM/AM
// players for a side, falling back to 10 if none are on pitch.
func midfieldRating(state *matchstate.MatchState, side matchstate.Side) float64 {
	team := state.Teams[side]
	sideState := state.Side(side)
	sum, count := 0.0, 0
	for _, a := range sideState.OnPitch {
		if a.Position == matchtype.PosCM || a.Position == matchtype.PosDM || a.Position == matchtype.PosAM {
			if p, ok := team.PlayerByID(a.PlayerID); ok {
				sum += attribute.Effective(p, attribute.RatingMidfield)
				count++
			}
		}
	}
	if count == 0 {
		return 10
	}
	return sum / float64(count)
}

// Advance updates possession and ball zone for one tick, per spec §4.4.
func (e *Engine) Advance(state *matchstate.MatchState) {
	homeMid := midfieldRating(state, matchstate.SideHome)
	awayMid := midfieldRating(state, matchstate.SideAway)

	homeMods := tactics.Derive(e.homeTactic)
	awayMods := tactics.Derive(e.awayTactic)

	// Probability possession swings toward home this tick.
	diff := (homeMid - awayMid) / 20 // in [-0.95, 0.95]
	pHome := 0.5 + diff*0.3 + homeMods.TurnoverBonus*0.5 - awayMods.TurnoverBonus*0.5
	pHome = clamp01(pHome)

	roll := e.rng.Float64()
	switch {
	case roll < pHome*0.92:
		state.Possession = matchstate.PossessionHome
	case roll < pHome*0.92+(1-pHome)*0.92:
		state.Possession = matchstate.PossessionAway
	default:
		state.Possession = matchstate.PossessionContested
	}

	state.BallZone = e.transitionZone(state.BallZone, state.Possession)
}

// transitionZone applies a 3x3 zone transition matrix biased toward the
// possessing side's attacking direction; contested possession drifts
// toward midfield.
func (e *Engine) transitionZone(current matchstate.Zone, poss matchstate.Possession) matchstate.Zone {
	if poss == matchstate.PossessionContested {
		return matchstate.ZoneMidfield
	}

	advance := e.rng.Float64() < 0.45
	retreat := !advance && e.rng.Float64() < 0.2

	switch current {
	case matchstate.ZoneHomeDefensive:
		if advance {
			return matchstate.ZoneMidfield
		}
		return current
	case matchstate.ZoneMidfield:
		if advance {
			return matchstate.ZoneAwayDefensive
		}
		if retreat {
			return matchstate.ZoneHomeDefensive
		}
		return current
	case matchstate.ZoneAwayDefensive:
		if retreat {
			return matchstate.ZoneMidfield
		}
		return current
	default:
		return matchstate.ZoneMidfield
	}
}

// IgnitionProbability is the chance this minute produces at least one key
// event, per spec §4.4: scaled by zone, phase, and tactical tempo.
func (e *Engine) IgnitionProbability(state *matchstate.MatchState) float64 {
	base := 0.28

	switch state.BallZone {
	case matchstate.ZoneAwayDefensive, matchstate.ZoneHomeDefensive:
		base += 0.12
	}

	m := state.Minute
	if (m >= 40 && m <= 45) || (m >= 80 && m <= 90) {
		base += 0.08
	}
	if m > 85 {
		diff := state.Score.Home - state.Score.Away
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			base += 0.1
		}
	}

	homeMods := tactics.Derive(e.homeTactic)
	awayMods := tactics.Derive(e.awayTactic)
	base += (homeMods.IgnitionBonus + awayMods.IgnitionBonus) / 2

	return clamp01(base)
}

func clamp01(v float64) float64 {
	if v < 0.02 {
		return 0.02
	}
	if v > 0.98 {
		return 0.98
	}
	return v
}
