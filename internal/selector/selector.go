// Package selector implements PlayerSelector: weighted selection of the
// player performing an action, per spec §4.5. Each Select call is an
// independent draw, so consecutive calls can return the same player.
package selector

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/attribute"
	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// Role names the kind of action a player is being selected to perform;
// this drives both the position weighting table and which effective
// rating is consulted.
type Role string

const (
	RoleShooter       Role = "shooter"
	RoleAssister      Role = "assister"
	RoleGoalkeeper    Role = "goalkeeper"
	RoleTackler       Role = "tackler"
	RoleFouler        Role = "fouler"
	RolePasser        Role = "passer"
	RoleSetPieceTaker Role = "set_piece_taker"
)

// positionWeight scores how well a position fits a role, per spec §4.5's
// example policies (forwards for shots, DM/CB for tackles, etc).
func positionWeight(role Role, pos matchtype.Position) float64 {
	attackGroup := map[matchtype.Position]bool{matchtype.PosST: true, matchtype.PosCF: true, matchtype.PosF9: true, matchtype.PosLW: true, matchtype.PosRW: true, matchtype.PosAM: true}
	wideAM := map[matchtype.Position]bool{matchtype.PosAM: true, matchtype.PosLW: true, matchtype.PosRW: true, matchtype.PosLM: true, matchtype.PosRM: true}
	defenseGroup := map[matchtype.Position]bool{matchtype.PosDM: true, matchtype.PosCB: true, matchtype.PosSW: true}

	switch role {
	case RoleShooter:
		if attackGroup[pos] {
			return 3.0
		}
		if pos == matchtype.PosCM || pos == matchtype.PosLM || pos == matchtype.PosRM {
			return 1.0
		}
		return 0.2
	case RoleAssister:
		if wideAM[pos] {
			return 3.0
		}
		return 0.6
	case RoleTackler:
		if defenseGroup[pos] {
			return 3.0
		}
		if pos == matchtype.PosCM {
			return 1.2
		}
		return 0.4
	case RoleFouler:
		if defenseGroup[pos] || pos == matchtype.PosCM {
			return 2.0
		}
		return 0.8
	case RolePasser:
		if pos == matchtype.PosCM || pos == matchtype.PosDM || pos == matchtype.PosAM {
			return 2.5
		}
		return 1.0
	default:
		return 1.0
	}
}

func ratingFor(role Role, p matchtype.Player) float64 {
	switch role {
	case RoleShooter:
		return attribute.Effective(p, attribute.RatingAttacking)
	case RoleAssister:
		return attribute.PassingVision(p)
	case RoleTackler:
		return attribute.Effective(p, attribute.RatingDefending)
	case RoleFouler:
		return p.Attributes.Aggression()
	case RolePasser:
		return attribute.Effective(p, attribute.RatingMidfield)
	default:
		return 10
	}
}

// eligible reports whether a player may be drawn for role. On-pitch and
// not red-carded are already enforced by OnPitch membership. The GK is
// never eligible for any role, except RoleShooter when the caller passes
// allowGK (a penalty in the last two minutes of injury time, spec §4.5's
// one named exception).
func eligible(role Role, pos matchtype.Position, allowGK bool) bool {
	if pos != matchtype.PosGK {
		return true
	}
	return allowGK && (role == RoleShooter)
}

// Select draws one player from side's on-pitch roster for role, weighted
// by position_weight * effective_rating * fatigue. allowGK permits the GK
// to be drawn for an outfield role (penalty-taker in stoppage time only).
func Select(rng *rand.Rand, state *matchstate.MatchState, side matchstate.Side, role Role, allowGK bool) (uuid.UUID, bool) {
	sideState := state.Side(side)
	team := state.Teams[side]

	type candidate struct {
		id     uuid.UUID
		weight float64
	}
	candidates := make([]candidate, 0, len(sideState.OnPitch))
	total := 0.0

	for _, a := range sideState.OnPitch {
		if !eligible(role, a.Position, allowGK) {
			continue
		}
		p, ok := team.PlayerByID(a.PlayerID)
		if !ok {
			continue
		}
		w := positionWeight(role, a.Position) * ratingFor(role, p) * sideState.Fatigue[a.PlayerID]
		if w <= 0 {
			continue
		}
		candidates = append(candidates, candidate{id: a.PlayerID, weight: w})
		total += w
	}

	if len(candidates) == 0 {
		return fallbackOutfield(state, side)
	}

	roll := rng.Float64() * total
	cum := 0.0
	for _, c := range candidates {
		cum += c.weight
		if roll <= cum {
			return c.id, true
		}
	}
	return candidates[len(candidates)-1].id, true
}

// fallbackOutfield picks the highest-rated available outfield player when
// no compatible candidate exists for a role, per spec §4.5.
func fallbackOutfield(state *matchstate.MatchState, side matchstate.Side) (uuid.UUID, bool) {
	sideState := state.Side(side)
	team := state.Teams[side]

	var best uuid.UUID
	bestAbility := -1
	found := false
	for _, a := range sideState.OnPitch {
		if a.Position == matchtype.PosGK {
			continue
		}
		p, ok := team.PlayerByID(a.PlayerID)
		if !ok {
			continue
		}
		if p.Attributes.Ability() > bestAbility {
			bestAbility = p.Attributes.Ability()
			best = a.PlayerID
			found = true
		}
	}
	return best, found
}

// SelectGoalkeeper returns the defending side's current GK, per spec §4.5
// ("save" is always the GK of the defending side).
func SelectGoalkeeper(state *matchstate.MatchState, defendingSide matchstate.Side) (uuid.UUID, bool) {
	return state.Side(defendingSide).GKPlayerID()
}

// PrecomputeSetPieceTakers fixes a side's corner/free-kick/penalty takers
// once at match start, per spec §4.5 ("precomputed once from attributes,
// fixed across match").
func PrecomputeSetPieceTakers(state *matchstate.MatchState, side matchstate.Side) {
	sideState := state.Side(side)
	team := state.Teams[side]

	best := func(rate func(matchtype.AttributeBundle) float64) uuid.UUID {
		var bestID uuid.UUID
		bestScore := -1.0
		for _, a := range sideState.OnPitch {
			if a.Position == matchtype.PosGK {
				continue
			}
			p, ok := team.PlayerByID(a.PlayerID)
			if !ok {
				continue
			}
			score := rate(p.Attributes)
			if score > bestScore {
				bestScore = score
				bestID = a.PlayerID
			}
		}
		return bestID
	}

	sideState.CornerTaker = best(func(a matchtype.AttributeBundle) float64 { return a.Corners() })
	sideState.FreeKickTaker = best(func(a matchtype.AttributeBundle) float64 { return a.FreeKickTaking() })
	sideState.PenaltyTaker = best(func(a matchtype.AttributeBundle) float64 { return a.PenaltyTaking() })
}
