// Package discipline implements DisciplineModel: the decision of whether a
// foul escalates into a card, and the substitution-quota guard rails that
// matchstate.Apply enforces structurally. Card *accumulation* itself lives
// in matchstate (the single mutation path); this package decides whether a
// card is warranted in the first place, per spec §4.8.
package discipline

import (
	"math/rand"

	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

const maxSubstitutionsPerSide = 5

// CardOutcome is the result of a foul's disciplinary roll.
type CardOutcome int

const (
	NoCard CardOutcome = iota
	Yellow
	StraightRed
)

// DecideCard rolls whether a foul earns a card, weighted by the fouling
// player's aggression (spec §4.5: "weight by mental.aggression, inverse of
// discipline"). A small, fixed chance of a straight red models a
// reckless/violent-conduct foul.
func DecideCard(rng *rand.Rand, fouler matchtype.Player) CardOutcome {
	aggression := fouler.Attributes.Aggression()
	cardChance := 0.05 + aggression*0.018

	roll := rng.Float64()
	if roll < cardChance*0.06 {
		return StraightRed
	}
	if roll < cardChance {
		return Yellow
	}
	return NoCard
}

// SubstitutionAllowed reports whether side still has a substitution slot
// remaining, per the 5-sub cap (spec §4.8/I4). The per-player eligibility
// checks (outgoing currently on pitch, incoming not already substituted
// off) are enforced structurally by matchstate.Apply.
func SubstitutionAllowed(state *matchstate.MatchState, side matchstate.Side) bool {
	return state.Side(side).SubstitutionsUsed < maxSubstitutionsPerSide
}
