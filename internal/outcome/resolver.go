// Package outcome implements OutcomeResolver: a single threshold-based
// random draw per contested action, per spec §4.6.
package outcome

import (
	"math/rand"

	"github.com/stitts-dev/matchsim/internal/attribute"
	"github.com/stitts-dev/matchsim/internal/fatigue"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// Kind names one of the resolvable contested actions; thresholds are
// looked up from the table in spec §4.6.
type Kind string

const (
	KindShotOnTarget  Kind = "shot_on_target"
	KindOnTargetGoal  Kind = "on_target_goal"
	KindDribblePast   Kind = "dribble_past_defender"
	KindPassComplete  Kind = "pass_complete"
	KindTackleWinBall Kind = "tackle_wins_ball"
	KindFoul          Kind = "foul"
)

type thresholdSpec struct {
	base  float64
	alpha float64
	beta  float64
}

var thresholds = map[Kind]thresholdSpec{
	KindShotOnTarget:  {base: 0.40, alpha: 0.022, beta: 0},
	KindOnTargetGoal:  {base: 0.28, alpha: 0.020, beta: 0.018},
	KindDribblePast:   {base: 0.50, alpha: 0.020, beta: 0.020},
	KindPassComplete:  {base: 0.85, alpha: 0.008, beta: 0},
	KindTackleWinBall: {base: 0.50, alpha: 0.020, beta: 0.018},
	KindFoul:          {base: 0.08, alpha: 0, beta: 0.012},
}

// Input bundles everything OutcomeResolver needs for one draw.
type Input struct {
	Kind           Kind
	Actor          matchtype.Player
	ActorRating    float64 // pre-computed composite per spec table
	Opponent       *matchtype.Player
	OpponentRating float64
	ActorFatigue   float64
	TacticsMod     float64 // additive modifier from TacticsModifier
}

// Probability computes the clamped success probability for Input, per
// spec §4.6's formula:
// threshold = base + alpha*actorRating - beta*opponentRating + tacticsMod - fatiguePenalty.
func Probability(in Input) float64 {
	spec, ok := thresholds[in.Kind]
	if !ok {
		spec = thresholdSpec{base: 0.5}
	}

	p := spec.base + spec.alpha*in.ActorRating - spec.beta*in.OpponentRating + in.TacticsMod
	p -= fatigue.Penalty(in.ActorFatigue)

	return clamp(p, 0.02, 0.98)
}

// Resolve draws a single Bernoulli outcome against Probability(in).
func Resolve(rng *rand.Rand, in Input) bool {
	return rng.Float64() < Probability(in)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RatingFor returns the spec-table actor/opponent composite rating for a
// given Kind, saving callers from re-deriving the same blends.
func RatingFor(kind Kind, p matchtype.Player) float64 {
	switch kind {
	case KindShotOnTarget:
		return attribute.Effective(p, attribute.RatingAttacking)
	case KindOnTargetGoal:
		return 0.5*p.Attributes.Composure() + 0.5*p.Attributes.Finishing()
	case KindDribblePast:
		return attribute.DribblingPace(p)
	case KindPassComplete:
		return attribute.Effective(p, attribute.RatingMidfield)
	case KindTackleWinBall:
		return attribute.TacklingAnticipation(p)
	case KindFoul:
		return p.Attributes.Aggression()
	default:
		return 10
	}
}

// OpponentRatingFor returns the opposing-side rating used to offset a
// given Kind's threshold.
func OpponentRatingFor(kind Kind, p matchtype.Player) float64 {
	switch kind {
	case KindOnTargetGoal:
		return 0.6*p.Attributes.Reflexes() + 0.4*p.Attributes.Handling()
	case KindDribblePast:
		return attribute.DefenseAndPace(p)
	case KindTackleWinBall:
		return 0.5*p.Attributes.Dribbling() + 0.5*p.Attributes.Balance()
	case KindFoul:
		return p.Attributes.Aggression()
	default:
		return 0
	}
}
