// Package attribute implements AttributeModel: fixed weighted sums that
// turn a player's 41-attribute bundle into a handful of "effective ratings"
// consumed by selection and outcome resolution. Weights are constants
// chosen once and documented here (see DESIGN.md) — no fitting, no
// learning, per spec §4.1.
package attribute

import (
	"math"

	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// RatingKind is one of the seven effective ratings the rest of the engine
// reasons about instead of raw attributes.
type RatingKind string

const (
	RatingGK         RatingKind = "gk"
	RatingDefending  RatingKind = "def"
	RatingMidfield   RatingKind = "mid"
	RatingAttacking  RatingKind = "att"
	RatingPace       RatingKind = "pace"
	RatingAerial     RatingKind = "aerial"
	RatingDiscipline RatingKind = "discipline"
)

// Effective computes a position-weighted scalar in [1,20] for the given
// player and rating kind.
func Effective(p matchtype.Player, kind RatingKind) float64 {
	a := p.Attributes
	var raw float64

	switch kind {
	case RatingGK:
		raw = 0.30*a.Reflexes() + 0.20*a.Handling() + 0.15*a.CommandOfArea() +
			0.15*a.OneOnOnes() + 0.10*a.AerialReach() + 0.10*a.RushingOut()
	case RatingDefending:
		raw = 0.30*a.Positioning() + 0.20*a.Anticipation() + 0.20*a.Strength() +
			0.15*a.Aggression() + 0.15*a.Balance()
	case RatingMidfield:
		raw = 0.30*a.Passing() + 0.25*a.Vision() + 0.20*a.Decisions() +
			0.15*a.Stamina() + 0.10*a.Teamwork()
	case RatingAttacking:
		raw = 0.35*a.Finishing() + 0.20*a.Composure() + 0.15*a.OffTheBall() +
			0.15*a.Technique() + 0.15*a.Anticipation()
	case RatingPace:
		raw = 0.55*a.Pace() + 0.45*a.Acceleration()
	case RatingAerial:
		raw = 0.5*a.JumpingReach() + 0.3*a.Heading() + 0.2*a.Strength()
	case RatingDiscipline:
		// Higher is "more disciplined" (less likely to foul), so this is
		// phrased as the inverse of aggression blended with composure.
		raw = 0.6*(21-a.Aggression()) + 0.4*a.Composure()
	default:
		raw = 10
	}

	return clamp(raw, 1, 20)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// PositionCompatibility delegates to matchtype's fixed table; kept here too
// so callers only need to import the attribute package for "how good is
// this player, here" questions.
func PositionCompatibility(p matchtype.Player, slot matchtype.Position) float64 {
	return matchtype.PositionCompatibility(p, slot)
}

// PassingVision is a composite rating used by PlayerSelector for assists:
// spec §4.5 asks for "passing+vision" rather than one of the seven named
// kinds, so it is exposed directly.
func PassingVision(p matchtype.Player) float64 {
	a := p.Attributes
	return clamp(0.5*a.Passing()+0.5*a.Vision(), 1, 20)
}

// DribblingPace composite used by OutcomeResolver for "dribble past
// defender" (spec §4.6).
func DribblingPace(p matchtype.Player) float64 {
	a := p.Attributes
	return clamp(0.5*a.Dribbling()+0.5*a.Pace(), 1, 20)
}

// TacklingAnticipation composite for "tackle wins ball".
func TacklingAnticipation(p matchtype.Player) float64 {
	a := p.Attributes
	// There is no discrete "tackling" attribute in the bundle; spec leaves
	// exact weights to the implementer, so this blends the closest proxies:
	// aggression (engagement) and anticipation (timing), per DESIGN.md.
	return clamp(0.5*a.Aggression()+0.5*a.Anticipation(), 1, 20)
}

// DefenseAndPace composite (def and pace ratings, equally weighted) for the
// opponent side of a dribble contest.
func DefenseAndPace(p matchtype.Player) float64 {
	return clamp(0.5*Effective(p, RatingDefending)+0.5*Effective(p, RatingPace), 1, 20)
}
