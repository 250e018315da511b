// Package fatigue implements FatigueModel: per-minute stamina decay and the
// outcome-roll penalty it feeds into OutcomeResolver. The per-player decay
// is computed from three attributes: work_rate raises it, and the mean of
// stamina and natural_fitness lowers it. That mean is taken with gonum's
// stat package rather than a hand-rolled average, matching the
// pack's use of gonum.org/v1/gonum (TheManhattanProject-driver_pricing) for
// anything resembling a statistical model.
package fatigue

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/matchsim/internal/matchtype"
)

const baseDecayPerMinute = 0.0065

// Decay returns the fatigue lost this minute for a player with the given
// work_rate/stamina attributes, per spec §4.9:
// base_decay * (1 + work_rate_factor) / stamina_factor.
func Decay(p matchtype.Player, tempoMultiplier float64) float64 {
	workRateFactor := (p.Attributes.WorkRate() - 10) / 20 // roughly [-0.45, 0.5]
	staminaFactor := stat.Mean([]float64{p.Attributes.Stamina(), p.Attributes.NaturalFitness()}, nil) / 10

	decay := baseDecayPerMinute * (1 + workRateFactor) / math.Max(0.3, staminaFactor)
	return decay * tempoMultiplier
}

// Apply advances one player's fatigue by one minute, clamping to [0,1]
// (spec boundary behavior: fatigue never goes below 0.0 or above 1.0).
func Apply(current float64, p matchtype.Player, tempoMultiplier float64) float64 {
	next := current - Decay(p, tempoMultiplier)
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}

// Penalty is the outcome-threshold penalty applied in OutcomeResolver:
// max(0, (1-fatigue) * 0.15) per spec §4.6.
func Penalty(fatigue float64) float64 {
	return math.Max(0, (1-fatigue)*0.15)
}

// NeedsRest reports whether a player's fatigue has dropped low enough that
// the manager heuristic should bias toward substituting them (spec §4.9:
// below 0.4).
func NeedsRest(fatigue float64) bool { return fatigue < 0.4 }

// Degraded reports whether outcome thresholds should already be degrading
// for this player (spec §4.9: below 0.6).
func Degraded(fatigue float64) bool { return fatigue < 0.6 }
