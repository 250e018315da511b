// Package tactics implements TacticsModifier: a pure function from a
// Tactic to a bundle of additive/multiplicative probability modifiers,
// per spec §4.10.
package tactics

import "github.com/stitts-dev/matchsim/internal/matchtype"

// Modifiers is the bundle of adjustments Derive produces. The engine reads
// IgnitionBonus, TurnoverBonus and PassSuccessBonus; OffsideBonus and
// FatigueDecayBonus are computed but not read outside this package (fatigue
// decay uses TempoMultiplier's own pressing term instead).
type Modifiers struct {
	IgnitionBonus      float64 // averaged over both sides, added to ignition probability in every zone
	OffsideBonus       float64 // offside-risk term from defensive line and offside trap
	TurnoverBonus      float64 // added to possession-turnover probability
	FatigueDecayBonus  float64 // fatigue-decay term from pressing
	PassSuccessBonus   float64 // mentality term; causalchain uses it as the tactics term of the shot-on-target roll
}

// Derive computes the modifier bundle for one side's tactic, normalized so
// omitted fields read as balanced/standard (spec §3).
func Derive(t matchtype.Tactic) Modifiers {
	t = t.Normalized()
	m := Modifiers{}

	switch t.Mentality {
	case matchtype.VeryAttacking:
		m.IgnitionBonus += 0.05
		m.PassSuccessBonus -= 0.02
	case matchtype.Attacking:
		m.IgnitionBonus += 0.02
	case matchtype.Defensive:
		m.IgnitionBonus -= 0.02
		m.PassSuccessBonus += 0.02
	case matchtype.VeryDefensive:
		m.IgnitionBonus -= 0.05
		m.PassSuccessBonus += 0.04
	}

	switch t.Pressing {
	case matchtype.PressOften:
		m.TurnoverBonus += 0.05
		m.FatigueDecayBonus += 0.02
	case matchtype.PressAlways:
		m.TurnoverBonus += 0.09
		m.FatigueDecayBonus += 0.04
	}

	switch t.DefensiveLine {
	case matchtype.High:
		m.OffsideBonus += 0.05
	case matchtype.VeryHigh:
		m.OffsideBonus += 0.09
	}

	if t.OffsideTrap {
		m.OffsideBonus += 0.04
	}

	// Tempo perturbs ignition directly: faster tempo, more key events.
	m.IgnitionBonus += (t.Tempo - 0.5) * 0.06

	return m
}

// TempoMultiplier scales FatigueModel's per-minute decay: higher tempo and
// pressing both tire players faster.
func TempoMultiplier(t matchtype.Tactic) float64 {
	t = t.Normalized()
	mult := 0.85 + t.Tempo*0.3
	if t.Pressing >= matchtype.PressOften {
		mult += 0.1
	}
	return mult
}
