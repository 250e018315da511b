package matchtype

// neighbors lists positions explicitly treated as close-enough substitutes
// for the 0.7 tier, beyond generic group membership (e.g. CM covers DM/AM).
var neighbors = map[Position][]Position{
	PosCB: {PosSW, PosDM},
	PosLB: {PosWB, PosLM},
	PosRB: {PosWB, PosRM},
	PosWB: {PosLB, PosRB},
	PosDM: {PosCM, PosCB},
	PosCM: {PosDM, PosAM},
	PosAM: {PosCM, PosLW, PosRW},
	PosLM: {PosLB, PosLW},
	PosRM: {PosRB, PosRW},
	PosLW: {PosLM, PosAM, PosST},
	PosRW: {PosRM, PosAM, PosST},
	PosST: {PosCF, PosF9, PosLW, PosRW},
	PosCF: {PosST, PosF9},
	PosF9: {PosST, PosCF, PosAM},
}

// PositionCompatibility scores a player's suitability for a formation slot:
// 1.0 exact primary match, 0.7 secondary/neighbor, 0.3 out-of-group,
// 0.0 GK-vs-outfield mismatch (except a GK who lists the outfield slot as a
// secondary position, scored 0.7).
func PositionCompatibility(p Player, slot Position) float64 {
	isGKSlot := slot == PosGK
	isGKPlayer := p.PrimaryPosition == PosGK

	if isGKSlot != isGKPlayer {
		// A GK is never compatible with an outfield slot and vice versa,
		// unless a GK lists the outfield slot as a secondary (rare, but
		// honored). An outfield player listing GK as a secondary scores 0.0.
		if !isGKSlot {
			for _, sp := range p.SecondaryPositions {
				if sp == slot {
					return 0.7
				}
			}
		}
		return 0.0
	}

	if p.PrimaryPosition == slot {
		return 1.0
	}
	for _, sp := range p.SecondaryPositions {
		if sp == slot {
			return 0.7
		}
	}
	for _, n := range neighbors[slot] {
		if p.PrimaryPosition == n {
			return 0.7
		}
	}
	return 0.3
}
