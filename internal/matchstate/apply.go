package matchstate

import (
	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// Apply is the sole mutation path for MatchState (spec §4.3). Every event
// type has a declarative effect; unknown types are rejected as an
// Invariant violation rather than silently ignored.
func (m *MatchState) Apply(e Event) error {
	side := m.Side(e.Team)

	switch e.Type {
	case EventGoal:
		if e.Team == SideHome {
			m.Score.Home++
		} else {
			m.Score.Away++
		}
		side.Stats.Shots++
		side.Stats.ShotsOnTarget++

	case EventShotOnTarget:
		side.Stats.Shots++
		side.Stats.ShotsOnTarget++

	case EventShotOffTarget, EventShotBlocked:
		side.Stats.Shots++

	case EventSave:
		// Save is recorded against the saving side; the shot itself already
		// incremented the shooting side's shots/shots_on_target when it
		// resolved, so this only needs to exist as a causal marker — no
		// counter here belongs to the defending side per spec §4.3.

	case EventCorner:
		side.Stats.Corners++

	case EventFoul:
		side.Stats.Fouls++

	case EventOffside:
		side.Stats.Offsides++

	case EventPassAttempted:
		side.Stats.PassesAttempted++

	case EventPassCompleted:
		side.Stats.PassesAttempted++
		side.Stats.PassesCompleted++

	case EventTackle:
		side.Stats.Tackles++

	case EventInterception:
		side.Stats.Interceptions++

	case EventClearance, EventAssist:
		// No dedicated counters; these exist purely for causal-chain
		// context and are still streamed to the client.

	case EventYellowCard:
		if err := m.applyYellow(e); err != nil {
			return err
		}

	case EventRedCard:
		if err := m.applyRed(e); err != nil {
			return err
		}

	case EventSubstitution:
		if err := m.applySubstitution(e); err != nil {
			return err
		}

	default:
		return apperr.Invariant("unknown event type: " + string(e.Type))
	}

	return nil
}

// applyYellow increments the yellow count and, per spec §4.3, derives a
// red card in the same tick on the second yellow. The derived red is
// applied immediately (not merely queued) so every subsequent Apply call
// in this tick observes the player already removed.
func (m *MatchState) applyYellow(e Event) error {
	side := m.Side(e.Team)
	if side.RedSet[e.PrimaryPlayerID] {
		return apperr.Invariant("yellow card issued to an already red-carded player")
	}

	side.Yellow[e.PrimaryPlayerID]++
	side.Stats.YellowCards++

	if side.Yellow[e.PrimaryPlayerID] == 2 {
		return m.applyRed(Event{
			Type:              EventRedCard,
			Team:              e.Team,
			PrimaryPlayerID:   e.PrimaryPlayerID,
			PrimaryPlayerName: e.PrimaryPlayerName,
			Outcome:           "second_yellow",
			Coordinates:       e.Coordinates,
		})
	}
	return nil
}

// applyRed removes the player from on_pitch (I1, I3) and marks RedSet so
// the player can never be re-selected or substituted back on (I4).
func (m *MatchState) applyRed(e Event) error {
	side := m.Side(e.Team)
	if side.RedSet[e.PrimaryPlayerID] {
		return apperr.Invariant("player already red-carded")
	}

	side.RedSet[e.PrimaryPlayerID] = true
	side.Stats.RedCards++

	before := len(side.OnPitch)
	kept := side.OnPitch[:0:0]
	for _, a := range side.OnPitch {
		if a.PlayerID != e.PrimaryPlayerID {
			kept = append(kept, a)
		}
	}
	side.OnPitch = kept
	if len(side.OnPitch) != before-1 {
		return apperr.Invariant("red card did not remove exactly one on-pitch player")
	}

	// If the GK was sent off, a field player must be demoted to GK role
	// (spec §3 I2, §12 open-question resolution): the remaining outfield
	// player nearest the GK slot's defensive duties takes over.
	if _, hasGK := side.GKPlayerID(); !hasGK {
		m.promoteEmergencyGK(side)
	}

	return nil
}

// promoteEmergencyGK relabels the most defensive remaining outfield player
// as GK in state, per the resolved open question: no bench replacement is
// forced, the role simply moves.
func (m *MatchState) promoteEmergencyGK(side *SideState) {
	if len(side.OnPitch) == 0 {
		return
	}
	bestIdx := 0
	for i, a := range side.OnPitch {
		if gkPriority(a.Position) < gkPriority(side.OnPitch[bestIdx].Position) {
			bestIdx = i
		}
	}
	side.OnPitch[bestIdx].Position = "GK"
}

func gkPriority(p matchtype.Position) int {
	switch p {
	case matchtype.PosCB:
		return 0
	case matchtype.PosSW:
		return 1
	case matchtype.PosLB, matchtype.PosRB, matchtype.PosWB:
		return 2
	case matchtype.PosDM:
		return 3
	default:
		return 4
	}
}

// applySubstitution swaps a bench player onto the pitch at the same slot a
// substituted-off player held, enforcing the 5-sub cap (I4) and the
// substituted-off exclusion.
func (m *MatchState) applySubstitution(e Event) error {
	side := m.Side(e.Team)
	if side.SubstitutionsUsed >= 5 {
		return apperr.Invariant("substitution cap exceeded")
	}
	if e.SecondaryPlayerID == nil {
		return apperr.Invariant("substitution missing incoming player id")
	}
	offID := e.PrimaryPlayerID
	onID := *e.SecondaryPlayerID

	if side.SubstitutedOff[onID] {
		return apperr.Invariant("a substituted-off player cannot return")
	}

	idx := -1
	for i, a := range side.OnPitch {
		if a.PlayerID == offID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperr.Invariant("substituted-off player was not on pitch")
	}

	slot := side.OnPitch[idx]
	side.OnPitch[idx] = matchtype.OnPitchAssignment{
		PlayerID: onID,
		Position: slot.Position,
		X:        slot.X,
		Y:        slot.Y,
	}
	side.SubstitutedOff[offID] = true
	side.SubstitutionsUsed++
	side.Fatigue[onID] = 1.0

	newBench := side.Bench[:0:0]
	for _, id := range side.Bench {
		if id != onID {
			newBench = append(newBench, id)
		}
	}
	side.Bench = newBench

	return nil
}
