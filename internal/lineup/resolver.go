// Package lineup implements LineupResolver: producing a starting XI and
// bench from a formation plus squad when no explicit selection exists, and
// validating a submitted one. Grounded on the teacher's deterministic
// lineup/optimizer selection style (sort-then-greedy-assign, stable
// tie-breaks) in services/optimization-service/internal/optimizer.
package lineup

import (
	"sort"

	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/attribute"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

const maxBench = 17

// Resolve produces a MatchLineup for a team: validates `submitted` if
// provided, otherwise auto-suggests one from the formation and roster.
func Resolve(team matchtype.Team, formation matchtype.Formation, submitted *matchtype.MatchLineup) (matchtype.MatchLineup, error) {
	if submitted != nil {
		return validate(team, *submitted)
	}
	return autoSuggest(team, formation)
}

func validate(team matchtype.Team, lineup matchtype.MatchLineup) (matchtype.MatchLineup, error) {
	seen := make(map[uuid.UUID]bool, 11)
	gkCount := 0

	for _, a := range lineup.Starting {
		if a.PlayerID == uuid.Nil {
			return matchtype.MatchLineup{}, apperr.InvalidLineup("starting XI must contain 11 distinct players")
		}
		if seen[a.PlayerID] {
			return matchtype.MatchLineup{}, apperr.InvalidLineup("starting XI contains a duplicate player")
		}
		seen[a.PlayerID] = true

		if _, ok := team.PlayerByID(a.PlayerID); !ok {
			return matchtype.MatchLineup{}, apperr.InvalidLineup("starting XI contains a player not on the team")
		}
		if a.Position == matchtype.PosGK {
			gkCount++
		}
	}

	if gkCount != 1 {
		return matchtype.MatchLineup{}, apperr.InvalidLineup("must contain exactly 1 GK")
	}

	if len(lineup.Bench) > maxBench {
		return matchtype.MatchLineup{}, apperr.InvalidLineup("bench exceeds 17 players")
	}
	benchSeen := make(map[uuid.UUID]bool, len(lineup.Bench))
	for _, id := range lineup.Bench {
		if seen[id] || benchSeen[id] {
			return matchtype.MatchLineup{}, apperr.InvalidLineup("bench player duplicated in starting XI or bench")
		}
		benchSeen[id] = true
		if _, ok := team.PlayerByID(id); !ok {
			return matchtype.MatchLineup{}, apperr.InvalidLineup("bench contains a player not on the team")
		}
	}

	return lineup, nil
}

// autoSuggest implements spec §4.2 step 2-3: slots sorted GK-first then by
// y ascending, greedy highest-ability compatible pick per slot, remainder
// to bench sorted by ability descending.
func autoSuggest(team matchtype.Team, formation matchtype.Formation) (matchtype.MatchLineup, error) {
	eligible := make([]matchtype.Player, 0, len(team.Players))
	for _, p := range team.Players {
		if !p.IsInjured {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) < 11 {
		return matchtype.MatchLineup{}, apperr.Precondition("fewer than 11 eligible (non-injured) players")
	}

	slots := formation.Slots
	slotOrder := make([]int, len(slots))
	for i := range slotOrder {
		slotOrder[i] = i
	}
	sort.SliceStable(slotOrder, func(i, j int) bool {
		si, sj := slots[slotOrder[i]], slots[slotOrder[j]]
		siGK, sjGK := si.Position == matchtype.PosGK, sj.Position == matchtype.PosGK
		if siGK != sjGK {
			return siGK
		}
		return si.Y < sj.Y
	})

	assigned := make(map[uuid.UUID]bool, 11)
	var starting [11]matchtype.OnPitchAssignment

	for _, slotIdx := range slotOrder {
		slot := slots[slotIdx]
		best, ok := pickBest(eligible, assigned, func(p matchtype.Player) bool {
			return attribute.PositionCompatibility(p, slot.Position) >= 0.7
		})
		if !ok {
			best, ok = pickBest(eligible, assigned, func(matchtype.Player) bool { return true })
		}
		if !ok {
			return matchtype.MatchLineup{}, apperr.Precondition("could not fill all 11 starting slots")
		}
		assigned[best.ID] = true
		starting[slotIdx] = matchtype.OnPitchAssignment{
			PlayerID: best.ID,
			Position: slot.Position,
			X:        slot.X,
			Y:        slot.Y,
		}
	}

	bench := make([]matchtype.Player, 0, len(eligible)-11)
	for _, p := range eligible {
		if !assigned[p.ID] {
			bench = append(bench, p)
		}
	}
	sort.SliceStable(bench, func(i, j int) bool { return less(bench[j], bench[i]) })
	if len(bench) > maxBench {
		bench = bench[:maxBench]
	}

	benchIDs := make([]uuid.UUID, len(bench))
	for i, p := range bench {
		benchIDs[i] = p.ID
	}

	return matchtype.MatchLineup{Starting: starting, Bench: benchIDs}, nil
}

// pickBest selects the highest-ability unassigned eligible player matching
// filter, using the spec's tie-break: higher ability, then lower shirt
// number, then lower player id (string-compared for determinism).
func pickBest(pool []matchtype.Player, assigned map[uuid.UUID]bool, filter func(matchtype.Player) bool) (matchtype.Player, bool) {
	var best matchtype.Player
	found := false
	for _, p := range pool {
		if assigned[p.ID] || !filter(p) {
			continue
		}
		if !found || less(best, p) {
			best = p
			found = true
		}
	}
	return best, found
}

// less reports whether b ranks strictly above a under the spec's tie-break
// order (higher ability, then lower shirt number, then lower id).
func less(a, b matchtype.Player) bool {
	if a.Attributes.Ability() != b.Attributes.Ability() {
		return a.Attributes.Ability() < b.Attributes.Ability()
	}
	if a.ShirtNumber != b.ShirtNumber {
		return a.ShirtNumber > b.ShirtNumber
	}
	return a.ID.String() > b.ID.String()
}
