package matchstate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/matchsim/internal/matchtype"
)

func newTestState() *MatchState {
	mkLineup := func(positions ...matchtype.Position) matchtype.MatchLineup {
		var starting [11]matchtype.OnPitchAssignment
		for i, pos := range positions {
			starting[i] = matchtype.OnPitchAssignment{PlayerID: uuid.New(), Position: pos}
		}
		bench := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		return matchtype.MatchLineup{Starting: starting, Bench: bench}
	}

	positions := []matchtype.Position{
		matchtype.PosGK, matchtype.PosCB, matchtype.PosCB, matchtype.PosLB, matchtype.PosRB,
		matchtype.PosDM, matchtype.PosCM, matchtype.PosCM, matchtype.PosLW, matchtype.PosRW, matchtype.PosST,
	}
	home := mkLineup(positions...)
	away := mkLineup(positions...)

	return New(uuid.New(), matchtype.Team{}, matchtype.Team{}, home, away)
}

func TestApplyGoalIncrementsScoreAndShotStats(t *testing.T) {
	st := newTestState()
	scorer := st.Home.OnPitch[10].PlayerID

	err := st.Apply(Event{Type: EventGoal, Team: SideHome, PrimaryPlayerID: scorer})
	require.NoError(t, err)

	assert.Equal(t, 1, st.Score.Home)
	assert.Equal(t, 0, st.Score.Away)
	assert.Equal(t, 1, st.Home.Stats.Shots)
	assert.Equal(t, 1, st.Home.Stats.ShotsOnTarget)
}

func TestApplyUnknownEventTypeIsInvariantError(t *testing.T) {
	st := newTestState()
	err := st.Apply(Event{Type: EventType("not_a_real_event")})
	assert.Error(t, err)
}

func TestApplySecondYellowDerivesRedAndRemovesFromPitch(t *testing.T) {
	st := newTestState()
	defender := st.Home.OnPitch[1].PlayerID
	before := st.Home.OnPitchCount()

	require.NoError(t, st.Apply(Event{Type: EventYellowCard, Team: SideHome, PrimaryPlayerID: defender}))
	assert.Equal(t, before, st.Home.OnPitchCount(), "first yellow must not remove the player")
	assert.Equal(t, 1, st.Home.Yellow[defender])

	require.NoError(t, st.Apply(Event{Type: EventYellowCard, Team: SideHome, PrimaryPlayerID: defender}))
	assert.Equal(t, before-1, st.Home.OnPitchCount(), "second yellow must derive a red and remove the player")
	assert.True(t, st.Home.RedSet[defender])
	assert.Equal(t, 1, st.Home.Stats.RedCards)
	assert.False(t, st.Home.IsOnPitch(defender))
}

func TestApplyYellowToAlreadyRedCardedPlayerFails(t *testing.T) {
	st := newTestState()
	player := st.Home.OnPitch[1].PlayerID
	require.NoError(t, st.Apply(Event{Type: EventRedCard, Team: SideHome, PrimaryPlayerID: player}))

	err := st.Apply(Event{Type: EventYellowCard, Team: SideHome, PrimaryPlayerID: player})
	assert.Error(t, err)
}

func TestApplyRedCardOnGKPromotesEmergencyGK(t *testing.T) {
	st := newTestState()
	gk := st.Home.OnPitch[0].PlayerID
	require.NoError(t, st.Apply(Event{Type: EventRedCard, Team: SideHome, PrimaryPlayerID: gk}))

	_, hasGK := st.Home.GKPlayerID()
	assert.True(t, hasGK, "a field player must be promoted to GK after the GK is sent off")
	assert.Equal(t, 10, st.Home.OnPitchCount())
}

func TestApplySubstitutionSwapsPlayerAtSameSlot(t *testing.T) {
	st := newTestState()
	offID := st.Home.OnPitch[8].PlayerID
	onID := st.Home.Bench[0]
	slotPos := st.Home.OnPitch[8].Position

	err := st.Apply(Event{Type: EventSubstitution, Team: SideHome, PrimaryPlayerID: offID, SecondaryPlayerID: &onID})
	require.NoError(t, err)

	assert.True(t, st.Home.IsOnPitch(onID))
	assert.False(t, st.Home.IsOnPitch(offID))
	assert.Equal(t, slotPos, st.Home.OnPitch[8].Position)
	assert.Equal(t, 1, st.Home.SubstitutionsUsed)
	assert.True(t, st.Home.SubstitutedOff[offID])
	assert.NotContains(t, st.Home.Bench, onID)
}

func TestApplySubstitutionCapEnforced(t *testing.T) {
	st := newTestState()
	st.Home.SubstitutionsUsed = 5

	offID := st.Home.OnPitch[8].PlayerID
	onID := uuid.New()
	err := st.Apply(Event{Type: EventSubstitution, Team: SideHome, PrimaryPlayerID: offID, SecondaryPlayerID: &onID})
	assert.Error(t, err)
}

func TestApplySubstitutionRejectsReturningPlayer(t *testing.T) {
	st := newTestState()
	offID := st.Home.OnPitch[8].PlayerID
	onID := st.Home.Bench[0]
	require.NoError(t, st.Apply(Event{Type: EventSubstitution, Team: SideHome, PrimaryPlayerID: offID, SecondaryPlayerID: &onID}))

	// onID is now on pitch; try to sub off someone else back in as offID again.
	anotherOn := st.Home.Bench[0]
	err := st.Apply(Event{Type: EventSubstitution, Team: SideHome, PrimaryPlayerID: onID, SecondaryPlayerID: &offID})
	_ = anotherOn
	assert.Error(t, err, "a previously substituted-off player cannot return")
}

func TestApplyPassCompletedIncrementsBothCounters(t *testing.T) {
	st := newTestState()
	passer := st.Home.OnPitch[6].PlayerID

	require.NoError(t, st.Apply(Event{Type: EventPassCompleted, Team: SideHome, PrimaryPlayerID: passer}))
	assert.Equal(t, 1, st.Home.Stats.PassesAttempted)
	assert.Equal(t, 1, st.Home.Stats.PassesCompleted)
}

func TestApplyStatsAreMonotonic(t *testing.T) {
	st := newTestState()
	attacker := st.Home.OnPitch[10].PlayerID

	for i := 0; i < 3; i++ {
		require.NoError(t, st.Apply(Event{Type: EventShotOffTarget, Team: SideHome, PrimaryPlayerID: attacker}))
	}
	assert.Equal(t, 3, st.Home.Stats.Shots)
}
