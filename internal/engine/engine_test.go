package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

func testFormation() matchtype.Formation {
	return matchtype.Formation{
		Name: "4-3-3",
		Slots: [11]matchtype.FormationSlot{
			{Position: matchtype.PosGK, X: 5, Y: 50},
			{Position: matchtype.PosCB, X: 20, Y: 30},
			{Position: matchtype.PosCB, X: 20, Y: 70},
			{Position: matchtype.PosLB, X: 20, Y: 10},
			{Position: matchtype.PosRB, X: 20, Y: 90},
			{Position: matchtype.PosDM, X: 45, Y: 50},
			{Position: matchtype.PosCM, X: 55, Y: 30},
			{Position: matchtype.PosCM, X: 55, Y: 70},
			{Position: matchtype.PosLW, X: 80, Y: 15},
			{Position: matchtype.PosRW, X: 80, Y: 85},
			{Position: matchtype.PosST, X: 90, Y: 50},
		},
	}
}

func testPlayer(pos matchtype.Position, shirt int) matchtype.Player {
	return matchtype.Player{
		ID:              uuid.New(),
		DisplayName:     string(pos),
		ShirtNumber:     shirt,
		PrimaryPosition: pos,
		Attributes: matchtype.AttributeBundle{
			CurrentAbility: 130,
			Technical:      matchtype.TechnicalAttributes{Finishing: 14, Passing: 14, Dribbling: 14, Corners: 14, FreeKickTaking: 14, PenaltyTaking: 14},
			Mental:         matchtype.MentalAttributes{Composure: 14, Vision: 14, Aggression: 10, Anticipation: 12, WorkRate: 12},
			Physical:       matchtype.PhysicalAttributes{Pace: 14, Balance: 12, Stamina: 14, NaturalFitness: 14},
			Goalkeeping:    matchtype.GoalkeepingAttributes{Reflexes: 14, Handling: 14},
		},
	}
}

func testSquad(n int) []matchtype.Player {
	positions := []matchtype.Position{
		matchtype.PosGK, matchtype.PosCB, matchtype.PosCB, matchtype.PosLB, matchtype.PosRB,
		matchtype.PosDM, matchtype.PosCM, matchtype.PosCM, matchtype.PosLW, matchtype.PosRW, matchtype.PosST,
		matchtype.PosGK, matchtype.PosCB, matchtype.PosST, matchtype.PosCM, matchtype.PosRB,
	}
	players := make([]matchtype.Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, testPlayer(positions[i%len(positions)], i+1))
	}
	return players
}

func testSide(seed string) matchtype.MatchSide {
	team := matchtype.Team{ID: uuid.New(), Name: "Team " + seed, Players: testSquad(15)}
	return matchtype.MatchSide{Team: team, Formation: testFormation()}
}

func testInput() matchtype.MatchInput {
	return matchtype.MatchInput{
		MatchID: uuid.New(),
		Home:    testSide("Home"),
		Away:    testSide("Away"),
	}
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func drain(t *testing.T, ch <-chan StreamItem) []*Tick {
	t.Helper()
	var ticks []*Tick
	for item := range ch {
		require.NoError(t, item.Err)
		ticks = append(ticks, item.Tick)
	}
	return ticks
}

func TestNewRejectsEmptyTeam(t *testing.T) {
	input := testInput()
	input.Home.Team.Players = nil

	_, err := New(input, Options{AllowAutoLineup: true}, testLogger())
	assert.Error(t, err)
}

func TestNewRejectsMissingFormation(t *testing.T) {
	input := testInput()
	input.Home.Formation = matchtype.Formation{}

	_, err := New(input, Options{AllowAutoLineup: true}, testLogger())
	assert.Error(t, err)
}

func TestNewRejectsNoLineupWithoutAutoAllowed(t *testing.T) {
	input := testInput()
	_, err := New(input, Options{AllowAutoLineup: false}, testLogger())
	assert.Error(t, err)
}

func TestRunProducesLastTickAtFullTime(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true, TickBudget: time.Millisecond}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticks := drain(t, eng.Run(ctx))
	require.NotEmpty(t, ticks)
	last := ticks[len(ticks)-1]
	assert.Equal(t, matchstate.PhaseFullTime, last.Phase)
}

func TestRunIncludesHalfTimeTick(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticks := drain(t, eng.Run(ctx))
	found := false
	for _, tk := range ticks {
		if tk.Phase == matchstate.PhaseHalfTime {
			found = true
		}
	}
	assert.True(t, found, "expected a half_time phase tick")
}

func TestRunMinutesAreMonotonicallyNonDecreasing(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticks := drain(t, eng.Run(ctx))
	for i := 1; i < len(ticks); i++ {
		assert.GreaterOrEqual(t, ticks[i].Minute, ticks[i-1].Minute)
	}
}

func TestRunScoreOnlyChangesOnGoalEvents(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticks := drain(t, eng.Run(ctx))

	prevScore := matchstate.Score{}
	for _, tk := range ticks {
		if tk.Score != prevScore {
			goalSeen := false
			for _, ev := range tk.Events {
				if ev.Type == matchstate.EventGoal {
					goalSeen = true
				}
			}
			assert.True(t, goalSeen, "score changed in minute %d without a goal event", tk.Minute)
			prevScore = tk.Score
		}
	}
}

func TestRunStatsAreMonotonic(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticks := drain(t, eng.Run(ctx))

	var prevHome, prevAway matchstate.Stats
	for _, tk := range ticks {
		home := tk.Stats[matchstate.SideHome]
		away := tk.Stats[matchstate.SideAway]
		assert.GreaterOrEqual(t, home.Shots, prevHome.Shots)
		assert.GreaterOrEqual(t, home.Fouls, prevHome.Fouls)
		assert.GreaterOrEqual(t, away.Shots, prevAway.Shots)
		assert.GreaterOrEqual(t, away.Fouls, prevAway.Fouls)
		prevHome, prevAway = home, away
	}
}

func TestRunIsDeterministicForSameSeed(t *testing.T) {
	input := testInput()
	seed := uint64(123456)
	input.Seed = &seed

	eng1, err := New(input, Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)
	eng2, err := New(input, Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()

	ticks1 := drain(t, eng1.Run(ctx))
	ticks2 := drain(t, eng2.Run(ctx2))

	require.Equal(t, len(ticks1), len(ticks2))
	for i := range ticks1 {
		assert.Equal(t, ticks1[i].Score, ticks2[i].Score)
		assert.Equal(t, ticks1[i].Phase, ticks2[i].Phase)
		assert.Equal(t, ticks1[i].Possession, ticks2[i].Possession)
		assert.Equal(t, ticks1[i].Events, ticks2[i].Events)
	}
}

func TestRunNeverExceedsFiveSubstitutionsPerSide(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = drain(t, eng.Run(ctx))
	assert.LessOrEqual(t, eng.state.Home.SubstitutionsUsed, 5)
	assert.LessOrEqual(t, eng.state.Away.SubstitutionsUsed, 5)
}

func TestRunKeepsExactlyOneGKOnPitchPerSide(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = drain(t, eng.Run(ctx))

	for _, side := range []*matchstate.SideState{&eng.state.Home, &eng.state.Away} {
		gkCount := 0
		for _, a := range side.OnPitch {
			if a.Position == matchtype.PosGK {
				gkCount++
			}
		}
		assert.Equal(t, 1, gkCount)
	}
}

func TestLineupReturnsElevenStartersPerSide(t *testing.T) {
	eng, err := New(testInput(), Options{AllowAutoLineup: true}, testLogger())
	require.NoError(t, err)

	l := eng.Lineup()
	assert.Len(t, l.Home.Starting, 11)
	assert.Len(t, l.Away.Starting, 11)
}
