package causalchain

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
	"github.com/stitts-dev/matchsim/internal/selector"
)

func fullSquadPlayer(pos matchtype.Position) matchtype.Player {
	return matchtype.Player{
		ID:              uuid.New(),
		PrimaryPosition: pos,
		Attributes: matchtype.AttributeBundle{
			Technical: matchtype.TechnicalAttributes{Finishing: 14, Passing: 14, Dribbling: 14, Corners: 14, FreeKickTaking: 14, PenaltyTaking: 14},
			Mental:    matchtype.MentalAttributes{Composure: 14, Vision: 14, Aggression: 10, Anticipation: 12},
			Physical:  matchtype.PhysicalAttributes{Pace: 14, Balance: 12},
			Goalkeeping: matchtype.GoalkeepingAttributes{Reflexes: 14, Handling: 14},
		},
	}
}

func newChainState() *matchstate.MatchState {
	positions := []matchtype.Position{
		matchtype.PosGK, matchtype.PosCB, matchtype.PosCB, matchtype.PosLB, matchtype.PosRB,
		matchtype.PosDM, matchtype.PosCM, matchtype.PosCM, matchtype.PosLW, matchtype.PosRW, matchtype.PosST,
	}

	mkTeam := func() matchtype.Team {
		players := make([]matchtype.Player, len(positions))
		for i, pos := range positions {
			players[i] = fullSquadPlayer(pos)
		}
		return matchtype.Team{ID: uuid.New(), Players: players}
	}

	home, away := mkTeam(), mkTeam()

	mkLineup := func(team matchtype.Team) matchtype.MatchLineup {
		var starting [11]matchtype.OnPitchAssignment
		for i, p := range team.Players {
			starting[i] = matchtype.OnPitchAssignment{PlayerID: p.ID, Position: p.PrimaryPosition}
		}
		return matchtype.MatchLineup{Starting: starting}
	}

	st := matchstate.New(uuid.New(), home, away, mkLineup(home), mkLineup(away))
	for id := range st.Home.Fatigue {
		st.Home.Fatigue[id] = 1.0
	}
	for id := range st.Away.Fatigue {
		st.Away.Fatigue[id] = 1.0
	}
	selector.PrecomputeSetPieceTakers(st, matchstate.SideHome)
	selector.PrecomputeSetPieceTakers(st, matchstate.SideAway)
	return st
}

func TestBuildOpenPlayAttackProducesTerminalEvent(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(1)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimaryAttack)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	validTerminals := map[matchstate.EventType]bool{
		matchstate.EventGoal: true, matchstate.EventShotOffTarget: true,
		matchstate.EventSave: true, matchstate.EventCorner: true,
		matchstate.EventTackle: true, matchstate.EventAssist: true,
	}
	assert.True(t, validTerminals[last.Type], "unexpected terminal event type %s", last.Type)
}

func TestBuildTackleProducesTackleOrInterception(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(2)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimaryTackle)
	require.Len(t, events, 1)
	assert.Contains(t, []matchstate.EventType{matchstate.EventTackle, matchstate.EventInterception}, events[0].Type)
}

func TestBuildFoulAlwaysStartsWithFoulEvent(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(3)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimaryFoul)
	require.NotEmpty(t, events)
	assert.Equal(t, matchstate.EventFoul, events[0].Type)
}

func TestBuildCornerStartsWithCornerEvent(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(4)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimarySetPiece)
	require.NotEmpty(t, events)
	assert.Equal(t, matchstate.EventCorner, events[0].Type)
}

func TestBuildOffsideProducesSingleOffsideEvent(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(5)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimaryOffside)
	require.Len(t, events, 1)
	assert.Equal(t, matchstate.EventOffside, events[0].Type)
}

func TestBuildPenaltyResolvesToShotOutcome(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(6)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.BuildPenalty(st, matchstate.SideHome)
	require.NotEmpty(t, events)
}

func TestBuildUnknownKindReturnsNil(t *testing.T) {
	st := newChainState()
	b := New(rand.New(rand.NewSource(7)), matchtype.Tactic{}, matchtype.Tactic{})

	events := b.Build(st, matchstate.SideHome, PrimaryKind("unknown"))
	assert.Nil(t, events)
}

func TestBuildIsDeterministicForSameSeed(t *testing.T) {
	st1 := newChainState()
	st2 := newChainState()

	b1 := New(rand.New(rand.NewSource(55)), matchtype.Tactic{}, matchtype.Tactic{})
	b2 := New(rand.New(rand.NewSource(55)), matchtype.Tactic{}, matchtype.Tactic{})

	e1 := b1.Build(st1, matchstate.SideHome, PrimaryAttack)
	e2 := b2.Build(st2, matchstate.SideHome, PrimaryAttack)

	require.Equal(t, len(e1), len(e2))
	for i := range e1 {
		assert.Equal(t, e1[i].Type, e2[i].Type)
		assert.Equal(t, e1[i].Outcome, e2[i].Outcome)
	}
}
