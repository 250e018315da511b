// Package engine implements SimulationEngine: the driver that composes
// AttributeModel, LineupResolver, MatchState, PossessionEngine,
// PlayerSelector, OutcomeResolver, CausalChainBuilder, DisciplineModel,
// FatigueModel and TacticsModifier into one minute-by-minute tick stream,
// per spec §4.11.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/causalchain"
	"github.com/stitts-dev/matchsim/internal/commentary"
	"github.com/stitts-dev/matchsim/internal/discipline"
	"github.com/stitts-dev/matchsim/internal/fatigue"
	"github.com/stitts-dev/matchsim/internal/lineup"
	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
	"github.com/stitts-dev/matchsim/internal/possession"
	"github.com/stitts-dev/matchsim/internal/selector"
	"github.com/stitts-dev/matchsim/internal/tactics"
)

// Options carries the config knobs enumerated in spec §6 that are passed
// to the engine (as opposed to the streaming layer). MaxSubstitutions and
// TickBudget are defaulted by normalized but not read by the engine: the
// substitution cap is the fixed 5 enforced by discipline and matchstate,
// and no per-tick time limit is enforced.
type Options struct {
	StoppageBiasMax  int
	Commentary       bool
	AllowAutoLineup  bool
	MaxSubstitutions int
	TickBudget       time.Duration
}

func (o Options) normalized() Options {
	if o.StoppageBiasMax <= 0 {
		o.StoppageBiasMax = 5
	}
	if o.MaxSubstitutions <= 0 {
		o.MaxSubstitutions = 5
	}
	if o.TickBudget <= 0 {
		o.TickBudget = 50 * time.Millisecond
	}
	return o
}

// Engine drives one match simulation. It is not safe for concurrent use by
// multiple goroutines — one Engine per simulation, one simulation per
// goroutine, per spec §5.
type Engine struct {
	input   matchtype.MatchInput
	opts    Options
	logger  *logrus.Logger
	rng     *rand.Rand
	state   *matchstate.MatchState
	poss    *possession.Engine
	chain   *causalchain.Builder
	commBuilder *commentary.Builder
	eventsSeenSecondHalf int
}

// New validates input and builds the initial MatchState. It returns a
// CodedError (PreconditionFailure or InvalidLineup) before any tick is
// produced if validation fails, per spec §4.11/§7.
func New(input matchtype.MatchInput, opts Options, logger *logrus.Logger) (*Engine, error) {
	opts = opts.normalized()

	if len(input.Home.Team.Players) == 0 || len(input.Away.Team.Players) == 0 {
		return nil, apperr.Precondition("team has no players")
	}
	if isZeroFormation(input.Home.Formation) || isZeroFormation(input.Away.Formation) {
		return nil, apperr.Precondition("missing formation")
	}

	homeLineup, err := resolveSide(input.Home, opts.AllowAutoLineup)
	if err != nil {
		return nil, err
	}
	awayLineup, err := resolveSide(input.Away, opts.AllowAutoLineup)
	if err != nil {
		return nil, err
	}

	var seed int64
	if input.Seed != nil {
		seed = int64(*input.Seed)
	} else {
		seed = int64(uuidSeed(input.MatchID))
	}
	rng := rand.New(rand.NewSource(seed))

	state := matchstate.New(input.MatchID, input.Home.Team, input.Away.Team, homeLineup, awayLineup)

	selector.PrecomputeSetPieceTakers(state, matchstate.SideHome)
	selector.PrecomputeSetPieceTakers(state, matchstate.SideAway)

	e := &Engine{
		input:  input,
		opts:   opts,
		logger: logger,
		rng:    rng,
		state:  state,
		poss:   possession.New(rng, input.Home.Tactic, input.Away.Tactic),
		chain:  causalchain.New(rng, input.Home.Tactic, input.Away.Tactic),
	}
	if opts.Commentary {
		e.commBuilder = commentary.New()
	}

	return e, nil
}

func isZeroFormation(f matchtype.Formation) bool {
	return f.Slots[0].Position == "" && f.Slots[10].Position == ""
}

func resolveSide(side matchtype.MatchSide, allowAuto bool) (matchtype.MatchLineup, error) {
	if side.Lineup != nil {
		return lineup.Resolve(side.Team, side.Formation, side.Lineup)
	}
	if !allowAuto {
		return matchtype.MatchLineup{}, apperr.Precondition("no lineup submitted and auto lineup disabled")
	}
	return lineup.Resolve(side.Team, side.Formation, nil)
}

func uuidSeed(id [16]byte) uint64 {
	var s uint64
	for i, b := range id {
		s ^= uint64(b) << (uint(i%8) * 8)
	}
	if s == 0 {
		s = 1
	}
	return s
}

// Lineup returns both sides' resolved starting XI, for the publisher's
// one-time `lineup` frame.
func (e *Engine) Lineup() LineupFrame {
	build := func(side matchstate.Side) SideLineup {
		team := e.state.Teams[side]
		var formation matchtype.Formation
		if side == matchstate.SideHome {
			formation = e.input.Home.Formation
		} else {
			formation = e.input.Away.Formation
		}
		starters := make([]StartingPlayer, 0, 11)
		for _, a := range e.state.Side(side).OnPitch {
			p, _ := team.PlayerByID(a.PlayerID)
			starters = append(starters, StartingPlayer{
				PlayerID: a.PlayerID, Name: p.DisplayName,
				Position: string(a.Position), ShirtNumber: p.ShirtNumber,
			})
		}
		return SideLineup{TeamName: team.Name, Formation: formation.Name, Starting: starters}
	}
	return LineupFrame{Home: build(matchstate.SideHome), Away: build(matchstate.SideAway)}
}

// Run drives the minute-by-minute tick loop, sending one StreamItem per
// tick plus phase-transition ticks, closing the channel after the final
// tick or a terminal error (spec §4.11/§5).
func (e *Engine) Run(ctx context.Context) <-chan StreamItem {
	out := make(chan StreamItem, 1)

	go func() {
		defer close(out)

		if !e.runMinuteRange(ctx, out, 1, 45, matchstate.PhaseFirstHalf) {
			return
		}

		ht := e.snapshotTick(45, matchstate.PhaseHalfTime, nil)
		select {
		case out <- StreamItem{Tick: ht}:
		case <-ctx.Done():
			return
		}

		if !e.runMinuteRange(ctx, out, 46, 90, matchstate.PhaseSecondHalf) {
			return
		}

		stoppage := e.computeSecondHalfStoppage()
		lastMatchMinute := 90 + stoppage
		if !e.runMinuteRange(ctx, out, 91, lastMatchMinute, matchstate.PhaseSecondHalf) {
			return
		}

		e.state.Phase = matchstate.PhaseFullTime
		ft := e.snapshotTick(lastMatchMinute, matchstate.PhaseFullTime, nil)
		select {
		case out <- StreamItem{Tick: ft}:
		case <-ctx.Done():
		}
	}()

	return out
}

// runMinuteRange advances the match from from through to (inclusive),
// sending one StreamItem per minute. It returns false if the loop was cut
// short by a terminal error or context cancellation, in which case Run must
// not produce any further ticks.
func (e *Engine) runMinuteRange(ctx context.Context, out chan<- StreamItem, from, to int, phase matchstate.Phase) bool {
	for minute := from; minute <= to; minute++ {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		e.state.Minute = minute
		e.state.Phase = phase

		tick, err := e.advanceMinute(minute)
		if err != nil {
			out <- StreamItem{Err: err}
			return false
		}

		select {
		case out <- StreamItem{Tick: tick}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// computeSecondHalfStoppage samples second-half stoppage time once the
// regulation 90 minutes have been simulated, biased by how many
// second-half events actually fired: busier second halves run longer, per
// spec's single full-match stoppage term.
func (e *Engine) computeSecondHalfStoppage() int {
	base := e.rng.Intn(e.opts.StoppageBiasMax + 1)
	bias := e.eventsSeenSecondHalf / 8
	stoppage := base + bias
	if stoppage > e.opts.StoppageBiasMax {
		stoppage = e.opts.StoppageBiasMax
	}
	return stoppage
}

// advanceMinute runs one full minute of simulation: fatigue, possession,
// ignition, selection/resolution/causal-chain expansion, apply, and the
// post-event substitution heuristic.
func (e *Engine) advanceMinute(minute int) (*Tick, error) {
	e.advanceFatigue()
	e.poss.Advance(e.state)

	var events []matchstate.Event

	ignitionP := e.poss.IgnitionProbability(e.state)
	if e.rng.Float64() < ignitionP {
		kind, side := e.choosePrimaryEvent()
		chainEvents := e.buildChain(side, kind)
		for _, ev := range chainEvents {
			if err := e.state.Apply(ev); err != nil {
				return nil, apperr.Internal(minute, string(ev.Type), err)
			}
			events = append(events, ev)
			if ev.Type == matchstate.EventFoul {
				events = append(events, e.maybeCard(ev)...)
			}
		}
	}

	if e.state.Possession != matchstate.PossessionContested {
		side := matchstate.SideHome
		if e.state.Possession == matchstate.PossessionAway {
			side = matchstate.SideAway
		}
		e.state.Side(side).Stats.PossessionTicks++
	}

	events = append(events, e.runSubstitutionHeuristic(minute)...)

	return e.snapshotTick(minute, e.state.Phase, events), nil
}

func possessingSide(state *matchstate.MatchState) matchstate.Side {
	if state.Possession == matchstate.PossessionAway {
		return matchstate.SideAway
	}
	return matchstate.SideHome
}

func (e *Engine) advanceFatigue() {
	for _, side := range []matchstate.Side{matchstate.SideHome, matchstate.SideAway} {
		team := e.state.Teams[side]
		sideState := e.state.Side(side)
		var tac matchtype.Tactic
		if side == matchstate.SideHome {
			tac = e.input.Home.Tactic
		} else {
			tac = e.input.Away.Tactic
		}
		mult := tactics.TempoMultiplier(tac)
		for _, a := range sideState.OnPitch {
			p, ok := team.PlayerByID(a.PlayerID)
			if !ok {
				continue
			}
			sideState.Fatigue[a.PlayerID] = fatigue.Apply(sideState.Fatigue[a.PlayerID], p, mult)
		}
	}
}

// choosePrimaryEvent selects a causalchain.PrimaryKind and the side that
// gets to act, conditioned on zone/phase per spec §4.11 step 4.
func (e *Engine) choosePrimaryEvent() (causalchain.PrimaryKind, matchstate.Side) {
	side := possessingSide(e.state)
	if e.state.Possession == matchstate.PossessionContested {
		if e.rng.Float64() < 0.5 {
			side = matchstate.SideAway
		}
	}

	roll := e.rng.Float64()
	switch {
	case roll < 0.45:
		return causalchain.PrimaryAttack, side
	case roll < 0.70:
		return causalchain.PrimaryTackle, side
	case roll < 0.85:
		return causalchain.PrimaryFoul, side
	case roll < 0.93:
		return causalchain.PrimarySetPiece, side
	default:
		return causalchain.PrimaryOffside, side
	}
}

func (e *Engine) buildChain(side matchstate.Side, kind causalchain.PrimaryKind) []matchstate.Event {
	if e.state.Phase == matchstate.PhaseSecondHalf {
		e.eventsSeenSecondHalf++
	}

	return e.chain.Build(e.state, side, kind)
}

// maybeCard rolls DisciplineModel's card decision for a resolved foul and
// applies the resulting yellow/red in this same tick (spec §4.11 step 6:
// "apply each derived event to MatchState via apply, in order").
func (e *Engine) maybeCard(foul matchstate.Event) []matchstate.Event {
	player, ok := e.state.Teams[foul.Team].PlayerByID(foul.PrimaryPlayerID)
	if !ok {
		return nil
	}

	switch discipline.DecideCard(e.rng, player) {
	case discipline.Yellow:
		ev := matchstate.Event{
			Type: matchstate.EventYellowCard, Team: foul.Team,
			PrimaryPlayerID: foul.PrimaryPlayerID, PrimaryPlayerName: foul.PrimaryPlayerName,
			Outcome: "yellow",
		}
		before := e.state.Side(foul.Team).RedSet[foul.PrimaryPlayerID]
		if err := e.state.Apply(ev); err != nil {
			return nil
		}
		result := []matchstate.Event{ev}
		after := e.state.Side(foul.Team).RedSet[foul.PrimaryPlayerID]
		if after && !before {
			result = append(result, matchstate.Event{
				Type: matchstate.EventRedCard, Team: foul.Team,
				PrimaryPlayerID: foul.PrimaryPlayerID, PrimaryPlayerName: foul.PrimaryPlayerName,
				Outcome: "second_yellow",
			})
		}
		return result
	case discipline.StraightRed:
		ev := matchstate.Event{
			Type: matchstate.EventRedCard, Team: foul.Team,
			PrimaryPlayerID: foul.PrimaryPlayerID, PrimaryPlayerName: foul.PrimaryPlayerName,
			Outcome: "straight_red",
		}
		if err := e.state.Apply(ev); err != nil {
			return nil
		}
		return []matchstate.Event{ev}
	default:
		return nil
	}
}

func (e *Engine) snapshotTick(minute int, phase matchstate.Phase, events []matchstate.Event) *Tick {
	t := &Tick{
		Minute:     minute,
		Phase:      phase,
		Possession: e.state.Possession,
		BallZone:   e.state.BallZone,
		Score:      e.state.Score,
		Stats: map[matchstate.Side]matchstate.Stats{
			matchstate.SideHome: e.state.Home.Stats,
			matchstate.SideAway: e.state.Away.Stats,
		},
		Events: events,
	}
	if e.commBuilder != nil {
		t.Commentary = e.commBuilder.Build(e.state, events)
	}
	return t
}
