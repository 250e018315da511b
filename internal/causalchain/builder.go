// Package causalchain implements CausalChainBuilder: expanding a resolved
// primary event into an ordered sequence of sub-actions, each resolved in
// turn by outcome.Resolve and selector.Select, per spec §4.7.
package causalchain

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
	"github.com/stitts-dev/matchsim/internal/outcome"
	"github.com/stitts-dev/matchsim/internal/selector"
	"github.com/stitts-dev/matchsim/internal/tactics"
)

// PrimaryKind is the zone/phase-conditioned primary event family chosen by
// the engine each ignited tick, per spec §4.11 step 4.
type PrimaryKind string

const (
	PrimaryAttack      PrimaryKind = "attack"
	PrimaryTackle      PrimaryKind = "tackle"
	PrimaryFoul        PrimaryKind = "foul"
	PrimarySetPiece    PrimaryKind = "set_piece"
	PrimaryOffside     PrimaryKind = "offside"
)

// Builder holds the per-match RNG and tactic context.
type Builder struct {
	rng         *rand.Rand
	homeTactic  matchtype.Tactic
	awayTactic  matchtype.Tactic
}

func New(rng *rand.Rand, homeTactic, awayTactic matchtype.Tactic) *Builder {
	return &Builder{rng: rng, homeTactic: homeTactic, awayTactic: awayTactic}
}

func (b *Builder) tacticModFor(side matchstate.Side) float64 {
	t := b.homeTactic
	if side == matchstate.SideAway {
		t = b.awayTactic
	}
	return tactics.Derive(t).PassSuccessBonus
}

// attackX is the x coordinate the attacking side shoots toward: always 100
// in the team-relative frame per spec's coordinate rule. Events carry these
// team-relative coordinates as they are; nothing mirrors them for the away
// side.
const attackX = 100.0

// Build expands one primary event for attackingSide into an ordered
// []matchstate.Event, each carrying its own Sequence of sub-actions.
func (b *Builder) Build(state *matchstate.MatchState, attackingSide matchstate.Side, kind PrimaryKind) []matchstate.Event {
	switch kind {
	case PrimaryAttack:
		return b.buildOpenPlayAttack(state, attackingSide)
	case PrimaryTackle:
		return b.buildTackle(state, attackingSide)
	case PrimaryFoul:
		return b.buildFoul(state, attackingSide)
	case PrimarySetPiece:
		return b.buildCorner(state, attackingSide)
	case PrimaryOffside:
		return b.buildOffside(state, attackingSide)
	default:
		return nil
	}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func (b *Builder) name(state *matchstate.MatchState, side matchstate.Side, id uuid.UUID) string {
	return state.PlayerName(side, id)
}

// buildOpenPlayAttack implements: pass -> (optional) dribble -> shot; a lost
// dribble ends the chain with a tackle, and the shot branches to goal /
// on-target->save->(corner|catch) / off-target. There is no pass/cross step
// between the dribble and the shot, and no blocked-shot branch.
func (b *Builder) buildOpenPlayAttack(state *matchstate.MatchState, side matchstate.Side) []matchstate.Event {
	defSide := side.Other()

	passerID, ok := selector.Select(b.rng, state, side, selector.RolePasser, false)
	if !ok {
		return nil
	}
	shooterID, ok := selector.Select(b.rng, state, side, selector.RoleShooter, false)
	if !ok {
		shooterID = passerID
	}

	var sequence []matchstate.SubAction
	ballPos := matchtype.FormationSlot{X: 40, Y: 50}
	sequence = append(sequence, matchstate.SubAction{
		Action: "pass", ActorID: passerID, TargetID: ptr(shooterID),
		BallStart:  matchstate.Coordinates{X: ballPos.X, Y: ballPos.Y},
		BallEnd:    matchstate.Coordinates{X: 70, Y: 50},
		DurationMS: 1200,
	})

	passEvent := matchstate.Event{
		Type: matchstate.EventPassCompleted, Team: side,
		PrimaryPlayerID: passerID, PrimaryPlayerName: b.name(state, side, passerID),
		SecondaryPlayerID: ptr(shooterID), SecondaryPlayerName: b.name(state, side, shooterID),
		Outcome: "completed", Coordinates: matchstate.Coordinates{X: 70, Y: 50},
	}

	// Optional dribble past a defender.
	defenderID, hasDefender := selector.Select(b.rng, state, defSide, selector.RoleTackler, false)
	if hasDefender && b.rng.Float64() < 0.5 {
		shooter, _ := state.Teams[side].PlayerByID(shooterID)
		defender, _ := state.Teams[defSide].PlayerByID(defenderID)
		won := outcome.Resolve(b.rng, outcome.Input{
			Kind: outcome.KindDribblePast, Actor: shooter,
			ActorRating: outcome.RatingFor(outcome.KindDribblePast, shooter),
			Opponent:    &defender, OpponentRating: outcome.OpponentRatingFor(outcome.KindDribblePast, defender),
			ActorFatigue: state.Side(side).Fatigue[shooterID],
		})
		sequence = append(sequence, matchstate.SubAction{
			Action: "dribble", ActorID: shooterID, TargetID: ptr(defenderID),
			BallStart: matchstate.Coordinates{X: 70, Y: 50}, BallEnd: matchstate.Coordinates{X: 80, Y: 50},
			DurationMS: 900,
		})
		if !won {
			// Dribble lost possession: tackle event ends the chain.
			sequence = append(sequence, matchstate.SubAction{Action: "tackle", ActorID: defenderID, TargetID: ptr(shooterID)})
			return []matchstate.Event{passEvent, {
				Type: matchstate.EventTackle, Team: defSide,
				PrimaryPlayerID: defenderID, PrimaryPlayerName: b.name(state, defSide, defenderID),
				Coordinates: matchstate.Coordinates{X: 20, Y: 50}, Sequence: sequence,
			}}
		}
	}

	sequence = append(sequence, matchstate.SubAction{
		Action: "shoot", ActorID: shooterID,
		BallStart: matchstate.Coordinates{X: 80, Y: 50}, BallEnd: matchstate.Coordinates{X: attackX, Y: 50},
		DurationMS: 700,
	})

	shotEvents := b.resolveShot(state, side, shooterID, ptr(passerID), sequence)
	return append([]matchstate.Event{passEvent}, shotEvents...)
}

// resolveShot resolves a shoot sub-action into the goal/on-target/off-target
// branch tree, producing the terminal event(s) carrying the full sequence.
func (b *Builder) resolveShot(state *matchstate.MatchState, side matchstate.Side, shooterID uuid.UUID, assisterID *uuid.UUID, sequence []matchstate.SubAction) []matchstate.Event {
	defSide := side.Other()
	shooter, _ := state.Teams[side].PlayerByID(shooterID)

	onTarget := outcome.Resolve(b.rng, outcome.Input{
		Kind: outcome.KindShotOnTarget, Actor: shooter,
		ActorRating:  outcome.RatingFor(outcome.KindShotOnTarget, shooter),
		ActorFatigue: state.Side(side).Fatigue[shooterID],
		TacticsMod:   b.tacticModFor(side),
	})

	if !onTarget {
		return []matchstate.Event{{
			Type: matchstate.EventShotOffTarget, Team: side,
			PrimaryPlayerID: shooterID, PrimaryPlayerName: b.name(state, side, shooterID),
			Outcome: "off_target", Coordinates: matchstate.Coordinates{X: attackX, Y: 50}, Sequence: sequence,
		}}
	}

	gkID, hasGK := selector.SelectGoalkeeper(state, defSide)
	var gk matchtype.Player
	if hasGK {
		gk, _ = state.Teams[defSide].PlayerByID(gkID)
	}

	goal := outcome.Resolve(b.rng, outcome.Input{
		Kind: outcome.KindOnTargetGoal, Actor: shooter,
		ActorRating:    outcome.RatingFor(outcome.KindOnTargetGoal, shooter),
		Opponent:       &gk,
		OpponentRating: outcome.OpponentRatingFor(outcome.KindOnTargetGoal, gk),
		ActorFatigue:   state.Side(side).Fatigue[shooterID],
	})

	if goal {
		events := []matchstate.Event{{
			Type: matchstate.EventGoal, Team: side,
			PrimaryPlayerID: shooterID, PrimaryPlayerName: b.name(state, side, shooterID),
			SecondaryPlayerID: assisterID, Outcome: "goal",
			Coordinates: matchstate.Coordinates{X: attackX, Y: 50}, Sequence: sequence,
		}}
		if assisterID != nil {
			events = append(events, matchstate.Event{
				Type: matchstate.EventAssist, Team: side,
				PrimaryPlayerID: *assisterID, PrimaryPlayerName: b.name(state, side, *assisterID),
				Outcome: "assist",
			})
		}
		return events
	}

	// Shot on target but saved; save may lead to a corner or a clean catch.
	saveEvent := matchstate.Event{
		Type: matchstate.EventSave, Team: defSide,
		PrimaryPlayerID: gkID, PrimaryPlayerName: b.name(state, defSide, gkID),
		SecondaryPlayerID: ptr(shooterID), Outcome: "saved",
		Coordinates: matchstate.Coordinates{X: 5, Y: 50}, Sequence: sequence,
	}

	shotOnTargetEvent := matchstate.Event{
		Type: matchstate.EventShotOnTarget, Team: side,
		PrimaryPlayerID: shooterID, PrimaryPlayerName: b.name(state, side, shooterID),
		Outcome: "saved", Coordinates: matchstate.Coordinates{X: attackX, Y: 50},
	}

	if b.rng.Float64() < 0.4 {
		corner := matchstate.Event{
			Type: matchstate.EventCorner, Team: side,
			PrimaryPlayerID: state.Side(side).CornerTaker,
			PrimaryPlayerName: b.name(state, side, state.Side(side).CornerTaker),
			Outcome: "corner",
		}
		return []matchstate.Event{shotOnTargetEvent, saveEvent, corner}
	}
	return []matchstate.Event{shotOnTargetEvent, saveEvent}
}

// buildTackle implements a defensive win-the-ball chain: one tackle attempt.
// Success yields a "won" tackle event for the defending side; failure yields
// an "evaded_tackle" interception event credited to the attacking side.
func (b *Builder) buildTackle(state *matchstate.MatchState, attackingSide matchstate.Side) []matchstate.Event {
	defSide := attackingSide.Other()
	defenderID, ok := selector.Select(b.rng, state, defSide, selector.RoleTackler, false)
	if !ok {
		return nil
	}
	attackerID, ok := selector.Select(b.rng, state, attackingSide, selector.RolePasser, false)
	if !ok {
		return nil
	}

	defender, _ := state.Teams[defSide].PlayerByID(defenderID)
	attacker, _ := state.Teams[attackingSide].PlayerByID(attackerID)

	won := outcome.Resolve(b.rng, outcome.Input{
		Kind: outcome.KindTackleWinBall, Actor: defender,
		ActorRating:    outcome.RatingFor(outcome.KindTackleWinBall, defender),
		Opponent:       &attacker,
		OpponentRating: outcome.OpponentRatingFor(outcome.KindTackleWinBall, attacker),
		ActorFatigue:   state.Side(defSide).Fatigue[defenderID],
	})

	seq := []matchstate.SubAction{{Action: "tackle", ActorID: defenderID, TargetID: ptr(attackerID)}}
	if won {
		return []matchstate.Event{{
			Type: matchstate.EventTackle, Team: defSide,
			PrimaryPlayerID: defenderID, PrimaryPlayerName: b.name(state, defSide, defenderID),
			SecondaryPlayerID: ptr(attackerID), Outcome: "won", Sequence: seq,
		}}
	}
	return []matchstate.Event{{
		Type: matchstate.EventInterception, Team: attackingSide,
		PrimaryPlayerID: attackerID, PrimaryPlayerName: b.name(state, attackingSide, attackerID),
		Outcome: "evaded_tackle", Sequence: seq,
	}}
}

// buildFoul implements: foul -> free_kick -> {direct_shot | cross ->
// header ...}, with card resolution handled by the engine after Build
// returns (card decisions consult discipline, not causalchain).
func (b *Builder) buildFoul(state *matchstate.MatchState, attackingSide matchstate.Side) []matchstate.Event {
	defSide := attackingSide.Other()
	foulerID, ok := selector.Select(b.rng, state, defSide, selector.RoleFouler, false)
	if !ok {
		return nil
	}
	foulEvent := matchstate.Event{
		Type: matchstate.EventFoul, Team: defSide,
		PrimaryPlayerID: foulerID, PrimaryPlayerName: b.name(state, defSide, foulerID),
		Outcome: "foul_committed",
	}

	dangerous := state.BallZone == matchstate.ZoneAwayDefensive || state.BallZone == matchstate.ZoneHomeDefensive
	if !dangerous {
		return []matchstate.Event{foulEvent}
	}

	if b.rng.Float64() < 0.2 {
		return append([]matchstate.Event{foulEvent}, b.BuildPenalty(state, attackingSide)...)
	}

	takerID := state.Side(attackingSide).FreeKickTaker
	taker, _ := state.Teams[attackingSide].PlayerByID(takerID)
	seq := []matchstate.SubAction{{Action: "free_kick", ActorID: takerID}}

	if b.rng.Float64() < 0.4 {
		seq = append(seq, matchstate.SubAction{Action: "shoot", ActorID: takerID})
		return append([]matchstate.Event{foulEvent}, b.resolveShot(state, attackingSide, takerID, nil, seq)...)
	}

	targetID, hasTarget := selector.Select(b.rng, state, attackingSide, selector.RoleShooter, false)
	if !hasTarget {
		return []matchstate.Event{foulEvent}
	}
	seq = append(seq, matchstate.SubAction{Action: "cross", ActorID: takerID, TargetID: ptr(targetID)},
		matchstate.SubAction{Action: "header", ActorID: targetID})
	_ = taker
	return append([]matchstate.Event{foulEvent}, b.resolveShot(state, attackingSide, targetID, ptr(takerID), seq)...)
}

// buildCorner implements: corner_delivery -> header/volley -> {goal |
// save->... | cleared}, per spec §4.7.
func (b *Builder) buildCorner(state *matchstate.MatchState, attackingSide matchstate.Side) []matchstate.Event {
	takerID := state.Side(attackingSide).CornerTaker
	headerID, ok := selector.Select(b.rng, state, attackingSide, selector.RoleShooter, false)
	if !ok {
		return nil
	}

	cornerEvent := matchstate.Event{
		Type: matchstate.EventCorner, Team: attackingSide,
		PrimaryPlayerID: takerID, PrimaryPlayerName: b.name(state, attackingSide, takerID),
		Outcome: "delivered",
	}

	seq := []matchstate.SubAction{
		{Action: "corner_delivery", ActorID: takerID, TargetID: ptr(headerID)},
		{Action: "header", ActorID: headerID},
	}

	if b.rng.Float64() < 0.55 {
		return append([]matchstate.Event{cornerEvent}, b.resolveShot(state, attackingSide, headerID, ptr(takerID), seq)...)
	}

	defSide := attackingSide.Other()
	clearerID, hasClearer := selector.Select(b.rng, state, defSide, selector.RoleTackler, false)
	if !hasClearer {
		return []matchstate.Event{cornerEvent}
	}
	return []matchstate.Event{cornerEvent, {
		Type: matchstate.EventClearance, Team: defSide,
		PrimaryPlayerID: clearerID, PrimaryPlayerName: b.name(state, defSide, clearerID),
		Outcome: "cleared", Sequence: seq,
	}}
}

// buildOffside implements the short offside chain: a forward's run is
// flagged before the shot even occurs.
func (b *Builder) buildOffside(state *matchstate.MatchState, attackingSide matchstate.Side) []matchstate.Event {
	runnerID, ok := selector.Select(b.rng, state, attackingSide, selector.RoleShooter, false)
	if !ok {
		return nil
	}
	return []matchstate.Event{{
		Type: matchstate.EventOffside, Team: attackingSide,
		PrimaryPlayerID: runnerID, PrimaryPlayerName: b.name(state, attackingSide, runnerID),
		Outcome: "flagged",
	}}
}

// BuildPenalty implements the penalty chain per spec §4.7: penalty ->
// {goal | save | miss}.
func (b *Builder) BuildPenalty(state *matchstate.MatchState, attackingSide matchstate.Side) []matchstate.Event {
	takerID := state.Side(attackingSide).PenaltyTaker
	seq := []matchstate.SubAction{{Action: "penalty", ActorID: takerID}}
	return b.resolveShot(state, attackingSide, takerID, nil, seq)
}
