// Package commentary implements CommentaryBuilder: a pure, deterministic
// template renderer producing one short English sentence per event, never
// an LLM call, per spec §4.13.
package commentary

import (
	"fmt"
	"strings"

	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// Builder holds no state beyond configuration; it is safe to reuse across
// ticks and matches.
type Builder struct{}

func New() *Builder { return &Builder{} }

// Build renders the commentary line for one tick's events, joining
// multiple event sentences with a space. Returns "" for a quiet tick.
func (b *Builder) Build(state *matchstate.MatchState, events []matchstate.Event) string {
	if len(events) == 0 {
		return ""
	}
	var lines []string
	for _, e := range events {
		if s := b.sentence(state, e); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, " ")
}

func (b *Builder) sentence(state *matchstate.MatchState, e matchstate.Event) string {
	team := state.Teams[e.Team].Name

	switch e.Type {
	case matchstate.EventGoal:
		if e.SecondaryPlayerName != "" {
			return fmt.Sprintf("GOAL! %s scores for %s, assisted by %s. %d-%d.",
				e.PrimaryPlayerName, team, e.SecondaryPlayerName, state.Score.Home, state.Score.Away)
		}
		return fmt.Sprintf("GOAL! %s scores for %s. %d-%d.", e.PrimaryPlayerName, team, state.Score.Home, state.Score.Away)

	case matchstate.EventShotOnTarget:
		return fmt.Sprintf("%s forces a save with a shot on target.", e.PrimaryPlayerName)

	case matchstate.EventShotOffTarget:
		return fmt.Sprintf("%s shoots, but it goes wide.", e.PrimaryPlayerName)

	case matchstate.EventSave:
		return fmt.Sprintf("Big save from %s.", e.PrimaryPlayerName)

	case matchstate.EventCorner:
		return fmt.Sprintf("Corner kick for %s, taken by %s.", team, e.PrimaryPlayerName)

	case matchstate.EventFoul:
		return fmt.Sprintf("Foul committed by %s.", e.PrimaryPlayerName)

	case matchstate.EventOffside:
		return fmt.Sprintf("%s is flagged offside.", e.PrimaryPlayerName)

	case matchstate.EventYellowCard:
		return fmt.Sprintf("Yellow card for %s.", e.PrimaryPlayerName)

	case matchstate.EventRedCard:
		if e.Outcome == "second_yellow" {
			return fmt.Sprintf("Second yellow, and red, for %s! Down to ten men.", e.PrimaryPlayerName)
		}
		return fmt.Sprintf("Red card! %s is sent off.", e.PrimaryPlayerName)

	case matchstate.EventSubstitution:
		return fmt.Sprintf("Substitution for %s: %s comes on for %s.", team, e.SecondaryPlayerName, e.PrimaryPlayerName)

	case matchstate.EventTackle:
		if e.Outcome == "won" {
			return fmt.Sprintf("Strong tackle by %s wins the ball back.", e.PrimaryPlayerName)
		}
		return ""

	case matchstate.EventInterception:
		return fmt.Sprintf("%s evades the challenge and keeps possession.", e.PrimaryPlayerName)

	case matchstate.EventClearance:
		return fmt.Sprintf("Cleared off the line by %s.", e.PrimaryPlayerName)

	case matchstate.EventAssist, matchstate.EventPassCompleted, matchstate.EventPassAttempted:
		return ""

	default:
		return ""
	}
}
