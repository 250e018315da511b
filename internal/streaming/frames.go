// Package streaming implements StreamingPublisher: translating an
// engine.StreamItem channel into the ordered wire frames spec §6 names
// (lineup, minute, goal, card, substitution, half_time, full_time, error),
// and transports for delivering them — SSE, websocket, and an "instant"
// batch mode — per spec §4.12.
package streaming

import (
	"github.com/stitts-dev/matchsim/internal/engine"
	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// FrameType is the closed set of wire frame kinds a client ever receives.
type FrameType string

const (
	FrameLineup        FrameType = "lineup"
	FrameMinute        FrameType = "minute"
	FrameGoal          FrameType = "goal"
	FrameCard          FrameType = "card"
	FrameSubstitution  FrameType = "substitution"
	FrameHalfTime      FrameType = "half_time"
	FrameFullTime      FrameType = "full_time"
	FrameError         FrameType = "error"
)

// Frame is the single wire envelope every frame type shares.
type Frame struct {
	Type FrameType   `json:"type"`
	Data interface{} `json:"data"`
}

// MinuteData is FrameMinute's payload.
type MinuteData struct {
	Minute     int                               `json:"minute"`
	Phase      matchstate.Phase                   `json:"phase"`
	Possession matchstate.Possession               `json:"possession"`
	BallZone   matchstate.Zone                     `json:"ball_zone"`
	Score      matchstate.Score                    `json:"score"`
	HomeStats  matchstate.Stats                    `json:"home_stats"`
	AwayStats  matchstate.Stats                    `json:"away_stats"`
	Events     []matchstate.Event                  `json:"events"`
	Commentary string                              `json:"commentary,omitempty"`
}

// ErrorData is FrameError's payload.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// translate converts one engine.Tick into its ordered wire frames: the
// minute (or half_time/full_time) frame first, followed by any
// goal/card/substitution convenience frames for that minute's events, in
// the order they occurred.
func translate(t *engine.Tick) []Frame {
	data := MinuteData{
		Minute: t.Minute, Phase: t.Phase, Possession: t.Possession,
		BallZone: t.BallZone, Score: t.Score,
		HomeStats: t.Stats[matchstate.SideHome], AwayStats: t.Stats[matchstate.SideAway],
		Events: t.Events, Commentary: t.Commentary,
	}

	var frames []Frame
	switch t.Phase {
	case matchstate.PhaseHalfTime:
		frames = append(frames, Frame{Type: FrameHalfTime, Data: data})
	case matchstate.PhaseFullTime:
		frames = append(frames, Frame{Type: FrameFullTime, Data: data})
	default:
		frames = append(frames, Frame{Type: FrameMinute, Data: data})
	}

	// Goal/card/substitution convenience frames always follow the minute
	// frame that contains them, in event order (spec §4.12, §5 ordering
	// guarantee).
	for _, ev := range t.Events {
		switch ev.Type {
		case matchstate.EventGoal:
			frames = append(frames, Frame{Type: FrameGoal, Data: ev})
		case matchstate.EventYellowCard, matchstate.EventRedCard:
			frames = append(frames, Frame{Type: FrameCard, Data: ev})
		case matchstate.EventSubstitution:
			frames = append(frames, Frame{Type: FrameSubstitution, Data: ev})
		}
	}

	return frames
}

func lineupFrame(l engine.LineupFrame) Frame {
	return Frame{Type: FrameLineup, Data: l}
}
