package streaming

import (
	"context"

	"github.com/stitts-dev/matchsim/internal/engine"
	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// Batch is the full frame sequence for one simulation, produced
// synchronously with PacingInstant — used by the `/simulate-instant`
// endpoint and the admin discard-on-exit endpoint where no client is
// actually listening tick-by-tick (spec §6's "instant" speed mode).
type Batch struct {
	Frames []Frame `json:"frames"`
}

// RunToCompletion drains ticks at PacingInstant and returns every frame
// produced, in order, in one call.
func RunToCompletion(ctx context.Context, lineup engine.LineupFrame, ticks <-chan engine.StreamItem) Batch {
	pub := New(PacingInstant)
	frames := pub.Frames(ctx, lineup, ticks)

	var batch Batch
	for f := range frames {
		batch.Frames = append(batch.Frames, f)
	}
	return batch
}

// Document is the single JSON document `/simulate-instant` returns, per
// spec §4.12/§6: `{match_id, lineups, minutes, final_score, full_time_stats}`.
type Document struct {
	MatchID        interface{}          `json:"match_id"`
	Lineups        engine.LineupFrame   `json:"lineups"`
	Minutes        []MinuteData         `json:"minutes"`
	FinalScore     matchstate.Score     `json:"final_score"`
	FullTimeStats  map[string]matchstate.Stats `json:"full_time_stats"`
}

// ToDocument reduces a frame Batch to the §4.12 batch document shape.
func ToDocument(matchID interface{}, lineup engine.LineupFrame, batch Batch) Document {
	doc := Document{MatchID: matchID, Lineups: lineup}

	for _, f := range batch.Frames {
		data, ok := f.Data.(MinuteData)
		if !ok {
			continue
		}
		switch f.Type {
		case FrameMinute, FrameHalfTime:
			doc.Minutes = append(doc.Minutes, data)
		case FrameFullTime:
			doc.Minutes = append(doc.Minutes, data)
			doc.FinalScore = data.Score
			doc.FullTimeStats = map[string]matchstate.Stats{
				"home": data.HomeStats,
				"away": data.AwayStats,
			}
		}
	}

	return doc
}
