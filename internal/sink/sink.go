// Package sink implements the write-only persistence boundary: once a
// simulation reaches full_time, its final score/stats/event log is stored
// exactly once. Nothing in the engine or streaming layers depends on this
// package — the instant-simulate handler writes to it once the match has
// run to full_time, before the batch document is returned (spec §6's
// optional `/matches/{id}/result` replay surface).
package sink

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// Result is the complete, immutable record of one finished simulation.
type Result struct {
	MatchID    uuid.UUID        `json:"match_id"`
	FinishedAt time.Time        `json:"finished_at"`
	Score      matchstate.Score `json:"score"`
	HomeStats  matchstate.Stats `json:"home_stats"`
	AwayStats  matchstate.Stats `json:"away_stats"`
	Events     []matchstate.Event `json:"events"`
}

// Sink persists a finished match result exactly once. Callers must not
// call Store twice for the same MatchID; the GORM implementation enforces
// this with a unique constraint on match_id.
type Sink interface {
	Store(ctx context.Context, result Result) error
	Fetch(ctx context.Context, matchID uuid.UUID) (Result, error)
}
