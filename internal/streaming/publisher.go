package streaming

import (
	"context"
	"time"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/engine"
)

// Pacing controls how quickly a Publisher emits frames once produced,
// per spec §6's `speed` config knob.
type Pacing string

const (
	PacingRealtime Pacing = "realtime" // one minute of match time per wall-clock second
	PacingFast     Pacing = "fast"     // fixed small delay, for demos
	PacingInstant  Pacing = "instant"  // no delay; batch mode uses this exclusively
)

func (p Pacing) delay() time.Duration {
	switch p {
	case PacingRealtime:
		return 1 * time.Second
	case PacingFast:
		return 300 * time.Millisecond
	default:
		return 0
	}
}

// Publisher turns an Engine's lineup and tick stream into an ordered
// Frame channel, pacing emission per Pacing. It holds no transport
// concerns itself — sse.go and ws.go each drain this channel onto their
// respective wire protocol.
type Publisher struct {
	pacing Pacing
}

func New(pacing Pacing) *Publisher {
	return &Publisher{pacing: pacing}
}

// Frames drains lineup and ticks into a single ordered Frame channel,
// closing it once ticks closes or ctx is cancelled. A terminal
// StreamItem.Err becomes the final FrameError frame before the channel
// closes, per spec §4.11's "terminate the stream with a terminal error
// frame" contract.
func (p *Publisher) Frames(ctx context.Context, lineup engine.LineupFrame, ticks <-chan engine.StreamItem) <-chan Frame {
	out := make(chan Frame, 4)

	go func() {
		defer close(out)

		select {
		case out <- lineupFrame(lineup):
		case <-ctx.Done():
			return
		}

		delay := p.pacing.delay()

		for item := range ticks {
			if item.Err != nil {
				out <- errorFrame(item.Err)
				return
			}

			for _, f := range translate(item.Tick) {
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
			}

			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func errorFrame(err error) Frame {
	return Frame{Type: FrameError, Data: ErrorData{
		Code:    string(apperr.CodeOf(err)),
		Message: err.Error(),
	}}
}
