package streaming

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/matchsim/internal/engine"
)

// ServeSSE writes frames as Server-Sent Events, flushing after every
// single frame so a client sees each tick the moment it is produced —
// the server-side mirror of the teacher's SSE client-consumption pattern
// in sse_provider.go, here producing instead of consuming.
func ServeSSE(c *gin.Context, pacing Pacing, lineup engine.LineupFrame, ticks <-chan engine.StreamItem, logger *logrus.Logger) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	pub := New(pacing)
	frames := pub.Frames(c.Request.Context(), lineup, ticks)

	for frame := range frames {
		payload, err := json.Marshal(frame.Data)
		if err != nil {
			logger.WithError(err).Error("failed to marshal stream frame")
			continue
		}

		if _, err := c.Writer.Write([]byte("event: " + string(frame.Type) + "\ndata: " + string(payload) + "\n\n")); err != nil {
			logger.WithError(err).Warn("client disconnected mid-stream")
			return
		}
		flusher.Flush()
	}
}
