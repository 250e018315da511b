package streaming

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/matchsim/internal/engine"
)

// upgrader mirrors the teacher's permissive development CORS posture
// (handlers.go's corsMiddleware allows Access-Control-Allow-Origin: *);
// production deployments should replace CheckOrigin with an allowlist.
var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWebSocket upgrades the connection and writes each frame as a JSON
// text message, offering the same ordered frame sequence SSE delivers,
// per spec §6's alternate-transport requirement.
func ServeWebSocket(c *gin.Context, pacing Pacing, lineup engine.LineupFrame, ticks <-chan engine.StreamItem, logger *logrus.Logger) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	pub := New(pacing)
	frames := pub.Frames(c.Request.Context(), lineup, ticks)

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	for frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			logger.WithError(err).Warn("websocket client disconnected mid-stream")
			return
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}
