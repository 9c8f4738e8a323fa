package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"

	"github.com/fyrsmithlabs/meetingd/internal/bus"
)

// sseHeartbeatInterval keeps intermediate proxies from timing out idle
// streams.
const sseHeartbeatInterval = 30 * time.Second

// handleEvents streams a session's meeting events via Server-Sent Events.
//
// The handler subscribes to the session's NATS subjects and relays each
// message as an SSE event named after the subject's last token. Delivery
// starts at subscription time; a client that connects mid-meeting fetches
// the transcript snapshot to catch up, history is not replayed.
//
// SSE event types:
//   - transcript: one normalized utterance (interim or final)
//   - notes: full regenerated notes text
//
// Example:
//
//	GET /api/v1/events/room-1
//
//	event: transcript
//	data: {"session_id":"room-1","utterance_id":"u-1","speaker":"Alice",...}
//
//	event: notes
//	data: {"session_id":"room-1","notes":"Review the deadline",...}
func (s *Server) handleEvents(c echo.Context) error {
	if s.deps.NATS == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event stream not available")
	}
	session := c.Param("session")

	// Subscribe before committing the response: once the SSE headers are
	// written a subscribe failure could no longer produce an error status.
	msgChan := make(chan *nats.Msg, 32)
	sub, err := s.deps.NATS.ChanSubscribe(bus.SessionSubjects(session), msgChan)
	if err != nil {
		return err
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-msgChan:
			// The event type is the last subject token:
			// meetings.{session}.transcript -> transcript
			parts := strings.Split(msg.Subject, ".")
			eventType := parts[len(parts)-1]

			fmt.Fprintf(c.Response(), "event: %s\n", eventType)
			fmt.Fprintf(c.Response(), "data: %s\n\n", string(msg.Data))
			c.Response().Flush()

		case <-ticker.C:
			// Heartbeat to keep the connection alive
			fmt.Fprintf(c.Response(), ": heartbeat\n\n")
			c.Response().Flush()

		case <-c.Request().Context().Done():
			// Client disconnected
			return nil
		}
	}
}
