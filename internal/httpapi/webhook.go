package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// handleWebhook receives transcription vendor events.
//
// The vendor treats any non-200 as a delivery failure and retries, so the
// handler acknowledges before processing: the 200 goes out first and the
// event is applied afterwards. Processing failures are logged and counted
// but never reach the caller.
func (s *Server) handleWebhook(c echo.Context) error {
	session := sessionID(c)

	var event transcript.Event
	if err := c.Bind(&event); err != nil {
		s.logger.Warn("unreadable webhook body",
			zap.String("session_id", session),
			zap.Error(err))
		WebhookEvents.WithLabelValues("dropped").Inc()
		return c.JSON(http.StatusOK, map[string]string{"status": "received"})
	}

	// Ack first. The flush pushes the 200 onto the wire immediately;
	// without it the response sits in net/http's buffer until the handler
	// returns, and the vendor would wait out the processing below.
	if err := c.JSON(http.StatusOK, map[string]string{"status": "received"}); err != nil {
		return err
	}
	c.Response().Flush()

	s.processEvent(session, event)
	return nil
}

// IngestEvent runs an out-of-band event through the same pipeline the
// webhook uses. The drop-directory watcher feeds replayed files here.
func (s *Server) IngestEvent(sessionID string, event transcript.Event) {
	s.processEvent(sessionID, event)
}

// processEvent runs one event through normalize, fanout, session apply,
// and notes regeneration.
func (s *Server) processEvent(session string, event transcript.Event) {
	u, ok := transcript.Normalize(event)
	if !ok {
		WebhookEvents.WithLabelValues("dropped").Inc()
		s.logger.Debug("dropped event without usable text",
			zap.String("session_id", session))
		return
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishUtterance(session, u); err != nil {
			s.logger.Warn("failed to publish utterance",
				zap.String("session_id", session),
				zap.String("utterance_id", u.ID),
				zap.Error(err))
		}
	}

	sess := s.deps.Sessions.Get(session)
	grew := sess.Apply(u)
	WebhookEvents.WithLabelValues("applied").Inc()

	if !grew {
		return
	}

	// A finalized line landed in the log; regenerate notes from the full
	// snapshot and fan them out.
	notesText := s.deps.Notes.Generate(sess.Snapshot())
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishNotes(session, notesText); err != nil {
			s.logger.Warn("failed to publish notes",
				zap.String("session_id", session),
				zap.Error(err))
		}
	}
}
