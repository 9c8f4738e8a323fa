package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/tasks"
)

// ExtractRequest is the request body for POST /api/v1/extract-tasks.
type ExtractRequest struct {
	Transcript string `json:"transcript"`
}

// ExtractResponse is the response body for POST /api/v1/extract-tasks.
type ExtractResponse struct {
	Tasks []tasks.Record `json:"tasks"`
	Count int            `json:"count"`
}

// handleExtractTasks runs task extraction over a caller-supplied
// transcript. A backend failure yields an empty task list, not a 5xx;
// extraction is best effort and the caller can retry.
func (s *Server) handleExtractTasks(c echo.Context) error {
	session := sessionID(c)

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript field is required")
	}

	records, err := s.deps.Tasks.Extract(c.Request().Context(), req.Transcript, s.dedupFor(session))
	if err != nil {
		s.logger.Warn("task extraction failed, returning empty result",
			zap.String("session_id", session),
			zap.Error(err))
	}
	if records == nil {
		records = []tasks.Record{}
	}

	return c.JSON(http.StatusOK, ExtractResponse{Tasks: records, Count: len(records)})
}

// MinutesRequest is the request body for POST /api/v1/minutes. An empty
// transcript falls back to the session's finalized snapshot.
type MinutesRequest struct {
	Transcript string `json:"transcript"`
}

// MinutesResponse is the response body for POST /api/v1/minutes.
type MinutesResponse struct {
	Minutes string `json:"minutes"`
}

// handleMinutes generates minutes of meeting for a transcript.
func (s *Server) handleMinutes(c echo.Context) error {
	session := sessionID(c)

	var req MinutesRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid minutes request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	transcriptText := req.Transcript
	if strings.TrimSpace(transcriptText) == "" {
		transcriptText = s.deps.Sessions.Get(session).Snapshot()
	}
	if strings.TrimSpace(transcriptText) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no transcript available")
	}

	minutes, err := s.deps.Tasks.Minutes(c.Request().Context(), transcriptText)
	if err != nil {
		s.logger.Error("minutes generation failed",
			zap.String("session_id", session),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "minutes generation failed")
	}

	return c.JSON(http.StatusOK, MinutesResponse{Minutes: minutes})
}

// TranscriptResponse is the response body for GET /api/v1/transcript.
type TranscriptResponse struct {
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	Entries    int    `json:"entries"`
}

// handleTranscript returns the finalized transcript snapshot.
func (s *Server) handleTranscript(c echo.Context) error {
	session := sessionID(c)
	sess := s.deps.Sessions.Get(session)

	return c.JSON(http.StatusOK, TranscriptResponse{
		SessionID:  session,
		Transcript: sess.Snapshot(),
		Entries:    sess.LogLen(),
	})
}

// handleClearTranscript clears a session's transcript state and its
// extraction dedup set.
func (s *Server) handleClearTranscript(c echo.Context) error {
	session := sessionID(c)
	s.deps.Sessions.Get(session).Clear()

	s.mu.Lock()
	if d, ok := s.dedups[session]; ok {
		d.Reset()
	}
	s.mu.Unlock()

	s.logger.Info("transcript cleared", zap.String("session_id", session))
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared", "session_id": session})
}
