// Package bus publishes meeting events over NATS for live subscribers.
//
// Delivery is at-most-once: events go out on core NATS subjects with no
// persistence, so a subscriber that connects after an event was published
// never sees it. That matches the product semantics, where live views
// catch up by fetching the transcript snapshot over HTTP instead of
// replaying history.
//
// Subject layout:
//   - meetings.{session_id}.transcript: one event per visible utterance change
//   - meetings.{session_id}.notes: regenerated notes text
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// TranscriptSubject returns the subject carrying utterance events for a
// session.
func TranscriptSubject(sessionID string) string {
	return fmt.Sprintf("meetings.%s.transcript", sessionID)
}

// NotesSubject returns the subject carrying notes events for a session.
func NotesSubject(sessionID string) string {
	return fmt.Sprintf("meetings.%s.notes", sessionID)
}

// SessionSubjects returns the wildcard subject matching every event kind
// for a session.
func SessionSubjects(sessionID string) string {
	return fmt.Sprintf("meetings.%s.*", sessionID)
}

// UtteranceEvent is the wire form of a transcript event.
type UtteranceEvent struct {
	SessionID string `json:"session_id"`
	transcript.Utterance
}

// NotesEvent is the wire form of a notes update.
type NotesEvent struct {
	SessionID   string    `json:"session_id"`
	Notes       string    `json:"notes"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher publishes meeting events to NATS.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{nc: nc, logger: logger}
}

// PublishUtterance publishes one normalized utterance. Interim and final
// utterances both go out; subscribers use is_final and utterance_id to
// update in place.
func (p *Publisher) PublishUtterance(sessionID string, u transcript.Utterance) error {
	data, err := json.Marshal(UtteranceEvent{SessionID: sessionID, Utterance: u})
	if err != nil {
		return fmt.Errorf("marshal utterance event: %w", err)
	}
	if err := p.nc.Publish(TranscriptSubject(sessionID), data); err != nil {
		return fmt.Errorf("publish utterance event: %w", err)
	}
	EventsPublished.WithLabelValues("transcript").Inc()
	return nil
}

// PublishNotes publishes the full regenerated notes text for a session.
func (p *Publisher) PublishNotes(sessionID, notes string) error {
	data, err := json.Marshal(NotesEvent{
		SessionID:   sessionID,
		Notes:       notes,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notes event: %w", err)
	}
	if err := p.nc.Publish(NotesSubject(sessionID), data); err != nil {
		return fmt.Errorf("publish notes event: %w", err)
	}
	EventsPublished.WithLabelValues("notes").Inc()
	return nil
}
