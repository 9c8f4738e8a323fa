package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_FirstFinalAppendsOnce(t *testing.T) {
	s := NewSession()

	final := Utterance{ID: "u1", Speaker: "Alice", Text: "ship it", Final: true}

	grew := s.Apply(final)
	assert.True(t, grew)

	// Re-delivery of the same final utterance must not double-append.
	grew = s.Apply(final)
	assert.False(t, grew)

	assert.Equal(t, 1, s.LogLen())
	assert.Equal(t, "Alice: ship it", s.Snapshot())
}

func TestSession_InterimThenFinalUpdatesInPlace(t *testing.T) {
	s := NewSession()

	s.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "we sho", Final: false})
	s.Apply(Utterance{ID: "u2", Speaker: "Bob", Text: "agreed", Final: true})
	grew := s.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "we should ship", Final: true})
	assert.True(t, grew)

	visible := s.Utterances()
	require.Len(t, visible, 2)
	// u1 keeps its original slot despite finalizing after u2.
	assert.Equal(t, "we should ship", visible[0].Text)
	assert.True(t, visible[0].Final)
	assert.Equal(t, "agreed", visible[1].Text)

	// Log order is first-final order, not arrival order of interims.
	assert.Equal(t, "Bob: agreed\nAlice: we should ship", s.Snapshot())
}

func TestSession_InterimDoesNotTouchLog(t *testing.T) {
	s := NewSession()

	grew := s.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "thinking", Final: false})
	assert.False(t, grew)
	assert.Equal(t, 0, s.LogLen())
	assert.Len(t, s.Utterances(), 1)
}

func TestSession_Clear(t *testing.T) {
	s := NewSession()
	s.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "ship it", Final: true})

	s.Clear()

	assert.Equal(t, 0, s.LogLen())
	assert.Empty(t, s.Utterances())
	assert.Equal(t, "", s.Snapshot())

	// The seen-final set resets too: the same id may append again.
	grew := s.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "ship it", Final: true})
	assert.True(t, grew)
}

func TestRegistry_IndependentSessions(t *testing.T) {
	r := NewRegistry()

	a := r.Get("meeting-a")
	b := r.Get("meeting-b")
	require.NotSame(t, a, b)

	a.Apply(Utterance{ID: "u1", Speaker: "Alice", Text: "only in a", Final: true})
	assert.Equal(t, 1, a.LogLen())
	assert.Equal(t, 0, b.LogLen())

	// Same id returns the same session.
	assert.Same(t, a, r.Get("meeting-a"))
}

func TestLog_SnapshotOmitsEmptySpeaker(t *testing.T) {
	l := NewLog()
	l.Append("Alice", "hello", 1)
	l.Append("", "system note", 2)

	assert.Equal(t, "Alice: hello\nsystem note", l.Snapshot())
	assert.Len(t, l.Entries(), 2)
}
