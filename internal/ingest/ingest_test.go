package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

type ingested struct {
	session string
	event   transcript.Event
}

func collector(ch chan<- ingested) Handler {
	return func(sessionID string, event transcript.Event) {
		ch <- ingested{session: sessionID, event: event}
	}
}

func startWatcher(t *testing.T, dir string, ch chan ingested) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, collector(ch), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func collect(t *testing.T, ch <-chan ingested, n int) []ingested {
	t.Helper()
	out := make([]ingested, 0, n)
	deadline := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case got := <-ch:
			out = append(out, got)
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %d of %d", len(out), n)
		}
	}
	return out
}

const eventLine = `{"utterance_id": "u-1", "is_final": true, "speaker": "Alice", "text": "hello team"}`

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan ingested, 16)
	startWatcher(t, dir, ch)

	content := eventLine + "\n" +
		`{"utterance_id": "u-2", "is_final": true, "speaker": "Bob", "text": "hi"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room-1.jsonl"), []byte(content), 0600))

	got := collect(t, ch, 2)

	assert.Equal(t, "room-1", got[0].session)
	u, ok := transcript.Normalize(got[0].event)
	require.True(t, ok)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "Alice", u.Speaker)
	assert.Equal(t, "hello team", u.Text)

	u2, ok := transcript.Normalize(got[1].event)
	require.True(t, ok)
	assert.Equal(t, "u-2", u2.ID)
}

func TestWatcher_SkipsUnparseableLines(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan ingested, 16)
	startWatcher(t, dir, ch)

	content := "this is not json\n" + eventLine + "\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jsonl"), []byte(content), 0600))

	got := collect(t, ch, 1)
	assert.Equal(t, "broken", got[0].session)

	// The garbage line produced nothing further.
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan ingested, 16)
	startWatcher(t, dir, ch)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(eventLine), 0600))

	select {
	case got := <-ch:
		t.Fatalf("unexpected event from non-jsonl file: %+v", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_IngestsPreexistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backlog.jsonl"), []byte(eventLine+"\n"), 0600))

	ch := make(chan ingested, 16)
	startWatcher(t, dir, ch)

	got := collect(t, ch, 1)
	assert.Equal(t, "backlog", got[0].session)
}

func TestWatcher_IngestsFileOnce(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan ingested, 16)
	startWatcher(t, dir, ch)

	path := filepath.Join(dir, "room-1.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(eventLine+"\n"), 0600))

	collect(t, ch, 1)

	// Touch the file again after it settled; it stays processed.
	time.Sleep(settleDelay * 2)
	require.NoError(t, os.WriteFile(path, []byte(eventLine+"\n"), 0600))

	select {
	case got := <-ch:
		t.Fatalf("file ingested twice: %+v", got)
	case <-time.After(settleDelay * 3):
	}
}

func TestNewWatcher_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drop")
	w, err := NewWatcher(dir, func(string, transcript.Event) {}, nil)
	require.NoError(t, err)
	defer w.Stop()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewWatcher_RequiresHandler(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), nil, nil)
	assert.Error(t, err)
}
