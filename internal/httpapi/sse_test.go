package httpapi

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/bus"
	"github.com/fyrsmithlabs/meetingd/internal/notes"
	"github.com/fyrsmithlabs/meetingd/internal/tasks"
	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

func startTestNATSServer(t *testing.T) *natsserver.Server {
	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	}

	server, err := natsserver.NewServer(opts)
	require.NoError(t, err)

	go server.Start()

	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})

	return server
}

func TestHandleEvents_StreamsPublishedEvents(t *testing.T) {
	ns := startTestNATSServer(t)
	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	deps := Deps{
		Sessions:  transcript.NewRegistry(),
		Notes:     notes.NewGenerator(nil),
		Tasks:     tasks.NewService(&stubGenerator{output: "[]"}, nil),
		Publisher: bus.NewPublisher(nc, nil),
		NATS:      nc,
	}
	server, err := NewServer(deps, zap.NewNop(), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(server.echo)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/v1/events/room-1")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The subscription races the publish, so publish on a ticker until
	// the event shows up on the stream.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = deps.Publisher.PublishNotes("room-1", "Review the deadline")
			case <-stop:
				return
			}
		}
	}()

	deadline := time.After(5 * time.Second)
	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var sawEvent, sawData bool
	for !(sawEvent && sawData) {
		select {
		case line := <-lines:
			if line == "event: notes" {
				sawEvent = true
			}
			if strings.HasPrefix(line, "data: ") && strings.Contains(line, "Review the deadline") {
				sawData = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for SSE event")
		}
	}
}

func TestHandleEvents_SubscribeFailureReturnsErrorStatus(t *testing.T) {
	ns := startTestNATSServer(t)
	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)

	deps := Deps{
		Sessions:  transcript.NewRegistry(),
		Notes:     notes.NewGenerator(nil),
		Tasks:     tasks.NewService(&stubGenerator{output: "[]"}, nil),
		Publisher: bus.NewPublisher(nc, nil),
		NATS:      nc,
	}
	server, err := NewServer(deps, zap.NewNop(), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(server.echo)
	t.Cleanup(ts.Close)

	// A closed connection makes the subscribe fail before any stream
	// bytes go out, so the client gets a real error status instead of a
	// 200 with a dead stream.
	nc.Close()

	resp, err := http.Get(ts.URL + "/api/v1/events/room-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEqual(t, "text/event-stream", resp.Header.Get("Content-Type"))
}
