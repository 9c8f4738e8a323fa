// Package ingest feeds transcript event files into the meeting pipeline.
//
// A drop directory is watched for *.jsonl files, each holding one
// transcription event per line in the same shape the webhook accepts.
// The file name stem becomes the session id: room-1.jsonl ingests into
// session "room-1". Files written by vendors that batch-export recordings
// land here and replay through the exact pipeline live events use.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// settleDelay is how long a file must stay quiet after its last write
// before it is read. Export tools write in bursts; reading too early
// truncates the batch.
const settleDelay = 200 * time.Millisecond

// Handler receives each parsed event. The webhook pipeline's processing
// step satisfies it.
type Handler func(sessionID string, event transcript.Event)

// Watcher watches a drop directory and ingests transcript event files.
type Watcher struct {
	dir     string
	handler Handler
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	stop    chan struct{}

	mu        sync.Mutex
	pending   map[string]*time.Timer
	processed map[string]struct{}
}

// NewWatcher creates a watcher for the drop directory. The directory is
// created if it does not exist.
func NewWatcher(dir string, handler Handler, logger *zap.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating drop directory %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("initializing filesystem watcher: %w", err)
	}

	return &Watcher{
		dir:       dir,
		handler:   handler,
		logger:    logger,
		watcher:   fsw,
		stop:      make(chan struct{}),
		pending:   map[string]*time.Timer{},
		processed: map[string]struct{}{},
	}, nil
}

// Start begins watching. Files already present in the directory are
// ingested immediately, then filesystem events drive the rest.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jsonl") {
			w.schedule(filepath.Join(w.dir, entry.Name()))
		}
	}

	go w.run()

	w.logger.Info("watching drop directory", zap.String("dir", w.dir))
	return nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// run processes filesystem events until stopped.
func (w *Watcher) run() {
	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".jsonl") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// schedule arms or resets the settle timer for a file. The file is read
// once it has been quiet for settleDelay.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, done := w.processed[path]; done {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.ingest(path)
	})
}

// ingest reads one file and feeds its events to the handler. Each file
// is ingested at most once.
func (w *Watcher) ingest(path string) {
	w.mu.Lock()
	if _, done := w.processed[path]; done {
		w.mu.Unlock()
		return
	}
	w.processed[path] = struct{}{}
	delete(w.pending, path)
	w.mu.Unlock()

	session := sessionFromFile(path)

	f, err := os.Open(path)
	if err != nil {
		w.logger.Warn("failed to open drop file",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	defer f.Close()

	var ingested, failed int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event transcript.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			failed++
			continue
		}
		w.handler(session, event)
		ingested++
	}
	if err := scanner.Err(); err != nil {
		w.logger.Warn("failed reading drop file",
			zap.String("path", path),
			zap.Error(err))
	}

	FilesProcessed.Inc()
	EventsIngested.Add(float64(ingested))
	ParseErrors.Add(float64(failed))

	w.logger.Info("ingested drop file",
		zap.String("path", path),
		zap.String("session_id", session),
		zap.Int("events", ingested),
		zap.Int("parse_errors", failed))
}

// sessionFromFile derives the session id from the file name stem.
func sessionFromFile(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}
