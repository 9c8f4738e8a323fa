package transcript

import (
	"fmt"
	"strings"
	"sync"
)

// Log is an append-only ordered store of finalized transcript lines.
//
// Entries are never rewritten; corrections to interim utterances happen
// in the Session's visible collection, not here. Appends and snapshots
// are serialized so a reader never observes a partial write.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty transcript log.
func NewLog() *Log {
	return &Log{}
}

// Append adds one entry at the end of the log.
func (l *Log) Append(speaker, text string, timestamp float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Speaker: speaker, Text: text, Timestamp: timestamp})
}

// Snapshot returns the full transcript as "Speaker: text" lines joined by
// newlines, in append order.
func (l *Log) Snapshot() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	for i, e := range l.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.Speaker != "" {
			fmt.Fprintf(&b, "%s: %s", e.Speaker, e.Text)
		} else {
			b.WriteString(e.Text)
		}
	}
	return b.String()
}

// Entries returns a copy of the log entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
