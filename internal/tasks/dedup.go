package tasks

import (
	"strings"
	"sync"
)

// Deduplicator suppresses repeated task text across extraction calls that
// see overlapping transcript content. Scope it to one extraction session;
// it never expires entries on its own.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// signature normalizes task text so case and surrounding whitespace
// variants collapse to one entry.
func signature(r Record) string {
	return strings.ToLower(strings.TrimSpace(r.Task))
}

// Admit reports whether the record's task text has not been seen before,
// recording it as seen. Records with empty task text are never admitted.
func (d *Deduplicator) Admit(r Record) bool {
	sig := signature(r)
	if sig == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[sig]; dup {
		return false
	}
	d.seen[sig] = struct{}{}
	return true
}

// Filter returns the records Admit accepts, preserving order.
func (d *Deduplicator) Filter(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if d.Admit(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Reset forgets all seen signatures.
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
}

// Len returns the number of distinct signatures seen.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
