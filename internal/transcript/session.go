package transcript

import "sync"

// Session owns the transcript state for one meeting: the append-only log
// and the subscriber-visible ordered collection of utterances.
//
// The visible collection updates in place by utterance id, so an interim
// utterance followed by its final correction occupies one slot. The log
// grows only on the first final delivery per id; re-delivering the same
// final utterance does not double-append.
type Session struct {
	mu        sync.Mutex
	log       *Log
	order     []string
	visible   map[string]Utterance
	finalSeen map[string]struct{}
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		log:       NewLog(),
		visible:   make(map[string]Utterance),
		finalSeen: make(map[string]struct{}),
	}
}

// Apply records the utterance in the visible collection and, on the first
// final delivery for its id, appends it to the log. Returns true when the
// log grew, which is the trigger for regenerating notes.
func (s *Session) Apply(u Utterance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.visible[u.ID]; !seen {
		s.order = append(s.order, u.ID)
	}
	s.visible[u.ID] = u

	if !u.Final || u.Text == "" {
		return false
	}
	if _, done := s.finalSeen[u.ID]; done {
		return false
	}
	s.finalSeen[u.ID] = struct{}{}
	s.log.Append(u.Speaker, u.Text, u.Timestamp)
	return true
}

// Utterances returns the visible collection in arrival order.
func (s *Session) Utterances() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Utterance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.visible[id])
	}
	return out
}

// Snapshot returns the finalized transcript text.
func (s *Session) Snapshot() string {
	return s.log.Snapshot()
}

// LogLen returns the number of finalized entries.
func (s *Session) LogLen() int {
	return s.log.Len()
}

// Clear resets the log, the visible collection, and the seen-final set.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Clear()
	s.order = nil
	s.visible = make(map[string]Utterance)
	s.finalSeen = make(map[string]struct{})
}

// Registry hands out one Session per session id. Concurrent meetings get
// independent state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for the id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = NewSession()
		r.sessions[id] = s
	}
	return s
}
