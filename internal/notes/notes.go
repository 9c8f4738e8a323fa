// Package notes derives keyword-triggered highlights from transcript text.
//
// The generator is a recall-oriented heuristic, not a classifier: it keeps
// every sentence that contains any keyword from its set, case-insensitively.
// False positives are expected and acceptable. Generation is deterministic
// and side-effect free, so notes can be recomputed from the transcript log
// on every finalized utterance.
package notes

import (
	"regexp"
	"strings"
)

// sentenceEnd splits on sentence punctuation followed by whitespace.
var sentenceEnd = regexp.MustCompile(`[.?!]\s+`)

// Generator scans transcript text for sentences worth surfacing.
type Generator struct {
	keywords []string
}

// NewGenerator creates a generator with the given keyword set. An empty
// set falls back to DefaultKeywords.
func NewGenerator(keywords []string) *Generator {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(strings.TrimSpace(k))
	}
	return &Generator{keywords: lowered}
}

// Generate returns the sentences containing any keyword, joined by ". ".
// Blank input or no matches yield an empty string.
func (g *Generator) Generate(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var kept []string
	for _, raw := range sentenceEnd.Split(text, -1) {
		sentence := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw), ".?!"))
		if sentence == "" {
			continue
		}
		if g.matches(sentence) {
			kept = append(kept, sentence)
		}
	}
	return strings.Join(kept, ". ")
}

// matches reports whether the sentence contains any keyword.
func (g *Generator) matches(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, k := range g.keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

// DefaultKeywords is the built-in vocabulary of task, priority, deadline,
// decision, and meeting terms.
func DefaultKeywords() []string {
	return []string{
		"action", "task", "todo", "follow up", "follow-up",
		"assign", "assigned", "responsible", "owner", "delegate",
		"deadline", "due", "overdue", "schedule", "scheduled",
		"timeline", "milestone", "deliverable", "target",
		"decision", "decide", "decided", "agree", "agreed",
		"approve", "approved", "reject", "rejected", "confirm",
		"priority", "urgent", "important", "critical", "asap",
		"blocker", "blocked", "risk", "escalate",
		"review", "meeting", "agenda", "minutes", "next steps",
		"plan", "budget", "report",
	}
}
