package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// bracketPrefix matches a leading bracketed tag like "[0:01] " that some
// vendors prepend to participant names.
var bracketPrefix = regexp.MustCompile(`^\[[^\]]*\]\s*`)

// Normalize converts one raw transcription event into an Utterance.
//
// Extraction rules, in priority order:
//   - Text: joined word tokens when present, else the first non-empty of
//     the text/transcript fields. Events with no text are dropped.
//   - Speaker: participant name, display name, user id, then the flat
//     speaker/user/owner fields, stripped of any leading bracketed tag.
//     Defaults to "Unknown".
//   - Timestamp: first word's relative start, else the top-level relative
//     start, else current wall-clock time in epoch milliseconds.
//   - ID: upstream utterance id verbatim when present, else synthesized.
//
// Normalize never returns an error; the second return value is false when
// the event carries no usable text.
func Normalize(ev Event) (Utterance, bool) {
	p := ev.payload()

	text := joinWords(p.Words)
	if text == "" {
		for _, candidate := range []string{p.Text, p.Transcript} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				text = trimmed
				break
			}
		}
	}
	if text == "" {
		return Utterance{}, false
	}

	id := p.UtteranceID
	if id == "" {
		id = synthesizeID()
	}

	return Utterance{
		ID:        id,
		Speaker:   normalizeSpeaker(p),
		Text:      text,
		Timestamp: resolveTimestamp(p),
		Final:     p.IsFinal,
	}, true
}

// joinWords concatenates word tokens with single spaces.
func joinWords(words []Word) string {
	if len(words) == 0 {
		return ""
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if t := strings.TrimSpace(w.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// normalizeSpeaker resolves the speaker through the field priority chain
// and strips any leading bracketed prefix.
func normalizeSpeaker(p *Payload) string {
	candidates := []string{}
	if p.Participant != nil {
		candidates = append(candidates, p.Participant.Name, p.Participant.DisplayName, p.Participant.UserID)
	}
	candidates = append(candidates, p.Speaker)
	if p.User != nil {
		candidates = append(candidates, p.User.Name)
	}
	candidates = append(candidates, p.Owner)

	for _, c := range candidates {
		if c == "" {
			continue
		}
		name := strings.TrimSpace(bracketPrefix.ReplaceAllString(c, ""))
		if name != "" {
			return name
		}
	}
	return "Unknown"
}

// resolveTimestamp picks the best available timestamp for the event.
func resolveTimestamp(p *Payload) float64 {
	if len(p.Words) > 0 && p.Words[0].StartTimestamp != nil {
		return p.Words[0].StartTimestamp.Relative
	}
	if p.StartTimestamp != nil {
		return p.StartTimestamp.Relative
	}
	return float64(time.Now().UnixMilli())
}

// synthesizeID generates an id for events whose upstream omitted one.
// The uuid component keeps ids collision-free across rapid deliveries,
// but a re-delivered event without an upstream id still gets a new id;
// only upstream ids enable update-in-place.
func synthesizeID() string {
	return fmt.Sprintf("auto-%d-%s", time.Now().UnixMilli(), uuid.NewString())
}
