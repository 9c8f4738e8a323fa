package transcript

import (
	"regexp"
	"strings"
)

// Line is one parsed transcript line. Timestamp and Speaker are empty
// when the line carries neither.
type Line struct {
	Timestamp string
	Speaker   string
	Message   string
}

// Transcript line shapes, tried in order:
//
//	[10:30] Alice: message
//	10:30 - Alice: message
//	[10:30] message
//	Alice: message
//	message
var (
	tsSpeakerMsgRe     = regexp.MustCompile(`^\s*\[?(\d{1,2}:\d{2}(?::\d{2})?)\]?\s*[-–—]?\s*([^:]+?):\s*(.+)$`)
	tsDashSpeakerMsgRe = regexp.MustCompile(`^\s*(\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*([^:]+?):\s*(.+)$`)
	tsMsgRe            = regexp.MustCompile(`^\s*\[?(\d{1,2}:\d{2}(?::\d{2})?)\]?\s*[-–—]?\s*(.+)$`)
	speakerMsgRe       = regexp.MustCompile(`^\s*([^:]+?):\s*(.+)$`)
)

// ParseLine splits a transcript line into timestamp, speaker, and message.
// Lines that match no known shape become a bare message.
func ParseLine(line string) Line {
	if m := tsSpeakerMsgRe.FindStringSubmatch(line); m != nil {
		return Line{Timestamp: m[1], Speaker: strings.TrimSpace(m[2]), Message: strings.TrimSpace(m[3])}
	}
	if m := tsDashSpeakerMsgRe.FindStringSubmatch(line); m != nil {
		return Line{Timestamp: m[1], Speaker: strings.TrimSpace(m[2]), Message: strings.TrimSpace(m[3])}
	}
	if m := tsMsgRe.FindStringSubmatch(line); m != nil {
		return Line{Timestamp: m[1], Message: strings.TrimSpace(m[2])}
	}
	if m := speakerMsgRe.FindStringSubmatch(line); m != nil {
		return Line{Speaker: strings.TrimSpace(m[1]), Message: strings.TrimSpace(m[2])}
	}
	return Line{Message: strings.TrimSpace(line)}
}

// Speakers returns the distinct speaker names observed in the transcript,
// in order of first appearance.
func Speakers(text string) []string {
	var names []string
	seen := make(map[string]struct{})

	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line := ParseLine(raw)
		if line.Speaker == "" {
			continue
		}
		if _, ok := seen[line.Speaker]; ok {
			continue
		}
		seen[line.Speaker] = struct{}{}
		names = append(names, line.Speaker)
	}
	return names
}
