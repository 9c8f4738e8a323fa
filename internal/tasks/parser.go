package tasks

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSON pulls the body out of a markdown ```json code fence. Models
// frequently wrap their reply in one even when told not to.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParseRecords recovers action item records from raw model output.
//
// Strategies are tried in order, first hit wins:
//  1. strip a fenced ```json block and parse its body
//  2. parse the whole text as a JSON array or single object
//  3. parse the substring between the first '[' and last ']'
//  4. parse the substring between the first '{' and last '}'
//  5. synthesize one SourceLLMRaw record from the full text
//
// Blank input yields no records. Structured records with empty task text
// are discarded.
func ParseRecords(text string) []Record {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	candidate := trimmed
	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		candidate = m[1]
	}

	if recs, ok := parseJSON(candidate); ok {
		return recs
	}

	if start, end := strings.Index(candidate, "["), strings.LastIndex(candidate, "]"); start >= 0 && end > start {
		if recs, ok := parseJSON(candidate[start : end+1]); ok {
			return recs
		}
	}
	if start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}"); start >= 0 && end > start {
		if recs, ok := parseJSON(candidate[start : end+1]); ok {
			return recs
		}
	}

	return []Record{{
		Task:       trimmed,
		AssignedTo: "Unassigned",
		Source:     SourceLLMRaw,
	}}
}

// parseJSON decodes text as either an array of objects or a single
// object. It reports false when the text is not valid JSON of either
// shape; a valid but empty array reports true with no records.
func parseJSON(text string) ([]Record, bool) {
	text = strings.TrimSpace(text)

	var items []map[string]any
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		recs := make([]Record, 0, len(items))
		for _, item := range items {
			rec := recordFromMap(item)
			if rec.Task == "" {
				continue
			}
			recs = append(recs, rec)
		}
		return recs, true
	}

	var single map[string]any
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		rec := recordFromMap(single)
		if rec.Task == "" {
			return nil, true
		}
		return []Record{rec}, true
	}

	return nil, false
}
