package tasks

import "strings"

// Record sources, ordered by confidence.
const (
	// SourceLLM marks a record parsed from structured backend output.
	SourceLLM = "llm"
	// SourceLLMRaw marks a record synthesized from unparseable backend
	// output. Lower confidence: the whole reply becomes the task text.
	SourceLLMRaw = "llm-raw"
)

// Record is one extracted action item.
//
// Deadline and Timestamp are pointers so "not stated" serializes as an
// explicit null rather than being dropped, matching what downstream
// consumers of the wire format expect.
type Record struct {
	Task         string   `json:"task"`
	OriginalLine string   `json:"original_line,omitempty"`
	AssignedTo   string   `json:"assigned_to"`
	Deadline     *string  `json:"deadline"`
	Timestamp    *string  `json:"timestamp"`
	Labels       []string `json:"labels,omitempty"`

	// Enrichment fields, populated by Service.Extract.
	TaskID      string `json:"task_id,omitempty"`
	Owner       string `json:"owner,omitempty"`
	ExtractedAt string `json:"extracted_at,omitempty"`

	Source string `json:"source"`
}

// recordFromMap coerces a decoded JSON object into a Record, tolerating
// missing or wrongly typed fields. Only string-valued fields are taken;
// anything else is treated as absent.
func recordFromMap(m map[string]any) Record {
	rec := Record{
		Task:         stringField(m, "task"),
		OriginalLine: stringField(m, "original_line"),
		AssignedTo:   stringField(m, "assigned_to"),
		Source:       SourceLLM,
	}
	if v := stringField(m, "deadline"); v != "" {
		rec.Deadline = &v
	}
	if v := stringField(m, "timestamp"); v != "" {
		rec.Timestamp = &v
	}
	if raw, ok := m["labels"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				rec.Labels = append(rec.Labels, strings.TrimSpace(s))
			}
		}
	}
	return rec
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
