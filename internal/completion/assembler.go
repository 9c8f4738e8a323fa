package completion

import (
	"bufio"
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strings"
)

// Buffer sized for backends that emit large single-line responses.
const maxLineSize = 10 * 1024 * 1024

// Assemble folds a completion response body into assembled, cleaned text.
//
// The body is consumed line by line with partial-line buffering. For each
// complete line:
//   - if it parses as JSON and carries a known text field, that field's
//     value is appended
//   - if it parses as JSON without a known field, the concatenation of
//     its string-valued fields is appended
//   - if it does not parse, the raw line is appended unmodified
//
// A single-object or plain-text body degenerates to the one-line case, so
// streamed and unstreamed responses go through the same fold.
func Assemble(r io.Reader) string {
	var b strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		b.WriteString(assembleLine(line))
	}
	// A read error mid-stream leaves whatever was assembled so far; the
	// caller treats an empty result as extraction failure.

	return Clean(b.String())
}

// assembleLine applies the three-way handling to one complete line.
func assembleLine(line string) string {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		// A line that is nothing but a stream artifact would glue onto
		// the preceding text where no trailing regex could separate it.
		if lineArtifact.MatchString(line) {
			return ""
		}
		return line
	}
	if txt := extractText(parsed); txt != "" {
		return txt
	}
	// Terminal chunks carry only metadata (model tag, created_at,
	// done_reason); their field concatenation is pure artifact.
	if done, ok := parsed["done"].(bool); ok && done {
		return ""
	}
	flat := concatStringFields(parsed)
	if lineArtifact.MatchString(flat) {
		return ""
	}
	return flat
}

// extractText probes a parsed object for known text-bearing fields, in
// priority order: response, output, choices, then text/content/data.
func extractText(obj map[string]any) string {
	if s, ok := obj["response"].(string); ok && s != "" {
		return s
	}

	switch out := obj["output"].(type) {
	case string:
		if out != "" {
			return out
		}
	case []any:
		var parts []string
		for _, item := range out {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := m["content"].(string); ok && s != "" {
				parts = append(parts, s)
			} else if s, ok := m["text"].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "")
		}
	}

	if choices, ok := obj["choices"].([]any); ok {
		var parts []string
		for _, item := range choices {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s := choiceText(m); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}

	for _, key := range []string{"text", "content", "data"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// choiceText pulls text from one choices[] element.
func choiceText(m map[string]any) string {
	if s, ok := m["text"].(string); ok && s != "" {
		return s
	}
	if msg, ok := m["message"].(map[string]any); ok {
		if s, ok := msg["content"].(string); ok {
			return s
		}
	}
	if delta, ok := m["delta"].(map[string]any); ok {
		if s, ok := delta["content"].(string); ok {
			return s
		}
	}
	return ""
}

// concatStringFields joins all string-valued fields of the object in key
// order, so fallback assembly is deterministic.
func concatStringFields(obj map[string]any) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if _, ok := obj[k].(string); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(obj[k].(string))
	}
	return b.String()
}

// Trailing artifacts appended by streaming backends.
var (
	spaceRuns   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)

	// model tag + ISO timestamp + stop, e.g. "gemma:2b2024-01-01T00:00:00.000Zstop"
	lineArtifact   = regexp.MustCompile(`(?i)^[A-Za-z0-9_\-/.:]+?\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z\s*stop$`)
	modelStampStop = regexp.MustCompile(`(?i)\s+[A-Za-z0-9_\-/.:]+?\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z\s*stop\s*$`)
	trailingStop   = regexp.MustCompile(`(?i)\s*\bstop\b\s*$`)
	trailingModel  = regexp.MustCompile(`(?i)\s*[A-Za-z0-9_\-.]+:[A-Za-z0-9_\-.]+\s*$`)
	trailingStamp  = regexp.MustCompile(`(?i)\s*\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z\s*$`)
)

// Clean applies the required postprocessing: whitespace collapse, then
// trailing stream-artifact removal, then trim. Order matters; the
// artifact patterns anchor on the cleaned tail.
func Clean(text string) string {
	out := spaceRuns.ReplaceAllString(text, " ")
	out = newlineRuns.ReplaceAllString(out, "\n\n")

	out = modelStampStop.ReplaceAllString(out, "")
	out = trailingStop.ReplaceAllString(out, "")
	out = trailingStamp.ReplaceAllString(out, "")
	out = trailingModel.ReplaceAllString(out, "")

	out = spaceRuns.ReplaceAllString(out, " ")
	out = newlineRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
