package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords_FencedArray(t *testing.T) {
	output := "Here are the tasks:\n```json\n[{\"task\": \"Send report\", \"assigned_to\": \"Alice\"}]\n```\nLet me know if you need more."

	records := ParseRecords(output)

	require.Len(t, records, 1)
	assert.Equal(t, "Send report", records[0].Task)
	assert.Equal(t, "Alice", records[0].AssignedTo)
	assert.Equal(t, SourceLLM, records[0].Source)
}

func TestParseRecords_DirectArray(t *testing.T) {
	records := ParseRecords(`[{"task": "Book the room", "deadline": "Friday", "labels": ["logistics"]}]`)

	require.Len(t, records, 1)
	assert.Equal(t, "Book the room", records[0].Task)
	require.NotNil(t, records[0].Deadline)
	assert.Equal(t, "Friday", *records[0].Deadline)
	assert.Equal(t, []string{"logistics"}, records[0].Labels)
}

func TestParseRecords_SingleObject(t *testing.T) {
	records := ParseRecords(`{"task": "Review budget"}`)

	require.Len(t, records, 1)
	assert.Equal(t, "Review budget", records[0].Task)
	assert.Nil(t, records[0].Deadline)
}

func TestParseRecords_BracketSubstring(t *testing.T) {
	output := `Sure! The extracted items are [{"task": "Ship v2"}] as requested.`

	records := ParseRecords(output)

	require.Len(t, records, 1)
	assert.Equal(t, "Ship v2", records[0].Task)
}

func TestParseRecords_BraceSubstring(t *testing.T) {
	output := `I found one item: {"task": "Update docs", "assigned_to": "Bob"} hope that helps`

	records := ParseRecords(output)

	require.Len(t, records, 1)
	assert.Equal(t, "Update docs", records[0].Task)
	assert.Equal(t, "Bob", records[0].AssignedTo)
}

func TestParseRecords_RawFallback(t *testing.T) {
	output := "The team should probably follow up on the budget discussion."

	records := ParseRecords(output)

	require.Len(t, records, 1)
	assert.Equal(t, output, records[0].Task)
	assert.Equal(t, SourceLLMRaw, records[0].Source)
	assert.Equal(t, "Unassigned", records[0].AssignedTo)
}

func TestParseRecords_BlankInput(t *testing.T) {
	assert.Empty(t, ParseRecords(""))
	assert.Empty(t, ParseRecords("   \n\t"))
}

func TestParseRecords_EmptyArray(t *testing.T) {
	assert.Empty(t, ParseRecords("[]"))
}

func TestParseRecords_DropsEmptyTask(t *testing.T) {
	records := ParseRecords(`[{"task": ""}, {"task": "Keep me"}, {"assigned_to": "Alice"}]`)

	require.Len(t, records, 1)
	assert.Equal(t, "Keep me", records[0].Task)
}

func TestParseRecords_ToleratesWrongTypes(t *testing.T) {
	// Numeric deadline and non-string labels are treated as absent
	// rather than failing the whole parse.
	records := ParseRecords(`[{"task": "Call vendor", "deadline": 20260915, "labels": [1, "urgent"]}]`)

	require.Len(t, records, 1)
	assert.Equal(t, "Call vendor", records[0].Task)
	assert.Nil(t, records[0].Deadline)
	assert.Equal(t, []string{"urgent"}, records[0].Labels)
}
