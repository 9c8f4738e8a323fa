package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_NestedWordPayload(t *testing.T) {
	body := `{
		"data": {
			"data": {
				"words": [{"text": "Hello"}, {"text": "team"}],
				"participant": {"name": "[0:01] Alice"},
				"is_final": true
			}
		}
	}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(body), &ev))

	u, ok := Normalize(ev)
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Speaker)
	assert.Equal(t, "Hello team", u.Text)
	assert.True(t, u.Final)
	assert.NotEmpty(t, u.ID)
}

func TestNormalize_FlatPayload(t *testing.T) {
	body := `{"text": "status update", "speaker": "Bob", "utterance_id": "u-42", "is_final": false}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(body), &ev))

	u, ok := Normalize(ev)
	require.True(t, ok)
	assert.Equal(t, "u-42", u.ID)
	assert.Equal(t, "Bob", u.Speaker)
	assert.Equal(t, "status update", u.Text)
	assert.False(t, u.Final)
}

func TestNormalize_DropsEmptyEvents(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no fields", `{}`},
		{"blank text", `{"text": "   "}`},
		{"empty words", `{"data": {"data": {"words": []}}}`},
		{"whitespace words", `{"data": {"data": {"words": [{"text": " "}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev Event
			require.NoError(t, json.Unmarshal([]byte(tt.body), &ev))

			_, ok := Normalize(ev)
			assert.False(t, ok)
		})
	}
}

func TestNormalize_SpeakerPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"participant name wins", `{"text": "x", "data": null, "speaker": "flat", "participant": {"name": "Alice", "user_id": "7"}}`, "Alice"},
		{"display name over user id", `{"text": "x", "participant": {"display_name": "A. Smith", "user_id": "7"}}`, "A. Smith"},
		{"flat speaker", `{"text": "x", "speaker": "Bob"}`, "Bob"},
		{"user name", `{"text": "x", "user": {"name": "Carol"}}`, "Carol"},
		{"owner", `{"text": "x", "owner": "Dave"}`, "Dave"},
		{"nothing", `{"text": "x"}`, "Unknown"},
		{"bracketed prefix stripped", `{"text": "x", "speaker": "[host] Eve"}`, "Eve"},
		{"only bracketed tag", `{"text": "x", "speaker": "[0:01] "}`, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev Event
			require.NoError(t, json.Unmarshal([]byte(tt.body), &ev))

			u, ok := Normalize(ev)
			require.True(t, ok)
			assert.Equal(t, tt.want, u.Speaker)
		})
	}
}

func TestNormalize_TimestampPriority(t *testing.T) {
	var ev Event
	body := `{
		"data": {"data": {
			"words": [{"text": "hi", "start_timestamp": {"relative": 1.5}}],
			"start_timestamp": {"relative": 9.0}
		}}
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &ev))

	u, ok := Normalize(ev)
	require.True(t, ok)
	assert.Equal(t, 1.5, u.Timestamp)

	// Without word timing the top-level relative start wins.
	body = `{"data": {"data": {"words": [{"text": "hi"}], "start_timestamp": {"relative": 9.0}}}}`
	ev = Event{}
	require.NoError(t, json.Unmarshal([]byte(body), &ev))

	u, ok = Normalize(ev)
	require.True(t, ok)
	assert.Equal(t, 9.0, u.Timestamp)

	// With no timing at all, fall back to wall clock (epoch ms).
	ev = Event{}
	require.NoError(t, json.Unmarshal([]byte(`{"text": "hi"}`), &ev))

	u, ok = Normalize(ev)
	require.True(t, ok)
	assert.Greater(t, u.Timestamp, 1e12)
}

func TestNormalize_SynthesizedIDsDoNotCollide(t *testing.T) {
	ev := Event{Payload: Payload{Text: "hello"}}

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		u, ok := Normalize(ev)
		require.True(t, ok)
		if _, dup := seen[u.ID]; dup {
			t.Fatalf("duplicate synthesized id after %d events: %s", i, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
}
