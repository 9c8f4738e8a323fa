package transcript

// Utterance is one normalized unit of spoken transcript, interim or final.
//
// The JSON field names are part of the outbound event contract and must
// stay stable so subscribers and sink adapters can map them.
type Utterance struct {
	ID        string  `json:"utterance_id"`
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
	Final     bool    `json:"is_final"`
}

// Entry is one finalized line in the transcript log.
type Entry struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// Timing holds a relative start time in seconds.
type Timing struct {
	Relative float64 `json:"relative"`
}

// Word is a single word token with optional per-word timing.
type Word struct {
	Text           string  `json:"text"`
	StartTimestamp *Timing `json:"start_timestamp,omitempty"`
}

// Participant identifies the speaker in vendor payloads.
type Participant struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// Payload carries the candidate fields a transcription event may have.
// Vendors disagree on shape; every field is optional.
type Payload struct {
	Words          []Word       `json:"words,omitempty"`
	Text           string       `json:"text,omitempty"`
	Transcript     string       `json:"transcript,omitempty"`
	Participant    *Participant `json:"participant,omitempty"`
	Speaker        string       `json:"speaker,omitempty"`
	User           *Participant `json:"user,omitempty"`
	Owner          string       `json:"owner,omitempty"`
	UtteranceID    string       `json:"utterance_id,omitempty"`
	StartTimestamp *Timing      `json:"start_timestamp,omitempty"`
	IsFinal        bool         `json:"is_final,omitempty"`
}

// Event is the raw webhook body. The payload may sit at the top level or
// be nested under data.data depending on the upstream vendor.
type Event struct {
	Data *eventEnvelope `json:"data,omitempty"`
	Payload
}

type eventEnvelope struct {
	Data *Payload `json:"data,omitempty"`
}

// payload returns the innermost payload, preferring the nested envelope.
func (e *Event) payload() *Payload {
	if e.Data != nil && e.Data.Data != nil {
		return e.Data.Data
	}
	return &e.Payload
}
