// Package transcript turns raw live-transcription events into normalized
// utterances and maintains per-session transcript state.
//
// The package supports:
//   - Tolerant normalization of vendor webhook payloads (word lists,
//     flat text fields, nested envelopes)
//   - An append-only transcript log with atomic snapshots
//   - Session state that updates utterances in place by id and appends
//     to the log exactly once per finalized utterance
//   - A per-line speaker parser for plain-text transcripts
//
// # Architecture
//
// The main components are:
//   - Event: the raw inbound payload, accepting either a flat shape or
//     the nested data.data envelope some vendors send
//   - Normalize: produces an Utterance or drops the event
//   - Log: append-only ordered store of finalized lines
//   - Session: owns a Log plus the subscriber-visible utterance
//     collection; safe for one writer and concurrent readers
//
// # Normalization contract
//
// Normalization never fails: missing or malformed fields degrade to
// defaults (speaker "Unknown", wall-clock timestamp, synthesized id).
// An event whose word list and text fallbacks are all empty is dropped.
//
// Synthesized ids are generated fresh per delivery. When upstream omits
// utterance ids, repeated deliveries of the same logical utterance get
// distinct ids and cannot be correlated; upstream ids are authoritative
// whenever present.
package transcript
