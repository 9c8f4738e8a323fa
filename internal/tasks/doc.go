// Package tasks extracts structured action items from meeting transcripts
// by prompting a completion backend and tolerantly parsing its output.
//
// Model output is unreliable: the JSON array the prompt demands may come
// back wrapped in prose, fenced in a markdown block, truncated to a single
// object, or not as JSON at all. The parser tries an ordered sequence of
// strategies and, as a last resort, synthesizes one lower-confidence raw
// record from the text instead of discarding it.
//
// # Architecture
//
// The main components are:
//   - Record: one action item with stable wire field names
//   - ParseRecords: the ordered parse strategies
//   - Service: prompt building, backend call, enrichment, dedup
//   - Deduplicator: signature set preventing repeated task text across
//     overlapping extraction calls
//
// # Failure semantics
//
// A processing failure degrades to "no tasks found". Extract returns the
// retained error for diagnostics, but callers present an empty collection,
// never a fault.
package tasks
