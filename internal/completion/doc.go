// Package completion talks to an Ollama-style text-completion backend and
// assembles its responses into clean text.
//
// Backends disagree on response shape: a single JSON object, a stream of
// newline-delimited JSON fragments each carrying an incremental response
// field, or plain text. The assembler consumes all three through one
// line-wise fold, so peak memory is bounded by the assembled text rather
// than the raw response.
//
// # Architecture
//
// The main components are:
//   - Assemble: folds a response body into assembled, artifact-cleaned text
//   - Client: HTTP client with bounded timeout, rate limiting, retry with
//     exponential backoff, and request-body shape fallback for backends
//     that reject the primary shape
//
// # Artifact cleanup
//
// Streaming backends sometimes append metadata to the final chunk, e.g.
// "gemma:2b2024-01-01T00:00:00.000Zstop". Assembly strips trailing
// model-tag, timestamp, and stop-token artifacts and collapses runs of
// whitespace before returning.
package completion
