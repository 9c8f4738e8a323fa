package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultBaseURL    = "http://localhost:11434"
	defaultModel      = "gemma:2b"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 1 * time.Second

	generatePath = "/api/generate"
)

// Rate limiter defaults: local backends tolerate short bursts but choke
// on sustained request floods.
const (
	defaultRateLimit = 1.0
	defaultBurst     = 5
)

// ErrEmptyCompletion indicates the backend answered but produced no text
// after assembly. Callers must treat this as an extraction failure, not a
// crash.
var ErrEmptyCompletion = errors.New("empty completion from backend")

// Config holds completion backend configuration.
type Config struct {
	BaseURL    string        `koanf:"base_url"`
	Model      string        `koanf:"model"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

// Client calls an Ollama-style completion backend over HTTP.
//
// Backends disagree on the request body they accept, so Generate tries a
// sequence of body shapes and stops at the first that yields extractable
// text. Every request runs under the configured timeout; a hung backend
// surfaces as an error, never a stall.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a completion client. Zero-valued config fields fall
// back to defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// bodyShapes returns the request bodies to try, in order. Some backends
// want "prompt", others "input", and a few reject a model field entirely.
func (c *Client) bodyShapes(prompt string) []map[string]any {
	return []map[string]any{
		{"model": c.model, "prompt": prompt, "stream": true},
		{"model": c.model, "input": prompt, "stream": true},
		{"prompt": prompt, "stream": true},
	}
}

// Generate sends the prompt to the backend and returns assembled text.
//
// Each body shape gets up to maxRetries attempts with exponential backoff
// on transient failures (network errors, 429, 5xx). The first shape that
// yields non-empty assembled text wins. When every shape fails, the last
// error is returned wrapped; when the backend answers but assembly yields
// nothing, ErrEmptyCompletion is returned.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for i, body := range c.bodyShapes(prompt) {
		text, err := c.generateWithRetry(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		c.logger.Debug("completion body shape failed",
			zap.Int("shape", i),
			zap.Error(err))
	}

	if errors.Is(lastErr, ErrEmptyCompletion) {
		return "", ErrEmptyCompletion
	}
	return "", fmt.Errorf("completion backend failed: %w", lastErr)
}

// generateWithRetry runs one body shape with retries on transient errors.
func (c *Client) generateWithRetry(ctx context.Context, body map[string]any) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs one HTTP request and assembles the response body.
func (c *Client) doRequest(ctx context.Context, body map[string]any) (string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("backend request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &retryableError{err: fmt.Errorf("rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)}
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("backend error (%d): %s", resp.StatusCode, msg)
	}

	text := Assemble(resp.Body)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// retryableError wraps an error to indicate it can be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable checks if an error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
