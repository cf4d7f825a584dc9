package spell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to a remote spell checking service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryBase  time.Duration
	log        *slog.Logger
}

func NewClient(baseURL, apiKey string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryBase: 200 * time.Millisecond,
		log:       log,
	}
}

// CheckRequest is the body for POST /check.
type CheckRequest struct {
	Text string `json:"text"`
}

// CheckResponse is the reply from POST /check.
type CheckResponse struct {
	Correct     bool     `json:"correct"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Check asks the service whether text is spelled correctly, retrying
// throttled and 5xx replies up to MaxRetries times.
func (c *Client) Check(ctx context.Context, text string) (*CheckResponse, error) {
	for attempt := 0; ; attempt++ {
		res, err := c.check(ctx, text)
		if err == nil || !IsRetryable(err) || attempt >= MaxRetries {
			return res, err
		}
		wait := Backoff(attempt, c.retryBase)
		c.log.Debug("retrying spell check", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) check(ctx context.Context, text string) (*CheckResponse, error) {
	body, err := json.Marshal(CheckRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal check: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("check: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode check: %w", err)
	}
	return &result, nil
}

// Checker adapts the client to doctree.SpellChecker for one request
// context. Service failures are logged and the text counts as correct, so
// an outage never floods results with false positives.
func (c *Client) Checker(ctx context.Context) func(string) bool {
	return func(text string) bool {
		res, err := c.Check(ctx, text)
		if err != nil {
			c.log.Warn("spell service unavailable", "error", err)
			return true
		}
		return res.Correct
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
