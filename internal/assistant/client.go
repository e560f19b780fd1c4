// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// client.go - HTTP client for the hosted assistant API (threads, messages, runs).
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the assistant client.
type ClientConfig struct {
	// APIKey authenticates every request.
	APIKey string

	// BaseURL is the API root (default: https://api.openai.com/v1).
	BaseURL string

	// AssistantID is the assistant identity runs execute as.
	AssistantID string

	// Instructions is the system prompt attached to every run. Empty
	// falls back to the assistant's stored instructions.
	Instructions string

	// Timeout bounds each individual HTTP request (default: 30s).
	// The run wait itself is unbounded; only single requests time out.
	Timeout time.Duration
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "https://api.openai.com/v1",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the assistant API.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := assistant.NewClient(assistant.ClientConfig{APIKey: key, AssistantID: id})
//	if err := client.Connect(ctx); err != nil {
//	    // startup is fatal on probe failure
//	}
//	threadID, err := client.EnsureThread(ctx, chat.ThreadID)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(config ClientConfig) *Client {
	def := DefaultClientConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}

	return &Client{
		config: &config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// AssistantID returns the configured assistant identity.
func (c *Client) AssistantID() string {
	return c.config.AssistantID
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// setHeaders sets the required headers for assistant API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")
}

// doJSON performs one request and decodes the response into out (when
// non-nil). Transport failures, timeouts, and API error payloads are all
// mapped to ClientError values.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)

	// Keep the key out of anything that might print the request.
	req.Header.Del("Authorization")

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}

// maxResponseSize bounds response bodies read into memory (4MB).
const maxResponseSize = 4 * 1024 * 1024

// handleErrorResponse maps a non-2xx status and the provider's error
// payload into a typed ClientError.
func (c *Client) handleErrorResponse(status int, body []byte) error {
	detail := ""
	var envelope apiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		detail = envelope.Error.Message
	}

	msg := func(base string) string {
		if detail != "" {
			return base + ": " + detail
		}
		return base
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &ClientError{Type: ErrTypeAuth, Message: msg("API key was rejected")}
	case status == http.StatusNotFound:
		return &ClientError{Type: ErrTypeNotFound, Message: msg("resource not found")}
	case status == http.StatusTooManyRequests:
		return &ClientError{Type: ErrTypeRateLimited, Message: msg("provider throttled the request")}
	case status >= 500:
		return &ClientError{Type: ErrTypeServer, Message: msg("provider error (" + strconv.Itoa(status) + ")")}
	case status >= 400:
		return &ClientError{Type: ErrTypeBadRequest, Message: msg("request rejected (" + strconv.Itoa(status) + ")")}
	}
	return &ClientError{Type: ErrTypeUnknown, Message: msg("unexpected status " + strconv.Itoa(status))}
}

// =============================================================================
// CONNECTION PROBE
// =============================================================================

// Connect verifies the API key and assistant id by retrieving the
// configured assistant. Startup treats any failure here as fatal.
func (c *Client) Connect(ctx context.Context) error {
	if c.config.APIKey == "" {
		return &ClientError{Type: ErrTypeAuth, Message: "no API key configured"}
	}
	if c.config.AssistantID == "" {
		return &ClientError{Type: ErrTypeBadRequest, Message: "no assistant id configured"}
	}

	var a Assistant
	if err := c.doJSON(ctx, http.MethodGet, "/assistants/"+c.config.AssistantID, nil, &a); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// THREADS
// =============================================================================

// CreateThread creates a new empty thread.
func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var t Thread
	if err := c.doJSON(ctx, http.MethodPost, "/threads", struct{}{}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// EnsureThread returns the existing thread id untouched when non-empty;
// otherwise it creates a thread and returns the new id. Callers persist
// the result so each chat creates at most one remote thread.
func (c *Client) EnsureThread(ctx context.Context, existing string) (string, error) {
	if existing != "" {
		return existing, nil
	}
	t, err := c.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// AddMessage appends a message to the thread.
func (c *Client) AddMessage(ctx context.Context, threadID, role, content string) (*ThreadMessage, error) {
	body := createMessageRequest{Role: role, Content: content}
	var m ThreadMessage
	if err := c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LatestAssistantText fetches the newest assistant reply in the thread.
// Returns ErrNoResponse when the thread holds no assistant message.
func (c *Client) LatestAssistantText(ctx context.Context, threadID string) (string, error) {
	var list messageList
	if err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/messages?limit=20", nil, &list); err != nil {
		return "", err
	}

	// The listing is newest-first; the first assistant entry is the reply.
	for i := range list.Data {
		m := &list.Data[i]
		if m.Role == "assistant" {
			if text := m.TextContent(); text != "" {
				return text, nil
			}
		}
	}
	return "", ErrNoResponse
}

// =============================================================================
// RUNS
// =============================================================================

// CreateRun starts a run of the configured assistant against the thread.
func (c *Client) CreateRun(ctx context.Context, threadID string) (*Run, error) {
	body := createRunRequest{
		AssistantID:  c.config.AssistantID,
		Instructions: c.config.Instructions,
	}
	var r Run
	if err := c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RetrieveRun fetches the run's current status. Failed runs carry the
// provider's last_error detail.
func (c *Client) RetrieveRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var r Run
	if err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns fetches up to limit of the thread's most recent runs.
func (c *Client) ListRuns(ctx context.Context, threadID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var list runList
	path := fmt.Sprintf("/threads/%s/runs?limit=%d", threadID, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// CancelRun requests cancellation of a run.
func (c *Client) CancelRun(ctx context.Context, threadID, runID string) error {
	return c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/runs/"+runID+"/cancel", nil, nil)
}

// CancelActiveRuns requests cancellation of every run still occupying
// the thread. Best-effort: it never returns an error. The result is true
// when the listing succeeded and every attempted cancellation was
// accepted, false otherwise.
func (c *Client) CancelActiveRuns(ctx context.Context, threadID string) bool {
	runs, err := c.ListRuns(ctx, threadID, 20)
	if err != nil {
		return false
	}

	ok := true
	for _, run := range runs {
		if !run.Status.Active() {
			continue
		}
		if err := c.CancelRun(ctx, threadID, run.ID); err != nil {
			ok = false
		}
	}
	return ok
}

// SubmitMessage appends a user message and starts a run for it. Active
// runs are always cancelled FIRST so the new run never races an old one
// on the same thread. On any failure the run is nil and the error is the
// caller's to record.
func (c *Client) SubmitMessage(ctx context.Context, threadID, text string) (*Run, error) {
	c.CancelActiveRuns(ctx, threadID)

	if _, err := c.AddMessage(ctx, threadID, "user", text); err != nil {
		return nil, err
	}

	run, err := c.CreateRun(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return run, nil
}
