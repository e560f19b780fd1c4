// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the HTTP client for the hosted assistant API.
package assistant

// =============================================================================
// RUN STATUS
// =============================================================================

// RunStatus is the provider-reported lifecycle status of a run.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCancelling     RunStatus = "cancelling"
	StatusCancelled      RunStatus = "cancelled"
	StatusFailed         RunStatus = "failed"
	StatusCompleted      RunStatus = "completed"
	StatusIncomplete     RunStatus = "incomplete"
	StatusExpired        RunStatus = "expired"
)

// Active reports whether a run in this status still occupies the thread
// and should be cancelled before a new run is created.
func (s RunStatus) Active() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusRequiresAction:
		return true
	}
	return false
}

// =============================================================================
// API OBJECTS
// =============================================================================

// Thread is a server-side conversation container.
type Thread struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	CreatedAt int64  `json:"created_at"`
}

// Run is one assistant execution against a thread.
type Run struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	ThreadID    string    `json:"thread_id"`
	AssistantID string    `json:"assistant_id"`
	Status      RunStatus `json:"status"`
	LastError   *RunError `json:"last_error,omitempty"`
	CreatedAt   int64     `json:"created_at"`
}

// RunError is the provider's failure detail on a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ThreadMessage is one message stored in a thread. Content is a list of
// typed parts; replies carry their text in parts of type "text".
type ThreadMessage struct {
	ID        string        `json:"id"`
	Object    string        `json:"object"`
	ThreadID  string        `json:"thread_id"`
	Role      string        `json:"role"`
	Content   []ContentPart `json:"content"`
	CreatedAt int64         `json:"created_at"`
}

// ContentPart is a single typed segment of a message.
type ContentPart struct {
	Type string    `json:"type"`
	Text *TextPart `json:"text,omitempty"`
}

// TextPart holds the text value of a "text" content part.
type TextPart struct {
	Value string `json:"value"`
}

// TextContent returns the message's first text part, or "".
func (m *ThreadMessage) TextContent() string {
	for _, part := range m.Content {
		if part.Type == "text" && part.Text != nil {
			return part.Text.Value
		}
	}
	return ""
}

// Assistant is the configured assistant identity, fetched by the
// startup probe.
type Assistant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

// =============================================================================
// REQUEST BODIES
// =============================================================================

// createMessageRequest is the body for adding a message to a thread.
type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// createRunRequest is the body for starting a run. Instructions override
// the assistant's stored system prompt when non-empty.
type createRunRequest struct {
	AssistantID  string `json:"assistant_id"`
	Instructions string `json:"instructions,omitempty"`
}

// =============================================================================
// LIST RESPONSES
// =============================================================================

// runList is the paginated run listing envelope.
type runList struct {
	Object  string `json:"object"`
	Data    []Run  `json:"data"`
	HasMore bool   `json:"has_more"`
}

// messageList is the paginated message listing envelope. The API returns
// messages newest-first.
type messageList struct {
	Object  string          `json:"object"`
	Data    []ThreadMessage `json:"data"`
	HasMore bool            `json:"has_more"`
}

// apiErrorEnvelope wraps the provider's error payload.
type apiErrorEnvelope struct {
	Error apiErrorBody `json:"error"`
}

// apiErrorBody is the provider's error detail.
type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
