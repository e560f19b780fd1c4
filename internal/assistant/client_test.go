// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the HTTP client for the hosted assistant API.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// testServer wraps httptest.Server with a request log so tests can
// assert on call ordering.
type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newTestServer(handler http.HandlerFunc) *testServer {
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.requests = append(ts.requests, r.Method+" "+r.URL.Path)
		ts.mu.Unlock()
		handler(w, r)
	}))
	return ts
}

func (ts *testServer) log() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.requests))
	copy(out, ts.requests)
	return out
}

func (ts *testServer) client() *Client {
	return NewClient(ClientConfig{
		APIKey:      "sk-test",
		BaseURL:     ts.URL,
		AssistantID: "asst_test",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiErrorEnvelope{Error: apiErrorBody{Message: message}})
}

// =============================================================================
// CONNECT TESTS
// =============================================================================

func TestClient_Connect(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assistants/asst_test" {
			writeAPIError(w, http.StatusNotFound, "no such route")
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			writeAPIError(w, http.StatusUnauthorized, "bad key")
			return
		}
		if got := r.Header.Get("OpenAI-Beta"); got != "assistants=v2" {
			writeAPIError(w, http.StatusBadRequest, "missing beta header")
			return
		}
		writeJSON(w, http.StatusOK, Assistant{ID: "asst_test", Name: "helper"})
	})
	defer ts.Close()

	if err := ts.client().Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

func TestClient_ConnectRejectedKey(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "Incorrect API key provided")
	})
	defer ts.Close()

	err := ts.client().Connect(context.Background())
	if err == nil {
		t.Fatal("Connect should fail on 401")
	}
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("provider detail missing from error: %v", err)
	}
}

func TestClient_ConnectUnreachable(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {})
	ts.Close() // probe hits a dead server

	err := ts.client().Connect(context.Background())
	if err == nil {
		t.Fatal("Connect should fail against a dead server")
	}
	if !IsConnectionError(err) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestClient_ConnectMissingConfig(t *testing.T) {
	// No HTTP call should be needed to reject an unconfigured client.
	c := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
	if err := c.Connect(context.Background()); !IsAuthError(err) {
		t.Errorf("missing key: expected auth error, got %v", err)
	}

	c = NewClient(ClientConfig{APIKey: "sk-x", BaseURL: "http://127.0.0.1:0"})
	err := c.Connect(context.Background())
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeBadRequest {
		t.Errorf("missing assistant id: expected bad-request error, got %v", err)
	}
}

// =============================================================================
// THREAD TESTS
// =============================================================================

func TestClient_EnsureThreadIdempotent(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Thread{ID: "thread_new"})
	})
	defer ts.Close()
	c := ts.client()

	// Existing binding: returned untouched, no HTTP traffic.
	id, err := c.EnsureThread(context.Background(), "thread_existing")
	if err != nil {
		t.Fatalf("EnsureThread failed: %v", err)
	}
	if id != "thread_existing" {
		t.Errorf("id = %q, want thread_existing", id)
	}
	if got := len(ts.log()); got != 0 {
		t.Errorf("EnsureThread with a binding made %d requests, want 0", got)
	}

	// Empty binding: exactly one create.
	id, err = c.EnsureThread(context.Background(), "")
	if err != nil {
		t.Fatalf("EnsureThread failed: %v", err)
	}
	if id != "thread_new" {
		t.Errorf("id = %q, want thread_new", id)
	}
	if got := ts.log(); len(got) != 1 || got[0] != "POST /threads" {
		t.Errorf("requests = %v, want exactly one POST /threads", got)
	}
}

// =============================================================================
// SUBMIT ORDERING TESTS
// =============================================================================

func TestClient_SubmitMessageCancelsBeforeCreate(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/threads/t1/runs":
			writeJSON(w, http.StatusOK, runList{Data: []Run{
				{ID: "run_old", Status: StatusInProgress},
				{ID: "run_done", Status: StatusCompleted},
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/threads/t1/runs/run_old/cancel":
			writeJSON(w, http.StatusOK, Run{ID: "run_old", Status: StatusCancelling})
		case r.Method == http.MethodPost && r.URL.Path == "/threads/t1/messages":
			writeJSON(w, http.StatusOK, ThreadMessage{ID: "msg_1", Role: "user"})
		case r.Method == http.MethodPost && r.URL.Path == "/threads/t1/runs":
			writeJSON(w, http.StatusOK, Run{ID: "run_new", Status: StatusQueued})
		default:
			writeAPIError(w, http.StatusNotFound, "unexpected "+r.Method+" "+r.URL.Path)
		}
	})
	defer ts.Close()

	run, err := ts.client().SubmitMessage(context.Background(), "t1", "hello")
	if err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if run.ID != "run_new" {
		t.Errorf("run = %q, want run_new", run.ID)
	}

	want := []string{
		"GET /threads/t1/runs",
		"POST /threads/t1/runs/run_old/cancel",
		"POST /threads/t1/messages",
		"POST /threads/t1/runs",
	}
	got := ts.log()
	if len(got) != len(want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
	// The completed run must not receive a cancel request.
	for _, r := range got {
		if strings.Contains(r, "run_done") {
			t.Errorf("cancel was attempted on a finished run: %v", got)
		}
	}
}

func TestClient_SubmitMessageAppendFailureSkipsRun(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/threads/t1/runs":
			writeJSON(w, http.StatusOK, runList{})
		case r.Method == http.MethodPost && r.URL.Path == "/threads/t1/messages":
			writeAPIError(w, http.StatusInternalServerError, "message store unavailable")
		default:
			writeAPIError(w, http.StatusNotFound, "unexpected "+r.Method+" "+r.URL.Path)
		}
	})
	defer ts.Close()

	run, err := ts.client().SubmitMessage(context.Background(), "t1", "hello")
	if err == nil {
		t.Fatal("SubmitMessage should fail when the append fails")
	}
	if run != nil {
		t.Errorf("run = %+v, want nil", run)
	}
	for _, r := range ts.log() {
		if r == "POST /threads/t1/runs" {
			t.Error("a run was created after the message append failed")
		}
	}
}

// =============================================================================
// CANCEL TESTS
// =============================================================================

func TestClient_CancelActiveRuns(t *testing.T) {
	cancelled := make(map[string]bool)
	var mu sync.Mutex

	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/threads/t1/runs":
			writeJSON(w, http.StatusOK, runList{Data: []Run{
				{ID: "run_q", Status: StatusQueued},
				{ID: "run_p", Status: StatusInProgress},
				{ID: "run_a", Status: StatusRequiresAction},
				{ID: "run_c", Status: StatusCompleted},
				{ID: "run_x", Status: StatusCancelled},
			}})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
			parts := strings.Split(r.URL.Path, "/")
			mu.Lock()
			cancelled[parts[len(parts)-2]] = true
			mu.Unlock()
			writeJSON(w, http.StatusOK, Run{Status: StatusCancelling})
		default:
			writeAPIError(w, http.StatusNotFound, "unexpected "+r.Method+" "+r.URL.Path)
		}
	})
	defer ts.Close()

	if ok := ts.client().CancelActiveRuns(context.Background(), "t1"); !ok {
		t.Error("CancelActiveRuns should report success")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range []string{"run_q", "run_p", "run_a"} {
		if !cancelled[id] {
			t.Errorf("active run %s was not cancelled", id)
		}
	}
	for _, id := range []string{"run_c", "run_x"} {
		if cancelled[id] {
			t.Errorf("finished run %s should not be cancelled", id)
		}
	}
}

func TestClient_CancelActiveRunsNeverRaises(t *testing.T) {
	// Listing fails: result is false, not an error or panic.
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "down")
	})
	defer ts.Close()
	if ok := ts.client().CancelActiveRuns(context.Background(), "t1"); ok {
		t.Error("CancelActiveRuns should report false when listing fails")
	}

	// One cancel rejected: still attempts the rest, reports false.
	var attempts []string
	var mu sync.Mutex
	ts2 := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, runList{Data: []Run{
				{ID: "run_1", Status: StatusQueued},
				{ID: "run_2", Status: StatusQueued},
			}})
		case strings.HasSuffix(r.URL.Path, "/run_1/cancel"):
			mu.Lock()
			attempts = append(attempts, "run_1")
			mu.Unlock()
			writeAPIError(w, http.StatusInternalServerError, "cannot cancel")
		case strings.HasSuffix(r.URL.Path, "/run_2/cancel"):
			mu.Lock()
			attempts = append(attempts, "run_2")
			mu.Unlock()
			writeJSON(w, http.StatusOK, Run{Status: StatusCancelling})
		}
	})
	defer ts2.Close()

	if ok := ts2.client().CancelActiveRuns(context.Background(), "t1"); ok {
		t.Error("CancelActiveRuns should report false when a cancel is rejected")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(attempts) != 2 {
		t.Errorf("attempted cancels = %v, want both runs", attempts)
	}
}

// =============================================================================
// RESPONSE FETCH TESTS
// =============================================================================

func TestClient_LatestAssistantText(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		// Newest-first listing: the user's follow-up precedes the reply.
		writeJSON(w, http.StatusOK, messageList{Data: []ThreadMessage{
			{Role: "user", Content: []ContentPart{{Type: "text", Text: &TextPart{Value: "and another thing"}}}},
			{Role: "assistant", Content: []ContentPart{
				{Type: "image_file"},
				{Type: "text", Text: &TextPart{Value: "here is the answer"}},
			}},
			{Role: "assistant", Content: []ContentPart{{Type: "text", Text: &TextPart{Value: "older reply"}}}},
		}})
	})
	defer ts.Close()

	text, err := ts.client().LatestAssistantText(context.Background(), "t1")
	if err != nil {
		t.Fatalf("LatestAssistantText failed: %v", err)
	}
	if text != "here is the answer" {
		t.Errorf("text = %q, want the newest assistant reply", text)
	}
}

func TestClient_LatestAssistantTextEmptyThread(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageList{Data: []ThreadMessage{
			{Role: "user", Content: []ContentPart{{Type: "text", Text: &TextPart{Value: "hello?"}}}},
		}})
	})
	defer ts.Close()

	_, err := ts.client().LatestAssistantText(context.Background(), "t1")
	if !IsNoResponse(err) {
		t.Errorf("expected ErrNoResponse, got %v", err)
	}
}

// =============================================================================
// RUN RETRIEVAL TESTS
// =============================================================================

func TestClient_RetrieveRunFailedDetail(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Run{
			ID:     "run_1",
			Status: StatusFailed,
			LastError: &RunError{
				Code:    "rate_limit_exceeded",
				Message: "quota exhausted",
			},
		})
	})
	defer ts.Close()

	run, err := ts.client().RetrieveRun(context.Background(), "t1", "run_1")
	if err != nil {
		t.Fatalf("RetrieveRun failed: %v", err)
	}
	if run.Status != StatusFailed {
		t.Errorf("status = %q, want failed", run.Status)
	}
	if run.LastError == nil || run.LastError.Code != "rate_limit_exceeded" {
		t.Errorf("last error = %+v", run.LastError)
	}
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, IsAuthError, "401 auth"},
		{http.StatusForbidden, IsAuthError, "403 auth"},
		{http.StatusNotFound, IsNotFound, "404 not found"},
		{http.StatusTooManyRequests, IsRateLimited, "429 rate limited"},
		{http.StatusInternalServerError, func(e error) bool {
			var ce *ClientError
			return errors.As(e, &ce) && ce.Type == ErrTypeServer
		}, "500 server"},
		{http.StatusBadRequest, func(e error) bool {
			var ce *ClientError
			return errors.As(e, &ce) && ce.Type == ErrTypeBadRequest
		}, "400 bad request"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, tc.status, fmt.Sprintf("status %d detail", tc.status))
			})
			defer ts.Close()

			_, err := ts.client().RetrieveRun(context.Background(), "t1", "r1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !tc.check(err) {
				t.Errorf("wrong error classification: %v", err)
			}
			if !strings.Contains(err.Error(), "detail") {
				t.Errorf("provider detail missing: %v", err)
			}
		})
	}
}

func TestClient_RunStatusActive(t *testing.T) {
	active := []RunStatus{StatusQueued, StatusInProgress, StatusRequiresAction}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	done := []RunStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusCancelling, StatusExpired, StatusIncomplete}
	for _, s := range done {
		if s.Active() {
			t.Errorf("%s should not be active", s)
		}
	}
}
