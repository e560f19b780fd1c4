// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file defines the Bubble Tea message types used by the chat view.
// Every turn-lifecycle message carries the id of the turn it belongs to;
// the model drops messages whose id is not the newest turn, so a
// superseded or cancelled turn can never write into the transcript.
package chat

import (
	"github.com/jeranaias/threadline/internal/config"

	chatstore "github.com/jeranaias/threadline/internal/chat"
)

// =============================================================================
// TURN LIFECYCLE MESSAGES
// =============================================================================

// ThreadReadyMsg reports the remote thread the turn is bound to. Sent
// once per turn, after EnsureThread; the model persists the id on the
// chat so later turns reuse the thread.
type ThreadReadyMsg struct {
	TurnID   int
	ChatID   chatstore.ChatID
	ThreadID string
}

// StreamStartMsg signals that the reply was fetched and replay is about
// to begin. Total is the rune count of the full reply; the status bar
// uses it for stream progress.
type StreamStartMsg struct {
	TurnID int
	Total  int
}

// StreamTokenMsg delivers one replayed rune of the reply.
type StreamTokenMsg struct {
	TurnID int
	Chunk  string
}

// TurnResult classifies how a turn ended.
type TurnResult int

const (
	// TurnCompleted means the full reply reached the transcript.
	TurnCompleted TurnResult = iota

	// TurnFailed means a recoverable failure (submission, poll, or
	// retrieval). The transcript gets the generic failure notice; the
	// detail is only recorded for /status.
	TurnFailed

	// TurnCancelled means the user stopped the turn. Cancellation is
	// not an error and is never recorded as one.
	TurnCancelled
)

// TurnDoneMsg is the terminal message of a turn. Exactly one is
// delivered per turn, after which the input is re-enabled.
//
// For TurnFailed, Err holds the failure (stage-wrapped) and Detail an
// optional provider-reported reason; at least one is set. Both are nil
// or empty for the other results.
type TurnDoneMsg struct {
	TurnID int
	Result TurnResult
	Detail string
	Err    error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent when the config file watcher reloads the
// configuration. A failed reload keeps the previous config and carries
// the error for a toast.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
