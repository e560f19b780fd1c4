// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file runs a single conversation turn against the assistant API:
// ensure thread, submit, poll, fetch, replay. The runner executes on a
// goroutine owned by the Bubble Tea runtime and reports progress back
// to the model through messages.
package chat

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadline/internal/assistant"
	chatstore "github.com/jeranaias/threadline/internal/chat"
)

// =============================================================================
// SENDER
// =============================================================================

// sender delivers messages to the running Bubble Tea program. The
// program handle only exists after tea.NewProgram, which runs on a
// copy of the model, so the model carries a shared pointer and the
// send function is installed late. Sends before installation are
// dropped; nothing interesting happens before the program loop starts.
type sender struct {
	mu sync.Mutex
	fn func(tea.Msg)
}

func (s *sender) set(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

func (s *sender) send(msg tea.Msg) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// =============================================================================
// TURN RUNNER
// =============================================================================

// Runner executes one conversation turn. Poller and streamer are built
// per turn so config reloads take effect on the next message.
type Runner struct {
	client   *assistant.Client
	poller   *assistant.Poller
	streamer *assistant.Streamer
	send     func(tea.Msg)
}

// NewRunner builds a runner for a single turn.
func NewRunner(client *assistant.Client, poller *assistant.Poller, streamer *assistant.Streamer, send func(tea.Msg)) *Runner {
	return &Runner{
		client:   client,
		poller:   poller,
		streamer: streamer,
		send:     send,
	}
}

// Run executes the turn pipeline and returns the terminal message for
// the Bubble Tea update loop. Intermediate progress (thread ready,
// stream start, stream tokens) is pushed through the sender; the
// returned message is always a TurnDoneMsg.
//
// Cancellation is never an error: every failure path checks the
// context first and reports TurnCancelled when the turn was stopped.
func (r *Runner) Run(ctx context.Context, turnID int, chatID chatstore.ChatID, threadID, text string) tea.Msg {
	// Ensure the chat has a backing thread.
	tid, err := r.client.EnsureThread(ctx, threadID)
	if err != nil {
		if ctx.Err() != nil {
			return TurnDoneMsg{TurnID: turnID, Result: TurnCancelled}
		}
		return TurnDoneMsg{TurnID: turnID, Result: TurnFailed, Err: fmt.Errorf("ensure thread: %w", err)}
	}
	r.send(ThreadReadyMsg{TurnID: turnID, ChatID: chatID, ThreadID: tid})

	// Submit the user message and start a run.
	run, err := r.client.SubmitMessage(ctx, tid, text)
	if err != nil {
		if ctx.Err() != nil {
			return TurnDoneMsg{TurnID: turnID, Result: TurnCancelled}
		}
		return TurnDoneMsg{TurnID: turnID, Result: TurnFailed, Err: fmt.Errorf("submit message: %w", err)}
	}

	// Wait for the run to reach a terminal state.
	outcome := r.poller.Wait(ctx, tid, run.ID)
	switch outcome.State {
	case assistant.StateCancelled:
		return TurnDoneMsg{TurnID: turnID, Result: TurnCancelled}
	case assistant.StateCompleted:
		// Fall through to fetch the reply.
	default:
		// Failed and unknown statuses both end the turn.
		return TurnDoneMsg{TurnID: turnID, Result: TurnFailed, Detail: outcome.Detail, Err: outcome.Err}
	}

	// Fetch the assistant reply.
	reply, err := r.client.LatestAssistantText(ctx, tid)
	if err != nil {
		if ctx.Err() != nil {
			return TurnDoneMsg{TurnID: turnID, Result: TurnCancelled}
		}
		return TurnDoneMsg{TurnID: turnID, Result: TurnFailed, Err: fmt.Errorf("fetch reply: %w", err)}
	}
	if reply == "" {
		return TurnDoneMsg{TurnID: turnID, Result: TurnFailed, Detail: "assistant returned no reply"}
	}

	// Replay the reply rune by rune at the configured pace.
	r.send(StreamStartMsg{TurnID: turnID, Total: utf8.RuneCountInString(reply)})
	_, interrupted := r.streamer.Stream(ctx, reply, func(ru rune) {
		r.send(StreamTokenMsg{TurnID: turnID, Chunk: string(ru)})
	})
	if interrupted {
		return TurnDoneMsg{TurnID: turnID, Result: TurnCancelled}
	}
	return TurnDoneMsg{TurnID: turnID, Result: TurnCompleted}
}
