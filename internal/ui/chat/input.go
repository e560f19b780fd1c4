// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file handles input submission: plain text starts a turn, a
// leading slash runs a command.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadline/internal/assistant"
	chatstore "github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/ui/components"
)

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submit routes the input value: empty input is a no-op, a slash runs
// a command, anything else becomes a user message.
func (m Model) submit() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	if strings.HasPrefix(content, "/") {
		return m.runCommand(content)
	}
	return m.startTurn(content)
}

// runCommand parses and executes a slash command.
func (m Model) runCommand(content string) (Model, tea.Cmd) {
	m.input.Reset()
	m.clearCompletions()
	m.cmdCtx.RecordActivity()

	res := m.parser.Parse(content)
	if res.Command == nil {
		m.appendSystemNote("Unknown command " + res.CommandName + ". Try /help.")
		return m, nil
	}
	if res.Error != nil {
		note := res.Error.Error()
		if res.Command.Usage != "" {
			note += "\nUsage: " + res.Command.Usage
		}
		m.appendSystemNote(note)
		return m, nil
	}
	return m, res.Command.Handler(m.cmdCtx, res.Args)
}

// startTurn records the user message and launches the turn pipeline.
// Any still-active turn context is cancelled first; its messages are
// stale once the sequence number moves on.
func (m Model) startTurn(text string) (Model, tea.Cmd) {
	chatID := m.store.CurrentID()
	if chatID == "" {
		chatID = m.store.CreateChat()
	}

	m.store.AppendMessage(chatID, chatstore.Message{
		Role:    chatstore.RoleUser,
		Content: text,
	})
	if c, ok := m.store.Get(chatID); ok && c.Title == "" {
		m.store.UpdateTitle(chatID, text)
	}

	m.turnSeq++
	turnID := m.turnSeq
	m.turnChatID = chatID
	m.streamed = 0
	m.streamTotal = 0
	m.replyOpen = false
	m.state = StateWaiting

	m.input.Reset()
	m.clearCompletions()
	m.input.SetEnabled(false)
	m.spin.SetMessage("Thinking")
	m.statusBar.SetStatus(components.StatusThinking)
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	threadID := m.store.ThreadID(chatID)
	runner := NewRunner(
		m.client,
		assistant.NewPoller(m.client, m.cfg.PollInterval()),
		assistant.NewStreamer(m.cfg.CharDelay()),
		m.out.send,
	)

	return m, tea.Batch(
		m.spin.Start(),
		func() tea.Msg {
			return runner.Run(ctx, turnID, chatID, threadID, text)
		},
	)
}
