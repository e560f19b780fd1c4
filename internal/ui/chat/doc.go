// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the threadline TUI.

The chat package implements the conversation screen using the Bubble Tea
framework: a sidebar listing the session's chats, a scrollable transcript,
a single-line input, and a status bar. Messages typed here are relayed to
the hosted assistant API and the reply is replayed into the transcript
with a typing cadence.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model:
  - Chat store access (current chat, transcript, thread binding)
  - Turn state: one in-flight turn at a time, identified by a turn id
  - Viewport for transcript scrolling
  - Focus handling between the input and the sidebar

## Turn Runner (runner.go)

Runs one full request/response cycle against the assistant API in a
goroutine: ensure thread, submit, poll to a terminal status, fetch the
reply, and replay it rune by rune. Progress is delivered to the program
as messages guarded by the turn id, so output from a superseded turn is
dropped instead of corrupting the transcript.

## View Rendering (view.go)

Rendering logic for the complete screen:
  - Header with the chat title and thread badge
  - Sidebar joined horizontally with the transcript and input
  - Message bubbles with role-specific styling
  - Status bar with connection state, run state, and key hints

## Commands (input.go, commands.go)

Slash input is routed through the command registry:
  - /help - commands and key bindings
  - /new, /chat, /chats - chat management
  - /sidebar - toggle the sidebar
  - /config - show or set configuration
  - /status - connection and session detail
  - /quit - exit

## Tab Completion (completion.go)

Tab completes command names, aliases, and arguments, but only when the
input starts with "/"; otherwise Tab moves focus between the input and
the sidebar.

# Usage

The model is a component: Update returns the concrete type, so the
application's root model embeds it and forwards messages:

	type root struct {
		chat chat.Model
	}

	func (r root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
		var cmd tea.Cmd
		r.chat, cmd = r.chat.Update(msg)
		return r, cmd
	}

The sender is wired after the program exists so the turn runner can
deliver messages from its goroutine. It is shared across model copies,
so installing it on the original still reaches the program's copy:

	m := chat.New(theme, cfg, store, client, sess)
	p := tea.NewProgram(root{chat: m}, tea.WithAltScreen())
	m.SetSender(p.Send)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
