// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file reacts to the messages that slash command handlers emit.
// Most results land in the transcript as local-only system notes; the
// rest drive toasts or component state.
package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	chatstore "github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/commands"
	"github.com/jeranaias/threadline/internal/config"
	"github.com/jeranaias/threadline/internal/ui/components"
	"github.com/jeranaias/threadline/internal/util"
)

// =============================================================================
// COMMAND RESULT HANDLERS
// =============================================================================

// handleShowHelp drops the generated help text into the transcript.
func (m Model) handleShowHelp(msg commands.ShowHelpMsg) (Model, tea.Cmd) {
	m.appendSystemNote(commands.GenerateHelpText(m.registry, msg.Topic))
	return m, nil
}

// handleChatSelected reacts to a /chat switch.
func (m Model) handleChatSelected(msg commands.ChatSelectedMsg) (Model, tea.Cmd) {
	if msg.Error != nil {
		m.toasts.AddError(msg.Error.Error())
		return m, components.ToastTickCmd()
	}
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()
	m.appendSystemNote("Switched to " + msg.Title + ".")
	return m, nil
}

// handleChatList renders the /chats listing as a system note.
func (m Model) handleChatList(msg commands.ChatListMsg) (Model, tea.Cmd) {
	if len(msg.Chats) == 0 {
		m.appendSystemNote("No chats yet. Type a message to start one.")
		return m, nil
	}

	var b strings.Builder
	b.WriteString("Chats in this session:\n")
	for _, c := range msg.Chats {
		marker := "  "
		if c.Current {
			marker = "* "
		}
		b.WriteString(marker + string(c.ID) + "  " + c.DisplayTitle() +
			" (" + util.IntToString(c.Messages) + " messages)\n")
	}
	b.WriteString("\nUse /chat <id> to switch.")
	m.appendSystemNote(b.String())
	return m, nil
}

// handleStatusInfo renders the /status block. The command handler fills
// in connection, chat, and session facts; the view adds the turn state
// and the last recorded error, which only the model knows.
func (m Model) handleStatusInfo(msg commands.StatusInfoMsg) (Model, tea.Cmd) {
	m.statusBar.SetConnected(msg.APIStatus == "connected")

	var b strings.Builder
	b.WriteString("Status\n")
	b.WriteString("  target:        " + msg.Target + "\n")
	b.WriteString("  assistant:     " + msg.AssistantID + "\n")
	b.WriteString("  api:           " + msg.APIStatus + "\n")
	b.WriteString("  state:         " + m.runStateLabel() + "\n")
	b.WriteString("  poll interval: " + msg.PollInterval + "\n")
	b.WriteString("Chat\n")
	b.WriteString("  chats:    " + util.IntToString(msg.ChatCount) + "\n")
	b.WriteString("  current:  " + msg.ChatTitle + "\n")
	if msg.ThreadID != "" {
		b.WriteString("  thread:   " + msg.ThreadID + "\n")
	}
	b.WriteString("  messages: " + util.IntToString(msg.MessageCount) + "\n")
	b.WriteString("Session\n")
	b.WriteString("  id:      " + msg.SessionID + "\n")
	b.WriteString("  started: " + msg.SessionStart + "\n")
	b.WriteString("  idle:    " + msg.IdleTime)
	if m.lastErr != "" {
		b.WriteString("\nLast error\n")
		b.WriteString("  " + m.lastErr + " (at " + m.lastErrAt.Format("15:04:05") + ")")
	}
	m.appendSystemNote(b.String())
	return m, nil
}

// runStateLabel names the current turn state for /status.
func (m Model) runStateLabel() string {
	switch m.state {
	case StateWaiting:
		return "waiting on run"
	case StateStreaming:
		return "streaming reply"
	case StateCancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

// handleShowConfig renders config values. The API key is always shown
// elided.
func (m Model) handleShowConfig(msg commands.ShowConfigMsg) (Model, tea.Cmd) {
	if msg.Key == "" {
		var b strings.Builder
		b.WriteString("Configuration\n")
		for _, k := range config.GetAllKeys() {
			val := ""
			if k == "api.key" {
				val = m.cfg.MaskedKey()
			} else if v, err := m.cfg.Get(k); err == nil {
				val = fmt.Sprintf("%v", v)
			}
			b.WriteString("  " + padConfigKey(k) + val + "\n")
		}
		b.WriteString("\nUse /config <key> <value> to change a setting.")
		m.appendSystemNote(b.String())
		return m, nil
	}

	val := msg.Value
	if msg.Key == "api.key" {
		val = m.cfg.MaskedKey()
	}
	m.appendSystemNote(msg.Key + " = " + val)
	return m, nil
}

// handleConfigUpdate persists a /config set and applies live settings.
func (m Model) handleConfigUpdate(msg commands.ConfigUpdateMsg) (Model, tea.Cmd) {
	if msg.Error != nil {
		m.toasts.AddError(msg.Error.Error())
		return m, components.ToastTickCmd()
	}

	var note string
	if msg.Key == "api.key" {
		note = "Set api.key to " + m.cfg.MaskedKey()
	} else {
		note = "Set " + msg.Key + ": " + fmt.Sprintf("%v", msg.OldValue) +
			" -> " + fmt.Sprintf("%v", msg.Value)
	}
	if strings.HasPrefix(msg.Key, "api.") {
		note += "\nAPI settings apply after a restart."
	}
	m.appendSystemNote(note)
	m.applyConfig()

	if err := config.Save(m.cfg); err != nil {
		m.toasts.AddWarning("Config not saved: " + err.Error())
		return m, components.ToastTickCmd()
	}
	return m, nil
}

// handleConfigReloaded swaps in a config picked up from disk.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError("Config reload failed: " + msg.Err.Error())
		return m, components.ToastTickCmd()
	}
	apiChanged := msg.Config.API != m.cfg.API || msg.Config.Assistant != m.cfg.Assistant
	m.cfg = msg.Config
	m.cmdCtx.Config = msg.Config
	m.applyConfig()
	if apiChanged {
		// The client keeps its connection settings for the process
		// lifetime; only a restart picks these up.
		m.toasts.AddWarning("Config reloaded; API settings apply after a restart")
	} else {
		m.toasts.AddStatus("Config reloaded")
	}
	return m, components.ToastTickCmd()
}

// applyConfig pushes config-derived settings into live components.
// Poll and stream cadence need no push: the runner reads the config
// when a turn starts.
func (m *Model) applyConfig() {
	m.statusBar.SetEndpoint(endpointLabel(m.client.BaseURL()))
	m.session.SetTimeout(m.cfg.IdleTimeout())
	m.session.SetWarningTime(m.cfg.WarningBefore())
	if m.cfg.UI.SidebarOpen != m.sidebar.IsVisible() {
		m.sidebar.Toggle()
		m.relayout()
	}
}

// appendSystemNote adds a local-only system message to the current
// chat. Notes never reach the API and never influence chat titles.
func (m *Model) appendSystemNote(content string) {
	id := m.store.CurrentID()
	if id == "" {
		id = m.store.CreateChat()
	}
	m.store.AppendMessage(id, chatstore.Message{
		Role:    chatstore.RoleSystem,
		Content: content,
	})
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()
}

// padConfigKey pads a key to a fixed column so values line up.
func padConfigKey(k string) string {
	const col = 30
	if len(k) >= col {
		return k + " "
	}
	return k + strings.Repeat(" ", col-len(k))
}
