// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadline/internal/chat"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application state.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Topic string // Optional topic for specific help
}

// NewChatMsg triggers creating a new chat and switching to it.
type NewChatMsg struct{}

// ChatSelectedMsg indicates the current chat changed.
type ChatSelectedMsg struct {
	ID    chat.ChatID
	Title string
	Error error
}

// ChatListMsg carries chat summaries for display.
type ChatListMsg struct {
	Chats []chat.Summary
}

// ToggleSidebarMsg toggles sidebar visibility.
type ToggleSidebarMsg struct{}

// ShowStatusMsg triggers showing detailed status.
type ShowStatusMsg struct{}

// ShowConfigMsg triggers showing configuration.
type ShowConfigMsg struct {
	Key   string // Optional specific key
	Value string // For setting
}

// ConfigUpdateMsg indicates a config value was updated.
type ConfigUpdateMsg struct {
	Key      string
	Value    interface{}
	OldValue interface{}
	Error    error
}

// ErrorMsg indicates an error occurred.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// SystemMessageMsg adds a system message to the chat.
type SystemMessageMsg struct {
	Content string
}

// StatusInfoMsg contains detailed status information.
type StatusInfoMsg struct {
	Target       string // API base URL
	AssistantID  string
	APIStatus    string // "connected" or "disconnected"
	ChatCount    int
	ChatTitle    string
	ThreadID     string
	MessageCount int
	SessionID    string
	SessionStart string
	IdleTime     string
	PollInterval string
}

// =============================================================================
// HANDLER IMPLEMENTATIONS
// =============================================================================

// HandleHelp shows help information.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a new chat.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return NewChatMsg{}
	}
}

// HandleChat switches the current chat.
func HandleChat(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		// Show the chat list instead
		return HandleChats(ctx, args)
	}

	id := chat.ChatID(args[0])

	if ctx != nil && ctx.Store != nil {
		store := ctx.Store
		return func() tea.Msg {
			if !store.SetCurrent(id) {
				return ChatSelectedMsg{
					ID:    id,
					Error: fmt.Errorf("no chat with id %s", id),
				}
			}
			c, _ := store.Get(id)
			return ChatSelectedMsg{ID: id, Title: c.DisplayTitle()}
		}
	}

	return func() tea.Msg {
		return ChatSelectedMsg{ID: id}
	}
}

// HandleChats shows the chat list.
func HandleChats(ctx *Context, args []string) tea.Cmd {
	if ctx != nil && ctx.Store != nil {
		store := ctx.Store
		return func() tea.Msg {
			return ChatListMsg{Chats: store.Chats()}
		}
	}
	return func() tea.Msg {
		return ChatListMsg{}
	}
}

// HandleSidebar toggles sidebar visibility.
func HandleSidebar(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ToggleSidebarMsg{}
	}
}

// HandleConfig shows or sets configuration.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	// No args - show all config
	if len(args) == 0 {
		return func() tea.Msg {
			return ShowConfigMsg{}
		}
	}

	key := args[0]

	// Single arg - get config value
	if len(args) == 1 {
		if ctx != nil && ctx.Config != nil {
			val, err := ctx.Config.Get(key)
			if err != nil {
				return func() tea.Msg {
					return ErrorMsg{
						Title:   "Config error",
						Message: err.Error(),
						Tip:     "Use /config to see all available keys",
					}
				}
			}
			return func() tea.Msg {
				return ShowConfigMsg{Key: key, Value: fmt.Sprintf("%v", val)}
			}
		}
		return func() tea.Msg {
			return ShowConfigMsg{Key: key}
		}
	}

	// Two or more args - set config value
	value := strings.Join(args[1:], " ")
	if ctx != nil && ctx.Config != nil {
		oldVal, _ := ctx.Config.Get(key)
		if err := ctx.Config.Set(key, value); err != nil {
			return func() tea.Msg {
				return ConfigUpdateMsg{Key: key, Error: err}
			}
		}
		newVal, _ := ctx.Config.Get(key)
		return func() tea.Msg {
			return ConfigUpdateMsg{Key: key, Value: newVal, OldValue: oldVal}
		}
	}
	return func() tea.Msg {
		return ShowConfigMsg{Key: key, Value: value}
	}
}

// HandleStatus shows detailed status information.
func HandleStatus(ctx *Context, args []string) tea.Cmd {
	if ctx == nil {
		return func() tea.Msg {
			return ShowStatusMsg{}
		}
	}

	// Gather status info
	return func() tea.Msg {
		info := StatusInfoMsg{}

		// Connection info
		if ctx.Client != nil {
			info.Target = ctx.Client.BaseURL()
			info.AssistantID = ctx.Client.AssistantID()

			// Check API connectivity
			reqCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := ctx.Client.Connect(reqCtx); err != nil {
				info.APIStatus = "disconnected"
			} else {
				info.APIStatus = "connected"
			}
		}

		// Config info
		if ctx.Config != nil {
			info.PollInterval = ctx.Config.PollInterval().String()
		}

		// Chat info
		if ctx.Store != nil {
			info.ChatCount = ctx.Store.Len()
			if c, ok := ctx.Store.CurrentChat(); ok {
				info.ChatTitle = c.DisplayTitle()
				info.ThreadID = c.ThreadID
				info.MessageCount = len(c.Messages)
			}
		}

		// Session info
		if ctx.Session != nil {
			status := ctx.Session.GetStatus()
			info.SessionID = status.SessionID
			info.SessionStart = status.StartTime.Format("15:04:05")
			info.IdleTime = formatDuration(status.IdleTime)
		}

		return info
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// =============================================================================
// HELP TEXT GENERATION
// =============================================================================

// GenerateHelpText generates the help text for all commands.
// mode can be "quick", "all", or a category name (Navigation, Conversation, Settings)
func GenerateHelpText(r *Registry, mode string) string {
	mode = strings.ToLower(mode)

	// Default to quick mode
	if mode == "" {
		mode = "quick"
	}

	// Quick help - show only essential commands
	if mode == "quick" {
		return generateQuickHelp()
	}

	// Category-specific help
	categoryMap := map[string]string{
		"navigation":   "Navigation",
		"conversation": "Conversation",
		"settings":     "Settings",
	}
	if canonical, ok := categoryMap[mode]; ok {
		return generateCategoryHelp(r, canonical)
	}

	// Full help (default for "all" or unknown modes)
	return generateFullHelp(r)
}

// generateQuickHelp shows only the most essential commands
func generateQuickHelp() string {
	var sb strings.Builder

	sb.WriteString("Quick Help - Essential Commands\n")
	sb.WriteString("================================\n\n")

	sb.WriteString("  /help             Show this help (or try /help all)\n")
	sb.WriteString("  /new              Start a new chat\n")
	sb.WriteString("  /chats            List chats in this session\n")
	sb.WriteString("  /status           Show connection and session status\n")
	sb.WriteString("  /quit             Exit threadline\n\n")

	sb.WriteString("Keyboard Shortcuts\n")
	sb.WriteString("------------------\n")
	sb.WriteString("  Esc / Ctrl+C      Cancel the answer in progress\n")
	sb.WriteString("  Tab               Complete command / switch focus\n")
	sb.WriteString("  Ctrl+B            Toggle sidebar\n")
	sb.WriteString("  Ctrl+N            New chat\n\n")

	sb.WriteString("Want more? Try:\n")
	sb.WriteString("  /help all          - Show all available commands\n")
	sb.WriteString("  /help navigation   - Navigation commands\n")
	sb.WriteString("  /help conversation - Chat management\n")
	sb.WriteString("  /help settings     - Settings and configuration\n")

	return sb.String()
}

// generateCategoryHelp generates help for a specific category
func generateCategoryHelp(r *Registry, category string) string {
	var sb strings.Builder

	categories := r.ByCategory()
	cmds, ok := categories[category]
	if !ok || len(cmds) == 0 {
		return fmt.Sprintf("No commands found in category: %s\n\nTry /help all to see all categories.", category)
	}

	sb.WriteString(fmt.Sprintf("%s Commands\n", category))
	sb.WriteString(strings.Repeat("=", len(category)+9) + "\n\n")

	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}

		// Command name and aliases
		line := "  " + cmd.Name
		if len(cmd.Aliases) > 0 {
			line += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}

		// Pad to align descriptions
		for len(line) < 30 {
			line += " "
		}

		line += cmd.Description
		sb.WriteString(line + "\n")

		// Usage if specified
		if cmd.Usage != "" {
			sb.WriteString("      Usage: " + cmd.Usage + "\n")
		}
	}

	sb.WriteString("\n")

	// Add relevant tips based on category
	switch category {
	case "Navigation":
		sb.WriteString("Tips:\n")
		sb.WriteString("  - Press Esc to close any overlay\n")
		sb.WriteString("  - Use Tab for command auto-completion\n")
	case "Conversation":
		sb.WriteString("Tips:\n")
		sb.WriteString("  - Chats live in memory and are gone when you quit\n")
		sb.WriteString("  - The first message you send names the chat\n")
		sb.WriteString("  - Esc or Ctrl+C stops an answer mid-stream\n")
	case "Settings":
		sb.WriteString("Tips:\n")
		sb.WriteString("  - Config changes are written back to config.toml\n")
		sb.WriteString("  - Use /status to see the last recorded error\n")
	}

	sb.WriteString("\nUse /help all to see all commands, or /help quick for essentials.\n")

	return sb.String()
}

// generateFullHelp generates the complete help text with all commands
func generateFullHelp(r *Registry) string {
	var sb strings.Builder

	sb.WriteString("Available Commands\n")
	sb.WriteString("==================\n\n")

	categories := r.ByCategory()
	categoryOrder := []string{"Navigation", "Conversation", "Settings"}

	for _, category := range categoryOrder {
		cmds, ok := categories[category]
		if !ok || len(cmds) == 0 {
			continue
		}

		sb.WriteString(category + "\n")
		sb.WriteString(strings.Repeat("-", len(category)) + "\n")

		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}

			// Command name and aliases
			line := "  " + cmd.Name
			if len(cmd.Aliases) > 0 {
				line += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}

			// Pad to align descriptions
			for len(line) < 30 {
				line += " "
			}

			line += cmd.Description
			sb.WriteString(line + "\n")

			// Usage if specified
			if cmd.Usage != "" {
				sb.WriteString("      Usage: " + cmd.Usage + "\n")
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString("Keyboard Shortcuts\n")
	sb.WriteString("------------------\n")
	sb.WriteString("  Esc / Ctrl+C    Cancel the answer in progress\n")
	sb.WriteString("  Ctrl+B          Toggle sidebar\n")
	sb.WriteString("  Ctrl+N          New chat\n")
	sb.WriteString("  Ctrl+Q          Quit\n")
	sb.WriteString("  Tab             Complete command / switch focus\n")
	sb.WriteString("  PgUp/PgDn       Scroll the transcript\n\n")

	sb.WriteString("Tip: Use /help <category> to see commands by category\n")
	sb.WriteString("Categories: navigation, conversation, settings\n")

	return sb.String()
}
