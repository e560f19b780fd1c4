// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file defines the keyboard bindings for the chat screen.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the chat screen. Bindings
// carry help text so on-screen hints stay in sync with the actual keys.
type KeyMap struct {
	Submit        key.Binding
	CancelTurn    key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
	NewChat       key.Binding
	ToggleSidebar key.Binding
	SwitchFocus   key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	SidebarUp     key.Binding
	SidebarDown   key.Binding
	SidebarSelect key.Binding
	SidebarNew    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		CancelTurn: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "stop the answer"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit (when idle)"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle sidebar"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete / switch focus"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
		SidebarUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous chat"),
		),
		SidebarDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next chat"),
		),
		SidebarSelect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open chat"),
		),
		SidebarNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new chat"),
		),
	}
}

// ShortHelp returns the bindings shown on the empty chat screen.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CancelTurn, k.SwitchFocus, k.ToggleSidebar, k.ForceQuit}
}

// FullHelp returns all bindings grouped the way bubbles' help component
// expects them.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.CancelTurn, k.SwitchFocus},
		{k.NewChat, k.ToggleSidebar, k.SidebarUp, k.SidebarDown, k.SidebarSelect, k.SidebarNew},
		{k.ScrollUp, k.ScrollDown, k.Quit, k.ForceQuit},
	}
}
