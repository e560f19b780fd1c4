// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file wires tab completion into the input. Completion only
// engages on a leading slash; a bare Tab moves focus instead.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// TAB COMPLETION
// =============================================================================

// handleTabCompletion handles the first Tab press on a slash command.
// A single candidate is applied immediately; several open the popup,
// where Tab cycles and enter accepts.
func (m Model) handleTabCompletion() (Model, tea.Cmd) {
	input := m.input.Value()
	completions := m.completer.Complete(input, m.input.CursorPosition())
	if len(completions) == 0 {
		return m, nil
	}

	m.completionState.Update(input, completions)
	if len(completions) == 1 {
		m.applyCompletion()
		return m, nil
	}

	m.showCompletions = true
	m.popup.SetCompletions(completions)
	return m, nil
}

// applyCompletion writes the selected completion into the input and
// closes the popup. Commands that take arguments get a trailing space
// so the next Tab completes the argument.
func (m *Model) applyCompletion() {
	selected := m.completionState.GetSelected()
	if selected == nil {
		m.clearCompletions()
		return
	}
	value := selected.Value

	input := m.input.Value()
	start := findCompletionStart(input, m.input.CursorPosition())
	newInput := input[:start] + value

	if strings.HasPrefix(value, "/") {
		if cmd := m.completer.GetCommand(value); cmd != nil && len(cmd.Args) > 0 {
			newInput += " "
		}
	}

	m.input.SetValue(newInput)
	m.input.CursorEnd()
	m.clearCompletions()
}

// findCompletionStart locates the start of the token being completed.
// Commands complete from the leading slash, arguments from the last
// space.
func findCompletionStart(input string, cursorPos int) int {
	if cursorPos > len(input) {
		cursorPos = len(input)
	}
	for i := cursorPos - 1; i >= 0; i-- {
		switch input[i] {
		case '/':
			return i
		case ' ':
			return i + 1
		}
	}
	return 0
}

// clearCompletions hides the popup and resets completion state.
func (m *Model) clearCompletions() {
	m.showCompletions = false
	m.completionState.Clear()
	m.popup.Clear()
}
