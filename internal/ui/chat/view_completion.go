// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// INPUT STACK RENDERING
// =============================================================================

// renderInputStack renders the input area, with the completion popup
// stacked above it while open.
func (m Model) renderInputStack() string {
	input := m.input.View()
	if !m.showCompletions || !m.popup.HasCompletions() {
		return input
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.popup.View(), input)
}
