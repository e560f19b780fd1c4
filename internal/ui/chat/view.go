// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file renders the chat screen. Layout: header, then sidebar and
// transcript side by side, input underneath, status bar at the bottom.
// Total height must equal the terminal height exactly.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/ui/components"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the chat screen.
//
// The viewport height is pre-calculated in relayout() from constant
// estimates. This function measures the rendered components with
// lipgloss.Height and forces the transcript height when they differ,
// which happens when the completion popup changes the input stack.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.header.View()
	status := m.statusBar.View()
	inputStack := m.renderInputStack()

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(status)
	inputH := lipgloss.Height(inputStack)

	avail := m.height - headerH - statusH - inputH
	if avail < 1 {
		avail = 1
	}

	transcript := m.viewport.View()
	if lipgloss.Height(transcript) != avail {
		transcript = lipgloss.NewStyle().
			Height(avail).
			MaxHeight(avail).
			Width(m.viewport.Width).
			Render(transcript)
	}

	page := lipgloss.JoinVertical(lipgloss.Left, transcript, inputStack)
	if m.sidebar.IsVisible() {
		m.sidebar.SetSize(components.DefaultSidebarWidth, avail+inputH)
		page = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), page)
	}

	base := lipgloss.JoinVertical(lipgloss.Left, header, page, status)

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.GetToasts(), 0, 0)
		return overlayBottomRight(base, stack, m.width)
	}
	return base
}

// =============================================================================
// EMPTY STATE
// =============================================================================

// renderEmptyState fills the transcript before the first message.
func (m Model) renderEmptyState() string {
	brand := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true).
		Render("threadline")

	hint := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render("Type a message and press enter. Commands start with /.")

	keyStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	lines := []string{"", brand, "", hint, ""}
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		lines = append(lines, keyStyle.Render(padKeyLabel(h.Key))+descStyle.Render(h.Desc))
	}
	lines = append(lines, "", descStyle.Render("Try /help for the full command list."))

	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// padKeyLabel pads a key label so descriptions line up.
func padKeyLabel(label string) string {
	const col = 10
	if len(label) >= col {
		return label + "  "
	}
	return label + strings.Repeat(" ", col-len(label))
}

// =============================================================================
// TOAST OVERLAY
// =============================================================================

// overlayBottomRight splices the toast stack over the base view just
// above the status bar, without blocking the rest of the screen.
func overlayBottomRight(base, overlay string, width int) string {
	if overlay == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	startRow := len(baseLines) - len(overlayLines) - 2
	if startRow < 0 {
		startRow = 0
	}
	for i, line := range overlayLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		lineW := lipgloss.Width(line)
		if lineW == 0 {
			continue
		}
		keep := width - lineW - 1
		if keep < 0 {
			keep = 0
		}
		baseLine := baseLines[row]
		baseW := lipgloss.Width(baseLine)
		if baseW > keep {
			baseLine = truncateToWidth(baseLine, keep)
			baseW = lipgloss.Width(baseLine)
		}
		if baseW < keep {
			baseLine += strings.Repeat(" ", keep-baseW)
		}
		baseLines[row] = baseLine + line
	}
	return strings.Join(baseLines, "\n")
}

// truncateToWidth cuts a rendered line to a visible width. Escape
// sequences measure as zero wide and pass through.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := 0
	var b strings.Builder
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}
