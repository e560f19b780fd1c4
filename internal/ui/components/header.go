// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with threadline branding
// =============================================================================

// Header represents the title bar component
type Header struct {
	Title     string // Brand title (default: "threadline")
	ChatTitle string // Current chat title
	ThreadID  string // Remote thread id the chat is bound to
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "threadline",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetChatTitle updates the current chat title
func (h *Header) SetChatTitle(title string) {
	h.ChatTitle = title
}

// SetThreadID updates the remote thread id badge
func (h *Header) SetThreadID(id string) {
	h.ThreadID = id
}

// View renders the header component
func (h *Header) View() string {
	// Ensure minimum width
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Calculate inner width (accounting for borders and padding)
	innerWidth := width - 6

	// Brand title with elegant styling
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	// Decorative accent
	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	// Create the brand with decorative elements
	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	// Subtitle line with chat title and thread badge
	subtitleParts := []string{}

	if h.ChatTitle != "" {
		chatStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, chatStyle.Render(h.ChatTitle))
	}

	if badge := h.threadBadge(); badge != "" {
		subtitleParts = append(subtitleParts, badge)
	}

	subtitle := strings.Join(subtitleParts, " ")

	// Center the content
	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	lines := []string{brandLine}
	if subtitle != "" {
		subtitleLine := lipgloss.NewStyle().
			Width(innerWidth).
			Align(lipgloss.Center).
			Foreground(styles.TextMuted).
			Render(subtitle)
		lines = append(lines, subtitleLine)
	}

	// Combine lines
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	// Apply the border and styling
	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals
func (h *Header) ViewCompact() string {
	// Compact format: <threadline> | chat title | [thread]
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.ChatTitle != "" {
		chatStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, chatStyle.Render(h.ChatTitle))
	}

	if badge := h.threadBadge(); badge != "" {
		parts = append(parts, badge)
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// threadBadge renders the dimmed remote thread id, truncated for display.
// Empty until the chat's first message creates the thread.
func (h *Header) threadBadge() string {
	if h.ThreadID == "" {
		return ""
	}

	id := h.ThreadID
	const maxIDLen = 18
	runes := []rune(id)
	if len(runes) > maxIDLen {
		id = string(runes[:maxIDLen]) + "..."
	}

	badgeStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	return badgeStyle.Render("[" + id + "]")
}
