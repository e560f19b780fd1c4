// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// IDLE LOCK WARNING OVERLAY
// =============================================================================

// LockWarningOverlay displays a countdown before the session locks for
// inactivity. Once the session actually locks, the app returns to the
// login form; this overlay only covers the warning window before that.
type LockWarningOverlay struct {
	// State
	visible       bool
	timeRemaining time.Duration

	// Dimensions
	width  int
	height int
}

// NewLockWarningOverlay creates a new lock warning overlay.
func NewLockWarningOverlay() LockWarningOverlay {
	return LockWarningOverlay{}
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// SetSize sets the overlay dimensions.
func (o *LockWarningOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Show displays the warning with the given time remaining.
func (o *LockWarningOverlay) Show(remaining time.Duration) {
	o.visible = true
	o.timeRemaining = remaining
}

// Hide hides the overlay.
func (o *LockWarningOverlay) Hide() {
	o.visible = false
}

// UpdateTime updates the countdown.
func (o *LockWarningOverlay) UpdateTime(remaining time.Duration) {
	o.timeRemaining = remaining
}

// IsVisible returns whether the overlay is currently visible.
func (o *LockWarningOverlay) IsVisible() bool {
	return o.visible
}

// TimeRemaining returns the current countdown value.
func (o *LockWarningOverlay) TimeRemaining() time.Duration {
	return o.timeRemaining
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// StayActiveMsg signals the user dismissed the lock warning with a key press.
type StayActiveMsg struct{}

// Init initializes the overlay (no-op for overlays).
func (o LockWarningOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages for the overlay.
func (o LockWarningOverlay) Update(msg tea.Msg) (LockWarningOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height

	case tea.KeyMsg:
		// Any key press while the warning is visible keeps the session active
		if o.visible {
			o.Hide()
			return o, func() tea.Msg {
				return StayActiveMsg{}
			}
		}
	}

	return o, nil
}

// View renders the warning overlay.
func (o LockWarningOverlay) View() string {
	if !o.visible {
		return ""
	}

	width := o.width
	if width == 0 {
		width = 60
	}
	height := o.height
	if height == 0 {
		height = 24
	}

	// Calculate max content width
	maxWidth := width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}

	// Format remaining time as M:SS
	timeStr := formatTimeRemaining(o.timeRemaining)

	// Build content
	var parts []string

	// Warning icon and title
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Warning+" Idle Lock Warning"))

	// Empty line
	parts = append(parts, "")

	// Main message with countdown
	timeStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)

	parts = append(parts, msgStyle.Render(
		"Session will lock in "+timeStyle.Render(timeStr)))

	// Empty line
	parts = append(parts, "")

	// Instruction
	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true).
		Align(lipgloss.Center)
	parts = append(parts, hintStyle.Render("Press any key to stay active"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	// Create warning box with amber/yellow border
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center)

	box := boxStyle.Render(content)

	// Center the box
	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatTimeRemaining formats a duration as M:SS for display.
func formatTimeRemaining(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}

	totalSecs := int(d.Seconds())
	mins := totalSecs / 60
	secs := totalSecs % 60

	return fmt.Sprintf("%d:%02d", mins, secs)
}
