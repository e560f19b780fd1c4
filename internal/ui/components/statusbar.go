// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/ui/styles"
)

// ============================================================================
// STATUS TYPES
// ============================================================================

// Status represents the current activity state shown in the bar.
type Status int

const (
	// StatusReady indicates the app is idle and ready for input.
	StatusReady Status = iota
	// StatusThinking indicates a run is in flight on the assistant thread.
	StatusThinking
	// StatusStreaming indicates a reply is being typed into the transcript.
	StatusStreaming
	// StatusCancelling indicates a stop was requested and the turn is winding down.
	StatusCancelling
	// StatusError indicates the last turn ended in an error.
	StatusError
	// StatusIdle indicates no chat is selected yet.
	StatusIdle
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking"
	case StatusStreaming:
		return "Streaming"
	case StatusCancelling:
		return "Stopping"
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns the ASCII indicator for the status.
// ACCESSIBILITY: text indicators, not color-only and not emoji.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking:
		return styles.StatusIndicators.Pending
	case StatusStreaming:
		return "~"
	case StatusCancelling:
		return styles.StatusIndicators.Warning
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return styles.StatusIndicators.Info
	}
}

// ============================================================================
// STATUS BAR COMPONENT
// ============================================================================

// StatusBar is the bottom bar: connection state, active chat, run activity,
// and streaming progress. Layout adapts to terminal width.
type StatusBar struct {
	width  int
	status Status
	detail string // run phase from the API, e.g. "queued", "in_progress"

	connected bool
	endpoint  string

	chatTitle string
	msgCount  int

	// Streaming progress. The full reply is fetched before typing starts,
	// so the total is always known while streaming.
	streamed    int
	streamTotal int

	showShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a status bar with the given theme.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		status:        StatusIdle,
		showShortcuts: true,
		theme:         theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetStatus sets the activity state.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
}

// GetStatus returns the current activity state.
func (s *StatusBar) GetStatus() Status {
	return s.status
}

// SetDetail sets the run phase shown next to the status while a run
// is in flight. Pass "" to clear.
func (s *StatusBar) SetDetail(detail string) {
	s.detail = detail
}

// SetConnected records the result of the API connection probe.
func (s *StatusBar) SetConnected(connected bool) {
	s.connected = connected
}

// SetEndpoint sets the API host shown in the wide layout.
func (s *StatusBar) SetEndpoint(endpoint string) {
	s.endpoint = endpoint
}

// SetChatTitle sets the active chat title.
func (s *StatusBar) SetChatTitle(title string) {
	s.chatTitle = title
}

// SetMessageCount sets the transcript length for the active chat.
func (s *StatusBar) SetMessageCount(count int) {
	s.msgCount = count
}

// SetStreamProgress updates typing progress: streamed characters out of
// the full reply length.
func (s *StatusBar) SetStreamProgress(streamed, total int) {
	s.streamed = streamed
	s.streamTotal = total
}

// ClearStreamProgress resets typing progress after a turn ends.
func (s *StatusBar) ClearStreamProgress() {
	s.streamed = 0
	s.streamTotal = 0
}

// ToggleShortcuts flips the shortcut hint row in the wide layout.
func (s *StatusBar) ToggleShortcuts() {
	s.showShortcuts = !s.showShortcuts
}

// ============================================================================
// RENDERING
// ============================================================================

// View renders the status bar for the current width.
// PERFORMANCE: three fixed layouts instead of per-frame measuring.
func (s *StatusBar) View() string {
	if s.width < 60 {
		return s.viewNarrow()
	}
	if s.width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders icons only: connection, status, small progress bar.
func (s *StatusBar) viewNarrow() string {
	var parts []string

	parts = append(parts, s.connBadge(false))
	parts = append(parts, s.statusStyle().Render(s.status.Icon()))

	if s.status == StatusStreaming && s.streamTotal > 0 {
		parts = append(parts, styles.RenderProgressBar(6, s.streamPercent()))
	}

	bar := s.theme.StatusBar.Width(s.width)
	return bar.Render(strings.Join(parts, " "))
}

// viewMedium renders connection, chat title, and status with label.
func (s *StatusBar) viewMedium() string {
	var parts []string

	parts = append(parts, s.connBadge(true))

	if s.chatTitle != "" {
		parts = append(parts, truncateLabel(s.chatTitle, 20))
	}

	parts = append(parts, s.statusStyle().Render(s.status.Icon()+" "+s.status.String()))

	if s.status == StatusStreaming && s.streamTotal > 0 {
		parts = append(parts, styles.RenderProgressBar(10, s.streamPercent())+" "+fmtPercent(s.streamPercent()))
	} else if s.detail != "" {
		parts = append(parts, s.theme.ShortcutDesc.Render(s.detail))
	}

	bar := s.theme.StatusBar.Width(s.width)
	return bar.Render(strings.Join(parts, "  "))
}

// viewWide renders three sections: chat info left, progress center,
// status and shortcuts right.
func (s *StatusBar) viewWide() string {
	left := s.renderLeft()
	center := s.renderCenter()
	right := s.renderRight()

	// Inner width after the box border and padding.
	inner := s.width - 6
	if inner < 0 {
		inner = 0
	}

	leftW := lipgloss.Width(left)
	centerW := lipgloss.Width(center)
	rightW := lipgloss.Width(right)

	gap := inner - leftW - centerW - rightW
	if gap < 2 {
		// Not enough room for all three: drop the center section.
		center = ""
		gap = inner - leftW - rightW
	}
	if gap < 0 {
		gap = 0
	}

	leftPad := gap / 2
	rightPad := gap - leftPad

	row := left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right

	bar := s.theme.StatusBarWide.Width(s.width - 2)
	return bar.Render(row)
}

// renderLeft renders connection, endpoint, and the active chat.
func (s *StatusBar) renderLeft() string {
	var parts []string

	parts = append(parts, s.connBadge(true))

	if s.endpoint != "" {
		parts = append(parts, s.theme.ShortcutDesc.Render(s.endpoint))
	}

	if s.chatTitle != "" {
		title := truncateLabel(s.chatTitle, 24)
		if s.msgCount > 0 {
			title += " " + s.theme.ShortcutDesc.Render("("+fmtNumber(s.msgCount)+" msgs)")
		}
		parts = append(parts, title)
	}

	return strings.Join(parts, "  ")
}

// renderCenter renders the typing progress bar while streaming.
func (s *StatusBar) renderCenter() string {
	if s.status != StatusStreaming || s.streamTotal <= 0 {
		return ""
	}
	pct := s.streamPercent()
	counts := fmtNumber(s.streamed) + " / " + fmtNumber(s.streamTotal)
	return styles.RenderProgressBar(10, pct) + " " + counts + " " + s.theme.ShortcutDesc.Render("("+fmtPercent(pct)+")")
}

// renderRight renders the status label and shortcut hints.
func (s *StatusBar) renderRight() string {
	var parts []string

	if s.detail != "" && s.status != StatusStreaming {
		parts = append(parts, s.theme.ShortcutDesc.Render(s.detail))
	}

	parts = append(parts, s.statusStyle().Render(s.status.Icon()+" "+s.status.String()))

	if s.showShortcuts {
		parts = append(parts, s.renderShortcuts())
	}

	return strings.Join(parts, "  ")
}

// renderShortcuts renders the key hint row. While a turn is in flight
// the stop hint leads; otherwise the navigation keys.
func (s *StatusBar) renderShortcuts() string {
	type hint struct {
		key  string
		desc string
	}

	var hints []hint
	if s.status == StatusThinking || s.status == StatusStreaming {
		hints = append(hints, hint{"esc", "stop"})
	}
	hints = append(hints,
		hint{"^b", "sidebar"},
		hint{"^n", "new"},
		hint{"^q", "quit"},
	)

	var parts []string
	for _, h := range hints {
		parts = append(parts, s.theme.ShortcutKey.Render(h.key)+" "+s.theme.ShortcutDesc.Render(h.desc))
	}
	return strings.Join(parts, "  ")
}

// ============================================================================
// HELPERS
// ============================================================================

// connBadge renders the connection indicator, with a text label when
// withLabel is set.
func (s *StatusBar) connBadge(withLabel bool) string {
	if s.connected {
		text := styles.AnimationStatusIndicators.Connected
		if withLabel {
			text += " online"
		}
		return s.theme.ConnOnline.Render(text)
	}
	text := styles.AnimationStatusIndicators.Offline
	if withLabel {
		text += " offline"
	}
	return s.theme.ConnOffline.Render(text)
}

// statusStyle maps the status to its display style.
// ACCESSIBILITY: high-contrast colors for the terminal states.
func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusThinking, StatusStreaming, StatusCancelling:
		return s.theme.RunBusy
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// streamPercent returns typing progress as 0-100.
func (s *StatusBar) streamPercent() float64 {
	if s.streamTotal <= 0 {
		return 0
	}
	pct := float64(s.streamed) / float64(s.streamTotal) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// truncateLabel shortens a label to max runes with an ellipsis.
func truncateLabel(label string, max int) string {
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
