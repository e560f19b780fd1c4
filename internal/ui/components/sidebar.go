// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"strings"

	"github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// ============================================================================
// SIDEBAR COMPONENT
// ============================================================================

// DefaultSidebarWidth is the column width reserved for the chat list.
const DefaultSidebarWidth = 24

// Sidebar lists the chats in the store below a pinned "new chat" row.
// Navigation is driven by the parent model; the sidebar only tracks the
// highlighted row. Index -1 is the pinned row, 0..len-1 the chats.
type Sidebar struct {
	items    []chat.Summary
	selected int

	width   int
	height  int
	focused bool
	visible bool

	theme *styles.Theme
}

// NewSidebar creates a sidebar with the given theme. The pinned "new
// chat" row starts highlighted so enter on an empty store creates the
// first chat.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		selected: -1,
		width:    DefaultSidebarWidth,
		visible:  true,
		theme:    theme,
	}
}

// SetItems replaces the chat list and keeps the highlight in range.
// The highlight snaps to the current chat when one is set; otherwise it
// clamps, falling back to the pinned row when the list empties.
func (s *Sidebar) SetItems(items []chat.Summary) {
	s.items = items
	for i, item := range items {
		if item.Current {
			s.selected = i
			return
		}
	}
	if s.selected >= len(items) {
		s.selected = len(items) - 1
	}
	if s.selected < -1 {
		s.selected = -1
	}
}

// Items returns the current chat list.
func (s *Sidebar) Items() []chat.Summary {
	return s.items
}

// SetSize sets the rendered dimensions.
func (s *Sidebar) SetSize(width, height int) {
	if width > 0 {
		s.width = width
	}
	s.height = height
}

// Width returns the column width, or zero when hidden.
func (s *Sidebar) Width() int {
	if !s.visible {
		return 0
	}
	return s.width
}

// Toggle flips visibility.
func (s *Sidebar) Toggle() {
	s.visible = !s.visible
}

// Show makes the sidebar visible.
func (s *Sidebar) Show() {
	s.visible = true
}

// Hide collapses the sidebar.
func (s *Sidebar) Hide() {
	s.visible = false
}

// IsVisible reports whether the sidebar is rendered.
func (s *Sidebar) IsVisible() bool {
	return s.visible
}

// Focus gives the sidebar keyboard focus.
func (s *Sidebar) Focus() {
	s.focused = true
}

// Blur removes keyboard focus.
func (s *Sidebar) Blur() {
	s.focused = false
}

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// Next moves the highlight down, wrapping from the last chat back to
// the pinned row.
func (s *Sidebar) Next() {
	if len(s.items) == 0 {
		s.selected = -1
		return
	}
	s.selected++
	if s.selected >= len(s.items) {
		s.selected = -1
	}
}

// Prev moves the highlight up, wrapping from the pinned row to the
// last chat.
func (s *Sidebar) Prev() {
	if len(s.items) == 0 {
		s.selected = -1
		return
	}
	s.selected--
	if s.selected < -1 {
		s.selected = len(s.items) - 1
	}
}

// Selected returns the highlighted chat ID. The pinned "new chat" row
// has no ID and reports false.
func (s *Sidebar) Selected() (chat.ChatID, bool) {
	if s.selected < 0 || s.selected >= len(s.items) {
		return "", false
	}
	return s.items[s.selected].ID, true
}

// NewChatSelected reports whether the pinned "new chat" row is
// highlighted.
func (s *Sidebar) NewChatSelected() bool {
	return s.selected == -1
}

// SelectedIndex returns the highlighted row index (-1 for the pinned
// row).
func (s *Sidebar) SelectedIndex() int {
	return s.selected
}

// ============================================================================
// RENDERING
// ============================================================================

// View renders the chat list column.
func (s *Sidebar) View() string {
	if !s.visible {
		return ""
	}

	// Inner width after border and padding.
	inner := s.width - 4
	if inner < 4 {
		inner = 4
	}

	var b strings.Builder

	header := "Chats (" + toStr(len(s.items)) + ")"
	b.WriteString(s.theme.SidebarHeader.Render(truncateLabel(header, inner)))
	b.WriteString("\n")

	b.WriteString(s.renderNewChatRow(inner))
	b.WriteString("\n")

	if len(s.items) == 0 {
		b.WriteString(s.theme.SidebarMeta.Render("No chats yet"))
		b.WriteString("\n")
	} else {
		start, end := s.visibleRange()
		if start > 0 {
			b.WriteString(s.theme.SidebarMeta.Render("^ " + toStr(start) + " more"))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			b.WriteString(s.renderItem(s.items[i], i == s.selected, inner))
			b.WriteString("\n")
		}
		if end < len(s.items) {
			b.WriteString(s.theme.SidebarMeta.Render("v " + toStr(len(s.items)-end) + " more"))
			b.WriteString("\n")
		}
	}

	b.WriteString(s.theme.SidebarHint.Render("enter open  n new"))

	box := s.theme.Sidebar
	if s.focused {
		box = s.theme.SidebarFocused
	}
	if s.height > 2 {
		box = box.Height(s.height - 2)
	}
	return box.Width(s.width - 2).Render(b.String())
}

// renderNewChatRow renders the pinned row that creates a chat when
// selected.
func (s *Sidebar) renderNewChatRow(inner int) string {
	label := truncateLabel("+ new chat", inner)
	if s.selected == -1 {
		return s.theme.SidebarItemSelected.Width(inner).Render(label)
	}
	return s.theme.SidebarItem.Render(label)
}

// renderItem renders one chat row: title on the left, message count on
// the right. The current chat is marked with an asterisk; the
// highlighted row gets the selection background.
func (s *Sidebar) renderItem(item chat.Summary, isSelected bool, inner int) string {
	count := toStr(item.Messages)
	marker := "  "
	if item.Current {
		marker = " *"
	}

	avail := inner - runeLen(marker) - runeLen(count) - 1
	title := truncateLabel(item.DisplayTitle(), avail)

	gap := inner - runeLen(title) - runeLen(marker) - runeLen(count)
	if gap < 1 {
		gap = 1
	}
	row := title + marker + strings.Repeat(" ", gap) + count

	switch {
	case isSelected:
		return s.theme.SidebarItemSelected.Render(row)
	case item.Current:
		return s.theme.SidebarItemCurrent.Render(row)
	default:
		return s.theme.SidebarItem.Render(row)
	}
}

// visibleRange returns the scroll window that keeps the highlight on
// screen. Rows above and below the window collapse into "more" markers.
func (s *Sidebar) visibleRange() (int, int) {
	// Header, pinned row, hint, borders, and up to two "more" markers.
	maxVisible := s.height - 7
	if maxVisible < 1 {
		maxVisible = 1
	}
	if len(s.items) <= maxVisible {
		return 0, len(s.items)
	}

	start := s.selected - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > len(s.items) {
		end = len(s.items)
		start = end - maxVisible
	}
	return start, end
}
