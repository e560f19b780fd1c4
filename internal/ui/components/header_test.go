// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestNewHeader(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	if h == nil {
		t.Fatal("NewHeader() returned nil")
	}

	if h.Title != "threadline" {
		t.Errorf("NewHeader() Title = %q, want %q", h.Title, "threadline")
	}

	if h.ChatTitle != "" {
		t.Errorf("NewHeader() ChatTitle = %q, want empty string", h.ChatTitle)
	}

	if h.ThreadID != "" {
		t.Errorf("NewHeader() ThreadID = %q, want empty string", h.ThreadID)
	}

	if h.Width != 80 {
		t.Errorf("NewHeader() Width = %d, want 80", h.Width)
	}

	if h.theme != theme {
		t.Error("NewHeader() did not set theme")
	}
}

func TestHeaderSetWidth(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	widths := []int{40, 80, 120, 200}
	for _, width := range widths {
		h.SetWidth(width)
		if h.Width != width {
			t.Errorf("SetWidth(%d) Width = %d, want %d", width, h.Width, width)
		}
	}
}

func TestHeaderSetChatTitle(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	title := "Trip planning"
	h.SetChatTitle(title)

	if h.ChatTitle != title {
		t.Errorf("SetChatTitle(%q) ChatTitle = %q, want %q", title, h.ChatTitle, title)
	}
}

func TestHeaderSetThreadID(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	id := "thread_abc123"
	h.SetThreadID(id)

	if h.ThreadID != id {
		t.Errorf("SetThreadID(%q) ThreadID = %q, want %q", id, h.ThreadID, id)
	}
}

func TestHeaderView(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	view := h.View()
	if view == "" {
		t.Error("View() should return non-empty string")
	}

	// Should contain the brand
	if !strings.Contains(view, "threadline") {
		t.Error("View() should contain title 'threadline'")
	}
}

func TestHeaderViewWithChatTitle(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetChatTitle("Dinner ideas")

	view := h.View()
	if !strings.Contains(view, "Dinner ideas") {
		t.Error("View() should contain the chat title")
	}
}

func TestHeaderViewWithThreadID(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetThreadID("thread_abc123")

	view := h.View()
	if !strings.Contains(view, "thread_abc123") {
		t.Error("View() should contain the thread badge")
	}
}

func TestHeaderViewMinimumWidth(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(10) // Very narrow

	view := h.View()
	if view == "" {
		t.Error("View() should handle minimum width gracefully")
	}

	// Should still contain title even at minimum width
	if !strings.Contains(view, "threadline") {
		t.Error("View() should contain title even at minimum width")
	}
}

func TestHeaderViewCompact(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetChatTitle("Recipes")
	h.SetThreadID("thread_xyz")

	view := h.ViewCompact()
	if view == "" {
		t.Error("ViewCompact() should return non-empty string")
	}

	// Should contain key elements
	if !strings.Contains(view, "threadline") {
		t.Error("ViewCompact() should contain title")
	}
	if !strings.Contains(view, "Recipes") {
		t.Error("ViewCompact() should contain chat title")
	}
	if !strings.Contains(view, "thread_xyz") {
		t.Error("ViewCompact() should contain thread badge")
	}
}

// =============================================================================
// THREAD BADGE TESTS
// =============================================================================

func TestHeaderThreadBadgeTruncation(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	longID := "thread_0123456789abcdefghijklmnop"
	h.SetThreadID(longID)

	badge := h.threadBadge()
	if badge == "" {
		t.Fatal("threadBadge() should not be empty")
	}

	// Truncated to 18 runes plus ellipsis
	if strings.Contains(badge, longID) {
		t.Error("threadBadge() should truncate long thread ids")
	}
	if !strings.Contains(badge, longID[:18]) {
		t.Error("threadBadge() should keep the id prefix")
	}
	if !strings.Contains(badge, "...") {
		t.Error("threadBadge() should end the truncated id with an ellipsis")
	}
}

func TestHeaderThreadBadgeEmpty(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	if h.threadBadge() != "" {
		t.Error("threadBadge() should be empty when no thread id is set")
	}
}

func TestHeaderThreadBadgeShortID(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetThreadID("thread_1")

	badge := h.threadBadge()
	if !strings.Contains(badge, "thread_1") {
		t.Error("threadBadge() should contain short ids untruncated")
	}
	if strings.Contains(badge, "...") {
		t.Error("threadBadge() should not add an ellipsis to short ids")
	}
}

// =============================================================================
// EDGE CASE TESTS
// =============================================================================

func TestHeaderEmptyTitle(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.Title = ""

	view := h.View()
	if view == "" {
		t.Error("View() should handle empty title gracefully")
	}
}

func TestHeaderVeryWideWidth(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(10000)

	view := h.View()
	if view == "" {
		t.Error("View() should handle very wide width")
	}
}

func TestHeaderAllFieldsSet(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.Title = "Custom Title"
	h.SetChatTitle("Weekend plans")
	h.SetThreadID("thread_42")
	h.SetWidth(100)

	view := h.View()
	if !strings.Contains(view, "Custom Title") {
		t.Error("View() should contain custom title")
	}
	if !strings.Contains(view, "Weekend plans") {
		t.Error("View() should contain chat title")
	}
	if !strings.Contains(view, "thread_42") {
		t.Error("View() should contain thread badge")
	}
}
