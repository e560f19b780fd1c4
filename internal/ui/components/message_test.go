// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubbleUser(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.RoleUser,
		Content: "Plan me a weekend trip",
	}, theme)

	view := b.View()
	if !strings.Contains(view, "Plan me a weekend trip") {
		t.Error("View() should contain the message content")
	}
	if !strings.Contains(view, "you") {
		t.Error("View() should label the user bubble")
	}
}

func TestMessageBubbleAssistant(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.RoleAssistant,
		Content: "Here are three ideas.",
	}, theme)

	view := b.View()
	if !strings.Contains(view, "Here are three ideas.") {
		t.Error("View() should contain the message content")
	}
	if !strings.Contains(view, "assistant") {
		t.Error("View() should label the assistant bubble")
	}
}

func TestMessageBubbleSystem(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.RoleSystem,
		Content: "Poll interval set to 750ms",
	}, theme)

	view := b.View()
	if !strings.Contains(view, "Poll interval set to 750ms") {
		t.Error("View() should contain the note content")
	}
	if !strings.Contains(view, "system") {
		t.Error("View() should label the system note")
	}
}

func TestMessageBubbleStreamingCursor(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.RoleAssistant,
		Content: "Typing this out",
	}, theme)
	b.SetStreaming(true)

	view := b.View()
	if !strings.Contains(view, styles.TypingCursor[0]) {
		t.Error("Streaming bubble should show the typing cursor")
	}
}

func TestMessageBubbleEmptyContent(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{Role: chat.RoleAssistant}, theme)

	view := b.View()
	if !strings.Contains(view, "...") {
		t.Error("Empty bubble should show a placeholder")
	}
}

func TestMessageBubbleUnknownRole(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.Role("tool"),
		Content: "fallback content",
	}, theme)

	view := b.View()
	if !strings.Contains(view, "fallback content") {
		t.Error("Unknown roles should still render their content")
	}
}

func TestMessageBubbleCodeFence(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(chat.Message{
		Role:    chat.RoleAssistant,
		Content: "Try this:\n```go\npackage main\n```",
	}, theme)
	b.SetWidth(100)

	view := b.View()
	// Highlighting may put escape codes between tokens, so check each one
	if !strings.Contains(view, "package") || !strings.Contains(view, "main") {
		t.Error("View() should contain the code body")
	}
	// The raw fence markers must not leak into the rendering
	if strings.Contains(view, "```") {
		t.Error("View() should not contain raw fence markers")
	}
}

// =============================================================================
// UTILITY FUNCTION TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short line unchanged", "hello world", 20, "hello world"},
		{"wraps at width", "one two three four", 9, "one two\nthree\nfour"},
		{"preserves newlines", "first\nsecond", 20, "first\nsecond"},
		{"zero width unchanged", "hello", 0, "hello"},
		{"single long word kept", "superlongword", 5, "superlongword"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := wordWrap(tc.text, tc.width)
			if got != tc.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
			}
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"single line", "hello", 5},
		{"multi line", "hi\nlonger line", 11},
		{"empty", "", 0},
		{"unicode", "héllo", 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := maxLineWidth(tc.text)
			if got != tc.want {
				t.Errorf("maxLineWidth(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestMinInt(t *testing.T) {
	if minInt(1, 2) != 1 {
		t.Error("minInt(1, 2) should be 1")
	}
	if minInt(5, 3) != 3 {
		t.Error("minInt(5, 3) should be 3")
	}
	if minInt(4, 4) != 4 {
		t.Error("minInt(4, 4) should be 4")
	}
}

func TestRuneLen(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"héllo", 5},
		{"你好", 2},
	}

	for _, tc := range tests {
		got := runeLen(tc.input)
		if got != tc.want {
			t.Errorf("runeLen(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"afternoon", time.Date(2025, 1, 5, 13, 5, 0, 0, time.UTC), "1:05 PM"},
		{"morning", time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC), "9:30 AM"},
		{"midnight", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "12:00 AM"},
		{"noon", time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC), "12:00 PM"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := formatTime(tc.time)
			if got != tc.want {
				t.Errorf("formatTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		time time.Time
		want string
	}{
		{time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "Jan 5"},
		{time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), "Dec 25"},
	}

	for _, tc := range tests {
		got := formatDate(tc.time)
		if got != tc.want {
			t.Errorf("formatDate() = %q, want %q", got, tc.want)
		}
	}
}

// =============================================================================
// MESSAGE LIST TESTS
// =============================================================================

func TestMessageListEmpty(t *testing.T) {
	theme := styles.NewTheme()
	ml := NewMessageList(theme)

	view := ml.View()
	if !strings.Contains(view, "No messages yet") {
		t.Error("Empty list should show the empty state")
	}
}

func TestMessageListRendersAll(t *testing.T) {
	theme := styles.NewTheme()
	ml := NewMessageList(theme)
	ml.SetMessages([]chat.Message{
		{Role: chat.RoleUser, Content: "question one"},
		{Role: chat.RoleAssistant, Content: "answer one"},
		{Role: chat.RoleUser, Content: "question two"},
	})
	ml.SetWidth(100)

	view := ml.View()
	for _, want := range []string{"question one", "answer one", "question two"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestMessageListStreamingLast(t *testing.T) {
	theme := styles.NewTheme()
	ml := NewMessageList(theme)
	ml.SetMessages([]chat.Message{
		{Role: chat.RoleUser, Content: "question"},
		{Role: chat.RoleAssistant, Content: "partial answer"},
	})
	ml.SetStreamingLast(true)

	view := ml.View()
	if !strings.Contains(view, styles.TypingCursor[0]) {
		t.Error("Streaming list should show the typing cursor on the last bubble")
	}
}
