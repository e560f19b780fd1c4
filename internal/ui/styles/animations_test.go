// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the threadline TUI.
package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"BrailleSpinner", BrailleSpinner},
		{"DotsSpinner", DotsSpinner},
		{"LineSpinner", LineSpinner},
		{"BlockSpinner", BlockSpinner},
		{"PulseSpinner", PulseSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want time.Duration
	}{
		{"12 FPS", 12, time.Second / 12},
		{"6 FPS", 6, time.Second / 6},
		{"10 FPS", 10, time.Second / 10},
		{"8 FPS", 8, time.Second / 8},
		{"15 FPS", 15, time.Second / 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SpinnerConfig{FPS: tc.fps}
			got := config.Duration()
			if got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBrailleSpinnerFrames(t *testing.T) {
	if len(BrailleSpinner.Frames) != 10 {
		t.Errorf("BrailleSpinner should have 10 frames, got %d", len(BrailleSpinner.Frames))
	}

	// Verify all frames are non-empty
	for i, frame := range BrailleSpinner.Frames {
		if frame == "" {
			t.Errorf("BrailleSpinner frame %d should not be empty", i)
		}
	}
}

func TestDotsSpinnerFrames(t *testing.T) {
	if len(DotsSpinner.Frames) != 6 {
		t.Errorf("DotsSpinner should have 6 frames, got %d", len(DotsSpinner.Frames))
	}
}

func TestLineSpinnerFrames(t *testing.T) {
	if len(LineSpinner.Frames) != 4 {
		t.Errorf("LineSpinner should have 4 frames, got %d", len(LineSpinner.Frames))
	}

	// Line spinner uses standard ASCII rotation characters
	expected := []string{"|", "/", "-", "\\"}
	for i, want := range expected {
		if LineSpinner.Frames[i] != want {
			t.Errorf("LineSpinner frame %d = %q, want %q", i, LineSpinner.Frames[i], want)
		}
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
	}{
		{"empty", 10, 0.0},
		{"quarter", 10, 0.25},
		{"half", 10, 0.5},
		{"three quarters", 10, 0.75},
		{"full", 10, 1.0},
		{"wide bar", 40, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bar := RenderProgressBar(tc.width, tc.percent)

			if bar == "" {
				t.Error("RenderProgressBar() should return non-empty string")
			}

			// Bar should only contain the fill, empty, and partial characters
			for _, r := range bar {
				s := string(r)
				valid := s == ProgressFull || s == ProgressEmpty
				for _, p := range ProgressPartial {
					if s == p {
						valid = true
						break
					}
				}
				if !valid {
					t.Errorf("RenderProgressBar() produced unexpected character %q", s)
				}
			}
		})
	}
}

func TestRenderProgressBarFull(t *testing.T) {
	bar := RenderProgressBar(10, 1.0)
	if bar != strings.Repeat(ProgressFull, 10) {
		t.Errorf("RenderProgressBar(10, 1.0) = %q, want all full characters", bar)
	}
}

func TestRenderProgressBarEmpty(t *testing.T) {
	bar := RenderProgressBar(10, 0.0)
	if bar != strings.Repeat(ProgressEmpty, 10) {
		t.Errorf("RenderProgressBar(10, 0.0) = %q, want all empty characters", bar)
	}
}

func TestRenderProgressBarBounds(t *testing.T) {
	// Percentages outside [0, 1] should be clamped, not panic
	tests := []struct {
		name    string
		percent float64
	}{
		{"negative", -0.5},
		{"over one", 1.5},
		{"far negative", -100},
		{"far over", 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bar := RenderProgressBar(10, tc.percent)
			if bar == "" {
				t.Error("RenderProgressBar() should handle out-of-range percent")
			}
		})
	}
}

func TestRenderProgressBarZeroWidth(t *testing.T) {
	bar := RenderProgressBar(0, 0.5)
	if bar != "" {
		t.Errorf("RenderProgressBar(0, 0.5) = %q, want empty string", bar)
	}
}

// =============================================================================
// TYPING CURSOR TESTS
// =============================================================================

func TestTypingCursor(t *testing.T) {
	if len(TypingCursor) != 2 {
		t.Errorf("TypingCursor should have 2 states, got %d", len(TypingCursor))
	}

	// First state is the visible cursor, second is the blank phase
	if TypingCursor[0] == TypingCursor[1] {
		t.Error("TypingCursor states should differ for visible blinking")
	}
}

func TestCursorBlinkRate(t *testing.T) {
	// Blink rate should be within a comfortable range for terminals
	if CursorBlinkRate < 100*time.Millisecond {
		t.Errorf("CursorBlinkRate = %v, too fast for comfortable viewing", CursorBlinkRate)
	}
	if CursorBlinkRate > time.Second {
		t.Errorf("CursorBlinkRate = %v, too slow to read as a cursor", CursorBlinkRate)
	}
}

// =============================================================================
// STATUS INDICATOR TESTS
// =============================================================================

func TestAnimationStatusIndicators(t *testing.T) {
	indicators := []struct {
		name  string
		value string
	}{
		{"Success", AnimationStatusIndicators.Success},
		{"Error", AnimationStatusIndicators.Error},
		{"Warning", AnimationStatusIndicators.Warning},
		{"Info", AnimationStatusIndicators.Info},
		{"Loading", AnimationStatusIndicators.Loading},
		{"Paused", AnimationStatusIndicators.Paused},
		{"Connected", AnimationStatusIndicators.Connected},
		{"Offline", AnimationStatusIndicators.Offline},
	}

	for _, ind := range indicators {
		t.Run(ind.name, func(t *testing.T) {
			if ind.value == "" {
				t.Errorf("AnimationStatusIndicators.%s should be defined", ind.name)
			}
		})
	}
}

func TestConnectionIndicatorsDistinct(t *testing.T) {
	if AnimationStatusIndicators.Connected == AnimationStatusIndicators.Offline {
		t.Error("Connected and Offline indicators should differ")
	}
}

// =============================================================================
// TREE RENDERING TESTS
// =============================================================================

func TestTreeChars(t *testing.T) {
	chars := []struct {
		name  string
		value string
	}{
		{"Pipe", TreeChars.Pipe},
		{"Tee", TreeChars.Tee},
		{"Corner", TreeChars.Corner},
		{"Dash", TreeChars.Dash},
	}

	for _, c := range chars {
		t.Run(c.name, func(t *testing.T) {
			if c.value == "" {
				t.Errorf("TreeChars.%s should be defined", c.name)
			}
		})
	}
}

func TestRenderTreeLine(t *testing.T) {
	middle := RenderTreeLine(false)
	last := RenderTreeLine(true)

	if middle == "" {
		t.Error("RenderTreeLine(false) should return non-empty string")
	}
	if last == "" {
		t.Error("RenderTreeLine(true) should return non-empty string")
	}
	if middle == last {
		t.Error("Middle and last tree lines should use different connectors")
	}

	// Middle entries use the tee connector, last entries the corner
	if !strings.Contains(middle, TreeChars.Tee) {
		t.Errorf("RenderTreeLine(false) = %q, should contain tee %q", middle, TreeChars.Tee)
	}
	if !strings.Contains(last, TreeChars.Corner) {
		t.Errorf("RenderTreeLine(true) = %q, should contain corner %q", last, TreeChars.Corner)
	}
}
