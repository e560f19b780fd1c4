// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stream.go - Cancellable per-rune re-emission of a fetched reply.
//
// Replies arrive from the API in full; the streamer replays them one
// rune at a time with a fixed delay so the transcript fills in with a
// typing cadence instead of appearing at once.
package assistant

import (
	"context"
	"strings"
	"time"
)

// DefaultCharDelay is the pause between emitted runes.
const DefaultCharDelay = 5 * time.Millisecond

// Streamer re-emits fully retrieved text one rune at a time.
type Streamer struct {
	// Delay is the fixed pause after each emitted rune. Zero emits
	// without pausing (used by tests); negative is treated as zero.
	Delay time.Duration
}

// NewStreamer creates a streamer with the given per-rune delay. A
// negative delay selects DefaultCharDelay.
func NewStreamer(delay time.Duration) *Streamer {
	if delay < 0 {
		delay = DefaultCharDelay
	}
	return &Streamer{Delay: delay}
}

// Stream emits text rune by rune through emit. The cancellation token is
// checked BEFORE each rune: once ctx fires, no further rune is emitted
// and Stream returns exactly the prefix already delivered with
// interrupted=true. Cancellation during the inter-rune pause behaves the
// same way. Natural completion returns the full text and
// interrupted=false.
func (s *Streamer) Stream(ctx context.Context, text string, emit func(rune)) (string, bool) {
	runes := []rune(text)

	var b strings.Builder
	b.Grow(len(text))

	for i, r := range runes {
		select {
		case <-ctx.Done():
			return b.String(), true
		default:
		}

		emit(r)
		b.WriteRune(r)

		// No trailing pause after the final rune.
		if s.Delay <= 0 || i == len(runes)-1 {
			continue
		}

		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return b.String(), true
		case <-timer.C:
		}
	}

	return b.String(), false
}
