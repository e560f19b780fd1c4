// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// title.go - Chat title derivation.
package chat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// TitleRuneLimit is the maximum number of runes kept from the
	// source text before the ellipsis is appended.
	TitleRuneLimit = 30

	// TitleEllipsis marks a truncated title.
	TitleEllipsis = "..."
)

// DeriveTitle builds a chat title from the first user message. The text
// is NFC-normalized and control whitespace is mapped to plain spaces so
// the title renders on a single line. Text longer than TitleRuneLimit
// runes is cut at exactly that limit and suffixed with TitleEllipsis;
// shorter text is used as-is.
func DeriveTitle(text string) string {
	t := norm.NFC.String(text)
	t = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, t)
	t = strings.TrimSpace(t)

	runes := []rune(t)
	if len(runes) > TitleRuneLimit {
		return string(runes[:TitleRuneLimit]) + TitleEllipsis
	}
	return t
}
