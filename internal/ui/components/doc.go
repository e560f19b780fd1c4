// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the threadline TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually polished and consistent with the threadline design language.

# Core Components

## Input Components

InputArea (input.go) - Single-line message input with character counter.
CompletionPopup (completion.go) - Tab completion popup for slash commands.
LoginForm (login.go) - Sign-in screen with optional TOTP code field.

## Display Components

Header (header.go) - Application header with chat title and thread badge.
StatusBar (statusbar.go) - Bottom bar with connection state, run activity, and shortcuts.
Sidebar (sidebar.go) - Chat list column with keyboard navigation.
MessageBubble (message.go) - Styled transcript bubbles for user, assistant, and system entries.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.

## Progress and Feedback

Spinner (spinner.go) - Animated spinners for connecting and thinking states.
ErrorToast (error_toast.go) - Transient notification toasts with auto-dismiss.
LockWarningOverlay (lock_overlay.go) - Idle warning shown before the session re-locks.

# Key Types

## Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetChatTitle("Trip planning")
	view := header.View()

## Bubble Tea Integration

Interactive components expose Update(tea.Msg) tea.Cmd and View() and are
composed by the chat model rather than run as standalone programs.

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousands-separated integer formatting
  - fmtPercent() - Percentage formatting with one decimal place
*/
package components
