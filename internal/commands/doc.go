// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// This package handles parsing and executing slash commands in the chat
// interface, providing autocomplete and command registration.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - ParseResult: Parsed command with name, arguments, and validation error
//   - Completer: Tab completion for commands and arguments
//   - Context: Services handed to command handlers
//
// # Built-in Commands
//
//   - /help: Show available commands
//   - /new: Start a new chat
//   - /chat: Switch to another chat
//   - /chats: List chats in this session
//   - /sidebar: Toggle the chat sidebar
//   - /config: Show or edit configuration
//   - /status: Show connection and session status
//   - /quit: Exit threadline
//
// # Usage
//
// Parse and execute a command:
//
//	result := parser.Parse(input)
//	if result.IsCommand && result.Command != nil && result.Error == nil {
//	    return result.Command.Handler(ctx, result.Args)
//	}
//
// Get completions:
//
//	completions := completer.Complete("/ch", 3)
//	// Returns /chat and /chats
package commands
