// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for
// threadline.
//
// This package implements the non-TUI surface of the application: the
// one-shot ask command, the interactive chat REPL, and the auth, config
// and status management commands.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(args)
//	case cli.CmdChat:
//	    err = cli.HandleChat(args)
//	// ... other commands
//	}
//	cli.DisplayError(err)
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - ask: single question through a fresh thread, reply to stdout
//   - chat: interactive REPL with history, same turn lifecycle as the TUI
//   - auth: local login provisioning (setup, enroll-totp, status)
//   - config: show, set and locate the TOML config file
//   - status: connection probe plus config summary
//
// Handlers return errors rather than exiting; GetExitCode maps error
// categories to exit codes (usage 2, config 3, auth 4, network 5,
// cancelled 130).
package cli
