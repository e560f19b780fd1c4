// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for threadline.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdAuth
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config PATH overrides the default config file
	Quiet      bool   // minimal output
	Plain      bool   // disable markdown rendering on ask/chat output

	// Command-specific
	Query      string // ask: the question text
	Subcommand string // auth/config: first positional after the command
	ConfigKey  string // config set: dot-notation key
	ConfigVal  string // config set: value

	// Unknown holds an unrecognized command name so the caller can
	// report it before printing usage.
	Unknown string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `threadline - terminal chat client for hosted assistants

Threadline is a terminal front end for a hosted assistant API. Messages
you type are relayed to a remote assistant and the reply is typed back
into the conversation.

Usage:
  threadline                       Start TUI (default)
  threadline ask "question"        Ask a single question and exit
  threadline chat                  Interactive chat in the terminal
  threadline auth <subcommand>     Local login management
  threadline config [show|set|path] Configuration
  threadline status                Connection and config summary
  threadline version               Show version information
  threadline help                  Show this help

Ask Command:
  threadline ask "What is a goroutine?"
    --plain                        Print the reply without markdown rendering

  The command waits for the assistant however long the run takes; there
  is no overall deadline. Press ctrl+c to cancel the run and exit.

Chat Command:
  threadline chat                  REPL with arrow-key history
    --plain                        Print replies without markdown rendering

  In-chat commands: /new (fresh thread), /status, /quit. ctrl+c cancels
  a reply in flight; at an empty prompt it exits, as does ctrl+d.

Auth Commands:
  threadline auth setup            Create the local login (username + password)
  threadline auth enroll-totp      Add a TOTP second factor
  threadline auth status           Show provisioning state

Config Commands:
  threadline config show           Show current configuration (secrets masked)
  threadline config set KEY VALUE  Set a value by dot path, e.g. poll.interval_ms
  threadline config path           Print the config file location

Global Flags:
  --config PATH   Use an alternate config file
  -q, --quiet     Minimal output
  --version       Show version and exit

Environment:
  OPENAI_API_KEY           API key (overrides api.key)
  ASSISTANT_ID             Assistant identity (overrides assistant.id)
  ASSISTANT_INSTRUCTIONS   Run instructions (overrides assistant.instructions)
  THREADLINE_BASE_URL      API root (overrides api.base_url)

Examples:
  threadline                             Start the TUI
  threadline ask "Explain io.Reader"     One-shot question
  threadline ask --plain "..." > out.md  Pipe the raw reply to a file
  threadline chat                        Interactive session
  threadline auth setup                  First-run login provisioning
  threadline config set stream.char_delay_ms 2
  threadline status                      Probe the API and show settings

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("threadline version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split from Parse so tests
// can drive it without touching os.Args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	// No command defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "auth":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
			args.Raw = remaining[1:]
		}
		return CmdAuth, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "status", "s":
		return CmdStatus, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown command: report it and show usage rather than
		// guessing at intent.
		args.Unknown = cmd
		return CmdHelp, args
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				args.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseAskArgs parses ask command specific arguments. Everything that is
// not a flag joins the query text.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for _, arg := range remaining {
		switch arg {
		case "--plain":
			args.Plain = true
		default:
			if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if arg == "--plain" {
			args.Plain = true
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}
