// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing and exit code mapping; the
// handlers themselves talk to the network or the terminal and are
// exercised through the assistant package's own tests.
package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jeranaias/threadline/internal/assistant"
	"github.com/jeranaias/threadline/internal/auth"
)

// =============================================================================
// ARGUMENT PARSING TESTS
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"auth", []string{"auth", "setup"}, CmdAuth},
		{"config", []string{"config"}, CmdConfig},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"version short flag", []string{"-v"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
		{"uppercase command", []string{"ASK", "hi"}, CmdAsk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("ParseArgs(%v) cmd = %d, want %d", tt.argv, cmd, tt.wantCmd)
			}
		})
	}
}

func TestParseArgs_UnknownCommand(t *testing.T) {
	cmd, args := ParseArgs([]string{"frobnicate", "now"})
	if cmd != CmdHelp {
		t.Errorf("unknown command cmd = %d, want CmdHelp", cmd)
	}
	if args.Unknown != "frobnicate" {
		t.Errorf("Unknown = %q, want %q", args.Unknown, "frobnicate")
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "config flag with separate value",
			argv:    []string{"--config", "/tmp/alt.toml", "status"},
			wantCmd: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if a.ConfigPath != "/tmp/alt.toml" {
					t.Errorf("ConfigPath = %q, want %q", a.ConfigPath, "/tmp/alt.toml")
				}
			},
		},
		{
			name:    "config flag with equals",
			argv:    []string{"--config=/tmp/alt.toml"},
			wantCmd: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if a.ConfigPath != "/tmp/alt.toml" {
					t.Errorf("ConfigPath = %q, want %q", a.ConfigPath, "/tmp/alt.toml")
				}
			},
		},
		{
			name:    "quiet short flag",
			argv:    []string{"-q", "chat"},
			wantCmd: CmdChat,
			validate: func(t *testing.T, a Args) {
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
			},
		},
		{
			name:    "global flag after command",
			argv:    []string{"ask", "--quiet", "hello"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
				if a.Query != "hello" {
					t.Errorf("Query = %q, want %q", a.Query, "hello")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("cmd = %d, want %d", cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParseArgs_AskQuery(t *testing.T) {
	tests := []struct {
		name      string
		argv      []string
		wantQuery string
		wantPlain bool
	}{
		{
			name:      "single quoted question",
			argv:      []string{"ask", "What is a goroutine?"},
			wantQuery: "What is a goroutine?",
		},
		{
			name:      "bare words join",
			argv:      []string{"ask", "what", "is", "a", "goroutine"},
			wantQuery: "what is a goroutine",
		},
		{
			name:      "plain flag before question",
			argv:      []string{"ask", "--plain", "hello"},
			wantQuery: "hello",
			wantPlain: true,
		},
		{
			name:      "plain flag after question",
			argv:      []string{"ask", "hello", "--plain"},
			wantQuery: "hello",
			wantPlain: true,
		},
		{
			name:      "no question",
			argv:      []string{"ask"},
			wantQuery: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != CmdAsk {
				t.Fatalf("cmd = %d, want CmdAsk", cmd)
			}
			if args.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", args.Query, tt.wantQuery)
			}
			if args.Plain != tt.wantPlain {
				t.Errorf("Plain = %v, want %v", args.Plain, tt.wantPlain)
			}
		})
	}
}

func TestParseArgs_ChatPlain(t *testing.T) {
	_, args := ParseArgs([]string{"chat", "--plain"})
	if !args.Plain {
		t.Error("Plain should be true")
	}
}

func TestParseArgs_AuthSubcommand(t *testing.T) {
	tests := []struct {
		argv    []string
		wantSub string
	}{
		{[]string{"auth"}, ""},
		{[]string{"auth", "setup"}, "setup"},
		{[]string{"auth", "enroll-totp"}, "enroll-totp"},
		{[]string{"auth", "STATUS"}, "status"},
	}

	for _, tt := range tests {
		cmd, args := ParseArgs(tt.argv)
		if cmd != CmdAuth {
			t.Errorf("ParseArgs(%v) cmd = %d, want CmdAuth", tt.argv, cmd)
		}
		if args.Subcommand != tt.wantSub {
			t.Errorf("ParseArgs(%v) Subcommand = %q, want %q", tt.argv, args.Subcommand, tt.wantSub)
		}
	}
}

func TestParseArgs_Config(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantSub string
		wantKey string
		wantVal string
	}{
		{
			name:    "bare config defaults to show",
			argv:    []string{"config"},
			wantSub: "show",
		},
		{
			name:    "explicit show",
			argv:    []string{"config", "show"},
			wantSub: "show",
		},
		{
			name:    "set key value",
			argv:    []string{"config", "set", "poll.interval_ms", "1000"},
			wantSub: "set",
			wantKey: "poll.interval_ms",
			wantVal: "1000",
		},
		{
			name:    "set joins multi-word value",
			argv:    []string{"config", "set", "assistant.instructions", "be", "brief"},
			wantSub: "set",
			wantKey: "assistant.instructions",
			wantVal: "be brief",
		},
		{
			name:    "path",
			argv:    []string{"config", "path"},
			wantSub: "path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != CmdConfig {
				t.Fatalf("cmd = %d, want CmdConfig", cmd)
			}
			if args.Subcommand != tt.wantSub {
				t.Errorf("Subcommand = %q, want %q", args.Subcommand, tt.wantSub)
			}
			if args.ConfigKey != tt.wantKey {
				t.Errorf("ConfigKey = %q, want %q", args.ConfigKey, tt.wantKey)
			}
			if args.ConfigVal != tt.wantVal {
				t.Errorf("ConfigVal = %q, want %q", args.ConfigVal, tt.wantVal)
			}
		})
	}
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"generic error", errors.New("boom"), ExitGeneralError},
		{"cancelled sentinel", ErrCancelled, ExitCancelled},
		{"wrapped context cancel", fmt.Errorf("submit message: %w", context.Canceled), ExitCancelled},
		{"usage error", &UsageError{Reason: "missing argument"}, ExitUsageError},
		{"tty required", &TTYRequiredError{Operation: "chat"}, ExitUsageError},
		{"config error", &ConfigError{Reason: "save config"}, ExitConfigError},
		{"bad credentials", auth.ErrBadCredentials, ExitAuthError},
		{"not provisioned", fmt.Errorf("verify: %w", auth.ErrNotProvisioned), ExitAuthError},
		{"api key rejected", assistant.ErrAuth, ExitAuthError},
		{"unreachable", fmt.Errorf("connect: %w", assistant.ErrUnreachable), ExitNetworkError},
		{"request timeout", assistant.ErrTimeout, ExitNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"askk", "ask"},
		{"chta", "chat"},
		{"stauts", "status"},
		{"confg", "config"},
		{"hepl", "help"},
		{"frobnicate", ""},
		{"x", ""}, // too short to guess
	}

	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m"},
		{15 * time.Minute, "15m"},
		{2 * time.Hour, "2h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
