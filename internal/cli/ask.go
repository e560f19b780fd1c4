// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the threadline CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering for better CLI experience
//
// Handles the "threadline ask" command which sends a single question to
// the assistant and prints the reply to stdout.
//
// Command: ask [question]
// Short:   Ask a single question
//
// Examples:
//   threadline ask "What is a goroutine?"
//   threadline ask --plain "Explain io.Reader" > notes.md
//
// Flags:
//   --plain         Print the reply without markdown rendering
//   -q, --quiet     Minimal output
//
// The wait on the run is unbounded; only individual HTTP requests time
// out. ctrl+c cancels the run cooperatively and exits with a cancelled
// status.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/threadline/internal/assistant"
	"github.com/jeranaias/threadline/internal/config"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for reply output.
// USABILITY: Renders markdown replies with syntax highlighting and formatting.
var markdownRenderer *glamour.TermRenderer

func init() {
	// Cap the wrap at 80 columns but follow narrower terminals
	wrap := GetTerminalWidth()
	if wrap > 80 {
		wrap = 80
	}

	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayReply prints a reply, markdown-rendered only when stdout is a
// TTY and rendering was not disabled, so piped output stays raw.
func displayReply(reply string, plain bool) {
	if !plain && IsStdoutTTY() {
		fmt.Print(renderMarkdown(reply))
		return
	}
	fmt.Println(reply)
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// newAssistantClient builds an API client from the loaded configuration.
func newAssistantClient(cfg *config.Config) *assistant.Client {
	return assistant.NewClient(assistant.ClientConfig{
		APIKey:       cfg.API.Key,
		BaseURL:      cfg.API.BaseURL,
		AssistantID:  cfg.Assistant.ID,
		Instructions: cfg.Assistant.Instructions,
		Timeout:      cfg.RequestTimeout(),
	})
}

// notifyInterrupt cancels the given context on SIGINT/SIGTERM. The
// returned stop function releases the signal handler.
func notifyInterrupt(cancel context.CancelFunc) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(sigChan)
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk runs a single question through a fresh thread and prints
// the reply.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return ErrMissingArgument("question", `threadline ask "What is a goroutine?"`)
	}

	cfg := config.Global()
	client := newAssistantClient(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := notifyInterrupt(cancel)
	defer stop()

	threadID, err := client.EnsureThread(ctx, "")
	if err != nil {
		return WrapError(err, "create thread")
	}

	run, err := client.SubmitMessage(ctx, threadID, query)
	if err != nil {
		return WrapError(err, "submit message")
	}

	if !args.Quiet && IsStderrTTY() {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Waiting for the assistant..."))
	}

	poller := assistant.NewPoller(client, cfg.PollInterval())
	outcome := poller.Wait(ctx, threadID, run.ID)

	switch outcome.State {
	case assistant.StateCompleted:
		reply, err := client.LatestAssistantText(ctx, threadID)
		if err != nil {
			return WrapError(err, "fetch reply")
		}
		displayReply(reply, args.Plain)
		return nil

	case assistant.StateCancelled:
		return ErrCancelled

	default:
		if outcome.Err != nil {
			return WrapError(outcome.Err, "wait for run")
		}
		return NewCommandError("ask", "run", outcome.Detail, nil)
	}
}
