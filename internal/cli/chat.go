// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the threadline CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles the "threadline chat" command which provides an interactive
// REPL for conversing with the assistant. The turn lifecycle matches
// the TUI: submit, poll until terminal, fetch the reply. The REPL skips
// the per-character replay and prints each reply once, rendered through
// glamour when stdout is a TTY.
//
// Command: chat
// Short:   Interactive chat in the terminal
//
// Examples:
//   threadline chat
//   threadline chat --plain
//
// In-chat commands:
//   /new      Start a fresh conversation (new thread)
//   /status   Show connection and conversation state
//   /help     List in-chat commands
//   /quit     Exit
//
// ctrl+c cancels a reply in flight; at the prompt it exits, as does
// ctrl+d. Input history persists under the config directory.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/threadline/internal/assistant"
	"github.com/jeranaias/threadline/internal/config"
	chatui "github.com/jeranaias/threadline/internal/ui/chat"
	"github.com/jeranaias/threadline/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	// History lives next to the config file
	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return
	}

	// 0600: history may contain sensitive prompts
	_ = util.AtomicWriteFile(c.historyFile, buf.Bytes(), 0600)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Config *config.Config
	Client *assistant.Client
	Poller *assistant.Poller
	Input  *ChatCLI

	// ThreadID is the remote conversation; empty until the first turn
	// creates one, reset by /new.
	ThreadID string

	// Turns counts completed exchanges.
	Turns int

	// LastDetail records the most recent failure for /status. The
	// user-facing reply line stays generic.
	LastDetail string

	Plain     bool
	Quiet     bool
	StartTime time.Time

	// cancel is the in-flight turn's cancel function, guarded because
	// the signal goroutine calls it.
	mu     sync.Mutex
	cancel context.CancelFunc
}

// setCancel installs (or clears) the active turn's cancel function.
func (s *ChatSession) setCancel(fn context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = fn
}

// cancelActive cancels the in-flight turn, if any. Reports whether a
// turn was actually cancelled.
func (s *ChatSession) cancelActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg := config.Global()
	client := newAssistantClient(cfg)

	// Probe before entering the loop; an unreachable API is fatal here
	// just like at TUI startup.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	err := client.Connect(probeCtx)
	cancelProbe()
	if err != nil {
		return WrapError(err, "connect")
	}

	session := &ChatSession{
		Config:    cfg,
		Client:    client,
		Poller:    assistant.NewPoller(client, cfg.PollInterval()),
		Input:     NewChatCLI(),
		Plain:     args.Plain,
		Quiet:     args.Quiet,
		StartTime: time.Now(),
	}
	defer session.Input.Close()

	if !session.Quiet {
		printWelcome(session)
	}

	// First ctrl+c during a turn cancels it; at the prompt liner
	// handles the key itself and aborts the read.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			session.cancelActive()
		}
	}()

	for {
		input, err := session.Input.ReadInput(SuccessStyle.Render("you> "))
		if err != nil {
			// ctrl+c (liner.ErrPromptAborted) or ctrl+d (EOF) at the
			// prompt both exit cleanly.
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			cont, err := handleChatCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !cont {
				printExitSummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		processTurn(session, input)
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// processTurn runs one exchange: ensure the thread, submit the message,
// wait out the run, print the reply. Failures print the generic notice
// and park the detail for /status; cancellation prints the cancel
// marker. Neither ends the REPL.
func processTurn(session *ChatSession, text string) {
	ctx, cancel := context.WithCancel(context.Background())
	session.setCancel(cancel)
	defer func() {
		session.setCancel(nil)
		cancel()
	}()

	tid, err := session.Client.EnsureThread(ctx, session.ThreadID)
	if err != nil {
		if ctx.Err() != nil {
			printCancelled(session)
			return
		}
		failTurn(session, fmt.Errorf("ensure thread: %w", err))
		return
	}
	session.ThreadID = tid

	run, err := session.Client.SubmitMessage(ctx, tid, text)
	if err != nil {
		if ctx.Err() != nil {
			printCancelled(session)
			return
		}
		failTurn(session, fmt.Errorf("submit message: %w", err))
		return
	}

	outcome := session.Poller.Wait(ctx, tid, run.ID)
	switch outcome.State {
	case assistant.StateCancelled:
		printCancelled(session)
		return
	case assistant.StateCompleted:
		// Fall through to fetch the reply.
	default:
		if outcome.Err != nil {
			failTurn(session, outcome.Err)
		} else {
			failTurnDetail(session, outcome.Detail)
		}
		return
	}

	reply, err := session.Client.LatestAssistantText(ctx, tid)
	if err != nil {
		if ctx.Err() != nil {
			printCancelled(session)
			return
		}
		failTurn(session, fmt.Errorf("fetch reply: %w", err))
		return
	}

	fmt.Println()
	displayReply(reply, session.Plain)
	fmt.Println()
	session.Turns++
}

// failTurn records the error and prints the generic failure reply.
func failTurn(session *ChatSession, err error) {
	failTurnDetail(session, err.Error())
}

// failTurnDetail records a failure detail and prints the generic reply.
// The detail stays off the screen until the user asks via /status.
func failTurnDetail(session *ChatSession, detail string) {
	if detail == "" {
		detail = "run did not complete"
	}
	session.LastDetail = detail
	fmt.Println()
	fmt.Println(WarningStyle.Render(chatui.FailureNotice))
	fmt.Println()
}

// printCancelled prints the cancelled-turn marker. Cancellation is not
// an error and leaves the last failure detail untouched.
func printCancelled(session *ChatSession) {
	fmt.Println()
	fmt.Println(WarningStyle.Render(chatui.CancelNotice))
	fmt.Println()
}

// =============================================================================
// IN-CHAT COMMANDS
// =============================================================================

// handleChatCommand dispatches an in-chat slash command. Returns false
// when the REPL should exit.
func handleChatCommand(input string, session *ChatSession) (bool, error) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/new":
		session.ThreadID = ""
		fmt.Println(DimStyle.Render("Started a new conversation."))
		return true, nil

	case "/status":
		printChatStatus(session)
		return true, nil

	case "/help":
		printChatHelp()
		return true, nil

	case "/quit", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (try /help)", fields[0])
	}
}

// printWelcome shows the session banner.
func printWelcome(session *ChatSession) {
	fmt.Println(TitleStyle.Render("threadline chat"))
	fmt.Printf("%s %s\n", DimStyle.Render("Assistant:"), session.Client.AssistantID())
	fmt.Printf("%s %s\n", DimStyle.Render("Endpoint: "), session.Client.BaseURL())
	fmt.Println(DimStyle.Render("Type /help for commands, ctrl+d to exit."))
	fmt.Println()
}

// printChatHelp lists the in-chat commands.
func printChatHelp() {
	fmt.Println(SectionStyle.Render("Commands"))
	fmt.Println("  /new      Start a fresh conversation")
	fmt.Println("  /status   Show connection and conversation state")
	fmt.Println("  /help     Show this help")
	fmt.Println("  /quit     Exit (also: quit, exit, ctrl+d)")
	fmt.Println()
}

// printChatStatus shows connection and conversation state, including
// the last failure detail the generic reply hid.
func printChatStatus(session *ChatSession) {
	thread := session.ThreadID
	if thread == "" {
		thread = "(none yet)"
	}
	lastFailure := session.LastDetail
	if lastFailure == "" {
		lastFailure = "(none)"
	}

	fmt.Println(SectionStyle.Render("Status"))
	printKV("Endpoint", session.Client.BaseURL())
	printKV("Assistant", session.Client.AssistantID())
	printKV("Thread", thread)
	printKV("Completed turns", fmt.Sprintf("%d", session.Turns))
	printKV("Last failure", lastFailure)
	fmt.Println()
}

// printExitSummary shows a one-line goodbye with session stats.
func printExitSummary(session *ChatSession) {
	if session.Quiet {
		return
	}
	fmt.Println(DimStyle.Render(fmt.Sprintf(
		"%d turns in %s. Bye.",
		session.Turns,
		formatDuration(time.Since(session.StartTime)),
	)))
}
