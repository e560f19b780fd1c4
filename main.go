// threadline - A terminal chat client for a hosted assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/assistant"
	"github.com/jeranaias/threadline/internal/auth"
	chatstore "github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/cli"
	"github.com/jeranaias/threadline/internal/config"
	"github.com/jeranaias/threadline/internal/session"
	chatui "github.com/jeranaias/threadline/internal/ui/chat"
	"github.com/jeranaias/threadline/internal/ui/components"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse()

	// An explicit --config path is loaded before anything runs so every
	// command sees the same settings.
	if err := loadConfig(args); err != nil {
		cli.DisplayError(err)
		os.Exit(cli.GetExitCode(err))
	}

	var err error
	switch cmd {
	case cli.CmdAsk:
		err = cli.HandleAsk(args)

	case cli.CmdChat:
		err = cli.HandleChat(args)

	case cli.CmdAuth:
		err = cli.HandleAuth(args)

	case cli.CmdConfig:
		err = cli.HandleConfig(args)

	case cli.CmdStatus:
		err = cli.HandleStatus(args)

	case cli.CmdVersion:
		cli.PrintVersion()

	case cli.CmdHelp:
		if args.Unknown != "" {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", args.Unknown)
			if hint := cli.SuggestCommand(args.Unknown); hint != "" {
				fmt.Fprintf(os.Stderr, "Did you mean 'threadline %s'?\n", hint)
			}
			fmt.Fprintln(os.Stderr)
			cli.PrintUsage()
			os.Exit(cli.ExitUsageError)
		}
		cli.PrintUsage()

	default:
		err = runTUI(args) // Default to TUI
	}

	if err != nil {
		cli.DisplayError(err)
		os.Exit(cli.GetExitCode(err))
	}
}

// loadConfig installs the config from an explicit --config path. Without
// the flag the default path is loaded lazily by config.Global.
func loadConfig(args cli.Args) error {
	if args.ConfigPath == "" {
		return nil
	}
	cfg, err := config.LoadFromPath(args.ConfigPath)
	if err != nil {
		return &cli.ConfigError{Reason: "load " + args.ConfigPath, Err: err}
	}
	config.SetGlobal(cfg)
	return nil
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	cfg := config.Global()

	// Initialize the theme
	theme := styles.NewTheme()

	// Create the assistant client with config values
	client := assistant.NewClient(assistant.ClientConfig{
		APIKey:       cfg.API.Key,
		BaseURL:      cfg.API.BaseURL,
		AssistantID:  cfg.Assistant.ID,
		Instructions: cfg.Assistant.Instructions,
		Timeout:      cfg.RequestTimeout(),
	})

	store := chatstore.NewStore()
	sess := session.NewManager(session.Config{
		Timeout:       cfg.IdleTimeout(),
		WarningBefore: cfg.WarningBefore(),
	})

	m := NewModel(theme, cfg, client, store, sess)

	// The login gate only engages when auth is required. A missing
	// credentials file shows the setup hint instead of the form.
	if cfg.Auth.Required {
		verifier, err := auth.LoadVerifier()
		switch {
		case errors.Is(err, auth.ErrNotProvisioned):
			m.login.SetProvisioned(false)
		case err != nil:
			return cli.WrapError(err, "load credentials")
		default:
			m.verifier = verifier
			m.login.SetTOTPRequired(verifier.TOTPEnabled())
		}
	} else {
		m.state = StateConnecting
	}

	// Create the Bubble Tea program
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	// The turn runner delivers progress messages through the program's
	// send function once it exists.
	m.chatModel.SetSender(p.Send)

	// Watch the config file and push reloads into the running program.
	watchPath, _ := config.ConfigPath()
	if args.ConfigPath != "" {
		watchPath = args.ConfigPath
	}
	if w, werr := config.NewWatcher(watchPath, func(next *config.Config, err error) {
		if err == nil {
			config.SetGlobal(next)
		}
		p.Send(chatui.ConfigReloadedMsg{Config: next, Err: err})
	}); werr == nil {
		if werr := w.Watch(); werr == nil {
			defer w.Close()
		} else {
			w.Close()
		}
	}

	// Run the program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateLogin      State = iota // Login form (auth gate)
	StateConnecting              // Endpoint probe in flight
	StateChat                    // Chat view
	StateLocked                  // Idle lock re-login
	StateError                   // Fatal connection failure
)

// Model is the main Bubble Tea model for the application.
type Model struct {
	// State
	state State

	// Theme and styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Chat model (embedded for chat functionality)
	chatModel chatui.Model

	// Login gate
	login    *components.LoginForm
	verifier *auth.Verifier

	// Idle lock warning overlay
	lockWarning components.LockWarningOverlay

	// Assistant client (shared with the chat model)
	client *assistant.Client

	// Application configuration
	config *config.Config

	// Session management
	sessionMgr *session.Manager

	// Set once the idle clock starts ticking; the tick chain re-arms
	// itself, so it must only be started once.
	tickStarted bool

	// Fatal startup error shown on the StateError screen
	fatalErr error
}

// NewModel creates the application model.
func NewModel(theme *styles.Theme, cfg *config.Config, client *assistant.Client, store *chatstore.Store, sess *session.Manager) *Model {
	return &Model{
		state:       StateLogin,
		theme:       theme,
		chatModel:   chatui.New(theme, cfg, store, client, sess),
		login:       components.NewLoginForm(theme),
		lockWarning: components.NewLockWarningOverlay(),
		client:      client,
		config:      cfg,
		sessionMgr:  sess,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	if m.state == StateConnecting {
		return m.connectCmd()
	}
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.login.SetSize(msg.Width, msg.Height)
		m.lockWarning.SetSize(msg.Width, msg.Height)

		// The chat model keeps its layout current even while another
		// screen is showing.
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case components.LoginSubmitMsg:
		return m.handleLogin(msg)

	case connectResultMsg:
		if msg.err != nil {
			m.fatalErr = msg.err
			m.state = StateError
			return m, nil
		}
		return m.enterChat()

	case session.TickMsg:
		if m.lockWarning.IsVisible() {
			m.lockWarning.UpdateTime(m.sessionMgr.RemainingTime())
		}
		return m, m.sessionMgr.HandleTick()

	case session.LockWarningMsg:
		if m.state == StateChat {
			m.lockWarning.Show(msg.Remaining)
		}
		return m, nil

	case session.LockMsg:
		return m.lock()

	case components.StayActiveMsg:
		m.sessionMgr.RecordActivity()
		return m, nil
	}

	// Everything else belongs to the chat screen. Turn progress keeps
	// flowing while the lock screen is up so a reply in flight still
	// lands in the transcript.
	var cmd tea.Cmd
	m.chatModel, cmd = m.chatModel.Update(msg)
	return m, cmd
}

// handleKeyPress routes key input by application state.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateError:
		// Any key exits the fatal error screen.
		return m, tea.Quit

	case StateLogin, StateLocked:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, m.login.Update(msg)

	case StateConnecting:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil

	default: // StateChat
		m.sessionMgr.RecordActivity()
		if m.lockWarning.IsVisible() {
			// The dismissing key is swallowed by the overlay.
			var cmd tea.Cmd
			m.lockWarning, cmd = m.lockWarning.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd
	}
}

// handleLogin verifies submitted credentials. The first successful
// sign-in probes the endpoint; an unlock returns straight to the chat.
func (m *Model) handleLogin(msg components.LoginSubmitMsg) (tea.Model, tea.Cmd) {
	if m.verifier == nil {
		return m, nil
	}
	if err := m.verifier.Verify(msg.Username, msg.Password, msg.Code); err != nil {
		m.login.ApplyError(err)
		return m, nil
	}
	if m.state == StateLocked {
		m.login.Reset()
		return m.enterChat()
	}
	m.state = StateConnecting
	return m, m.connectCmd()
}

// enterChat switches to the chat screen and starts the idle clock.
// Chats survive a lock: the store is untouched, so an unlock lands on
// the same transcript.
func (m *Model) enterChat() (tea.Model, tea.Cmd) {
	m.state = StateChat
	m.sessionMgr.Unlock()

	// The tick chain runs even when the timeout is zero so enabling the
	// lock later via /config or a reload needs no restart.
	cmds := []tea.Cmd{m.chatModel.Init()}
	if !m.tickStarted && m.verifier != nil {
		m.tickStarted = true
		cmds = append(cmds, session.TickCmd())
	}
	return m, tea.Batch(cmds...)
}

// lock engages the idle lock. Without a verifier there is nothing to
// sign back in with, so the lock only arms when auth is configured.
func (m *Model) lock() (tea.Model, tea.Cmd) {
	if m.state != StateChat || m.verifier == nil {
		return m, nil
	}
	m.lockWarning.Hide()
	m.login.SetLocked(true)
	m.login.Reset()
	m.state = StateLocked
	return m, textinput.Blink
}

// =============================================================================
// CONNECTION PROBE
// =============================================================================

// connectResultMsg reports the startup endpoint probe.
type connectResultMsg struct {
	err error
}

// connectCmd probes the configured endpoint. A failure here is fatal:
// the app shows the error screen instead of a chat that cannot work.
func (m *Model) connectCmd() tea.Cmd {
	client := m.client
	timeout := m.config.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return connectResultMsg{err: client.Connect(ctx)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current application state.
func (m *Model) View() string {
	switch m.state {
	case StateLogin, StateLocked:
		return m.login.View()

	case StateConnecting:
		return m.connectingView()

	case StateError:
		return m.errorView()

	default:
		if m.lockWarning.IsVisible() {
			return m.lockWarning.View()
		}
		return m.chatModel.View()
	}
}

// connectingView shows a minimal splash while the endpoint probe runs.
func (m *Model) connectingView() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.LoginTitle.Render("threadline"),
		"",
		m.theme.LoginHint.Render("Connecting to "+m.client.BaseURL()+" ..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// errorView shows the fatal connection failure screen.
func (m *Model) errorView() string {
	detail := "connection failed"
	if m.fatalErr != nil {
		detail = m.fatalErr.Error()
	}
	box := m.theme.ErrorBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ErrorTitle.Render("[X] Could not reach the assistant"),
		"",
		m.theme.ErrorMessage.Render(detail),
		"",
		m.theme.ErrorTip.Render("Check api.base_url and api.key with 'threadline status'."),
		m.theme.LoginHint.Render("Press any key to exit."),
	))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
