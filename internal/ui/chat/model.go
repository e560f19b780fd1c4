// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the threadline TUI.
//
// This file holds the Bubble Tea model for the chat screen: view
// state, message dispatch, and key routing. Rendering lives in
// view.go, the turn pipeline in runner.go.
package chat

import (
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadline/internal/assistant"
	chatstore "github.com/jeranaias/threadline/internal/chat"
	"github.com/jeranaias/threadline/internal/commands"
	"github.com/jeranaias/threadline/internal/config"
	"github.com/jeranaias/threadline/internal/session"
	"github.com/jeranaias/threadline/internal/ui/components"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// State is the chat view's turn state.
type State int

const (
	StateReady      State = iota // Idle, input focused
	StateWaiting                 // Turn submitted, waiting on the run
	StateStreaming               // Replaying the fetched reply
	StateCancelling              // Cancel requested, turn winding down
)

// Notices shown in the transcript for turns that do not complete.
const (
	// FailureNotice is the assistant bubble for a failed turn. The
	// underlying detail stays out of the transcript; /status shows it.
	FailureNotice = "Please ask again."

	// CancelNotice marks a stopped answer. It lands on a new line
	// after any partial text, or alone when nothing streamed yet.
	CancelNotice = "[!] Sorry, I couldn't finish that answer."
)

// Reserved rows used when sizing the transcript. view.go measures the
// real rendered heights and corrects the viewport when they differ.
const (
	headerHeight = 3
	inputHeight  = 3
	statusHeight = 3
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// View state
	state        State
	focusSidebar bool

	// Dependencies
	cfg     *config.Config
	store   *chatstore.Store
	client  *assistant.Client
	session *session.Manager

	// Components
	header    *components.Header
	statusBar *components.StatusBar
	sidebar   *components.Sidebar
	input     *components.InputArea
	msgList   *components.MessageList
	popup     *components.CompletionPopup
	toasts    *components.ToastManager
	spin      components.Spinner
	viewport  viewport.Model

	// Slash commands
	registry        *commands.Registry
	parser          *commands.Parser
	completer       *commands.Completer
	completionState *commands.CompletionState
	showCompletions bool
	cmdCtx          *commands.Context

	// Keys
	keyMap KeyMap

	// Turn state. turnSeq identifies the active turn; messages tagged
	// with an older id are dropped.
	turnSeq     int
	turnChatID  chatstore.ChatID
	streamed    int
	streamTotal int
	replyOpen   bool
	cancelMgr   *cancelManager
	out         *sender

	// Last turn failure, surfaced by /status only.
	lastErr   string
	lastErrAt time.Time
}

// New creates the chat model. The store gains an initial chat when
// empty so the sidebar and header always have something to show.
func New(theme *styles.Theme, cfg *config.Config, store *chatstore.Store, client *assistant.Client, sess *session.Manager) Model {
	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)
	completer.ConfigFn = config.GetAllKeys
	completer.ChatsFn = store.Chats

	m := Model{
		theme:           theme,
		cfg:             cfg,
		store:           store,
		client:          client,
		session:         sess,
		state:           StateReady,
		header:          components.NewHeader(theme),
		statusBar:       components.NewStatusBar(theme),
		sidebar:         components.NewSidebar(theme),
		input:           components.NewInputArea(theme),
		msgList:         components.NewMessageList(theme),
		popup:           components.NewCompletionPopup(theme),
		toasts:          components.NewToastManager(),
		spin:            components.NewThinkingSpinner(),
		viewport:        viewport.New(0, 0),
		registry:        registry,
		parser:          commands.NewParser(registry),
		completer:       completer,
		completionState: commands.NewCompletionState(),
		cmdCtx:          commands.NewContext(cfg, store, client, sess),
		keyMap:          DefaultKeyMap(),
		cancelMgr:       newCancelManager(),
		out:             &sender{},
	}

	if store.Len() == 0 {
		store.CreateChat()
	}
	if !cfg.UI.SidebarOpen {
		m.sidebar.Hide()
	}
	m.statusBar.SetConnected(true)
	m.statusBar.SetEndpoint(endpointLabel(client.BaseURL()))
	m.refreshSidebar()
	return m
}

// SetSender installs the program's send function so the turn runner
// can deliver progress messages. The sender is shared across model
// copies, so installing it after tea.NewProgram still reaches the
// running program's copy.
func (m *Model) SetSender(fn func(tea.Msg)) {
	m.out.set(fn)
}

// Init focuses the input.
func (m Model) Init() tea.Cmd {
	return m.input.Focus()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateWaiting || m.state == StateCancelling {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			m.updateViewport()
			return m, cmd
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case ThreadReadyMsg:
		return m.handleThreadReady(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case TurnDoneMsg:
		return m.handleTurnDone(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case commands.ShowHelpMsg:
		return m.handleShowHelp(msg)

	case commands.NewChatMsg:
		return m.createChat()

	case commands.ChatSelectedMsg:
		return m.handleChatSelected(msg)

	case commands.ChatListMsg:
		return m.handleChatList(msg)

	case commands.ToggleSidebarMsg:
		m.sidebar.Toggle()
		m.relayout()
		return m, nil

	case commands.StatusInfoMsg:
		return m.handleStatusInfo(msg)

	case commands.ShowConfigMsg:
		return m.handleShowConfig(msg)

	case commands.ConfigUpdateMsg:
		return m.handleConfigUpdate(msg)

	case commands.ErrorMsg:
		m.toasts.AddError(msg.Message)
		return m, components.ToastTickCmd()

	case commands.SystemMessageMsg:
		m.appendSystemNote(msg.Content)
		return m, nil
	}

	// Everything else goes to the focused input and the viewport.
	var cmds []tea.Cmd
	if m.state == StateReady && !m.focusSidebar {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// TURN MESSAGES
// =============================================================================

// handleThreadReady records the thread id resolved for a turn's chat.
func (m Model) handleThreadReady(msg ThreadReadyMsg) (Model, tea.Cmd) {
	if msg.TurnID != m.turnSeq {
		return m, nil
	}
	m.store.SetThreadID(msg.ChatID, msg.ThreadID)
	if msg.ChatID == m.store.CurrentID() {
		m.header.SetThreadID(msg.ThreadID)
	}
	return m, nil
}

// handleStreamStart switches to the streaming state. A cancel request
// racing the stream start keeps the cancelling display.
func (m Model) handleStreamStart(msg StreamStartMsg) (Model, tea.Cmd) {
	if msg.TurnID != m.turnSeq {
		return m, nil
	}
	m.streamed = 0
	m.streamTotal = msg.Total
	m.replyOpen = false
	if m.state != StateCancelling {
		m.state = StateStreaming
		m.spin.Stop()
		m.statusBar.SetStatus(components.StatusStreaming)
		m.statusBar.SetStreamProgress(0, msg.Total)
		m.updateViewport()
	}
	return m, nil
}

// handleStreamToken appends one streamed chunk to the turn's chat.
// Chunks still arrive briefly after a cancel request; they belong to
// the partial answer and are kept.
func (m Model) handleStreamToken(msg StreamTokenMsg) (Model, tea.Cmd) {
	if msg.TurnID != m.turnSeq {
		return m, nil
	}
	if !m.replyOpen {
		m.store.AppendMessage(m.turnChatID, chatstore.Message{Role: chatstore.RoleAssistant})
		m.replyOpen = true
		m.refreshSidebar()
	}
	m.store.AppendToLast(m.turnChatID, msg.Chunk)
	m.streamed++
	if m.state == StateStreaming {
		m.statusBar.SetStreamProgress(m.streamed, m.streamTotal)
	}
	if m.turnChatID == m.store.CurrentID() {
		m.updateViewport()
	}
	return m, nil
}

// handleTurnDone finalizes a turn and restores the input.
func (m Model) handleTurnDone(msg TurnDoneMsg) (Model, tea.Cmd) {
	if msg.TurnID != m.turnSeq {
		return m, nil
	}
	m.cancelMgr.cancel()

	switch msg.Result {
	case TurnFailed:
		m.recordFailure(msg)
		m.store.AppendMessage(m.turnChatID, chatstore.Message{
			Role:    chatstore.RoleAssistant,
			Content: FailureNotice,
		})
	case TurnCancelled:
		if m.replyOpen {
			m.store.AppendToLast(m.turnChatID, "\n"+CancelNotice)
		} else {
			m.store.AppendMessage(m.turnChatID, chatstore.Message{
				Role:    chatstore.RoleAssistant,
				Content: CancelNotice,
			})
		}
	}

	m.state = StateReady
	m.replyOpen = false
	m.streamed = 0
	m.streamTotal = 0
	m.spin.Stop()
	m.spin.SetMessage("Thinking")
	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.ClearStreamProgress()
	m.input.SetEnabled(true)
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()

	if !m.focusSidebar {
		return m, m.input.Focus()
	}
	return m, nil
}

// recordFailure keeps the failure detail for /status.
func (m *Model) recordFailure(msg TurnDoneMsg) {
	detail := msg.Detail
	if msg.Err != nil {
		detail = msg.Err.Error()
	}
	if detail == "" {
		detail = "run did not complete"
	}
	m.lastErr = detail
	m.lastErrAt = time.Now()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes key presses by state and focus.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Force quit always wins.
	if key.Matches(msg, m.keyMap.ForceQuit) {
		return m, tea.Quit
	}

	// Completion popup navigation takes priority while visible.
	if m.showCompletions {
		switch msg.String() {
		case "tab", "down":
			m.completionState.Next()
			m.popup.Next()
			return m, nil
		case "shift+tab", "up":
			m.completionState.Prev()
			m.popup.Prev()
			return m, nil
		case "enter":
			m.applyCompletion()
			return m, nil
		case "esc":
			m.clearCompletions()
			return m, nil
		}
		// Any other key dismisses the popup and is handled normally.
		m.clearCompletions()
	}

	if m.state != StateReady {
		return m.handleBusyKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.sidebar.Toggle()
		m.relayout()
		return m, nil
	case key.Matches(msg, m.keyMap.NewChat):
		return m.createChat()
	case key.Matches(msg, m.keyMap.SwitchFocus):
		// Tab completes a command in progress; otherwise moves focus.
		if !m.focusSidebar && strings.HasPrefix(m.input.Value(), "/") {
			return m.handleTabCompletion()
		}
		return m.switchFocus()
	}

	if m.focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleBusyKey handles keys while a turn is in flight. The input is
// disabled; only cancel, scrolling, and navigation work.
func (m Model) handleBusyKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.CancelTurn):
		return m.cancelTurn()
	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.sidebar.Toggle()
		m.relayout()
		return m, nil
	case key.Matches(msg, m.keyMap.SwitchFocus):
		return m.switchFocus()
	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}
	if m.focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m, nil
}

// handleSidebarKey drives the chat list.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.SidebarUp):
		m.sidebar.Prev()
		return m, nil
	case key.Matches(msg, m.keyMap.SidebarDown):
		m.sidebar.Next()
		return m, nil
	case key.Matches(msg, m.keyMap.SidebarSelect):
		if m.sidebar.NewChatSelected() {
			return m.createChat()
		}
		if id, ok := m.sidebar.Selected(); ok {
			return m.switchChat(id)
		}
		return m, nil
	case key.Matches(msg, m.keyMap.SidebarNew):
		return m.createChat()
	case msg.String() == "esc":
		return m.switchFocus()
	}
	return m, nil
}

// handleInputKey handles keys while the input is focused and idle.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	case msg.String() == "esc":
		m.input.Reset()
		m.clearCompletions()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// CHAT ACTIONS
// =============================================================================

// createChat starts a fresh chat and focuses the input.
func (m Model) createChat() (Model, tea.Cmd) {
	m.store.CreateChat()
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()

	var cmd tea.Cmd
	if m.state == StateReady {
		m.focusSidebar = false
		m.sidebar.Blur()
		cmd = m.input.Focus()
	}
	return m, cmd
}

// switchChat makes another chat current.
func (m Model) switchChat(id chatstore.ChatID) (Model, tea.Cmd) {
	if !m.store.SetCurrent(id) {
		m.toasts.AddError("No chat with id " + string(id))
		return m, components.ToastTickCmd()
	}
	m.refreshSidebar()
	m.updateViewport()
	m.viewport.GotoBottom()

	var cmd tea.Cmd
	if m.state == StateReady {
		m.focusSidebar = false
		m.sidebar.Blur()
		cmd = m.input.Focus()
	}
	return m, cmd
}

// switchFocus moves focus between the input and the sidebar.
func (m Model) switchFocus() (Model, tea.Cmd) {
	if !m.sidebar.IsVisible() {
		return m, nil
	}
	m.focusSidebar = !m.focusSidebar
	if m.focusSidebar {
		m.sidebar.Focus()
		m.input.Blur()
		return m, nil
	}
	m.sidebar.Blur()
	if m.state == StateReady {
		return m, m.input.Focus()
	}
	return m, nil
}

// cancelTurn asks the active turn to stop. The turn stays in the
// cancelling state until the runner reports back.
func (m Model) cancelTurn() (Model, tea.Cmd) {
	if m.state != StateWaiting && m.state != StateStreaming {
		return m, nil
	}
	m.cancelMgr.cancel()
	restartSpinner := m.state == StateStreaming
	m.state = StateCancelling
	m.statusBar.SetStatus(components.StatusCancelling)
	m.spin.SetMessage("Stopping")
	m.updateViewport()
	if restartSpinner {
		return m, m.spin.Start()
	}
	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize records the terminal size and lays the screen out again.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.relayout()
}

// relayout pushes the current dimensions into the components.
func (m *Model) relayout() {
	if m.width == 0 {
		return
	}
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)

	contentW := m.width - m.sidebar.Width()
	if contentW < 20 {
		contentW = 20
	}
	avail := m.height - headerHeight - inputHeight - statusHeight
	if avail < 1 {
		avail = 1
	}

	m.viewport.Width = contentW
	m.viewport.Height = avail
	m.input.SetWidth(contentW)
	m.msgList.SetWidth(contentW - 2)

	popupW := contentW - 4
	if popupW > 48 {
		popupW = 48
	}
	m.popup.SetWidth(popupW)

	m.sidebar.SetSize(components.DefaultSidebarWidth, avail+inputHeight)
	m.updateViewport()
}

// =============================================================================
// REFRESH HELPERS
// =============================================================================

// refreshSidebar syncs the chat list, header, and status bar counts.
func (m *Model) refreshSidebar() {
	m.sidebar.SetItems(m.store.Chats())
	if c, ok := m.store.CurrentChat(); ok {
		m.header.SetChatTitle(c.DisplayTitle())
		m.header.SetThreadID(c.ThreadID)
		m.statusBar.SetChatTitle(c.DisplayTitle())
		m.statusBar.SetMessageCount(len(c.Messages))
	}
}

// updateViewport rebuilds the transcript for the current chat. The
// view sticks to the bottom unless the user scrolled away.
func (m *Model) updateViewport() {
	wasAtBottom := m.viewport.AtBottom()
	currentID := m.store.CurrentID()

	var content string
	if c, ok := m.store.CurrentChat(); ok && len(c.Messages) > 0 {
		m.msgList.SetMessages(c.Messages)
		m.msgList.SetStreamingLast(m.state == StateStreaming && m.replyOpen && c.ID == m.turnChatID)
		content = m.msgList.View()
	} else {
		content = m.renderEmptyState()
	}

	if (m.state == StateWaiting || m.state == StateCancelling) && currentID == m.turnChatID {
		content += "\n" + m.spin.View()
	}

	m.viewport.SetContent(content)
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

// endpointLabel shortens a base URL for the status bar.
func endpointLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
