// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the threadline TUI.
package components

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadline/internal/auth"
	"github.com/jeranaias/threadline/internal/ui/styles"
)

// ============================================================================
// LOGIN FORM COMPONENT
// ============================================================================

// LoginSubmitMsg carries the entered credentials to the app model for
// verification.
type LoginSubmitMsg struct {
	Username string
	Password string
	Code     string
}

// LoginForm is the sign-in screen. It collects a username and password,
// plus a TOTP code once the verifier reports one is required. The form
// never checks credentials itself.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	code     textinput.Model

	focusIndex  int
	codeVisible bool

	provisioned bool
	locked      bool
	errMsg      string
	infoMsg     string

	width  int
	height int
	theme  *styles.Theme
}

// NewLoginForm creates the sign-in form.
func NewLoginForm(theme *styles.Theme) *LoginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "> "
	username.CharLimit = 64
	username.Width = 28
	username.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	username.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	username.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.CharLimit = 128
	password.Width = 28
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.PromptStyle = username.PromptStyle
	password.TextStyle = username.TextStyle
	password.PlaceholderStyle = username.PlaceholderStyle

	code := textinput.New()
	code.Placeholder = "000000"
	code.Prompt = "> "
	code.CharLimit = 6
	code.Width = 10
	code.PromptStyle = username.PromptStyle
	code.TextStyle = username.TextStyle
	code.PlaceholderStyle = username.PlaceholderStyle

	return &LoginForm{
		username:    username,
		password:    password,
		code:        code,
		provisioned: true,
		theme:       theme,
	}
}

// SetSize sets the screen dimensions used to center the form.
func (f *LoginForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// SetProvisioned records whether a credentials file exists. When it
// does not, the form shows setup instructions instead of inputs.
func (f *LoginForm) SetProvisioned(provisioned bool) {
	f.provisioned = provisioned
}

// SetTOTPRequired reveals the verification code field up front, for
// accounts known to have TOTP enrolled.
func (f *LoginForm) SetTOTPRequired(required bool) {
	f.codeVisible = required
}

// SetLocked switches the form into the post-idle-lock variant: same
// inputs, but with a banner explaining that the session locked and the
// chats are intact.
func (f *LoginForm) SetLocked(locked bool) {
	f.locked = locked
}

// Locked reports whether the idle-lock banner is shown.
func (f *LoginForm) Locked() bool {
	return f.locked
}

// SetError shows a failure message under the inputs.
func (f *LoginForm) SetError(msg string) {
	f.errMsg = msg
	f.infoMsg = ""
}

// ApplyError maps a verification error onto the form: a code-required
// error reveals the TOTP field, everything else shows as a failure and
// clears the secret fields.
func (f *LoginForm) ApplyError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, auth.ErrCodeRequired) {
		f.codeVisible = true
		f.errMsg = ""
		f.infoMsg = "Enter your verification code"
		f.focusIndex = 2
		f.applyFocus()
		return
	}
	f.errMsg = err.Error()
	f.infoMsg = ""
	f.password.SetValue("")
	f.code.SetValue("")
	f.focusIndex = 1
	f.applyFocus()
}

// Reset clears all fields and messages, keeping the locked state.
func (f *LoginForm) Reset() {
	f.username.SetValue("")
	f.password.SetValue("")
	f.code.SetValue("")
	f.errMsg = ""
	f.infoMsg = ""
	f.focusIndex = 0
	f.applyFocus()
}

// fieldCount returns how many inputs are currently shown.
func (f *LoginForm) fieldCount() int {
	if f.codeVisible {
		return 3
	}
	return 2
}

// applyFocus focuses the active input and blurs the rest.
func (f *LoginForm) applyFocus() {
	inputs := []*textinput.Model{&f.username, &f.password, &f.code}
	for i, in := range inputs {
		if i == f.focusIndex {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// ============================================================================
// UPDATE
// ============================================================================

// Update handles key input: tab and arrows cycle fields, enter on the
// last field submits, and everything else feeds the focused input.
func (f *LoginForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if !f.provisioned {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		f.focusIndex = (f.focusIndex + 1) % f.fieldCount()
		f.applyFocus()
		return nil
	case "shift+tab", "up":
		f.focusIndex--
		if f.focusIndex < 0 {
			f.focusIndex = f.fieldCount() - 1
		}
		f.applyFocus()
		return nil
	case "enter":
		if f.focusIndex < f.fieldCount()-1 {
			f.focusIndex++
			f.applyFocus()
			return nil
		}
		return f.submit()
	case "esc":
		f.errMsg = ""
		return nil
	}

	var cmd tea.Cmd
	switch f.focusIndex {
	case 0:
		f.username, cmd = f.username.Update(msg)
	case 1:
		f.password, cmd = f.password.Update(msg)
	case 2:
		f.code, cmd = f.code.Update(msg)
	}
	return cmd
}

// submit emits the entered credentials.
func (f *LoginForm) submit() tea.Cmd {
	username := strings.TrimSpace(f.username.Value())
	password := f.password.Value()
	code := strings.TrimSpace(f.code.Value())

	if username == "" || password == "" {
		f.errMsg = "Username and password are required"
		return nil
	}

	return func() tea.Msg {
		return LoginSubmitMsg{Username: username, Password: password, Code: code}
	}
}

// ============================================================================
// RENDERING
// ============================================================================

// View renders the centered sign-in screen.
func (f *LoginForm) View() string {
	var box string
	if !f.provisioned {
		box = f.renderSetupHint()
	} else {
		box = f.renderForm()
	}

	if f.locked {
		box = lipgloss.JoinVertical(lipgloss.Center, f.renderLockBanner(), "", box)
	}

	if f.width <= 0 || f.height <= 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}

// renderForm renders the input box.
func (f *LoginForm) renderForm() string {
	var b strings.Builder

	b.WriteString(f.theme.LoginTitle.Render("threadline"))
	b.WriteString("\n")
	b.WriteString(f.theme.LoginHint.Render("Sign in to continue"))
	b.WriteString("\n\n")

	b.WriteString(f.renderLabel("Username", 0))
	b.WriteString("\n")
	b.WriteString(f.username.View())
	b.WriteString("\n\n")

	b.WriteString(f.renderLabel("Password", 1))
	b.WriteString("\n")
	b.WriteString(f.password.View())
	b.WriteString("\n")

	if f.codeVisible {
		b.WriteString("\n")
		b.WriteString(f.renderLabel("Code", 2))
		b.WriteString("\n")
		b.WriteString(f.code.View())
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.LoginError.Render(styles.StatusIndicators.Error + " " + f.errMsg))
		b.WriteString("\n")
	} else if f.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.LoginHint.Render(styles.StatusIndicators.Info + " " + f.infoMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.theme.LoginHint.Render("tab next field  enter sign in"))

	return f.theme.LoginBox.Render(b.String())
}

// renderLabel renders a field label, highlighted when active.
func (f *LoginForm) renderLabel(label string, index int) string {
	if index == f.focusIndex {
		return lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render(label)
	}
	return f.theme.LoginLabel.Render(label)
}

// renderSetupHint renders first-run instructions when no credentials
// file exists.
func (f *LoginForm) renderSetupHint() string {
	var b strings.Builder

	b.WriteString(f.theme.LoginTitle.Render("threadline"))
	b.WriteString("\n\n")
	b.WriteString(f.theme.LoginError.Render(styles.StatusIndicators.Warning + " No credentials configured"))
	b.WriteString("\n\n")
	b.WriteString(f.theme.LoginLabel.Render("Create an account from a shell:"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Cyan).Render("  threadline auth setup"))
	b.WriteString("\n\n")
	b.WriteString(f.theme.LoginHint.Render("then restart to sign in"))

	return f.theme.LoginBox.Render(b.String())
}

// renderLockBanner renders the idle-lock notice shown above the form
// after the session re-locks.
func (f *LoginForm) renderLockBanner() string {
	var b strings.Builder

	b.WriteString(f.theme.LockTitle.Render(styles.StatusIndicators.Warning + " Session Locked"))
	b.WriteString("\n")
	b.WriteString(f.theme.LockText.Render("Locked due to inactivity. Your chats are intact."))
	b.WriteString("\n")
	b.WriteString(f.theme.LockHint.Render("Sign in to pick up where you left off"))

	return f.theme.LockBox.Render(b.String())
}
