// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides idle tracking and the automatic screen lock.
package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadline/internal/util"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks user activity and decides when the idle lock engages.
type Manager struct {
	mu sync.Mutex

	// Session tracking
	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Lock configuration
	timeout       time.Duration // Zero disables the idle lock
	warningBefore time.Duration
	warningShown  bool

	// Callbacks
	onLock    func()
	onWarning func(remaining time.Duration)
}

// Config holds configuration for the session manager.
type Config struct {
	// Timeout is the idle duration before the lock engages.
	// Zero disables the idle lock.
	Timeout time.Duration

	// WarningBefore is how long before the lock to show the warning
	// (default: 2 minutes).
	WarningBefore time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Minute,
		WarningBefore: 2 * time.Minute,
	}
}

// NewManager creates a new session manager.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		sessionID:     generateSessionID(),
		startTime:     now,
		lastActivity:  now,
		timeout:       cfg.Timeout,
		warningBefore: cfg.WarningBefore,
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the session started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the session has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// RemainingTime returns time until the idle lock engages.
// Returns 0 when the lock is disabled or already due.
func (m *Manager) RemainingTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeout == 0 {
		return 0
	}
	remaining := m.timeout - time.Since(m.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Enabled reports whether the idle lock is active at all.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeout > 0
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity updates the last activity timestamp.
// This should be called on user input or other activity.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warningShown = false
}

// Unlock restarts the idle clock after a successful re-login.
func (m *Manager) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warningShown = false
}

// =============================================================================
// CALLBACKS
// =============================================================================

// SetLockCallback sets the function called when the idle lock engages.
func (m *Manager) SetLockCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLock = fn
}

// SetWarningCallback sets the function called when approaching the lock.
func (m *Manager) SetWarningCallback(fn func(remaining time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWarning = fn
}

// =============================================================================
// TIMEOUT CHECKING
// =============================================================================

// IsExpired returns true if the idle timeout has passed.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeout == 0 {
		return false
	}
	return time.Since(m.lastActivity) >= m.timeout
}

// ShouldShowWarning returns true if the lock warning should be shown.
func (m *Manager) ShouldShowWarning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timeout == 0 || m.warningShown {
		return false
	}

	idle := time.Since(m.lastActivity)
	threshold := m.timeout - m.warningBefore

	return idle >= threshold && idle < m.timeout
}

// Check evaluates session state and triggers appropriate callbacks.
// Returns true if the session is still unlocked, false if the lock
// engaged.
func (m *Manager) Check() bool {
	m.mu.Lock()
	if m.timeout == 0 {
		m.mu.Unlock()
		return true
	}

	expired := time.Since(m.lastActivity) >= m.timeout

	// Check for warning
	shouldWarn := false
	var remaining time.Duration
	if !m.warningShown && !expired {
		idle := time.Since(m.lastActivity)
		threshold := m.timeout - m.warningBefore
		if idle >= threshold {
			shouldWarn = true
			remaining = m.timeout - idle
			m.warningShown = true
		}
	}

	// Get callbacks
	onLock := m.onLock
	onWarning := m.onWarning
	m.mu.Unlock()

	// Execute callbacks outside lock
	if shouldWarn && onWarning != nil {
		onWarning(remaining)
	}

	if expired && onLock != nil {
		onLock()
	}

	return !expired
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// LockWarningMsg indicates the idle lock is about to engage.
type LockWarningMsg struct {
	Remaining time.Duration
}

// LockMsg indicates the idle lock has engaged.
type LockMsg struct{}

// TickCmd returns a command that ticks periodically.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and returns appropriate messages.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	// Check for lock warning
	if m.ShouldShowWarning() {
		remaining := m.RemainingTime()
		cmds = append(cmds, func() tea.Msg {
			return LockWarningMsg{Remaining: remaining}
		})
		m.mu.Lock()
		m.warningShown = true
		m.mu.Unlock()
	}

	// Check for lock
	if m.IsExpired() {
		cmds = append(cmds, func() tea.Msg {
			return LockMsg{}
		})
	}

	// Continue ticking
	cmds = append(cmds, TickCmd())

	return tea.Batch(cmds...)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetTimeout updates the idle timeout duration.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// SetWarningTime updates when to show the lock warning.
func (m *Manager) SetWarningTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warningBefore = d
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + formatTimestamp(time.Now())
}

// formatTimestamp formats a time for use in IDs.
func formatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID     string
	StartTime     time.Time
	Duration      time.Duration
	IdleTime      time.Duration
	RemainingTime time.Duration
	LockEnabled   bool
	IsExpired     bool
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	idle := now.Sub(m.lastActivity)
	remaining := time.Duration(0)
	expired := false
	if m.timeout > 0 {
		remaining = m.timeout - idle
		if remaining < 0 {
			remaining = 0
		}
		expired = idle >= m.timeout
	}

	return Status{
		SessionID:     m.sessionID,
		StartTime:     m.startTime,
		Duration:      now.Sub(m.startTime),
		IdleTime:      idle,
		RemainingTime: remaining,
		LockEnabled:   m.timeout > 0,
		IsExpired:     expired,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
