// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides idle tracking and the automatic screen lock.
package session

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 15*time.Minute {
		t.Errorf("Default Timeout = %v, want 15m", cfg.Timeout)
	}
	if cfg.WarningBefore != 2*time.Minute {
		t.Errorf("Default WarningBefore = %v, want 2m", cfg.WarningBefore)
	}
}

// =============================================================================
// MANAGER CREATION TESTS
// =============================================================================

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	// Check session ID format
	if !strings.HasPrefix(m.SessionID(), "sess_") {
		t.Errorf("SessionID should start with 'sess_', got %q", m.SessionID())
	}

	// Check times are set
	if m.StartTime().IsZero() {
		t.Error("StartTime should not be zero")
	}
}

// =============================================================================
// SESSION STATE TESTS
// =============================================================================

func TestManager_SessionID(t *testing.T) {
	m := NewManager(DefaultConfig())
	id1 := m.SessionID()
	id2 := m.SessionID()

	if id1 != id2 {
		t.Error("SessionID should be consistent")
	}
	if id1 == "" {
		t.Error("SessionID should not be empty")
	}
}

func TestManager_IdleTime(t *testing.T) {
	m := NewManager(DefaultConfig())
	time.Sleep(10 * time.Millisecond)

	idle := m.IdleTime()
	if idle < 10*time.Millisecond {
		t.Errorf("IdleTime should be at least 10ms, got %v", idle)
	}

	// Record activity and check idle resets
	m.RecordActivity()
	idle = m.IdleTime()
	if idle > 5*time.Millisecond {
		t.Errorf("IdleTime should be near zero after RecordActivity, got %v", idle)
	}
}

func TestManager_RemainingTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	m := NewManager(cfg)

	remaining := m.RemainingTime()
	if remaining > 100*time.Millisecond || remaining < 90*time.Millisecond {
		t.Errorf("RemainingTime should be close to timeout, got %v", remaining)
	}

	// Wait for timeout
	time.Sleep(110 * time.Millisecond)
	remaining = m.RemainingTime()
	if remaining != 0 {
		t.Errorf("RemainingTime should be 0 after timeout, got %v", remaining)
	}
}

// =============================================================================
// ACTIVITY TRACKING TESTS
// =============================================================================

func TestManager_RecordActivity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.WarningBefore = 20 * time.Millisecond
	m := NewManager(cfg)

	// Wait until warning threshold
	time.Sleep(35 * time.Millisecond)

	// Record activity should reset idle time
	m.RecordActivity()

	remaining := m.RemainingTime()
	if remaining < 40*time.Millisecond {
		t.Errorf("RemainingTime should be near timeout after RecordActivity, got %v", remaining)
	}
}

func TestManager_UnlockResetsWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	cfg.WarningBefore = 90 * time.Millisecond
	m := NewManager(cfg)

	time.Sleep(15 * time.Millisecond)
	if !m.ShouldShowWarning() {
		t.Fatal("Should be in warning zone")
	}

	m.Unlock()
	if m.ShouldShowWarning() {
		t.Error("Unlock should leave the warning zone")
	}
	if m.IsExpired() {
		t.Error("Unlock should reset the idle clock")
	}
}

// =============================================================================
// TIMEOUT TESTS
// =============================================================================

func TestManager_IsExpired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	m := NewManager(cfg)

	if m.IsExpired() {
		t.Error("New session should not be expired")
	}

	time.Sleep(60 * time.Millisecond)

	if !m.IsExpired() {
		t.Error("Session should be expired after timeout")
	}
}

func TestManager_DisabledLockNeverExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	m := NewManager(cfg)

	if m.Enabled() {
		t.Error("Zero timeout should disable the lock")
	}

	time.Sleep(20 * time.Millisecond)

	if m.IsExpired() {
		t.Error("Disabled lock should never expire")
	}
	if m.ShouldShowWarning() {
		t.Error("Disabled lock should never warn")
	}
	if !m.Check() {
		t.Error("Check should stay true with the lock disabled")
	}
	if m.RemainingTime() != 0 {
		t.Error("RemainingTime should be 0 with the lock disabled")
	}
}

func TestManager_ShouldShowWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	cfg.WarningBefore = 30 * time.Millisecond
	m := NewManager(cfg)

	// Should not show warning initially
	if m.ShouldShowWarning() {
		t.Error("Should not show warning initially")
	}

	// Wait until warning threshold (70ms)
	time.Sleep(75 * time.Millisecond)

	if !m.ShouldShowWarning() {
		t.Error("Should show warning after threshold")
	}

	// Calling again should return false (already shown)
	m.mu.Lock()
	m.warningShown = true
	m.mu.Unlock()

	if m.ShouldShowWarning() {
		t.Error("Should not show warning again after already shown")
	}
}

// =============================================================================
// CALLBACK TESTS
// =============================================================================

func TestManager_LockCallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 30 * time.Millisecond
	m := NewManager(cfg)

	called := false
	m.SetLockCallback(func() {
		called = true
	})

	time.Sleep(40 * time.Millisecond)
	m.Check()

	if !called {
		t.Error("Lock callback should have been called")
	}
}

func TestManager_WarningCallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.WarningBefore = 20 * time.Millisecond
	m := NewManager(cfg)

	called := false
	var remainingTime time.Duration
	m.SetWarningCallback(func(remaining time.Duration) {
		called = true
		remainingTime = remaining
	})

	// Wait until warning threshold
	time.Sleep(35 * time.Millisecond)
	m.Check()

	if !called {
		t.Error("Warning callback should have been called")
	}
	if remainingTime <= 0 {
		t.Error("Remaining time should be positive")
	}
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestManager_SetTimeout(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.SetTimeout(5 * time.Minute)

	// Verify by checking remaining time
	remaining := m.RemainingTime()
	if remaining > 5*time.Minute {
		t.Errorf("RemainingTime should be <= 5m after SetTimeout, got %v", remaining)
	}
}

func TestManager_SetWarningTime(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetWarningTime(1 * time.Minute)
	// Just verify no panic - internal state
}

// =============================================================================
// STATUS TESTS
// =============================================================================

func TestManager_GetStatus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	m := NewManager(cfg)

	time.Sleep(10 * time.Millisecond)

	status := m.GetStatus()

	if status.SessionID == "" {
		t.Error("Status.SessionID should not be empty")
	}
	if status.Duration < 10*time.Millisecond {
		t.Error("Status.Duration should be at least 10ms")
	}
	if status.IdleTime < 10*time.Millisecond {
		t.Error("Status.IdleTime should be at least 10ms")
	}
	if status.RemainingTime <= 0 || status.RemainingTime > 100*time.Millisecond {
		t.Error("Status.RemainingTime should be reasonable")
	}
	if !status.LockEnabled {
		t.Error("Status.LockEnabled should be true")
	}
	if status.IsExpired {
		t.Error("Status.IsExpired should be false")
	}
}

func TestManager_GetStatusDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	m := NewManager(cfg)

	status := m.GetStatus()
	if status.LockEnabled {
		t.Error("Status.LockEnabled should be false with zero timeout")
	}
	if status.IsExpired {
		t.Error("Status.IsExpired should be false with zero timeout")
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
	}

	for _, tc := range tests {
		got := FormatDuration(tc.input)
		if got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.SessionID()
				_ = m.Duration()
				_ = m.IdleTime()
				_ = m.RemainingTime()
				_ = m.IsExpired()
				m.RecordActivity()
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// CHECK INTEGRATION TEST
// =============================================================================

func TestManager_Check_Integration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	cfg.WarningBefore = 30 * time.Millisecond
	m := NewManager(cfg)

	warningCalled := false
	lockCalled := false

	m.SetWarningCallback(func(remaining time.Duration) {
		warningCalled = true
	})
	m.SetLockCallback(func() {
		lockCalled = true
	})

	// Initial check - nothing should trigger
	result := m.Check()
	if !result {
		t.Error("Check should return true initially")
	}

	// Wait for warning threshold
	time.Sleep(75 * time.Millisecond)
	m.Check()
	if !warningCalled {
		t.Error("Warning should have been called")
	}

	// Wait for timeout
	time.Sleep(30 * time.Millisecond)
	result = m.Check()
	if result {
		t.Error("Check should return false after timeout")
	}
	if !lockCalled {
		t.Error("Lock should have been called")
	}
}
