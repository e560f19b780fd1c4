// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides idle tracking and the automatic screen lock.
//
// The manager watches the gap since the last user input and relocks the
// UI behind the login gate once the configured idle timeout passes, with
// a warning shortly before.
//
// # Key Types
//
//   - Manager: Idle tracker with lock and warning callbacks
//   - LockMsg: Bubble Tea message when the idle timeout fires
//   - LockWarningMsg: Bubble Tea message shortly before the lock
//
// # Usage
//
// Create a manager with a 15-minute idle timeout:
//
//	mgr := session.NewManager(session.Config{
//	    Timeout:       15 * time.Minute,
//	    WarningBefore: 2 * time.Minute,
//	})
//
// Reset the idle clock on user activity:
//
//	mgr.RecordActivity()
//
// Check if the lock should engage:
//
//	if mgr.IsExpired() {
//	    // Return to the login screen
//	}
//
// A zero timeout disables the idle lock entirely.
package session
