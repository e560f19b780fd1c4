// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for threadline.
//
// Configuration lives in a single TOML file with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Connection settings for the assistant service
//   - PollConfig: Run-status polling cadence
//   - SessionConfig: Idle-lock behavior
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (OPENAI_API_KEY, ASSISTANT_ID, THREADLINE_*)
//   - ~/.threadline/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	interval := cfg.PollInterval()
//	timeout := cfg.IdleTimeout()
package config
