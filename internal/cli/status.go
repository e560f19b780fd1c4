// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for threadline.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: status
// Short:   Connection probe and config summary
// Aliases: s
//
// Examples:
//   threadline status
//   threadline s
//
// Exits non-zero when the connection probe fails, so scripts can gate
// on reachability.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/threadline/internal/auth"
	"github.com/jeranaias/threadline/internal/config"
)

// statusProbeTimeout bounds the connection probe; status should answer
// quickly even when the API hangs.
const statusProbeTimeout = 5 * time.Second

// HandleStatus prints a config summary and probes the API.
func HandleStatus(args Args) error {
	cfg := config.Global()

	fmt.Println(TitleStyle.Render("threadline status"))

	assistantID := cfg.Assistant.ID
	if assistantID == "" {
		assistantID = "(not set)"
	}

	idleLock := "disabled"
	if cfg.IdleTimeout() > 0 {
		idleLock = formatDuration(cfg.IdleTimeout())
	}

	authRequired := "no"
	if cfg.Auth.Required {
		authRequired = "yes"
	}

	provisioned := "no"
	if auth.Provisioned() {
		provisioned = "yes"
	}

	printKV("Endpoint", cfg.API.BaseURL)
	printKV("Assistant", assistantID)
	printKV("API key", cfg.MaskedKey())
	printKV("Poll interval", formatDuration(cfg.PollInterval()))
	printKV("Stream delay", formatDuration(cfg.CharDelay()))
	printKV("Auth required", authRequired)
	printKV("Login provisioned", provisioned)
	printKV("Idle lock", idleLock)
	fmt.Println()

	// Probe last so the summary prints even when the API is down.
	client := newAssistantClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()

	start := time.Now()
	if err := client.Connect(ctx); err != nil {
		fmt.Printf("%s %v\n", RenderStatus("fail"), err)
		return errors.New("connection probe failed")
	}

	fmt.Printf("%s connected in %s\n", RenderStatus("ok"), formatDuration(time.Since(start)))
	return nil
}
