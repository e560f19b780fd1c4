// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helper functions used across multiple CLI commands.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/threadline/internal/auth"
)

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// promptInput prompts the user for a line of input.
func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// promptConfirm asks a yes/no question and returns true for yes.
// Anything other than "y" or "yes" is a no.
func promptConfirm(prompt string) bool {
	answer := strings.ToLower(promptInput(prompt + " [y/N]: "))
	return answer == "y" || answer == "yes"
}

// promptPassword reads a password without echoing it. The returned
// bytes should be zeroed with auth.ZeroBytes once hashed.
func promptPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// promptNewPassword reads a password twice and verifies both entries
// match. The confirmation copy is zeroed before returning.
func promptNewPassword() (string, error) {
	pw, err := promptPassword("Password: ")
	if err != nil {
		return "", err
	}
	defer auth.ZeroBytes(pw)

	if len(pw) < auth.MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	defer auth.ZeroBytes(confirm)

	if string(pw) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(pw), nil
}

// printKV prints an aligned label/value row.
func printKV(label, value string) {
	fmt.Printf("%s %s\n", RenderLabel(label), ValueStyle.Render(value))
}
