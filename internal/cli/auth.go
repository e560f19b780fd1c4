// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Local login management commands for the threadline CLI.
//
// CLI: Comprehensive help and examples for all commands
//
// The TUI is gated behind a local login when auth.required is set.
// These commands provision and inspect the credentials file; the
// password is stored only as a salted PBKDF2 hash, with an optional
// TOTP second factor.
//
// Command: auth <subcommand>
// Short:   Local login management
//
// Subcommands:
//   setup          Create the local login (username + password)
//   enroll-totp    Add a TOTP second factor
//   status         Show provisioning state
//
// Examples:
//   threadline auth setup
//   threadline auth enroll-totp
//   threadline auth status
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/threadline/internal/auth"
)

// authSubcommands lists the valid auth subcommands for usage errors.
var authSubcommands = []string{"setup", "enroll-totp", "status"}

// HandleAuth dispatches the auth subcommands.
func HandleAuth(args Args) error {
	switch args.Subcommand {
	case "setup":
		return authSetup()
	case "enroll-totp":
		return authEnrollTOTP()
	case "status", "":
		return authStatus()
	default:
		return ErrUnknownSubcommand("auth", args.Subcommand, authSubcommands)
	}
}

// =============================================================================
// SETUP
// =============================================================================

// authSetup provisions the local login interactively.
func authSetup() error {
	if err := RequiresTTY("provision credentials"); err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("threadline auth setup"))

	if auth.Provisioned() {
		fmt.Println(WarningStyle.Render("Credentials already exist."))
		if !promptConfirm("Overwrite and start over?") {
			fmt.Println("Aborted.")
			return nil
		}
		fmt.Println()
	}

	username := promptInput("Username: ")
	if strings.TrimSpace(username) == "" {
		return &UsageError{Reason: "username required"}
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}

	creds, err := auth.Provision(username, password)
	if err != nil {
		return WrapError(err, "provision credentials")
	}

	if err := auth.SaveCredentials(creds); err != nil {
		return WrapError(err, "save credentials")
	}

	path, _ := auth.CredentialsPath()
	fmt.Println()
	fmt.Printf("%s login created for %s\n", RenderStatus("ok"), ValueStyle.Render(creds.Username))
	fmt.Println(DimStyle.Render("Saved to " + path))
	fmt.Println(DimStyle.Render("Add a second factor with: threadline auth enroll-totp"))
	return nil
}

// =============================================================================
// TOTP ENROLLMENT
// =============================================================================

// authEnrollTOTP generates a TOTP secret for the provisioned account
// and saves it after the user confirms a code from their authenticator.
func authEnrollTOTP() error {
	if err := RequiresTTY("enroll TOTP"); err != nil {
		return err
	}

	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("threadline auth enroll-totp"))

	if creds.TOTPSecret != "" {
		fmt.Println(WarningStyle.Render("A TOTP secret is already enrolled."))
		if !promptConfirm("Replace it? Existing authenticator entries stop working.") {
			fmt.Println("Aborted.")
			return nil
		}
		fmt.Println()
	}

	secret, url, err := auth.EnrollTOTP(creds)
	if err != nil {
		return err
	}

	fmt.Println("Add this account to your authenticator app:")
	fmt.Println()
	printKV("Secret", secret)
	printKV("URL", url)
	fmt.Println()

	// Prove the enrollment works before persisting it; a mistyped
	// secret would otherwise lock the account out.
	code := promptInput("Enter a code from the app to confirm: ")
	if !totp.Validate(strings.TrimSpace(code), secret) {
		return errors.New("code did not match; TOTP was not enabled")
	}

	if err := auth.SaveCredentials(creds); err != nil {
		return WrapError(err, "save credentials")
	}

	fmt.Println()
	fmt.Printf("%s TOTP enabled for %s\n", RenderStatus("ok"), ValueStyle.Render(creds.Username))
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

// authStatus shows the provisioning state.
func authStatus() error {
	fmt.Println(TitleStyle.Render("threadline auth status"))

	path, _ := auth.CredentialsPath()

	if !auth.Provisioned() {
		printKV("Provisioned", "no")
		fmt.Println()
		fmt.Println(DimStyle.Render("Create a login with: threadline auth setup"))
		return nil
	}

	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}

	totpState := "no"
	if creds.TOTPSecret != "" {
		totpState = "yes"
	}

	printKV("Provisioned", "yes")
	printKV("Username", creds.Username)
	printKV("TOTP enabled", totpState)
	printKV("Created", creds.CreatedAt.Format("2006-01-02 15:04 MST"))
	printKV("File", path)
	return nil
}
