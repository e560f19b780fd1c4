// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// credentials.go - Credential provisioning and storage.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/threadline/internal/config"
)

// CredentialsFile is the filename under the config directory.
const CredentialsFile = "credentials.toml"

// TOTPIssuer labels enrolled accounts in authenticator apps.
const TOTPIssuer = "threadline"

// =============================================================================
// CREDENTIALS
// =============================================================================

// Credentials is the on-disk account record. The password is stored only
// as a salted PBKDF2 hash; hex fields keep the TOML file greppable.
type Credentials struct {
	Username     string    `toml:"username"`
	PasswordHash string    `toml:"password_hash"`
	Salt         string    `toml:"salt"`
	Iterations   int       `toml:"iterations"`
	TOTPSecret   string    `toml:"totp_secret,omitempty"`
	CreatedAt    time.Time `toml:"created_at"`
}

// VerifyPassword reports whether the password matches the stored hash.
// The comparison is constant-time.
func (c *Credentials) VerifyPassword(password string) bool {
	salt, err := hex.DecodeString(c.Salt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(c.PasswordHash)
	if err != nil {
		return false
	}

	got := HashPassword(password, salt, c.Iterations)
	defer ZeroBytes(got)

	return subtle.ConstantTimeCompare(got, want) == 1
}

// =============================================================================
// PROVISIONING
// =============================================================================

// GenerateSalt returns a fresh random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Provision builds a credential record for a new account. It does not
// write anything; pair with SaveCredentials.
func Provision(username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username required")
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}

	hash := HashPassword(password, salt, PBKDF2Iterations)
	defer ZeroBytes(hash)

	return &Credentials{
		Username:     username,
		PasswordHash: hex.EncodeToString(hash),
		Salt:         hex.EncodeToString(salt),
		Iterations:   PBKDF2Iterations,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// EnrollTOTP generates a TOTP secret for the account and records it on
// the credentials. Returns the secret and the otpauth:// URL for
// authenticator apps. Pair with SaveCredentials.
func EnrollTOTP(creds *Credentials) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: creds.Username,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	creds.TOTPSecret = key.Secret()
	return key.Secret(), key.URL(), nil
}

// =============================================================================
// STORAGE
// =============================================================================

// CredentialsPath returns the path to the credentials file.
func CredentialsPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CredentialsFile), nil
}

// Provisioned reports whether a credentials file exists.
func Provisioned() bool {
	path, err := CredentialsPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// LoadCredentials loads the credentials file from the config directory.
// Returns ErrNotProvisioned when the file does not exist.
func LoadCredentials() (*Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}
	return LoadCredentialsFrom(path)
}

// LoadCredentialsFrom loads a credentials file from a specific path.
// SECURITY: Checks and fixes file permissions on load.
func LoadCredentialsFrom(path string) (*Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotProvisioned
		}
		return nil, err
	}

	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if creds.Username == "" || creds.PasswordHash == "" || creds.Salt == "" {
		return nil, errors.New("credentials file is incomplete: run 'threadline auth setup' again")
	}
	if creds.Iterations <= 0 {
		creds.Iterations = PBKDF2Iterations
	}

	return &creds, nil
}

// SaveCredentials writes the credentials file to the config directory.
func SaveCredentials(creds *Credentials) error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	return SaveCredentialsTo(creds, path)
}

// SaveCredentialsTo writes a credentials file to a specific path.
// SECURITY: Creates the file with 0600 permissions (owner read/write only).
func SaveCredentialsTo(creds *Credentials, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set credentials file permissions: %w", err)
	}

	fmt.Fprintln(file, "# threadline credentials file")
	fmt.Fprintln(file, "# Generated by 'threadline auth setup' - do not edit")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

// ensureSecurePermissions checks and fixes permissions on the file.
// SECURITY: Credential files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}
