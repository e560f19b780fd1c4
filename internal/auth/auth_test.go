// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the local login gate for threadline.
//
// This file contains tests for credential verification:
// - Password hashing and constant-time comparison
// - TOTP second factor
// - Failed-attempt lockout
package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// testCredentials provisions an in-memory account for tests.
func testCredentials(t *testing.T) *Credentials {
	t.Helper()
	creds, err := Provision("operator", "correct horse battery")
	require.NoError(t, err, "Provision should accept a valid account")
	return creds
}

// =============================================================================
// PROVISIONING TESTS
// =============================================================================

// TestProvision_HashesPassword tests that provisioning never stores the
// password itself.
func TestProvision_HashesPassword(t *testing.T) {
	creds := testCredentials(t)

	require.Equal(t, "operator", creds.Username)
	require.NotContains(t, creds.PasswordHash, "correct horse battery")
	require.NotEmpty(t, creds.Salt)
	require.Equal(t, PBKDF2Iterations, creds.Iterations)
	require.Empty(t, creds.TOTPSecret, "TOTP should not be enrolled by default")
	require.False(t, creds.CreatedAt.IsZero())
}

// TestProvision_RejectsWeakInput tests input validation.
func TestProvision_RejectsWeakInput(t *testing.T) {
	_, err := Provision("", "correct horse battery")
	require.Error(t, err, "empty username should be rejected")

	_, err = Provision("operator", "short")
	require.Error(t, err, "short password should be rejected")

	_, err = Provision("   ", "correct horse battery")
	require.Error(t, err, "blank username should be rejected")
}

// TestProvision_UniqueSalts tests that two accounts with the same password
// produce different hashes.
func TestProvision_UniqueSalts(t *testing.T) {
	a, err := Provision("operator", "correct horse battery")
	require.NoError(t, err)
	b, err := Provision("operator", "correct horse battery")
	require.NoError(t, err)

	require.NotEqual(t, a.Salt, b.Salt)
	require.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

// TestCredentials_VerifyPassword tests the stored-hash comparison.
func TestCredentials_VerifyPassword(t *testing.T) {
	creds := testCredentials(t)

	require.True(t, creds.VerifyPassword("correct horse battery"))
	require.False(t, creds.VerifyPassword("correct horse battery "))
	require.False(t, creds.VerifyPassword(""))
}

// TestCredentials_VerifyPasswordCorruptFile tests that mangled hex fields
// fail closed.
func TestCredentials_VerifyPasswordCorruptFile(t *testing.T) {
	creds := testCredentials(t)
	creds.Salt = "not-hex"
	require.False(t, creds.VerifyPassword("correct horse battery"))

	creds = testCredentials(t)
	creds.PasswordHash = "zz"
	require.False(t, creds.VerifyPassword("correct horse battery"))
}

// =============================================================================
// VERIFIER TESTS
// =============================================================================

// TestVerifier_PasswordOnly tests the single-factor login path.
func TestVerifier_PasswordOnly(t *testing.T) {
	v := NewVerifier(testCredentials(t))

	require.NoError(t, v.Verify("operator", "correct horse battery", ""))
	require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	require.ErrorIs(t, v.Verify("admin", "correct horse battery", ""), ErrBadCredentials)
	require.False(t, v.TOTPEnabled())
}

// TestVerifier_TOTP tests the second-factor paths.
func TestVerifier_TOTP(t *testing.T) {
	creds := testCredentials(t)
	secret, url, err := EnrollTOTP(creds)
	require.NoError(t, err)
	require.NotEmpty(t, secret)
	require.Contains(t, url, "otpauth://")
	require.Contains(t, url, "threadline")

	v := NewVerifier(creds)
	require.True(t, v.TOTPEnabled())

	// Password alone is not enough once TOTP is enrolled
	require.ErrorIs(t, v.Verify("operator", "correct horse battery", ""), ErrCodeRequired)

	// Wrong code is rejected
	require.ErrorIs(t, v.Verify("operator", "correct horse battery", "000000"), ErrBadCode)

	// A freshly generated code passes
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, v.Verify("operator", "correct horse battery", code))
}

// TestVerifier_CodeRequiredDoesNotCountAsFailure tests that forgetting the
// code does not burn lockout attempts; the password already matched.
func TestVerifier_CodeRequiredDoesNotCountAsFailure(t *testing.T) {
	creds := testCredentials(t)
	_, _, err := EnrollTOTP(creds)
	require.NoError(t, err)

	v := NewVerifier(creds, WithMaxAttempts(2))

	for i := 0; i < 5; i++ {
		require.ErrorIs(t, v.Verify("operator", "correct horse battery", ""), ErrCodeRequired)
	}

	locked, _ := v.Locked("operator")
	require.False(t, locked, "missing code should not trigger lockout")
}

// TestVerifier_Lockout tests that repeated failures lock the account.
func TestVerifier_Lockout(t *testing.T) {
	v := NewVerifier(testCredentials(t),
		WithMaxAttempts(3),
		WithLockoutDuration(50*time.Millisecond))

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	}

	// Locked now, even with the right password
	require.ErrorIs(t, v.Verify("operator", "correct horse battery", ""), ErrLockedOut)

	locked, remaining := v.Locked("operator")
	require.True(t, locked)
	require.Greater(t, remaining, time.Duration(0))

	// Lockout expires
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, v.Verify("operator", "correct horse battery", ""))
}

// TestVerifier_SuccessResetsAttempts tests that a good login clears the
// failure streak.
func TestVerifier_SuccessResetsAttempts(t *testing.T) {
	v := NewVerifier(testCredentials(t), WithMaxAttempts(3))

	require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	require.NoError(t, v.Verify("operator", "correct horse battery", ""))

	// Two more failures should not lock; the streak restarted
	require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	require.ErrorIs(t, v.Verify("operator", "wrong", ""), ErrBadCredentials)
	locked, _ := v.Locked("operator")
	require.False(t, locked)
}

// TestVerifier_ConcurrentVerify tests that concurrent logins do not race.
// Run with: go test -race -v ./internal/auth/
func TestVerifier_ConcurrentVerify(t *testing.T) {
	v := NewVerifier(testCredentials(t), WithMaxAttempts(1000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = v.Verify("operator", "correct horse battery", "")
		}()
		go func() {
			defer wg.Done()
			_ = v.Verify("operator", "wrong", "")
		}()
	}
	wg.Wait()
}

// =============================================================================
// STORAGE TESTS
// =============================================================================

// TestCredentials_SaveAndLoadRoundTrip tests the credentials file format.
func TestCredentials_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFile)

	creds := testCredentials(t)
	_, _, err := EnrollTOTP(creds)
	require.NoError(t, err)

	require.NoError(t, SaveCredentialsTo(creds, path))

	// Verify permissions
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Verify header comment
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "# threadline credentials file"))

	loaded, err := LoadCredentialsFrom(path)
	require.NoError(t, err)
	require.Equal(t, creds.Username, loaded.Username)
	require.Equal(t, creds.PasswordHash, loaded.PasswordHash)
	require.Equal(t, creds.Salt, loaded.Salt)
	require.Equal(t, creds.TOTPSecret, loaded.TOTPSecret)
	require.True(t, loaded.VerifyPassword("correct horse battery"))
}

// TestLoadCredentialsFrom_MissingFile tests the not-provisioned path.
func TestLoadCredentialsFrom_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFile)

	_, err := LoadCredentialsFrom(path)
	require.ErrorIs(t, err, ErrNotProvisioned)
}

// TestLoadCredentialsFrom_IncompleteFile tests that a truncated file is
// rejected rather than silently accepted.
func TestLoadCredentialsFrom_IncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFile)
	require.NoError(t, os.WriteFile(path, []byte("username = \"operator\"\n"), 0600))

	_, err := LoadCredentialsFrom(path)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotProvisioned)
}

// TestLoadCredentialsFrom_FixesPermissions tests that a world-readable
// credentials file is tightened on load.
func TestLoadCredentialsFrom_FixesPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFile)

	creds := testCredentials(t)
	require.NoError(t, SaveCredentialsTo(creds, path))
	require.NoError(t, os.Chmod(path, 0644))

	_, err := LoadCredentialsFrom(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestZeroBytes tests the sensitive-buffer scrub helper.
func TestZeroBytes(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	ZeroBytes(buf)
	for i, b := range buf {
		require.Zero(t, b, "byte %d should be zeroed", i)
	}
}
