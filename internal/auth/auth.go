// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the local login gate for threadline.
//
// Credentials are provisioned with 'threadline auth setup' and stored as a
// salted PBKDF2-SHA-256 hash; no password or default account ships with the
// binary. TOTP can be enrolled as a second factor. Repeated failures lock
// the account for a cooldown window.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
	// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256 to provide adequate
	// resistance against brute-force attacks with modern hardware.
	PBKDF2Iterations = 600000

	// SaltSize is the size of the password salt in bytes.
	SaltSize = 32

	// HashSize is the size of the derived password hash in bytes.
	HashSize = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// DefaultMaxAttempts is the number of consecutive failed logins
	// before the account locks.
	DefaultMaxAttempts = 5

	// DefaultLockoutDuration is how long a locked account stays locked.
	DefaultLockoutDuration = 5 * time.Minute
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotProvisioned indicates no credentials file exists yet.
	ErrNotProvisioned = errors.New("no credentials configured: run 'threadline auth setup'")

	// ErrBadCredentials indicates the username/password pair did not match.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrCodeRequired indicates TOTP is enrolled and a code must be supplied.
	ErrCodeRequired = errors.New("verification code required")

	// ErrBadCode indicates the supplied TOTP code did not validate.
	ErrBadCode = errors.New("invalid verification code")

	// ErrLockedOut indicates too many failed attempts; try again later.
	ErrLockedOut = errors.New("too many failed attempts: account temporarily locked")
)

// =============================================================================
// HASHING
// =============================================================================

// ZeroBytes securely zeros sensitive byte slices to prevent memory disclosure.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// HashPassword derives a password hash using PBKDF2-SHA-256.
func HashPassword(password string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = PBKDF2Iterations
	}
	return pbkdf2.Key([]byte(password), salt, iterations, HashSize, sha256.New)
}

// =============================================================================
// ATTEMPT TRACKING
// =============================================================================

// attemptRecord tracks consecutive failed logins for one username.
// State is in-memory only; a restart clears it.
type attemptRecord struct {
	count       int
	lockedUntil time.Time
}

func (a *attemptRecord) locked() bool {
	return time.Now().Before(a.lockedUntil)
}

// =============================================================================
// VERIFIER
// =============================================================================

// Verifier checks login attempts against the provisioned credentials.
// It is safe for concurrent use.
type Verifier struct {
	mu              sync.Mutex
	creds           *Credentials
	attempts        map[string]*attemptRecord
	maxAttempts     int
	lockoutDuration time.Duration
}

// VerifierOption is a functional option for configuring a Verifier.
type VerifierOption func(*Verifier)

// WithMaxAttempts sets the number of failed attempts before lockout.
func WithMaxAttempts(max int) VerifierOption {
	return func(v *Verifier) {
		if max > 0 {
			v.maxAttempts = max
		}
	}
}

// WithLockoutDuration sets how long a lockout lasts.
func WithLockoutDuration(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		if d > 0 {
			v.lockoutDuration = d
		}
	}
}

// NewVerifier creates a verifier for the given credentials.
func NewVerifier(creds *Credentials, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		creds:           creds,
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     DefaultMaxAttempts,
		lockoutDuration: DefaultLockoutDuration,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// LoadVerifier loads the credentials file and wraps it in a verifier.
// Returns ErrNotProvisioned when no credentials exist yet.
func LoadVerifier(opts ...VerifierOption) (*Verifier, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return nil, err
	}
	return NewVerifier(creds, opts...), nil
}

// Username returns the provisioned username.
func (v *Verifier) Username() string {
	return v.creds.Username
}

// TOTPEnabled reports whether a second factor is enrolled.
func (v *Verifier) TOTPEnabled() bool {
	return v.creds.TOTPSecret != ""
}

// Verify checks a login attempt. The code argument is the TOTP code and
// may be empty when no second factor is enrolled.
//
// A missing code on a TOTP-enrolled account returns ErrCodeRequired
// without counting as a failed attempt; the password already matched.
func (v *Verifier) Verify(username, password, code string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if rec, ok := v.attempts[username]; ok && rec.locked() {
		return ErrLockedOut
	}

	// Compare both fields unconditionally so a bad username costs the
	// same time as a bad password.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.creds.Username)) == 1
	passOK := v.creds.VerifyPassword(password)
	if !userOK || !passOK {
		v.recordFailure(username)
		return ErrBadCredentials
	}

	if v.creds.TOTPSecret != "" {
		if code == "" {
			return ErrCodeRequired
		}
		if !totp.Validate(code, v.creds.TOTPSecret) {
			v.recordFailure(username)
			return ErrBadCode
		}
	}

	delete(v.attempts, username)
	return nil
}

// recordFailure bumps the failure count and locks on the threshold.
// Caller holds v.mu.
func (v *Verifier) recordFailure(username string) {
	rec, ok := v.attempts[username]
	if !ok {
		rec = &attemptRecord{}
		v.attempts[username] = rec
	}

	rec.count++
	if rec.count >= v.maxAttempts {
		rec.lockedUntil = time.Now().Add(v.lockoutDuration)
		rec.count = 0
	}
}

// Locked reports whether the username is locked out, and for how much
// longer. Used for the login screen message.
func (v *Verifier) Locked(username string) (bool, time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rec, ok := v.attempts[username]
	if !ok || !rec.locked() {
		return false, 0
	}
	return true, time.Until(rec.lockedUntil)
}

// Reset clears the attempt history for a username.
func (v *Verifier) Reset(username string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.attempts, username)
}
