// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Typed errors for the assistant client.
package assistant

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the assistant client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeNotFound
	ErrTypeRateLimited
	ErrTypeServer
	ErrTypeBadRequest
	ErrTypeInvalidResponse
	ErrTypeNoResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "assistant API is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrAuth        = &ClientError{Type: ErrTypeAuth, Message: "API key was rejected"}
	ErrNoResponse  = &ClientError{Type: ErrTypeNoResponse, Message: "thread has no assistant reply"}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConnectionError reports whether err is a transport-level failure.
func IsConnectionError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeConnection
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTimeout
}

// IsAuthError reports whether err means the API key was rejected.
func IsAuthError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeAuth
}

// IsNotFound reports whether err is a missing resource (assistant,
// thread, or run id unknown to the provider).
func IsNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeNotFound
}

// IsRateLimited reports whether the provider throttled the request.
func IsRateLimited(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeRateLimited
}

// IsNoResponse reports whether a completed thread held no assistant
// reply to fetch.
func IsNoResponse(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeNoResponse
}
