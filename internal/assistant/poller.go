// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// poller.go - Blocking run-status wait with fixed-rate polling.
package assistant

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// RUN STATE
// =============================================================================

// RunState is the local lifecycle of one submitted turn, as observed by
// the poller. It is coarser than RunStatus: every provider status the
// client does not recognize collapses into StateUnknown.
type RunState int

const (
	// StateIdle - no run in flight.
	StateIdle RunState = iota

	// StateSubmitted - run created, first status check pending.
	StateSubmitted

	// StateQueued - provider has the run queued.
	StateQueued

	// StateInProgress - provider is executing the run.
	StateInProgress

	// StateCompleted - run finished; a reply is ready to fetch.
	StateCompleted

	// StateFailed - run failed, or a status check could not be made.
	StateFailed

	// StateUnknown - provider reported a status the client does not
	// handle. Treated as a failure.
	StateUnknown

	// StateCancelled - the local cancellation token fired.
	StateCancelled
)

// String returns the state name for status displays.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateQueued:
		return "queued"
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateUnknown:
		return "unknown"
	case StateCancelled:
		return "cancelled"
	}
	return "invalid"
}

// Terminal reports whether the state ends a turn.
func (s RunState) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateUnknown, StateCancelled:
		return true
	}
	return false
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is the result of waiting on a run.
//
// Err is non-nil only when a status check itself failed (transport or
// API error); a run the provider reports as failed has StateFailed with
// Err nil and the provider detail in Detail.
type Outcome struct {
	State  RunState
	Detail string
	Err    error
}

// =============================================================================
// POLLER
// =============================================================================

// MinPollInterval is the floor for the poll cadence.
const MinPollInterval = 100 * time.Millisecond

// DefaultPollInterval matches the provider's queue latency reasonably
// without hammering the status endpoint.
const DefaultPollInterval = 2 * time.Second

// Poller waits for a run to reach a terminal status by checking it at a
// fixed, configurable cadence. The cadence is a deliberate throttle on
// status checks, not a timeout: the wait itself is unbounded and only a
// terminal status or the cancellation token ends it.
type Poller struct {
	client   *Client
	interval time.Duration
}

// NewPoller creates a poller. Intervals below MinPollInterval are
// clamped; zero selects DefaultPollInterval.
func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval == 0 {
		interval = DefaultPollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}
	return &Poller{client: client, interval: interval}
}

// Interval returns the configured poll cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the run reaches a terminal state or ctx is
// cancelled. Each iteration checks the cancellation token FIRST, then
// takes a token from the fixed-rate limiter (the first token is
// immediate, every later one is spaced by the interval), then retrieves
// the run status.
//
// Cancellation is not an error: it yields StateCancelled with Err nil.
// A status check failure yields StateFailed with Err set, which callers
// record as the turn's last error.
func (p *Poller) Wait(ctx context.Context, threadID, runID string) Outcome {
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)

	for {
		if ctx.Err() != nil {
			return Outcome{State: StateCancelled}
		}

		if err := limiter.Wait(ctx); err != nil {
			// Context fired while throttled.
			return Outcome{State: StateCancelled}
		}

		run, err := p.client.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{State: StateCancelled}
			}
			return Outcome{State: StateFailed, Detail: "status check failed", Err: err}
		}

		switch run.Status {
		case StatusQueued, StatusInProgress:
			// Still working; next iteration waits out the interval.

		case StatusCompleted:
			return Outcome{State: StateCompleted}

		case StatusFailed:
			detail := "run failed"
			if run.LastError != nil {
				detail = run.LastError.Code + ": " + run.LastError.Message
			}
			return Outcome{State: StateFailed, Detail: detail}

		default:
			// Everything else (cancelled, expired, requires_action,
			// incomplete, or statuses added after this client was
			// written) is not something this client can finish.
			return Outcome{
				State:  StateUnknown,
				Detail: "unexpected run status: " + string(run.Status),
			}
		}
	}
}
