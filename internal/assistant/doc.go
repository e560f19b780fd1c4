// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the HTTP client for the hosted assistant API.
//
// The remote service manages conversation state in threads: the client
// creates a thread per chat, appends user messages to it, starts runs
// against a configured assistant identity, polls run status at a fixed
// cadence, and fetches the completed reply. Replies are re-emitted
// locally one rune at a time by Streamer to give the transcript a typing
// cadence.
//
// # Key Types
//
//   - Client: HTTP client for thread, message, and run operations
//   - Poller: blocking run-status wait with fixed-rate polling
//   - Streamer: cancellable per-rune re-emission of a fetched reply
//   - ClientError: typed errors with sentinel values and errors.As helpers
//
// # Usage
//
// Create a client, bind a thread, and submit a message:
//
//	client := assistant.NewClient(assistant.ClientConfig{APIKey: key, AssistantID: id})
//	if err := client.Connect(ctx); err != nil {
//	    // fatal: bad key, unknown assistant, or unreachable host
//	}
//	threadID, _ := client.EnsureThread(ctx, "")
//	run, err := client.SubmitMessage(ctx, threadID, "hello")
//
// SubmitMessage always attempts to cancel the thread's active runs before
// creating a new one, so a single thread never accumulates concurrent
// runs from this client.
package assistant
