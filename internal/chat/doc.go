// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the in-memory conversation store for threadline.
//
// A Chat is a local transcript (user and assistant messages) plus the id
// of the remote thread it is bound to. Chats live for the lifetime of the
// process; nothing is persisted to disk.
//
// # Key Types
//
//   - Store: mutex-protected collection of chats with a current-chat pointer
//   - Chat: a single conversation with title, messages, and thread binding
//   - Message: one transcript entry with role, content, and timestamp
//
// # Usage
//
// Create a store, open a chat, and append messages:
//
//	store := chat.NewStore()
//	id := store.CreateChat()
//	store.AppendMessage(id, chat.Message{Role: chat.RoleUser, Content: "hi"})
//	store.UpdateTitle(id, "hi")
//
// Accessors return copies, so snapshots can be read without holding any
// lock while background goroutines append to the same chat.
package chat
