// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// store.go - In-memory chat store.
//
// Holds every chat created during the current process, tracks which one
// is current, and records the remote thread id each chat is bound to.
// There is deliberately no delete operation and no persistence.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TYPES
// =============================================================================

// ChatID uniquely identifies a chat within the store.
type ChatID string

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message typed by the operator.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the remote assistant.
	RoleAssistant Role = "assistant"

	// RoleSystem marks an in-transcript note (command output, notices).
	// System messages are local only and are never sent to the remote
	// thread; chat titling ignores them.
	RoleSystem Role = "system"
)

// Message is a single transcript entry.
type Message struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Chat is one conversation: the local transcript plus the remote thread
// binding. ThreadID is empty until the first message forces thread
// creation on the remote side.
type Chat struct {
	ID        ChatID
	Title     string
	Messages  []Message
	ThreadID  string
	CreatedAt time.Time
}

// DisplayTitle returns the title, or a placeholder for untitled chats.
func (c Chat) DisplayTitle() string {
	if c.Title == "" {
		return "New chat"
	}
	return c.Title
}

// Summary is the sidebar-facing view of a chat.
type Summary struct {
	ID       ChatID
	Title    string
	Messages int
	Current  bool
}

// DisplayTitle returns the title, or a placeholder for untitled chats.
func (s Summary) DisplayTitle() string {
	if s.Title == "" {
		return "New chat"
	}
	return s.Title
}

// =============================================================================
// STORE
// =============================================================================

// Store is the process-wide chat collection. All methods are safe for
// concurrent use; accessors return copies of the stored state.
type Store struct {
	mu      sync.RWMutex
	order   []ChatID
	chats   map[ChatID]*Chat
	current ChatID
}

// NewStore creates an empty store with no current chat.
func NewStore() *Store {
	return &Store{
		chats: make(map[ChatID]*Chat),
	}
}

// CreateChat adds a new untitled chat and makes it the current one.
func (s *Store) CreateChat() ChatID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ChatID(uuid.NewString())
	s.chats[id] = &Chat{
		ID:        id,
		CreatedAt: time.Now(),
	}
	s.order = append(s.order, id)
	s.current = id
	return id
}

// CurrentChat returns a snapshot of the current chat. The second return
// is false when no chat has been created yet.
func (s *Store) CurrentChat() (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[s.current]
	if !ok {
		return Chat{}, false
	}
	return c.snapshot(), true
}

// CurrentID returns the id of the current chat, or "" when none exists.
func (s *Store) CurrentID() ChatID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent switches the current chat. Returns false when the id is
// unknown, in which case the current chat is unchanged.
func (s *Store) SetCurrent(id ChatID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[id]; !ok {
		return false
	}
	s.current = id
	return true
}

// Get returns a snapshot of the chat with the given id.
func (s *Store) Get(id ChatID) (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[id]
	if !ok {
		return Chat{}, false
	}
	return c.snapshot(), true
}

// UpdateTitle derives and sets the chat title from the given text.
// Silently does nothing when the chat is missing.
func (s *Store) UpdateTitle(id ChatID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[id]
	if !ok {
		return
	}
	c.Title = DeriveTitle(text)
}

// AppendMessage appends a message to the chat's transcript. A zero
// CreatedAt is stamped with the current time. Missing chats are ignored.
func (s *Store) AppendMessage(id ChatID, m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[id]
	if !ok {
		return
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	c.Messages = append(c.Messages, m)
}

// AppendToLast appends text to the content of the chat's last message.
// Used for the interrupted marker on a partially streamed reply.
func (s *Store) AppendToLast(id ChatID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[id]
	if !ok || len(c.Messages) == 0 {
		return
	}
	c.Messages[len(c.Messages)-1].Content += text
}

// SetThreadID records the remote thread the chat is bound to.
func (s *Store) SetThreadID(id ChatID, threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.chats[id]; ok {
		c.ThreadID = threadID
	}
}

// ThreadID returns the remote thread id for the chat, or "" when the
// chat is unknown or not yet bound.
func (s *Store) ThreadID(id ChatID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.chats[id]; ok {
		return c.ThreadID
	}
	return ""
}

// Chats returns sidebar summaries in creation order.
func (s *Store) Chats() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		c := s.chats[id]
		out = append(out, Summary{
			ID:       c.ID,
			Title:    c.Title,
			Messages: len(c.Messages),
			Current:  id == s.current,
		})
	}
	return out
}

// Len returns the number of chats in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// snapshot copies the chat so callers can read it without the store lock.
func (c *Chat) snapshot() Chat {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}
