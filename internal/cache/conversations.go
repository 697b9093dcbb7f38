// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"sync"

	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/pagination"
)

// =============================================================================
// CONVERSATION LIST CACHE
// =============================================================================

// ConversationListCache holds the paginated list of conversation summaries
// shown in the side bar. Uniqueness is by conversation id; newly created
// conversations are prepended.
type ConversationListCache struct {
	mu     sync.RWMutex
	list   pagination.Page[model.Conversation]
	loaded bool
}

// NewConversationListCache creates an empty conversation list cache.
func NewConversationListCache() *ConversationListCache {
	return &ConversationListCache{}
}

// Get returns a snapshot of the cached list. ok is false until the first Set.
func (c *ConversationListCache) Get() (pagination.Page[model.Conversation], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Clone(), c.loaded
}

// Contains reports whether a conversation id is present in the cached list.
func (c *ConversationListCache) Contains(conversationID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, conv := range c.list.Data {
		if conv.ID == conversationID {
			return true
		}
	}
	return false
}

// Append prepends a conversation if its id is absent; no-op otherwise. The
// id guard protects against double insertion when an optimistic creation
// races a background refresh.
func (c *ConversationListCache) Append(conversation model.Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.list.Data {
		if existing.ID == conversation.ID {
			return
		}
	}

	data := make([]model.Conversation, 0, len(c.list.Data)+1)
	data = append(data, conversation)
	data = append(data, c.list.Data...)
	c.list = pagination.MakePage(data, c.list.NextCursor)
}

// Update overwrites the fields of the conversation with a matching id; no-op
// when the id is absent.
func (c *ConversationListCache) Update(conversation model.Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.list.Data {
		if existing.ID != conversation.ID {
			continue
		}
		data := make([]model.Conversation, len(c.list.Data))
		copy(data, c.list.Data)
		data[i] = conversation
		c.list = pagination.MakePage(data, c.list.NextCursor)
		return
	}
}

// Delete filters out the conversation with the given id.
func (c *ConversationListCache) Delete(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := make([]model.Conversation, 0, len(c.list.Data))
	for _, conv := range c.list.Data {
		if conv.ID == conversationID {
			continue
		}
		data = append(data, conv)
	}
	c.list = pagination.MakePage(data, c.list.NextCursor)
}

// Set replaces the list wholesale. Used for the first load.
func (c *ConversationListCache) Set(page pagination.Page[model.Conversation]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = page.Clone()
	c.loaded = true
}

// AppendPage tail-appends an older page and adopts its cursor. Used for
// infinite scroll toward older conversations.
func (c *ConversationListCache) AppendPage(page pagination.Page[model.Conversation]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = c.list.Append(page)
}

// Reset discards the cached list.
func (c *ConversationListCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = pagination.Empty[model.Conversation]()
	c.loaded = false
}
