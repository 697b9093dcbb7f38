// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"sync"

	"github.com/jeranaias/chatsync/internal/model"
)

// =============================================================================
// ATTACHMENT CACHE
// =============================================================================

// AttachmentCache holds the per-conversation attachment items and their
// indexing lifecycle state.
type AttachmentCache struct {
	mu    sync.RWMutex
	items map[string][]model.AttachmentItem
}

// NewAttachmentCache creates an empty attachment cache.
func NewAttachmentCache() *AttachmentCache {
	return &AttachmentCache{
		items: make(map[string][]model.AttachmentItem),
	}
}

// Get returns a snapshot of the conversation's attachment items. ok is false
// when the conversation has never been populated.
func (c *AttachmentCache) Get(conversationID string) ([]model.AttachmentItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.items[conversationID]
	if !ok {
		return nil, false
	}
	return append([]model.AttachmentItem(nil), items...), true
}

// Append adds one item to the conversation's list.
func (c *AttachmentCache) Append(conversationID string, item model.AttachmentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.items[conversationID]
	updated := make([]model.AttachmentItem, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, item)
	c.items[conversationID] = updated
}

// SetAll replaces the conversation's list wholesale. Used for the first load.
func (c *AttachmentCache) SetAll(conversationID string, items []model.AttachmentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[conversationID] = append([]model.AttachmentItem(nil), items...)
}

// Delete filters out the attachment with the given id.
func (c *AttachmentCache) Delete(conversationID, attachmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.items[conversationID]
	updated := make([]model.AttachmentItem, 0, len(current))
	for _, item := range current {
		if item.Attachment.ID == attachmentID {
			continue
		}
		updated = append(updated, item)
	}
	c.items[conversationID] = updated
}

// UpdateStatus looks up the attachment by the remote record's id and rewrites
// both the wrapper status and the embedded record. Panics on an unrecognized
// remote status string (contract violation, see model.ParseAttachmentStatus).
// No-op when the id is absent.
func (c *AttachmentCache) UpdateStatus(conversationID string, remote model.Attachment) {
	status := model.ParseAttachmentStatus(remote.Status)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rewriteLocked(conversationID, remote.ID, func(item *model.AttachmentItem) {
		item.Status = status
		item.Attachment.Status = remote.Status
	})
}

// ReconcilePendingID is UpdateStatus for the optimistic-upload path: it
// matches by the client-generated temporary id and additionally rewrites the
// id field to the server-issued one.
func (c *AttachmentCache) ReconcilePendingID(conversationID, tempID string, remote model.Attachment) {
	status := model.ParseAttachmentStatus(remote.Status)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rewriteLocked(conversationID, tempID, func(item *model.AttachmentItem) {
		item.Status = status
		item.Attachment.ID = remote.ID
		item.Attachment.Status = remote.Status
	})
}

// rewriteLocked applies fn to a copy of the item whose embedded record id
// matches, writing back a fresh slice. Caller must hold c.mu.
func (c *AttachmentCache) rewriteLocked(conversationID, matchID string, fn func(*model.AttachmentItem)) {
	current := c.items[conversationID]
	for i, item := range current {
		if item.Attachment.ID != matchID {
			continue
		}

		fn(&item)
		updated := make([]model.AttachmentItem, len(current))
		copy(updated, current)
		updated[i] = item
		c.items[conversationID] = updated
		return
	}
}

// Reset discards all cached attachment lists.
func (c *AttachmentCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]model.AttachmentItem)
}
