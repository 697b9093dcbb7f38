// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"sync"
	"time"

	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/pagination"
	"github.com/jeranaias/chatsync/internal/throttle"
)

// StreamThrottleInterval is how often streamed-token updates may rewrite the
// dialogue tail. Tokens arrive far faster than a terminal needs repainting.
const StreamThrottleInterval = 500 * time.Millisecond

// =============================================================================
// DIALOGUE CACHE
// =============================================================================

// DialogueCache holds the per-conversation dialogue timelines.
//
// Item order within a conversation is append-only chronological; a Loading
// item, when present, is always the tail until replaced by a Response or
// Failure.
type DialogueCache struct {
	mu    sync.RWMutex
	pages map[string]pagination.Page[model.DialogueItem]

	// One throttler per conversation so a busy stream in one conversation
	// cannot clobber the pending delta of another.
	throttlers map[string]*throttle.Throttler[string]
	interval   time.Duration
	clock      throttle.Clock
}

// NewDialogueCache creates an empty dialogue cache using the system clock.
func NewDialogueCache() *DialogueCache {
	return NewDialogueCacheWithClock(throttle.SystemClock{})
}

// NewDialogueCacheWithClock creates a dialogue cache with an explicit clock,
// so streaming throttle behavior is testable without wall-clock delays.
func NewDialogueCacheWithClock(clock throttle.Clock) *DialogueCache {
	return &DialogueCache{
		pages:      make(map[string]pagination.Page[model.DialogueItem]),
		throttlers: make(map[string]*throttle.Throttler[string]),
		interval:   StreamThrottleInterval,
		clock:      clock,
	}
}

// SetThrottleInterval overrides the streaming update interval. Takes effect
// for streams started afterwards; existing throttlers keep their interval.
func (c *DialogueCache) SetThrottleInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
}

// =============================================================================
// READ
// =============================================================================

// Get returns a snapshot of the conversation's cached page. ok is false when
// the conversation has never been populated; the page is then empty. Get
// never triggers network I/O.
func (c *DialogueCache) Get(conversationID string) (pagination.Page[model.DialogueItem], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	page, ok := c.pages[conversationID]
	if !ok {
		return pagination.Empty[model.DialogueItem](), false
	}
	return page.Clone(), true
}

// =============================================================================
// PAGE MUTATIONS
// =============================================================================

// Set replaces the conversation's page wholesale. Used for the first load.
func (c *DialogueCache) Set(conversationID string, page pagination.Page[model.DialogueItem]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[conversationID] = page.Clone()
}

// Prepend merges an older page before the existing items and adopts the
// older page's cursor. Used for infinite scroll into history.
func (c *DialogueCache) Prepend(conversationID string, page pagination.Page[model.DialogueItem]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.pages[conversationID]
	c.pages[conversationID] = current.Prepend(page)
}

// Append adds one item to the tail, preserving the existing cursor. Used for
// the optimistic local echo of a user turn and for the Loading placeholder.
func (c *DialogueCache) Append(conversationID string, item model.DialogueItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.pages[conversationID]
	data := make([]model.DialogueItem, 0, len(current.Data)+1)
	data = append(data, current.Data...)
	data = append(data, item)
	c.pages[conversationID] = pagination.MakePage(data, current.NextCursor)
}

// RemoveLoading strips any Loading item from the page. Idempotent.
func (c *DialogueCache) RemoveLoading(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.pages[conversationID]
	data := make([]model.DialogueItem, 0, len(current.Data))
	for _, item := range current.Data {
		if _, isLoading := item.(model.Loading); isLoading {
			continue
		}
		data = append(data, item)
	}
	c.pages[conversationID] = pagination.MakePage(data, current.NextCursor)
}

// =============================================================================
// STREAMING MUTATIONS
// =============================================================================

// ApplyStreamedResponse replaces the response text of the conversation's last
// item with the accumulated chunk text, throttled to StreamThrottleInterval.
// If the last item is not yet a Response the delta is dropped; callers always
// append the empty Response before streaming begins, so only pre-placeholder
// stragglers are lost.
func (c *DialogueCache) ApplyStreamedResponse(conversationID, chunkText string) {
	c.throttler(conversationID).Call(chunkText)
}

// FlushStream immediately applies any pending streamed text for the
// conversation. Called when the stream completes so the final text never
// waits out the throttle interval.
func (c *DialogueCache) FlushStream(conversationID string) {
	c.mu.Lock()
	th, ok := c.throttlers[conversationID]
	c.mu.Unlock()
	if ok {
		th.Flush()
	}
}

// ApplyStreamedCitations replaces the citations of the last item wholesale if
// it is a Response. Citation events are rare, so they are not throttled.
func (c *DialogueCache) ApplyStreamedCitations(conversationID string, citations []model.Citation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.updateLastResponseLocked(conversationID, func(payload *model.ResponsePayload) {
		payload.Citations = append([]model.Citation(nil), citations...)
	})
}

// throttler returns the conversation's throttler, creating it on first use.
func (c *DialogueCache) throttler(conversationID string) *throttle.Throttler[string] {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.throttlers[conversationID]
	if !ok {
		th = throttle.NewWithClock(func(text string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.updateLastResponseLocked(conversationID, func(payload *model.ResponsePayload) {
				payload.Response = text
			})
		}, c.interval, c.clock)
		c.throttlers[conversationID] = th
	}
	return th
}

// updateLastResponseLocked applies fn to the payload of the last item when
// that item is a Response; otherwise it is a no-op. Caller must hold c.mu.
func (c *DialogueCache) updateLastResponseLocked(conversationID string, fn func(*model.ResponsePayload)) {
	current := c.pages[conversationID]
	if len(current.Data) == 0 {
		return
	}

	last, ok := current.Data[len(current.Data)-1].(model.Response)
	if !ok {
		return
	}

	fn(&last.Response)

	data := make([]model.DialogueItem, len(current.Data))
	copy(data, current.Data)
	data[len(data)-1] = last
	c.pages[conversationID] = pagination.MakePage(data, current.NextCursor)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconcilePlaceholderID rewrites the first user turn still bearing the
// placeholder id to the server-issued id. At most one such turn exists at a
// time (the most recent unconfirmed user turn); no-op when none is found.
func (c *DialogueCache) ReconcilePlaceholderID(conversationID, realID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.pages[conversationID]
	for i, item := range current.Data {
		msg, ok := item.(model.TextRequestMessage)
		if !ok || msg.MessageID != model.MessageIDPlaceholder {
			continue
		}

		msg.MessageID = realID
		data := make([]model.DialogueItem, len(current.Data))
		copy(data, current.Data)
		data[i] = msg
		c.pages[conversationID] = pagination.MakePage(data, current.NextCursor)
		return
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Reset discards all cached pages and stops outstanding throttle timers.
func (c *DialogueCache) Reset() {
	c.mu.Lock()
	throttlers := c.throttlers
	c.pages = make(map[string]pagination.Page[model.DialogueItem])
	c.throttlers = make(map[string]*throttle.Throttler[string])
	c.mu.Unlock()

	// Stop outside the lock: a firing timer re-enters c.mu.
	for _, th := range throttlers {
		th.Stop()
	}
}
