// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/pagination"
	"github.com/jeranaias/chatsync/internal/throttle"
)

func userItem(id, text string) model.DialogueItem {
	return model.NewTextRequestMessage(id, text)
}

// =============================================================================
// READ / PAGE MUTATION TESTS
// =============================================================================

func TestDialogueCache_GetUnpopulated(t *testing.T) {
	c := NewDialogueCache()

	page, ok := c.Get("c1")

	assert.False(t, ok)
	assert.Empty(t, page.Data)
}

func TestDialogueCache_SetThenGet(t *testing.T) {
	c := NewDialogueCache()
	page := pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 123)

	c.Set("c1", page)

	got, ok := c.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, page.Data, got.Data)
	assert.Equal(t, int64(123), got.NextCursor)

	// Other conversations unaffected.
	_, ok = c.Get("c2")
	assert.False(t, ok)
}

func TestDialogueCache_SetLoadedEmptyIsDistinctFromUnloaded(t *testing.T) {
	c := NewDialogueCache()

	c.Set("c1", pagination.Empty[model.DialogueItem]())

	_, ok := c.Get("c1")
	assert.True(t, ok)
}

func TestDialogueCache_Prepend(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m3", "newest")}, 300))

	c.Prepend("c1", pagination.MakePage([]model.DialogueItem{
		userItem("m1", "oldest"),
		userItem("m2", "older"),
	}, 100))

	got, _ := c.Get("c1")
	require.Len(t, got.Data, 3)
	assert.Equal(t, userItem("m1", "oldest"), got.Data[0])
	assert.Equal(t, userItem("m3", "newest"), got.Data[2])
	// Cursor moves in the older direction.
	assert.Equal(t, int64(100), got.NextCursor)
}

func TestDialogueCache_AppendPreservesCursor(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 200))

	c.Append("c1", model.NewLoading())

	got, _ := c.Get("c1")
	require.Len(t, got.Data, 2)
	assert.Equal(t, model.NewLoading(), got.Data[1])
	assert.Equal(t, int64(200), got.NextCursor)
}

func TestDialogueCache_RemoveLoading(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{
		userItem("m1", "hi"),
		model.NewLoading(),
	}, 0))

	c.RemoveLoading("c1")

	got, _ := c.Get("c1")
	assert.Equal(t, []model.DialogueItem{userItem("m1", "hi")}, got.Data)
}

func TestDialogueCache_RemoveLoadingIdempotent(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 55))

	before, _ := c.Get("c1")
	c.RemoveLoading("c1")
	after, _ := c.Get("c1")

	assert.Equal(t, before, after)
}

func TestDialogueCache_GetReturnsSnapshot(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 0))

	got, _ := c.Get("c1")
	got.Data[0] = userItem("mutated", "mutated")

	fresh, _ := c.Get("c1")
	assert.Equal(t, userItem("m1", "hi"), fresh.Data[0])
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestDialogueCache_StreamedResponseDroppedUntilResponseTail(t *testing.T) {
	clock := throttle.NewFakeClock()
	c := NewDialogueCacheWithClock(clock)
	c.Set("c1", pagination.MakePage([]model.DialogueItem{
		userItem("m1", "hello"),
		model.NewLoading(),
	}, 0))

	// Last item is Loading: streamed text must be dropped.
	c.ApplyStreamedResponse("c1", "He")
	clock.Advance(time.Second)

	got, _ := c.Get("c1")
	assert.Equal(t, model.NewLoading(), got.Data[1])
}

// Mirrors the full send-message flow: optimistic echo, loading marker,
// premature chunk, response placeholder, then rapid chunks that coalesce.
func TestDialogueCache_StreamingScenario(t *testing.T) {
	clock := throttle.NewFakeClock()
	c := NewDialogueCacheWithClock(clock)

	c.Append("c1", model.NewTextRequestMessage(model.MessageIDPlaceholder, "hello"))
	c.Append("c1", model.NewLoading())

	clock.Advance(300 * time.Millisecond)
	c.ApplyStreamedResponse("c1", "He") // dropped, tail is Loading

	c.RemoveLoading("c1")
	c.Append("c1", model.NewEmptyResponse("r1"))

	c.ApplyStreamedResponse("c1", "He")
	clock.Advance(100 * time.Millisecond)
	c.ApplyStreamedResponse("c1", "Hello!")
	clock.Advance(StreamThrottleInterval)

	got, _ := c.Get("c1")
	require.Len(t, got.Data, 2)
	resp, ok := got.Data[1].(model.Response)
	require.True(t, ok)
	assert.Equal(t, "Hello!", resp.Response.Response)
	assert.Equal(t, "r1", resp.Response.ID)
}

func TestDialogueCache_FlushStreamAppliesPendingImmediately(t *testing.T) {
	clock := throttle.NewFakeClock()
	c := NewDialogueCacheWithClock(clock)
	c.Set("c1", pagination.MakePage([]model.DialogueItem{model.NewEmptyResponse("r1")}, 0))

	c.ApplyStreamedResponse("c1", "partial")
	c.ApplyStreamedResponse("c1", "final text")
	c.FlushStream("c1")

	got, _ := c.Get("c1")
	resp := got.Data[0].(model.Response)
	assert.Equal(t, "final text", resp.Response.Response)
}

func TestDialogueCache_ThrottlersAreIndependentPerConversation(t *testing.T) {
	clock := throttle.NewFakeClock()
	c := NewDialogueCacheWithClock(clock)
	c.Set("c1", pagination.MakePage([]model.DialogueItem{model.NewEmptyResponse("r1")}, 0))
	c.Set("c2", pagination.MakePage([]model.DialogueItem{model.NewEmptyResponse("r2")}, 0))

	c.ApplyStreamedResponse("c1", "one")
	c.ApplyStreamedResponse("c2", "two")

	p1, _ := c.Get("c1")
	p2, _ := c.Get("c2")
	assert.Equal(t, "one", p1.Data[0].(model.Response).Response.Response)
	assert.Equal(t, "two", p2.Data[0].(model.Response).Response.Response)
}

func TestDialogueCache_ApplyStreamedCitations(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{model.NewEmptyResponse("r1")}, 0))

	citations := []model.Citation{{ID: "ct1", FileName: "a.pdf", PageNumber: 3}}
	c.ApplyStreamedCitations("c1", citations)

	got, _ := c.Get("c1")
	resp := got.Data[0].(model.Response)
	assert.Equal(t, citations, resp.Response.Citations)
}

func TestDialogueCache_ApplyStreamedCitationsNoopOnNonResponseTail(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 0))

	c.ApplyStreamedCitations("c1", []model.Citation{{ID: "ct1"}})

	got, _ := c.Get("c1")
	assert.Equal(t, userItem("m1", "hi"), got.Data[0])
}

// =============================================================================
// RECONCILIATION TESTS
// =============================================================================

func TestDialogueCache_ReconcilePlaceholderID(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{
		userItem("m1", "first"),
		model.NewEmptyResponse("r1"),
		userItem(model.MessageIDPlaceholder, "second"),
	}, 77))

	c.ReconcilePlaceholderID("c1", "m2")

	got, _ := c.Get("c1")
	require.Len(t, got.Data, 3)
	// Only the placeholder item's id changed; order and fields preserved.
	assert.Equal(t, userItem("m1", "first"), got.Data[0])
	assert.Equal(t, model.NewEmptyResponse("r1"), got.Data[1])
	assert.Equal(t, userItem("m2", "second"), got.Data[2])
	assert.Equal(t, int64(77), got.NextCursor)
}

func TestDialogueCache_ReconcilePlaceholderIDNoopWhenAbsent(t *testing.T) {
	c := NewDialogueCache()
	c.Set("c1", pagination.MakePage([]model.DialogueItem{userItem("m1", "hi")}, 0))

	before, _ := c.Get("c1")
	c.ReconcilePlaceholderID("c1", "m9")
	after, _ := c.Get("c1")

	assert.Equal(t, before, after)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestDialogueCache_Reset(t *testing.T) {
	clock := throttle.NewFakeClock()
	c := NewDialogueCacheWithClock(clock)
	c.Set("c1", pagination.MakePage([]model.DialogueItem{model.NewEmptyResponse("r1")}, 0))
	c.ApplyStreamedResponse("c1", "text")

	c.Reset()

	_, ok := c.Get("c1")
	assert.False(t, ok)

	// Stopped timers must not resurrect stale writes.
	clock.Advance(time.Second)
	_, ok = c.Get("c1")
	assert.False(t, ok)
}
