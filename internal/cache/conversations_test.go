// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/pagination"
)

func conv(id, title string) model.Conversation {
	return model.Conversation{ID: id, Title: title}
}

func TestConversationListCache_GetBeforeSet(t *testing.T) {
	c := NewConversationListCache()

	page, ok := c.Get()

	assert.False(t, ok)
	assert.Empty(t, page.Data)
}

func TestConversationListCache_SetMarksLoaded(t *testing.T) {
	c := NewConversationListCache()

	c.Set(pagination.MakePage([]model.Conversation{}, pagination.EndCursor))

	page, ok := c.Get()
	assert.True(t, ok)
	assert.Empty(t, page.Data)
}

func TestConversationListCache_AppendPrepends(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "older")}, 500))

	c.Append(conv("c2", "newest"))

	page, _ := c.Get()
	require.Len(t, page.Data, 2)
	assert.Equal(t, "c2", page.Data[0].ID)
	assert.Equal(t, "c1", page.Data[1].ID)
	// Cursor untouched by a single prepend.
	assert.Equal(t, int64(500), page.NextCursor)
}

func TestConversationListCache_AppendIdempotentByID(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a"), conv("c2", "b")}, 9))

	before, _ := c.Get()
	c.Append(conv("c1", "different title, same id"))
	after, _ := c.Get()

	// Byte-for-byte unchanged.
	assert.Equal(t, before, after)
}

func TestConversationListCache_Update(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "old"), conv("c2", "b")}, 0))

	c.Update(conv("c1", "renamed"))

	page, _ := c.Get()
	assert.Equal(t, "renamed", page.Data[0].Title)
	assert.Equal(t, "b", page.Data[1].Title)
}

func TestConversationListCache_UpdateAbsentIsNoop(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a")}, 0))

	before, _ := c.Get()
	c.Update(conv("c9", "ghost"))
	after, _ := c.Get()

	assert.Equal(t, before, after)
}

func TestConversationListCache_Delete(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a"), conv("c2", "b")}, 0))

	c.Delete("c1")

	page, _ := c.Get()
	assert.Equal(t, []model.Conversation{conv("c2", "b")}, page.Data)
}

func TestConversationListCache_AppendPage(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a")}, 400))

	c.AppendPage(pagination.MakePage([]model.Conversation{conv("c2", "b")}, pagination.EndCursor))

	page, _ := c.Get()
	require.Len(t, page.Data, 2)
	assert.Equal(t, "c1", page.Data[0].ID)
	assert.Equal(t, "c2", page.Data[1].ID)
	assert.False(t, page.HasMore())
}

func TestConversationListCache_Contains(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a")}, 0))

	assert.True(t, c.Contains("c1"))
	assert.False(t, c.Contains("c2"))
}

func TestConversationListCache_Reset(t *testing.T) {
	c := NewConversationListCache()
	c.Set(pagination.MakePage([]model.Conversation{conv("c1", "a")}, 0))

	c.Reset()

	page, ok := c.Get()
	assert.False(t, ok)
	assert.Empty(t, page.Data)
}
