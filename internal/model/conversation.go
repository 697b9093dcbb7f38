// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPES
// =============================================================================

// Conversation is a conversation summary as the server lists it. Identity is
// by ID; list order is cursor order with newly created conversations first.
type Conversation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ConversationList is one remote page of conversation summaries.
type ConversationList struct {
	NextCursor    int64          `json:"next_cursor"`
	Conversations []Conversation `json:"conversations"`
}

// UserInfo is the last-known authenticated user identity, persisted locally
// and read once at startup.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
