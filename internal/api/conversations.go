// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/chatsync/internal/model"
)

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// CreateConversation starts a new empty conversation.
func (c *Client) CreateConversation(ctx context.Context) (*model.Conversation, error) {
	var result model.Conversation
	if err := c.do(ctx, http.MethodPost, "/api/conversation", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversation retrieves a single conversation by id.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	var result model.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversation/"+conversationID, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListConversations retrieves one page of conversation history.
// A zero cursor fetches the newest page.
func (c *Client) ListConversations(ctx context.Context, nextCursor int64) (*model.ConversationList, error) {
	var result model.ConversationList
	if err := c.do(ctx, http.MethodGet, "/api/conversation/list", c.pageQuery(nextCursor), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteConversation removes a conversation and everything under it.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversation/"+conversationID, nil, nil, nil)
}

// =============================================================================
// PARAMETER OPERATIONS
// =============================================================================

// GetConversationParams retrieves the tunable parameters for a conversation.
func (c *Client) GetConversationParams(ctx context.Context, conversationID string) (*model.Params, error) {
	var result model.Params
	if err := c.do(ctx, http.MethodGet, "/api/conversation/"+conversationID+"/params", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateConversationParams replaces the tunable parameters for a conversation.
func (c *Client) UpdateConversationParams(ctx context.Context, conversationID string, params model.Params) error {
	return c.do(ctx, http.MethodPost, "/api/conversation/"+conversationID+"/params", nil, params, nil)
}
