// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeranaias/chatsync/internal/model"
)

// messagePrompt is the body of a message-creation request.
type messagePrompt struct {
	Prompt string `json:"prompt"`
}

// MessageFeedback is the body of a feedback rating request.
type MessageFeedback struct {
	IsFeedbackPositive bool `json:"isFeedbackPositive"`
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// StreamMessage posts a prompt and returns the live token stream.
// The caller owns the returned stream and must Close it.
func (c *Client) StreamMessage(ctx context.Context, conversationID, prompt string) (*MessageStream, error) {
	encoded, err := json.Marshal(messagePrompt{Prompt: prompt})
	if err != nil {
		return nil, &TransportError{Op: "stream", Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.doRaw(ctx, http.MethodPost, "/api/conversation/"+conversationID+"/message",
		nil, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return NewMessageStream(resp.Body), nil
}

// CancelMessage asks the service to stop generating a streamed response.
func (c *Client) CancelMessage(ctx context.Context, conversationID, messageID string) error {
	return c.do(ctx, http.MethodPost,
		"/api/conversation/"+conversationID+"/message/"+messageID+"/cancel", nil, nil, nil)
}

// ListMessages retrieves one page of dialogue history, newest page first.
func (c *Client) ListMessages(ctx context.Context, conversationID string, nextCursor int64) (*model.MessageList, error) {
	var result model.MessageList
	if err := c.do(ctx, http.MethodGet,
		"/api/conversation/"+conversationID+"/message/list", c.pageQuery(nextCursor), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMessageCitations retrieves the citations attached to a response.
func (c *Client) GetMessageCitations(ctx context.Context, conversationID, messageID string) ([]model.Citation, error) {
	var result []model.Citation
	if err := c.do(ctx, http.MethodGet,
		"/api/conversation/"+conversationID+"/message/"+messageID+"/citations", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RateMessage records thumbs-up/down feedback on a response.
func (c *Client) RateMessage(ctx context.Context, conversationID, messageID string, positive bool) error {
	return c.do(ctx, http.MethodPost,
		"/api/conversation/"+conversationID+"/message/"+messageID+"/feedback",
		nil, MessageFeedback{IsFeedbackPositive: positive}, nil)
}
