// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures of the conversation sync layer.
package model

import (
	"github.com/jeranaias/chatsync/internal/pagination"
)

// MessageIDPlaceholder is the temporary identifier given to a user turn that
// has been echoed locally but not yet acknowledged by the server. At most one
// dialogue item per conversation carries it at a time.
const MessageIDPlaceholder = "MESSAGE_ID_PLACEHOLDER"

// =============================================================================
// DIALOGUE ITEM VARIANTS
// =============================================================================

// DialogueItem is one turn in a conversation's timeline. It is a closed set
// of variants: TextRequestMessage, Loading, Response, and Failure. The sealed
// marker keeps the set exhaustive at compile time instead of relying on a
// runtime default-case throw.
type DialogueItem interface {
	dialogueItem()
}

// TextRequestMessage is a user-authored turn. MessageID is either a real
// server-issued id or MessageIDPlaceholder until reconciled.
type TextRequestMessage struct {
	MessageID string `json:"messageId"`
	Data      string `json:"data"`
}

func (TextRequestMessage) dialogueItem() {}

// Loading marks that a response is being awaited. When present it is always
// the last item of the conversation's live tail.
type Loading struct{}

func (Loading) dialogueItem() {}

// Response is an assistant turn. While streaming is active its text and
// citations grow monotonically.
type Response struct {
	Response ResponsePayload `json:"response"`
}

func (Response) dialogueItem() {}

// Failure is the terminal error marker for a turn that failed.
type Failure struct {
	ResponseID   string `json:"responseId"`
	ErrorMessage string `json:"errorMessage"`
}

func (Failure) dialogueItem() {}

// ResponsePayload is the body of an assistant turn.
type ResponsePayload struct {
	ID                 string     `json:"id"`
	Response           string     `json:"response"`
	Citations          []Citation `json:"citations"`
	IsFeedbackPositive *bool      `json:"isFeedbackPositive"`
}

// Citation points into a source document backing part of a response.
type Citation struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	PageNumber int    `json:"pageNumber"`
	FileName   string `json:"fileName"`
	DocumentID string `json:"documentId"`
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewTextRequestMessage builds a user turn.
func NewTextRequestMessage(messageID, data string) TextRequestMessage {
	return TextRequestMessage{MessageID: messageID, Data: data}
}

// NewLoading builds the transient awaiting-response marker.
func NewLoading() Loading {
	return Loading{}
}

// NewResponse builds an assistant turn.
func NewResponse(payload ResponsePayload) Response {
	return Response{Response: payload}
}

// NewEmptyResponse builds the empty assistant turn appended before streaming
// begins, so streamed deltas have a tail item to land on.
func NewEmptyResponse(id string) Response {
	return Response{Response: ResponsePayload{
		ID:        id,
		Citations: []Citation{},
	}}
}

// NewFailure builds a terminal failure marker.
func NewFailure(responseID, errorMessage string) Failure {
	return Failure{ResponseID: responseID, ErrorMessage: errorMessage}
}

// =============================================================================
// WIRE RECORDS
// =============================================================================

// Author values used by the remote message records.
const (
	AuthorUser = "USER"
	AuthorBot  = "BOT"
)

// Message is a remote dialogue turn as the server stores it.
type Message struct {
	ID                 string     `json:"id"`
	Author             string     `json:"author"`
	Text               string     `json:"text"`
	ConversationID     string     `json:"conversationId"`
	Citations          []Citation `json:"citations"`
	IsFeedbackPositive *bool      `json:"isFeedbackPositive"`
}

// MessageList is one remote page of dialogue turns.
type MessageList struct {
	NextCursor int64     `json:"next_cursor"`
	Messages   []Message `json:"messages"`
}

// DialoguePageFromMessages converts a remote page of turns into the dialogue
// item model. User turns become TextRequestMessages, everything else becomes
// a Response.
func DialoguePageFromMessages(list MessageList) pagination.Page[DialogueItem] {
	items := make([]DialogueItem, 0, len(list.Messages))
	for _, msg := range list.Messages {
		if msg.Author == AuthorUser {
			items = append(items, NewTextRequestMessage(msg.ID, msg.Text))
			continue
		}
		items = append(items, NewResponse(ResponsePayload{
			ID:                 msg.ID,
			Response:           msg.Text,
			Citations:          msg.Citations,
			IsFeedbackPositive: msg.IsFeedbackPositive,
		}))
	}
	return pagination.MakePage(items, list.NextCursor)
}
