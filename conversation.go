// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsync

import (
	"context"
	"errors"
	"io"

	"github.com/jeranaias/chatsync/internal/api"
	"github.com/jeranaias/chatsync/internal/localstore"
	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/pagination"
)

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// CreateConversation starts a new conversation and registers it in the
// conversation list.
func (s *Services) CreateConversation(ctx context.Context) (*model.Conversation, error) {
	conversation, err := s.Client.CreateConversation(ctx)
	if err != nil {
		s.Sink.HandleError(err, "Failed to create conversation")
		return nil, err
	}
	s.Conversations.Append(*conversation)
	return conversation, nil
}

// EnterConversation fills every cache for displaying a conversation and
// restores the stored editable-parameter selection when one exists.
func (s *Services) EnterConversation(ctx context.Context, conversationID string) error {
	if err := s.Loader.EnterConversation(ctx, conversationID); err != nil {
		return err
	}
	if s.Store != nil {
		keys, err := s.Store.LoadEditableParams(conversationID)
		switch {
		case err == nil:
			s.Params.SetEditable(conversationID, keys)
		case !errors.Is(err, localstore.ErrNotFound):
			// The selection is a convenience; entering still succeeds.
			s.Sink.HandleError(err, "Failed to load parameter selection")
		}
	}
	return nil
}

// DeleteConversation removes a conversation remotely and drops every
// local trace of it.
func (s *Services) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := s.Client.DeleteConversation(ctx, conversationID); err != nil {
		s.Sink.HandleError(err, "Failed to delete conversation")
		return err
	}
	s.Conversations.Delete(conversationID)
	s.Params.Reset(conversationID)
	if s.Store != nil {
		s.Store.DeleteConversation(conversationID)
	}
	return nil
}

// LoadOlderConversations fetches the next page of conversation history
// and merges it beneath the cached list.
func (s *Services) LoadOlderConversations(ctx context.Context) error {
	page, ok := s.Conversations.Get()
	if ok && !page.HasMore() {
		return nil
	}
	list, err := s.Client.ListConversations(ctx, page.NextCursor)
	if err != nil {
		s.Sink.HandleError(err, "Failed to load conversations")
		return err
	}
	s.Conversations.AppendPage(pageFromConversationList(list))
	return nil
}

// LoadOlderMessages fetches the page of dialogue before the oldest
// cached turn and merges it above the cached timeline.
func (s *Services) LoadOlderMessages(ctx context.Context, conversationID string) error {
	page, ok := s.Dialogue.Get(conversationID)
	if !ok || !page.HasMore() {
		return nil
	}
	list, err := s.Client.ListMessages(ctx, conversationID, page.NextCursor)
	if err != nil {
		s.Sink.HandleError(err, "Failed to load messages")
		return err
	}
	s.Dialogue.Prepend(conversationID, model.DialoguePageFromMessages(*list))
	return nil
}

// =============================================================================
// MESSAGE SENDING
// =============================================================================

// SendMessage runs the full optimistic send flow: the user's turn and a
// loading placeholder appear immediately, the placeholder id is swapped
// for the server's once the stream opens, and streamed text flows into
// the response item under the rate limiter. Citations are fetched after
// the stream ends.
//
// Blocks until the stream completes; run it from its own goroutine when
// the UI must stay live.
func (s *Services) SendMessage(ctx context.Context, conversationID, prompt string) error {
	s.Dialogue.Append(conversationID, model.NewTextRequestMessage(model.MessageIDPlaceholder, prompt))
	s.Dialogue.Append(conversationID, model.NewLoading())

	stream, err := s.Client.StreamMessage(ctx, conversationID, prompt)
	if err != nil {
		s.failSend(conversationID, "", err)
		return err
	}
	defer stream.Close()

	ids, err := stream.ReadIDs()
	if err != nil {
		s.failSend(conversationID, "", err)
		return err
	}
	s.Dialogue.ReconcilePlaceholderID(conversationID, ids.UserMessageID)

	// The response item must be in place before the first delta arrives,
	// otherwise early chunks are dropped.
	s.Dialogue.RemoveLoading(conversationID)
	s.Dialogue.Append(conversationID, model.NewEmptyResponse(ids.BotMessageID))

	err = stream.Process(ctx, func(chunk api.StreamChunk) {
		s.Dialogue.ApplyStreamedResponse(conversationID, stream.Accumulated())
	})
	s.Dialogue.FlushStream(conversationID)
	if err != nil {
		s.failSend(conversationID, ids.BotMessageID, err)
		return err
	}

	s.loadCitations(ctx, conversationID, ids.BotMessageID)
	return nil
}

// CancelMessage asks the server to stop a streaming response. The
// stream itself ends through its own read loop; this only fires the
// side channel and clears any loading placeholder.
func (s *Services) CancelMessage(ctx context.Context, conversationID, userMessageID string) error {
	if err := s.Client.CancelMessage(ctx, conversationID, userMessageID); err != nil {
		s.Sink.HandleError(err, "Failed to cancel response")
		return err
	}
	s.Dialogue.RemoveLoading(conversationID)
	return nil
}

// RateMessage records feedback on a response.
func (s *Services) RateMessage(ctx context.Context, conversationID, messageID string, positive bool) error {
	if err := s.Client.RateMessage(ctx, conversationID, messageID, positive); err != nil {
		s.Sink.HandleError(err, "Failed to save feedback")
		return err
	}
	return nil
}

func (s *Services) failSend(conversationID, responseID string, err error) {
	s.Dialogue.RemoveLoading(conversationID)
	s.Dialogue.Append(conversationID, model.NewFailure(responseID, "Failed to receive a response"))
	s.Sink.HandleError(err, "Failed to send message")
}

func (s *Services) loadCitations(ctx context.Context, conversationID, messageID string) {
	citations, err := s.Client.GetMessageCitations(ctx, conversationID, messageID)
	if err != nil {
		s.Sink.HandleError(err, "Failed to load citations")
		return
	}
	if len(citations) > 0 {
		s.Dialogue.ApplyStreamedCitations(conversationID, citations)
	}
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// UploadAttachment sends a document and tracks it optimistically: a
// pending item with a temporary id appears immediately and is rewritten
// to the server's record when the upload completes.
func (s *Services) UploadAttachment(ctx context.Context, conversationID, fileName string, content io.Reader) error {
	pending := model.NewPendingAttachment(fileName)
	s.Attachments.Append(conversationID, pending)

	record, err := s.Client.UploadAttachment(ctx, conversationID, api.AttachmentUpload{
		FileName: fileName,
		Content:  content,
	})
	if err != nil {
		s.Attachments.Delete(conversationID, pending.Attachment.ID)
		s.Sink.HandleError(err, "Failed to upload attachment")
		return err
	}

	s.Attachments.ReconcilePendingID(conversationID, pending.Attachment.ID, *record)
	return nil
}

// RefreshAttachmentStatus polls one attachment and applies its current
// indexing state.
func (s *Services) RefreshAttachmentStatus(ctx context.Context, conversationID, attachmentID string) error {
	record, err := s.Client.GetAttachmentStatus(ctx, conversationID, attachmentID)
	if err != nil {
		s.Sink.HandleError(err, "Failed to check attachment status")
		return err
	}
	s.Attachments.UpdateStatus(conversationID, *record)
	return nil
}

// DeleteAttachment removes an attachment remotely and locally.
func (s *Services) DeleteAttachment(ctx context.Context, conversationID, attachmentID string) error {
	if err := s.Client.DeleteAttachment(ctx, conversationID, attachmentID); err != nil {
		s.Sink.HandleError(err, "Failed to delete attachment")
		return err
	}
	s.Attachments.Delete(conversationID, attachmentID)
	return nil
}

// =============================================================================
// PARAMETERS
// =============================================================================

// SaveParams applies locally edited parameter text and pushes the
// resulting values to the server.
func (s *Services) SaveParams(ctx context.Context, conversationID string, local model.LocalParams) error {
	s.Params.SetLocal(conversationID, local)
	params, _ := s.Params.Get(conversationID)
	if err := s.Client.UpdateConversationParams(ctx, conversationID, params); err != nil {
		s.Sink.HandleError(err, "Failed to save parameters")
		return err
	}
	return nil
}

// SetEditableParams records which parameters the conversation exposes
// for editing, persisting the selection when a store is attached so it
// survives restarts.
func (s *Services) SetEditableParams(conversationID string, keys []model.ParamKey) error {
	s.Params.SetEditable(conversationID, keys)
	if s.Store == nil {
		return nil
	}
	if err := s.Store.SaveEditableParams(conversationID, keys); err != nil {
		s.Sink.HandleError(err, "Failed to save parameter selection")
		return err
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func pageFromConversationList(list *model.ConversationList) pagination.Page[model.Conversation] {
	return pagination.MakePage(list.Conversations, list.NextCursor)
}
