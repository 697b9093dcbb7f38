// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loader fills the synchronization caches when a conversation
// screen is entered.
//
// The entry routine consults each cache and fetches only what is
// missing: the conversation record itself, the newest dialogue page,
// the attachment list, and the tunable parameters. Misses are fetched
// concurrently, and concurrent entries into the same conversation share
// one in-flight fetch per collection. Every fetch failure lands in the
// notification sink.
package loader

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jeranaias/chatsync/internal/cache"
	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/notify"
)

// Remote is the slice of the API client the loader depends on.
type Remote interface {
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, nextCursor int64) (*model.MessageList, error)
	ListAttachments(ctx context.Context, conversationID string) (*model.AttachmentList, error)
	GetConversationParams(ctx context.Context, conversationID string) (*model.Params, error)
}

// Caches bundles the cache set the loader populates.
type Caches struct {
	Conversations *cache.ConversationListCache
	Dialogue      *cache.DialogueCache
	Attachments   *cache.AttachmentCache
	Params        *cache.ParamsCache
}

// =============================================================================
// LOADER
// =============================================================================

// Loader performs the page-entry fetch-and-fill routine.
//
// Safe for concurrent use; duplicate concurrent loads of the same
// conversation collection are collapsed into a single remote fetch.
type Loader struct {
	remote Remote
	caches Caches
	sink   *notify.Sink
	group  singleflight.Group
}

// New creates a loader over the given remote and cache set.
func New(remote Remote, caches Caches, sink *notify.Sink) *Loader {
	return &Loader{
		remote: remote,
		caches: caches,
		sink:   sink,
	}
}

// EnterConversation prepares every cache for displaying a conversation.
//
// The conversation record is resolved first: an id not present in the
// conversation list is fetched and appended, and a failure there aborts
// the load. The three collection fetches then run concurrently, each
// skipped when its cache already holds the conversation. The first
// fetch failure is reported to the sink and returned; successful
// siblings still populate their caches.
func (l *Loader) EnterConversation(ctx context.Context, conversationID string) error {
	if !l.caches.Conversations.Contains(conversationID) {
		if err := l.ensureConversation(ctx, conversationID); err != nil {
			l.sink.HandleError(err, "Failed to fetch conversation")
			return err
		}
	}

	group, ctx := errgroup.WithContext(ctx)

	if _, ok := l.caches.Dialogue.Get(conversationID); !ok {
		group.Go(func() error { return l.loadDialogue(ctx, conversationID) })
	}
	if _, ok := l.caches.Attachments.Get(conversationID); !ok {
		group.Go(func() error { return l.loadAttachments(ctx, conversationID) })
	}
	if _, ok := l.caches.Params.Get(conversationID); !ok {
		group.Go(func() error { return l.loadParams(ctx, conversationID) })
	}

	if err := group.Wait(); err != nil {
		l.sink.HandleError(err, "Failed to prefetch data: "+err.Error())
		return err
	}
	return nil
}

// =============================================================================
// COLLECTION FETCHES
// =============================================================================

func (l *Loader) ensureConversation(ctx context.Context, conversationID string) error {
	_, err, _ := l.group.Do("conversation:"+conversationID, func() (any, error) {
		conversation, err := l.remote.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		l.caches.Conversations.Append(*conversation)
		return nil, nil
	})
	return err
}

func (l *Loader) loadDialogue(ctx context.Context, conversationID string) error {
	_, err, _ := l.group.Do("dialogue:"+conversationID, func() (any, error) {
		if _, ok := l.caches.Dialogue.Get(conversationID); ok {
			return nil, nil
		}
		list, err := l.remote.ListMessages(ctx, conversationID, 0)
		if err != nil {
			return nil, err
		}
		l.caches.Dialogue.Set(conversationID, model.DialoguePageFromMessages(*list))
		return nil, nil
	})
	return err
}

func (l *Loader) loadAttachments(ctx context.Context, conversationID string) error {
	_, err, _ := l.group.Do("attachments:"+conversationID, func() (any, error) {
		if _, ok := l.caches.Attachments.Get(conversationID); ok {
			return nil, nil
		}
		list, err := l.remote.ListAttachments(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		items := make([]model.AttachmentItem, 0, len(list.Attachments))
		for _, attachment := range list.Attachments {
			items = append(items, model.NewAttachmentItem(attachment))
		}
		l.caches.Attachments.SetAll(conversationID, items)
		return nil, nil
	})
	return err
}

func (l *Loader) loadParams(ctx context.Context, conversationID string) error {
	_, err, _ := l.group.Do("params:"+conversationID, func() (any, error) {
		if _, ok := l.caches.Params.Get(conversationID); ok {
			return nil, nil
		}
		params, err := l.remote.GetConversationParams(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		l.caches.Params.SetRemote(conversationID, *params)
		return nil, nil
	})
	return err
}
