// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatsync wires the synchronization layer together.
//
// Services is the composition root: one API client, the four caches,
// the notification sink, and the page-entry loader, built from a single
// Config. UI code receives the container and talks to its fields; on
// logout the whole container is Reset and every cache starts cold.
package chatsync

import (
	"context"
	"errors"
	"time"

	"github.com/jeranaias/chatsync/internal/api"
	"github.com/jeranaias/chatsync/internal/cache"
	"github.com/jeranaias/chatsync/internal/config"
	"github.com/jeranaias/chatsync/internal/loader"
	"github.com/jeranaias/chatsync/internal/localstore"
	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/notify"
)

// =============================================================================
// SERVICES CONTAINER
// =============================================================================

// Services bundles every long-lived object of the synchronization layer.
type Services struct {
	Config *config.Config
	Client *api.Client

	Conversations *cache.ConversationListCache
	Dialogue      *cache.DialogueCache
	Attachments   *cache.AttachmentCache
	Params        *cache.ParamsCache

	Sink   *notify.Sink
	Loader *loader.Loader

	// Store is optional local persistence; nil disables it.
	Store *localstore.Store

	// User is the signed-in identity, resolved by LoadUser.
	User model.UserInfo
}

// New builds a Services container from configuration.
func New(cfg *config.Config) *Services {
	if cfg == nil {
		cfg = config.Default()
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           time.Duration(cfg.API.TimeoutSecs) * time.Second,
		PageSize:          cfg.API.PageSize,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})

	s := &Services{
		Config:        cfg,
		Client:        client,
		Conversations: cache.NewConversationListCache(),
		Dialogue:      cache.NewDialogueCache(),
		Attachments:   cache.NewAttachmentCache(),
		Params:        cache.NewParamsCache(),
		Sink:          notify.NewSink(),
	}
	if cfg.Stream.ThrottleMs > 0 {
		s.Dialogue.SetThrottleInterval(time.Duration(cfg.Stream.ThrottleMs) * time.Millisecond)
	}
	s.Loader = loader.New(client, loader.Caches{
		Conversations: s.Conversations,
		Dialogue:      s.Dialogue,
		Attachments:   s.Attachments,
		Params:        s.Params,
	}, s.Sink)

	return s
}

// OpenStore attaches local persistence, using the configured path or
// the default location when none is set.
func (s *Services) OpenStore() error {
	var err error
	if s.Config.Store.Path != "" {
		s.Store, err = localstore.Open(s.Config.Store.Path)
	} else {
		s.Store, err = localstore.OpenDefault()
	}
	return err
}

// Close releases held resources.
func (s *Services) Close() error {
	s.Dialogue.Reset()
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// ApplyConfig adopts a reloaded configuration while the program runs.
// Only settings that can change mid-run take effect: the stream
// throttle interval covers streams started after the reload. Connection
// settings such as the base URL require a restart.
func (s *Services) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.Config = cfg
	if cfg.Stream.ThrottleMs > 0 {
		s.Dialogue.SetThrottleInterval(time.Duration(cfg.Stream.ThrottleMs) * time.Millisecond)
	}
	s.Sink.HandleSuccess("Configuration reloaded")
}

// Reset drops every cache and notification, returning the container to
// its cold state. Used on logout and when switching users.
func (s *Services) Reset() {
	s.Conversations.Reset()
	s.Dialogue.Reset()
	s.Attachments.Reset()
	s.Params.ResetAll()
	s.Sink.Reset()
	s.User = model.UserInfo{}
}

// =============================================================================
// USER IDENTITY
// =============================================================================

// LoadUser resolves the signed-in identity: the local store first, the
// identity endpoint on a miss. A successful remote fetch is persisted
// for the next run.
func (s *Services) LoadUser(ctx context.Context) error {
	if s.Store != nil {
		info, err := s.Store.LoadUserInfo()
		if err == nil {
			s.User = info
			return nil
		}
		if !errors.Is(err, localstore.ErrNotFound) {
			return err
		}
	}

	info, err := s.Client.GetUserInfo(ctx)
	if err != nil {
		s.Sink.HandleError(err, "Failed to fetch user info")
		return err
	}
	s.User = *info

	if s.Store != nil {
		if err := s.Store.SaveUserInfo(*info); err != nil {
			return err
		}
	}
	return nil
}

// Logout terminates the remote session and clears local state.
func (s *Services) Logout(ctx context.Context) error {
	err := s.Client.Logout(ctx)
	if s.Store != nil {
		s.Store.ClearUserInfo()
	}
	s.Reset()
	return err
}
