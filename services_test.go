// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsync

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatsync/internal/config"
	"github.com/jeranaias/chatsync/internal/localstore"
	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/notify"
)

func TestNew_WiresEverything(t *testing.T) {
	s := New(nil)
	defer s.Close()

	require.NotNil(t, s.Config)
	require.NotNil(t, s.Client)
	require.NotNil(t, s.Conversations)
	require.NotNil(t, s.Dialogue)
	require.NotNil(t, s.Attachments)
	require.NotNil(t, s.Params)
	require.NotNil(t, s.Sink)
	require.NotNil(t, s.Loader)
	assert.Nil(t, s.Store, "store is opt-in")
}

func TestApplyConfig_AdoptsReloadedSettings(t *testing.T) {
	s := New(nil)
	defer s.Close()

	reloaded := config.Default()
	reloaded.Stream.ThrottleMs = 42
	s.ApplyConfig(reloaded)

	assert.Same(t, reloaded, s.Config)
	notifications := s.Sink.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.CategorySuccess, notifications[0].Category)
	assert.Equal(t, "Configuration reloaded", notifications[0].Message)
}

func TestApplyConfig_NilIsIgnored(t *testing.T) {
	s := New(nil)
	defer s.Close()

	original := s.Config
	s.ApplyConfig(nil)

	assert.Same(t, original, s.Config)
	assert.Empty(t, s.Sink.Notifications())
}

func TestReset_ReturnsToColdState(t *testing.T) {
	s := New(nil)
	defer s.Close()

	s.Conversations.Append(model.Conversation{ID: "c1"})
	s.Dialogue.Append("c1", model.NewLoading())
	s.Attachments.Append("c1", model.NewPendingAttachment("a.pdf"))
	s.Params.SetRemote("c1", model.DefaultParams())
	s.Sink.HandleWarning("stale")
	s.User = model.UserInfo{ID: "u1", Name: "Ada"}

	s.Reset()

	_, ok := s.Conversations.Get()
	assert.False(t, ok)
	_, ok = s.Dialogue.Get("c1")
	assert.False(t, ok)
	items, _ := s.Attachments.Get("c1")
	assert.Empty(t, items)
	_, ok = s.Params.Get("c1")
	assert.False(t, ok)
	assert.Empty(t, s.Sink.Notifications())
	assert.Zero(t, s.User)
}

func TestOpenStore_UsesConfiguredPath(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "state", "local.db")

	s := New(cfg)
	defer s.Close()

	require.NoError(t, s.OpenStore())
	require.NotNil(t, s.Store)
	assert.FileExists(t, cfg.Store.Path)
}

func TestLoadUser_PrefersLocalStore(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote identity endpoint must not be hit on a store hit")
	})
	s := newTestServices(t, mux)

	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	require.NoError(t, store.SaveUserInfo(model.UserInfo{ID: "u1", Name: "Ada", Email: "ada@example.com"}))
	s.Store = store

	require.NoError(t, s.LoadUser(context.Background()))
	assert.Equal(t, "Ada", s.User.Name)
}

func TestLoadUser_FallsBackToRemoteAndPersists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.UserInfo{ID: "u1", Name: "Grace", Email: "grace@example.com"})
	})
	s := newTestServices(t, mux)

	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	s.Store = store

	require.NoError(t, s.LoadUser(context.Background()))
	assert.Equal(t, "Grace", s.User.Name)

	persisted, err := store.LoadUserInfo()
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", persisted.Email)
}

func TestLoadUser_RemoteFailureGoesToSink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	s := newTestServices(t, mux)

	require.Error(t, s.LoadUser(context.Background()))
	require.Len(t, s.Sink.Notifications(), 1)
	assert.Equal(t, "Failed to fetch user info", s.Sink.Notifications()[0].Message)
}

func TestLogout_ClearsEverything(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth2/sign_out", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := newTestServices(t, mux)

	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	require.NoError(t, store.SaveUserInfo(model.UserInfo{ID: "u1", Name: "Ada"}))
	s.Store = store
	s.User = model.UserInfo{ID: "u1", Name: "Ada"}
	s.Conversations.Append(model.Conversation{ID: "c1"})

	require.NoError(t, s.Logout(context.Background()))

	assert.Zero(t, s.User)
	_, ok := s.Conversations.Get()
	assert.False(t, ok)
	_, err = store.LoadUserInfo()
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}
