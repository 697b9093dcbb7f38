// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"sync"

	"github.com/jeranaias/chatsync/internal/model"
)

// =============================================================================
// PARAMS CACHE
// =============================================================================

// ParamsCache holds two parallel per-conversation maps: the resolved numeric
// generation parameters, and the user-selected subset of parameter names
// currently exposed for editing. Reads fall back to the fixed defaults.
type ParamsCache struct {
	mu       sync.RWMutex
	params   map[string]model.Params
	editable map[string][]model.ParamKey
}

// NewParamsCache creates an empty parameters cache.
func NewParamsCache() *ParamsCache {
	return &ParamsCache{
		params:   make(map[string]model.Params),
		editable: make(map[string][]model.ParamKey),
	}
}

// Get returns the conversation's parameters, falling back to the default
// table when absent. ok reports whether the conversation was ever populated.
func (c *ParamsCache) Get(conversationID string) (model.Params, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	params, ok := c.params[conversationID]
	if !ok {
		return model.DefaultParams(), false
	}
	return params, true
}

// GetEditable returns the parameter names exposed for editing, falling back
// to the default subset when the user has not chosen one.
func (c *ParamsCache) GetEditable(conversationID string) []model.ParamKey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, ok := c.editable[conversationID]
	if !ok {
		return append([]model.ParamKey(nil), model.DefaultEditableParams...)
	}
	return append([]model.ParamKey(nil), keys...)
}

// SetLocal parses the string-valued edit form and stores the result. Each
// unparsable field reverts to its default (see model.LocalParams.ToParams).
func (c *ParamsCache) SetLocal(conversationID string, local model.LocalParams) {
	c.SetRemote(conversationID, local.ToParams())
}

// SetRemote stores server-confirmed parameters for the conversation.
func (c *ParamsCache) SetRemote(conversationID string, params model.Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params[conversationID] = params
}

// SetEditable stores the user-selected subset of editable parameter names.
func (c *ParamsCache) SetEditable(conversationID string, keys []model.ParamKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editable[conversationID] = append([]model.ParamKey(nil), keys...)
}

// ResetKeys reverts the named fields to their defaults, leaving the rest of
// the conversation's parameters untouched.
func (c *ParamsCache) ResetKeys(conversationID string, keys []model.ParamKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.params[conversationID]
	if !ok {
		current = model.DefaultParams()
	}
	defaults := model.DefaultParams()
	for _, key := range keys {
		current.Set(key, defaults.Get(key))
	}
	c.params[conversationID] = current
}

// Reset reverts both maps to defaults for one conversation.
func (c *ParamsCache) Reset(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params[conversationID] = model.DefaultParams()
	c.editable[conversationID] = append([]model.ParamKey(nil), model.DefaultEditableParams...)
}

// ResetAll discards every conversation's entries.
func (c *ParamsCache) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = make(map[string]model.Params)
	c.editable = make(map[string][]model.ParamKey)
}
