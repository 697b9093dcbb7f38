// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/chatsync/internal/model"
)

// =============================================================================
// IDENTITY OPERATIONS
// =============================================================================

// GetUserInfo retrieves the authenticated user's identity from the
// auth proxy sitting in front of the service.
func (c *Client) GetUserInfo(ctx context.Context) (*model.UserInfo, error) {
	var result model.UserInfo
	if err := c.do(ctx, http.MethodGet, "/oauth2/userinfo", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout terminates the auth proxy session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/oauth2/sign_out", nil, nil, nil)
}
