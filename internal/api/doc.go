// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the conversation service.
//
// The client covers the full remote surface the synchronization layer
// depends on: conversation lifecycle and tunable parameters, paginated
// message history, streamed message creation, citation and feedback
// endpoints, attachment upload/download, and the identity endpoints.
//
// # Key Types
//
//   - Client: rate-limited JSON request core, safe for concurrent use
//   - StatusError: typed error carrying the remote HTTP status
//   - MessageStream: incremental reader for the token stream
//
// # Usage
//
//	client := api.NewClient()
//	list, err := client.ListConversations(ctx, 0)
//	if err != nil {
//	    sink.HandleError(err, "Failed to load conversations")
//	}
//
// Errors returned by every method either wrap a *StatusError (the remote
// answered with a non-2xx status) or a *TransportError (the request never
// produced a usable response). StatusError exposes HTTPStatus so callers
// can route authorization failures without importing this package's
// concrete types.
package api
