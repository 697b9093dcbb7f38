// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache holds the in-memory collection caches that keep the UI
// consistent with the remote service.
//
// Each cache is an explicitly constructed service object keyed by
// conversation id. Writes produce fresh snapshots (copy-on-write) so UI
// readers never observe a partially-updated structure; reads return clones.
// All operations are synchronous, in-memory, and total - they cannot fail.
// Remote-fetch failures that would populate a cache are the caller's problem
// and funnel through the notification sink, leaving the cache unpopulated.
//
// # Key Types
//
//   - DialogueCache: per-conversation dialogue timeline with throttled
//     streaming deltas and placeholder-id reconciliation
//   - ConversationListCache: the paginated side-bar conversation list
//   - AttachmentCache: per-conversation attachment items with lifecycle
//     status transitions
//   - ParamsCache: per-conversation generation parameters with defaulting
//     and selective reset
//
// # Occupancy
//
// Get methods return (value, ok): ok reports whether the key was ever
// populated, distinguishing "loaded but empty" from "not yet loaded". Callers
// use this for their fetch-on-miss checks.
package cache
