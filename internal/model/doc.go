// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures of the conversation sync layer.
//
// This package defines the domain types shared by the caches and the API
// client: the per-conversation dialogue timeline, attachment lifecycle
// wrappers, conversation summaries, generation parameters, and the wire-level
// records those are built from.
//
// # Key Types
//
//   - DialogueItem: one turn in a conversation timeline (closed set of
//     variants: user message, assistant response, loading marker, failure)
//   - AttachmentItem: a remote attachment wrapped with its indexing status
//   - Conversation: a conversation summary as listed in the side bar
//   - Params: the tunable generation parameters of one conversation
//
// # Usage
//
// Build the optimistic local echo of a user turn:
//
//	item := model.NewTextRequestMessage(model.MessageIDPlaceholder, "hello")
//
// Convert a remote message page into displayable dialogue items:
//
//	page := model.DialoguePageFromMessages(list)
package model
