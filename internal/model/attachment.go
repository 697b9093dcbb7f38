// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/google/uuid"
)

// =============================================================================
// ATTACHMENT STATUS
// =============================================================================

// AttachmentStatus is the indexing lifecycle state of an attachment.
//
// Lifecycle: Pending at upload time (client-generated temporary id), Uploaded
// once the server accepts the file, then Indexed or Errored when asynchronous
// indexing completes. Indexed and Errored are both terminal.
type AttachmentStatus string

const (
	AttachmentPending  AttachmentStatus = "PENDING"
	AttachmentUploaded AttachmentStatus = "UPLOADED"
	AttachmentIndexed  AttachmentStatus = "INDEXED"
	AttachmentErrored  AttachmentStatus = "ERRORED"
)

// ParseAttachmentStatus maps a remote status string onto the four-state enum.
// An unrecognized string is a contract violation with the remote service, not
// a recoverable runtime condition, and panics.
func ParseAttachmentStatus(remote string) AttachmentStatus {
	switch remote {
	case "PENDING":
		return AttachmentPending
	case "UPLOADED":
		return AttachmentUploaded
	case "INDEXED":
		return AttachmentIndexed
	case "ERRORED":
		return AttachmentErrored
	default:
		panic("model: unknown attachment status - " + remote)
	}
}

// =============================================================================
// ATTACHMENT TYPES
// =============================================================================

// Attachment is the remote attachment record.
type Attachment struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AttachmentList is the remote attachment listing of one conversation.
type AttachmentList struct {
	Attachments []Attachment `json:"attachments"`
}

// AttachmentItem wraps a remote attachment record with its parsed lifecycle
// status.
type AttachmentItem struct {
	Status     AttachmentStatus `json:"status"`
	Attachment Attachment       `json:"attachment"`
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewPendingAttachment creates the optimistic local item for a file the user
// just picked, carrying a client-generated temporary id until the server
// acknowledges the upload.
func NewPendingAttachment(name string) AttachmentItem {
	return AttachmentItem{
		Status: AttachmentPending,
		Attachment: Attachment{
			ID:     "tmp_" + uuid.NewString(),
			Name:   name,
			Status: string(AttachmentPending),
		},
	}
}

// NewAttachmentItem wraps a remote record, parsing its status.
func NewAttachmentItem(attachment Attachment) AttachmentItem {
	return AttachmentItem{
		Status:     ParseAttachmentStatus(attachment.Status),
		Attachment: attachment,
	}
}

// IsProcessed reports whether indexing has reached a terminal state.
func (a AttachmentItem) IsProcessed() bool {
	return a.Status == AttachmentIndexed || a.Status == AttachmentErrored
}
