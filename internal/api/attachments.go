// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jeranaias/chatsync/internal/model"
)

// AttachmentUpload describes a document to attach to a conversation.
type AttachmentUpload struct {
	FileName string
	Content  io.Reader
}

// =============================================================================
// ATTACHMENT OPERATIONS
// =============================================================================

// UploadAttachment sends a document as multipart form data and returns
// the server's initial status record for it.
func (c *Client) UploadAttachment(ctx context.Context, conversationID string, upload AttachmentUpload) (*model.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("id", conversationID); err != nil {
		return nil, &TransportError{Op: "upload", Message: "failed to build form", Cause: err}
	}
	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, &TransportError{Op: "upload", Message: "failed to build form", Cause: err}
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return nil, &TransportError{Op: "upload", Message: "failed to read attachment", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Op: "upload", Message: "failed to build form", Cause: err}
	}

	resp, err := c.doRaw(ctx, http.MethodPost, "/api/conversation/"+conversationID+"/attachment",
		nil, writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result model.Attachment
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransportError{Op: "upload", Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// ListAttachments retrieves every attachment on a conversation.
func (c *Client) ListAttachments(ctx context.Context, conversationID string) (*model.AttachmentList, error) {
	var result model.AttachmentList
	if err := c.do(ctx, http.MethodGet,
		"/api/conversation/"+conversationID+"/attachment/list", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAttachmentStatus polls the indexing status of one attachment.
func (c *Client) GetAttachmentStatus(ctx context.Context, conversationID, attachmentID string) (*model.Attachment, error) {
	var result model.Attachment
	if err := c.do(ctx, http.MethodGet,
		"/api/conversation/"+conversationID+"/attachment/"+attachmentID+"/status", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadAttachment streams the stored document into w.
func (c *Client) DownloadAttachment(ctx context.Context, conversationID, attachmentID string, w io.Writer) error {
	resp, err := c.doRaw(ctx, http.MethodGet,
		"/api/conversation/"+conversationID+"/attachment/"+attachmentID, nil, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &TransportError{Op: "download", Message: "failed to read attachment body", Cause: err}
	}
	return nil
}

// DeleteAttachment removes an attachment from a conversation.
func (c *Client) DeleteAttachment(ctx context.Context, conversationID, attachmentID string) error {
	return c.do(ctx, http.MethodDelete,
		"/api/conversation/"+conversationID+"/attachment/"+attachmentID, nil, nil, nil)
}
