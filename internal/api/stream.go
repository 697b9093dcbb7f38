// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"io"
	"strings"
)

// =============================================================================
// WIRE FRAMING
// =============================================================================

// The token stream opens with an id header and ends with a terminator:
//
//	<userMessageID>;<botMessageID><|endofid|>token token token<|endoftext|>
//
// The user-message id reconciles the optimistic placeholder turn; the
// bot-message id identifies the response row for citations and feedback.
const (
	endOfIDMarker   = "<|endofid|>"
	endOfTextMarker = "<|endoftext|>"
	idSeparator     = ";"
)

// maxHeaderBytes bounds the id header before the stream is rejected.
const maxHeaderBytes = 4096

// StreamIDs carries the server-issued identifiers from the stream header.
type StreamIDs struct {
	UserMessageID string
	BotMessageID  string
}

// StreamChunk is one incremental slice of response text.
type StreamChunk struct {
	Text string
	Done bool
}

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)

// =============================================================================
// MESSAGE STREAM
// =============================================================================

// MessageStream reads a streamed message-creation response.
//
// Usage is two-phase: ReadIDs consumes the header, then Process delivers
// token chunks until the terminator. The caller must Close the stream.
type MessageStream struct {
	body io.ReadCloser
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	pending     []byte
	done        bool
}

// NewMessageStream wraps a response body in a stream reader.
func NewMessageStream(body io.ReadCloser) *MessageStream {
	return &MessageStream{body: body}
}

// ReadIDs consumes the stream header and returns the message identifiers.
func (s *MessageStream) ReadIDs() (StreamIDs, error) {
	buf := make([]byte, 0, 128)
	chunk := make([]byte, 256)
	for {
		if i := bytes.Index(buf, []byte(endOfIDMarker)); i >= 0 {
			header := string(buf[:i])
			s.pending = append(s.pending, buf[i+len(endOfIDMarker):]...)
			userID, botID, found := strings.Cut(header, idSeparator)
			if !found {
				return StreamIDs{}, &TransportError{Op: "stream", Message: "malformed id header: " + header}
			}
			return StreamIDs{UserMessageID: userID, BotMessageID: botID}, nil
		}
		if len(buf) > maxHeaderBytes {
			return StreamIDs{}, &TransportError{Op: "stream", Message: "id header exceeds limit"}
		}

		n, err := s.body.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if err == io.EOF {
				return StreamIDs{}, &TransportError{Op: "stream", Message: "stream ended before id header"}
			}
			return StreamIDs{}, &TransportError{Op: "stream", Message: "failed to read id header", Cause: err}
		}
	}
}

// Process reads token text and calls the callback for each chunk.
// Blocks until the terminator, EOF, or context cancellation. The final
// callback invocation carries Done set.
func (s *MessageStream) Process(ctx context.Context, callback StreamCallback) error {
	chunk := make([]byte, 512)
	for !s.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text, done := s.drainPending()
		if text != "" || done {
			s.accumulator.WriteString(text)
			s.done = done
			callback(StreamChunk{Text: text, Done: done})
			continue
		}

		n, err := s.body.Read(chunk)
		s.pending = append(s.pending, chunk[:n]...)
		if err != nil {
			if err == io.EOF {
				// Terminator lost with the connection; flush what arrived.
				text := string(s.pending)
				s.pending = nil
				s.accumulator.WriteString(text)
				s.done = true
				callback(StreamChunk{Text: text, Done: true})
				return nil
			}
			return &TransportError{Op: "stream", Message: "failed to read stream", Cause: err}
		}
	}
	return nil
}

// drainPending extracts emit-safe text from the pending buffer. Bytes
// that could be the start of the terminator are withheld until more
// input decides them.
func (s *MessageStream) drainPending() (string, bool) {
	if i := bytes.Index(s.pending, []byte(endOfTextMarker)); i >= 0 {
		text := string(s.pending[:i])
		s.pending = nil
		return text, true
	}

	safe := len(s.pending)
	for hold := len(endOfTextMarker) - 1; hold > 0; hold-- {
		if hold > len(s.pending) {
			continue
		}
		if bytes.HasPrefix([]byte(endOfTextMarker), s.pending[len(s.pending)-hold:]) {
			safe = len(s.pending) - hold
			break
		}
	}

	text := string(s.pending[:safe])
	s.pending = s.pending[safe:]
	return text, false
}

// Accumulated returns all response text read so far.
func (s *MessageStream) Accumulated() string {
	return s.accumulator.String()
}

// Close releases the underlying response body.
func (s *MessageStream) Close() error {
	return s.body.Close()
}
