// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// StatusError represents a non-2xx answer from the conversation service.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// HTTPStatus returns the remote status code.
func (e *StatusError) HTTPStatus() int {
	return e.Status
}

// TransportError represents a request that never produced a usable
// response: connection failures, encoding failures, malformed bodies.
type TransportError struct {
	Op      string
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return "api: " + e.Op + ": " + e.Message + ": " + e.Cause.Error()
	}
	return "api: " + e.Op + ": " + e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// SchemaValidationError reports locally held data that no longer matches
// the expected shape. Not produced by the default flows; available for
// defensive checks around decoded payloads.
type SchemaValidationError struct {
	Subject string
	Detail  string
}

func (e *SchemaValidationError) Error() string {
	return "api: invalid " + e.Subject + ": " + e.Detail
}

// Default messages per status, used when the service body carries none.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request Error",
	http.StatusUnauthorized:        "Unauthorized Error",
	http.StatusForbidden:           "Forbidden Error",
	http.StatusInternalServerError: "Internal Server Error",
}

// errorFromResponse builds a StatusError from a failed response body.
// The service reports failures as {"error": "..."}; validation failures
// from the framework arrive as {"message": "..."}.
func errorFromResponse(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Error != "" {
				message = payload.Error
			} else if payload.Message != "" {
				message = payload.Message
			}
		}
	}
	if message == "" {
		if m, ok := statusMessages[status]; ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	return &StatusError{Status: status, Message: message}
}

// =============================================================================
// ERROR PREDICATES
// =============================================================================

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == status
	}
	return false
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
