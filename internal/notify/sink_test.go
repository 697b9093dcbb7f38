// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpError mimics a transport error carrying an HTTP status.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string   { return e.message }
func (e *httpError) HTTPStatus() int { return e.status }

// =============================================================================
// ERROR HANDLING TESTS
// =============================================================================

func TestSink_HandleErrorEnqueuesToast(t *testing.T) {
	s := NewSink()

	s.HandleError(errors.New("fetch failed"), "")

	notifications := s.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, CategoryError, notifications[0].Category)
	assert.Equal(t, "fetch failed", notifications[0].Message)
	assert.NotEmpty(t, notifications[0].ID)
	assert.False(t, s.ForceLogout())
}

func TestSink_HandleErrorPrefersFallback(t *testing.T) {
	s := NewSink()

	s.HandleError(errors.New("raw transport noise"), "Failed to load messages")

	notifications := s.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Failed to load messages", notifications[0].Message)
}

func TestSink_HandleErrorNilUsesGenericMessage(t *testing.T) {
	s := NewSink()

	s.HandleError(nil, "")

	notifications := s.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Something went wrong", notifications[0].Message)
}

func TestSink_Handle401SetsStickyForceLogout(t *testing.T) {
	s := NewSink()

	s.HandleError(&httpError{status: 401, message: "Unauthorized"}, "")

	// No toast, just the blocking flag.
	assert.Empty(t, s.Notifications())
	assert.True(t, s.ForceLogout())

	// Sticky across later successes and failures.
	s.HandleError(errors.New("other"), "")
	assert.True(t, s.ForceLogout())
}

func TestSink_Non401StatusBecomesToast(t *testing.T) {
	s := NewSink()

	s.HandleError(&httpError{status: 500, message: "Internal Server Error"}, "")

	require.Len(t, s.Notifications(), 1)
	assert.False(t, s.ForceLogout())
}

// =============================================================================
// LOG BOUNDS TESTS
// =============================================================================

func TestSink_OldestEvictedPastMax(t *testing.T) {
	s := NewSink()

	s.HandleWarning("one")
	s.HandleWarning("two")
	s.HandleWarning("three")
	s.HandleWarning("four")

	notifications := s.Notifications()
	require.Len(t, notifications, MaxNotifications)
	assert.Equal(t, "two", notifications[0].Message)
	assert.Equal(t, "four", notifications[2].Message)
}

func TestSink_RemoveNotification(t *testing.T) {
	s := NewSink()
	s.HandleWarning("keep")
	s.HandleSuccess("drop")

	var dropID string
	for _, n := range s.Notifications() {
		if n.Message == "drop" {
			dropID = n.ID
		}
	}
	s.RemoveNotification(dropID)

	notifications := s.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "keep", notifications[0].Message)

	// Removing an unknown id is a no-op.
	s.RemoveNotification("ghost")
	assert.Len(t, s.Notifications(), 1)
}

func TestSink_CategoryString(t *testing.T) {
	assert.Equal(t, "Success", CategorySuccess.String())
	assert.Equal(t, "Error", CategoryError.String())
	assert.Equal(t, "Warning", CategoryWarning.String())
}

func TestSink_Reset(t *testing.T) {
	s := NewSink()
	s.HandleWarning("w")
	s.HandleError(&httpError{status: 401}, "")

	s.Reset()

	assert.Empty(t, s.Notifications())
	assert.False(t, s.ForceLogout())
}
