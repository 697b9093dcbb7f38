// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify is the process-wide destination for transient user-facing
// notices and the sticky force-re-authenticate flag.
//
// Every other component's remote-fetch failure path funnels through the
// Sink: ordinary failures become short-lived toasts (at most three at once,
// oldest evicted first), while an Unauthorized response flips the sticky
// forceLogout flag instead of enqueueing a toast.
package notify

import (
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// MaxNotifications bounds the toast log; the oldest entry is dropped first.
const MaxNotifications = 3

// fallbackErrorMessage is shown when an error carries no usable message.
const fallbackErrorMessage = "Something went wrong"

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// Category classifies a notification for display.
type Category int

const (
	CategorySuccess Category = iota
	CategoryError
	CategoryWarning
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "Success"
	case CategoryError:
		return "Error"
	case CategoryWarning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// Notification is one transient user-facing notice.
type Notification struct {
	ID       string
	Category Category
	Message  string
}

// statusCoder is implemented by transport errors that carry an HTTP status.
// Declared locally so the sink does not depend on the transport package.
type statusCoder interface {
	HTTPStatus() int
}

// =============================================================================
// SINK
// =============================================================================

// Sink is the append-only bounded notification log plus the sticky
// force-logout flag.
type Sink struct {
	mu            sync.Mutex
	notifications []Notification
	forceLogout   bool
}

// NewSink creates an empty notification sink.
func NewSink() *Sink {
	return &Sink{}
}

// HandleError routes a failure to the user. An error carrying HTTP status
// 401 sets the sticky force-logout flag; anything else enqueues an error
// toast using the error's own message, or fallback when provided.
func (s *Sink) HandleError(err error, fallback string) {
	var coder statusCoder
	if errors.As(err, &coder) && coder.HTTPStatus() == http.StatusUnauthorized {
		s.mu.Lock()
		s.forceLogout = true
		s.mu.Unlock()
		return
	}

	message := fallback
	if message == "" && err != nil {
		message = err.Error()
	}
	if message == "" {
		message = fallbackErrorMessage
	}
	s.add(CategoryError, message)
}

// HandleWarning enqueues a warning toast.
func (s *Sink) HandleWarning(message string) {
	s.add(CategoryWarning, message)
}

// HandleSuccess enqueues a success toast.
func (s *Sink) HandleSuccess(message string) {
	s.add(CategorySuccess, message)
}

// add appends a notification, evicting the oldest past MaxNotifications.
func (s *Sink) add(category Category, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, Notification{
		ID:       uuid.NewString(),
		Category: category,
		Message:  message,
	})
	if len(s.notifications) > MaxNotifications {
		s.notifications = s.notifications[len(s.notifications)-MaxNotifications:]
	}
}

// RemoveNotification deletes a notification by id; no-op when absent.
func (s *Sink) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// Notifications returns a snapshot of the current log, oldest first.
func (s *Sink) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

// ForceLogout reports whether a blocking re-authenticate state is required.
// The flag is sticky: once set it survives until Reset.
func (s *Sink) ForceLogout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forceLogout
}

// Reset clears the log and the force-logout flag.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	s.forceLogout = false
}
