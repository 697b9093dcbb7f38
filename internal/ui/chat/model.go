// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatsync"
	"github.com/jeranaias/chatsync/internal/notify"
	"github.com/jeranaias/chatsync/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateLoading   State = iota // Entering a conversation
	StateReady                  // Ready for input
	StateStreaming              // Receiving streaming response
	StateLoggedOut              // Session expired; input blocked
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	// Backing services; the dialogue rendered in View is always a fresh
	// snapshot of services.Dialogue, never a copy held by the model.
	services       *chatsync.Services
	conversationID string

	// Id of the in-flight user turn, for cancellation.
	streamingUserID string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	toasts   *notify.ToastView

	keyMap KeyMap
}

// New creates the chat model over an assembled services container.
func New(services *chatsync.Services) Model {
	input := textinput.New()
	input.Placeholder = "Ask something..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		state:    StateLoading,
		theme:    styles.NewTheme(),
		services: services,
		input:    input,
		spinner:  sp,
		toasts:   notify.NewToastView(services.Sink),
		keyMap:   DefaultKeyMap(),
	}
}

// Init starts the background machinery: conversation bootstrap, toast
// expiry ticks, input blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		bootstrapCmd(m.services),
		notify.ToastTickCmd(),
		textinput.Blink,
		m.spinner.Tick,
	)
}

// ConversationID returns the conversation currently on screen.
func (m Model) ConversationID() string {
	return m.conversationID
}
