// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatsync"
	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/notify"
)

// repaintInterval drives dialogue snapshots while a response streams. The
// cache already throttles writes; this only bounds how often we re-render.
const repaintInterval = 100 * time.Millisecond

// =============================================================================
// MESSAGES
// =============================================================================

// conversationReadyMsg reports the conversation whose caches are now warm.
type conversationReadyMsg struct {
	ConversationID string
}

// bootstrapFailedMsg reports that no conversation could be opened.
type bootstrapFailedMsg struct{}

// streamFinishedMsg reports that a send flow ended, successfully or not.
type streamFinishedMsg struct {
	ConversationID string
}

// repaintTickMsg re-snapshots the dialogue while streaming is active.
type repaintTickMsg struct{}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// bootstrapCmd opens the most recent conversation, creating one when the
// account has none, and warms its caches.
func bootstrapCmd(services *chatsync.Services) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if err := services.LoadOlderConversations(ctx); err != nil {
			return bootstrapFailedMsg{}
		}

		page, _ := services.Conversations.Get()
		var conversationID string
		if len(page.Data) > 0 {
			conversationID = page.Data[0].ID
		} else {
			conversation, err := services.CreateConversation(ctx)
			if err != nil {
				return bootstrapFailedMsg{}
			}
			conversationID = conversation.ID
		}

		if err := services.EnterConversation(ctx, conversationID); err != nil {
			return bootstrapFailedMsg{}
		}
		return conversationReadyMsg{ConversationID: conversationID}
	}
}

// newConversationCmd creates a fresh conversation and enters it.
func newConversationCmd(services *chatsync.Services) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		conversation, err := services.CreateConversation(ctx)
		if err != nil {
			return bootstrapFailedMsg{}
		}
		if err := services.EnterConversation(ctx, conversation.ID); err != nil {
			return bootstrapFailedMsg{}
		}
		return conversationReadyMsg{ConversationID: conversation.ID}
	}
}

// sendCmd runs the full send flow. SendMessage blocks until the stream
// completes; dialogue updates land in the cache and are picked up by the
// repaint ticks.
func sendCmd(services *chatsync.Services, conversationID, prompt string) tea.Cmd {
	return func() tea.Msg {
		services.SendMessage(context.Background(), conversationID, prompt)
		return streamFinishedMsg{ConversationID: conversationID}
	}
}

// cancelCmd fires the cancel side channel for the in-flight turn.
func cancelCmd(services *chatsync.Services, conversationID, userMessageID string) tea.Cmd {
	return func() tea.Msg {
		services.CancelMessage(context.Background(), conversationID, userMessageID)
		return nil
	}
}

// loadOlderCmd pages older dialogue above the cached timeline.
func loadOlderCmd(services *chatsync.Services, conversationID string) tea.Cmd {
	return func() tea.Msg {
		services.LoadOlderMessages(context.Background(), conversationID)
		return repaintTickMsg{}
	}
}

func repaintTick() tea.Cmd {
	return tea.Tick(repaintInterval, func(time.Time) tea.Msg {
		return repaintTickMsg{}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := m.toasts.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshViewport()

	case tea.KeyMsg:
		return m.handleKey(msg, cmds)

	case conversationReadyMsg:
		m.conversationID = msg.ConversationID
		m.state = StateReady
		m.refreshViewport()
		m.viewport.GotoBottom()

	case bootstrapFailedMsg:
		m.state = StateReady

	case streamFinishedMsg:
		if msg.ConversationID == m.conversationID {
			m.state = StateReady
			m.streamingUserID = ""
			m.refreshViewport()
		}

	case repaintTickMsg:
		m.refreshViewport()
		m.viewport.GotoBottom()
		if m.state == StateStreaming {
			m.trackStreamingUserID()
			cmds = append(cmds, repaintTick())
		}

	case notify.ForceLogoutMsg:
		m.state = StateLoggedOut
		m.input.Blur()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		if m.state != StateReady || m.conversationID == "" {
			break
		}
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			break
		}
		m.input.Reset()
		m.state = StateStreaming
		m.streamingUserID = model.MessageIDPlaceholder
		cmds = append(cmds,
			sendCmd(m.services, m.conversationID, prompt),
			repaintTick(),
		)

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming && m.streamingUserID != "" {
			cmds = append(cmds, cancelCmd(m.services, m.conversationID, m.streamingUserID))
		}

	case key.Matches(msg, m.keyMap.NewChat):
		if m.state == StateReady {
			m.state = StateLoading
			cmds = append(cmds, newConversationCmd(m.services))
		}

	case key.Matches(msg, m.keyMap.Older):
		if m.state == StateReady && m.conversationID != "" {
			cmds = append(cmds, loadOlderCmd(m.services, m.conversationID))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// trackStreamingUserID resolves the placeholder id to the server-issued one
// once reconciliation lands, so cancel targets the real turn.
func (m *Model) trackStreamingUserID() {
	if m.streamingUserID != model.MessageIDPlaceholder {
		return
	}
	page, ok := m.services.Dialogue.Get(m.conversationID)
	if !ok {
		return
	}
	for i := len(page.Data) - 1; i >= 0; i-- {
		if request, isRequest := page.Data[i].(model.TextRequestMessage); isRequest {
			m.streamingUserID = request.MessageID
			return
		}
	}
}

func (m *Model) resize() {
	headerHeight := 2
	inputHeight := 3
	statusHeight := 1
	m.viewport = viewport.New(m.width, m.height-headerHeight-inputHeight-statusHeight)
	m.input.Width = m.width - 6
}
