// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatsync/internal/model"
	"github.com/jeranaias/chatsync/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the complete chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if toasts := m.toasts.View(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}
	return b.String()
}

// refreshViewport rebuilds the viewport content from the current dialogue
// snapshot.
func (m *Model) refreshViewport() {
	if m.conversationID == "" {
		m.viewport.SetContent(m.theme.Muted.Render("Opening conversation..."))
		return
	}

	page, ok := m.services.Dialogue.Get(m.conversationID)
	if !ok || len(page.Data) == 0 {
		m.viewport.SetContent(m.theme.Muted.Render("No messages yet. Say hello."))
		return
	}

	lines := make([]string, 0, len(page.Data)*2)
	if page.HasMore() {
		lines = append(lines, m.theme.Muted.Render("  ^ older messages available (C-o)"))
	}
	for _, item := range page.Data {
		lines = append(lines, m.renderItem(item))
	}
	m.viewport.SetContent(strings.Join(lines, "\n\n"))
}

// renderItem renders one dialogue turn.
func (m Model) renderItem(item model.DialogueItem) string {
	maxWidth := m.width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	switch item := item.(type) {
	case model.TextRequestMessage:
		bubble := m.theme.UserBubble.MaxWidth(maxWidth).Render(item.Data)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)

	case model.Loading:
		return m.spinner.View() + m.theme.Muted.Render(" thinking...")

	case model.Response:
		text := item.Response.Response
		if text == "" {
			text = "..."
		}
		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(text)
		if len(item.Response.Citations) > 0 {
			bubble += "\n" + m.renderCitations(item.Response.Citations)
		}
		return bubble

	case model.Failure:
		return m.theme.FailureBubble.Render("x " + item.ErrorMessage)
	}
	return ""
}

// renderCitations lists the sources backing a response.
func (m Model) renderCitations(citations []model.Citation) string {
	lines := make([]string, 0, len(citations))
	for i, c := range citations {
		lines = append(lines, fmt.Sprintf("  [%d] %s p.%d", i+1, c.FileName, c.PageNumber))
	}
	return m.theme.Citation.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("chatsync")
	user := ""
	if m.services.User.Name != "" {
		user = m.theme.Muted.Render("  " + util.TruncateWidth(m.services.User.Name, m.width/3))
	}
	return m.theme.Header.Width(m.width).Render(title + user)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatus() string {
	switch m.state {
	case StateLoading:
		return m.theme.StatusBar.Render(m.spinner.View() + " loading conversation...")
	case StateStreaming:
		return m.theme.StatusBar.Render(m.spinner.View() + " streaming  (Esc to cancel)")
	case StateLoggedOut:
		return m.theme.StatusBar.Render("Session expired. Please sign in again (C-c to quit).")
	default:
		return m.theme.StatusBar.Render("Enter send | C-n new chat | C-o older | C-c quit")
	}
}
