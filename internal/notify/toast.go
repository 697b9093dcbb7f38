// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Non-blocking toast presentation for sink notifications, in the style of
// lazygit's popup/toast system: toasts stack in a corner and auto-dismiss
// instead of blocking input.
package notify

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastDuration is how long a toast stays on screen before auto-dismissal.
const ToastDuration = 4 * time.Second

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire shown toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastDismissMsg requests dismissing a specific toast early.
type ToastDismissMsg struct {
	ID string
}

// ForceLogoutMsg signals the blocking re-authenticate state.
type ForceLogoutMsg struct{}

// ToastTickCmd returns a command that ticks the toast view every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST VIEW
// =============================================================================

// ToastView renders the sink's notifications as a stacked toast corner.
type ToastView struct {
	sink  *Sink
	width int

	// shownAt tracks first display time per notification id so each toast
	// expires ToastDuration after it appeared, not after it was created.
	shownAt map[string]time.Time
}

// NewToastView creates a view over the given sink.
func NewToastView(sink *Sink) *ToastView {
	return &ToastView{
		sink:    sink,
		shownAt: make(map[string]time.Time),
	}
}

// Update handles toast-related messages.
func (v *ToastView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case ToastDismissMsg:
		v.sink.RemoveNotification(msg.ID)
		delete(v.shownAt, msg.ID)
	case ToastTickMsg:
		v.expire(msg.Time)
		if v.sink.ForceLogout() {
			return tea.Batch(ToastTickCmd(), func() tea.Msg { return ForceLogoutMsg{} })
		}
		return ToastTickCmd()
	}
	return nil
}

// expire removes notifications shown longer than ToastDuration.
func (v *ToastView) expire(now time.Time) {
	for _, n := range v.sink.Notifications() {
		first, seen := v.shownAt[n.ID]
		if !seen {
			v.shownAt[n.ID] = now
			continue
		}
		if now.Sub(first) >= ToastDuration {
			v.sink.RemoveNotification(n.ID)
			delete(v.shownAt, n.ID)
		}
	}
}

// View renders the current toast stack, newest at the bottom.
func (v *ToastView) View() string {
	notifications := v.sink.Notifications()
	if len(notifications) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(notifications))
	for _, n := range notifications {
		rendered = append(rendered, renderToast(n, v.width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// =============================================================================
// RENDERING
// =============================================================================

var (
	roseColor    = lipgloss.AdaptiveColor{Light: "#e11d48", Dark: "#fb7185"}
	amberColor   = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
	emeraldColor = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}
)

// renderToast renders one notification as a bordered box.
func renderToast(n Notification, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch n.Category {
	case CategoryError:
		color, icon = roseColor, "✗"
	case CategoryWarning:
		color, icon = amberColor, "⚠"
	default:
		color, icon = emeraldColor, "✓"
	}

	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	content := iconStyle.Render(icon+" ") + wrapToastText(n.Message, maxWidth-10)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(content)
}

// wrapToastText performs simple word wrapping for toast messages.
func wrapToastText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var current strings.Builder
	for _, word := range words {
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= maxWidth:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
