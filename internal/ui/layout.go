package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// Layout manages the terminal frame: title bar, content and status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// The message line counts as part of the status bar.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 2,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title bar with the current order on the right.
func (l Layout) RenderHeader(title, current string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	currentRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(current)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		l.fill(theme.HeaderStyle, lipgloss.Width(titleRendered)+lipgloss.Width(currentRendered)),
		currentRendered,
	)
}

// RenderStatusBar renders the message line above the keyboard hints.
func (l Layout) RenderStatusBar(message, hints string) string {
	msgLine := lipgloss.NewStyle().Width(l.Width).Render(message)

	rendered := theme.StatusBarStyle.Render(hints)
	hintLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		l.fill(theme.StatusBarStyle, lipgloss.Width(rendered)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, msgLine, hintLine)
}

func (l Layout) fill(style lipgloss.Style, used int) string {
	gap := l.Width - used
	if gap < 0 {
		gap = 0
	}
	return style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)
}

// RenderWithFrame joins header, content and status bar vertically. The
// content is padded to ContentHeight so the status bar stays at the bottom.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	body := lipgloss.NewStyle().Height(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}
