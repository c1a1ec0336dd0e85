package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// Purpose tells the app what a submitted prompt answers.
type Purpose int

const (
	PurposeSearch Purpose = iota
	PurposeConfirmDelete
	PurposeEmailTo
)

// SubmittedMsg is emitted when the user presses enter.
type SubmittedMsg struct {
	Purpose Purpose
	Value   string
}

// CancelledMsg is emitted on esc.
type CancelledMsg struct {
	Purpose Purpose
}

// Model is a one-line input overlay used for search, delete
// confirmation and the e-mail recipient.
type Model struct {
	input   textinput.Model
	purpose Purpose
	title   string
	detail  string
	width   int
}

// New creates an idle prompt.
func New(width int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Width = width - 6
	return Model{input: ti, width: width}
}

// Start resets the prompt for a new question and focuses the input.
// detail is shown under the title, value pre-fills the input.
func (m *Model) Start(p Purpose, title, detail, placeholder, value string) tea.Cmd {
	m.purpose = p
	m.title = title
	m.detail = detail
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Purpose returns what the prompt is currently asking for.
func (m Model) Purpose() Purpose {
	return m.purpose
}

// Update handles key input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			p := m.purpose
			m.input.Blur()
			return m, func() tea.Msg {
				return SubmittedMsg{Purpose: p, Value: value}
			}
		case "esc":
			p := m.purpose
			m.input.Blur()
			return m, func() tea.Msg {
				return CancelledMsg{Purpose: p}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt panel.
func (m Model) View() string {
	parts := []string{theme.TitleStyle.Render(m.title)}
	if m.detail != "" {
		parts = append(parts, theme.HelpStyle.Render(m.detail))
	}
	parts = append(parts, m.input.View())

	return theme.PanelStyle.
		Width(max(m.width-4, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the prompt width.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.input.Width = width - 6
}
