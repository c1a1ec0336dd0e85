package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/keys"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// Model is the help overlay listing every shortcut and the storage in use.
type Model struct {
	keys     *keys.KeyMap
	help     help.Model
	location string
	width    int
	height   int
}

// New creates a help overlay. location is shown as the table file.
func New(keys *keys.KeyMap, location string, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:     keys,
		help:     h,
		location: location,
		width:    width,
		height:   height,
	}
}

// Update is a no-op; the app closes the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the overlay.
func (m Model) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render("Atalhos"),
		m.help.View(m.keys),
		"",
		theme.HelpStyle.Render("Tabela: "+m.location),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 20)).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
