package orderlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/keys"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// SelectedMsg is sent when the user opens an order from the list.
type SelectedMsg struct {
	ID string
}

// Model is the read-only list of saved work orders.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates an empty order list.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Ordens de serviço"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetOrders replaces the list content, keeping table order.
func (m *Model) SetOrders(orders []model.WorkOrder) tea.Cmd {
	items := make([]list.Item, len(orders))
	for i, o := range orders {
		items[i] = OrderItem{Order: o}
	}
	return m.list.SetItems(items)
}

// Len returns the number of listed orders.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the fuzzy filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles selection and navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(msg, m.keys.Select) {
		item, ok := m.list.SelectedItem().(OrderItem)
		if !ok {
			return m, nil
		}
		id := item.Order.ID
		return m, func() tea.Msg { return SelectedMsg{ID: id} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, or guidance text when the table is empty.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nenhuma ordem de serviço salva.\n\nctrl+n cria uma nova.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
