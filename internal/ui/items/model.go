package items

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/keys"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// AddedMsg carries a validated item to append to the current order.
type AddedMsg struct {
	Item model.LineItem
}

// RemoveMsg asks the app to drop the item at Index.
type RemoveMsg struct {
	Index int
}

// Model shows the items of the current order in a table and hosts the
// entry form.
type Model struct {
	table    table.Model
	keys     *keys.KeyMap
	entry    *entry
	form     *huh.Form
	items    []model.LineItem
	subtotal string
	width    int
	height   int
}

// New creates an empty item view.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height-6, 3)),
	)
	return Model{
		table:  t,
		keys:   k,
		entry:  &entry{},
		width:  width,
		height: height,
	}
}

func columns(width int) []table.Column {
	desc := max(width-70, 16)
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Tipo", Width: 12},
		{Title: "Ref.", Width: 10},
		{Title: "Descrição", Width: desc},
		{Title: "Qtd", Width: 4},
		{Title: "Unitário", Width: 11},
		{Title: "Desc.%", Width: 6},
		{Title: "Total", Width: 11},
	}
}

// SetItems refreshes the table from the order's items and subtotal.
func (m *Model) SetItems(items []model.LineItem, subtotal string) {
	m.items = items
	m.subtotal = subtotal

	rows := make([]table.Row, len(items))
	for i, it := range items {
		if it.Opaque {
			rows[i] = table.Row{strconv.Itoa(i + 1), "?", "", it.Raw, "", "", "", ""}
			continue
		}
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			string(it.Kind),
			it.Reference,
			it.Description,
			strconv.Itoa(it.Quantity),
			numfmt.FormatMoney(it.UnitPrice),
			it.DiscountPercent.String(),
			numfmt.FormatMoney(it.LineTotal),
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Editing reports whether the entry form is open.
func (m Model) Editing() bool {
	return m.form != nil
}

// StartEntry opens the entry form with default values.
func (m *Model) StartEntry() tea.Cmd {
	m.entry.reset()
	m.form = buildEntryForm(m.entry, min(max(m.width-4, 40), 80))
	m.table.Blur()
	return m.form.Init()
}

func (m *Model) closeEntry() {
	m.form = nil
	m.table.Focus()
}

// Update handles the table keys or forwards to the entry form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		mdl, cmd := m.form.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.form = f
		}
		switch m.form.State {
		case huh.StateCompleted:
			item, err := m.entry.parse()
			m.closeEntry()
			if err != nil {
				return m, nil
			}
			return m, func() tea.Msg { return AddedMsg{Item: item} }
		case huh.StateAborted:
			m.closeEntry()
			return m, nil
		}
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.AddItem):
			return m, m.StartEntry()
		case key.Matches(msg, m.keys.DelItem):
			if len(m.items) == 0 {
				return m, nil
			}
			idx := m.table.Cursor()
			return m, func() tea.Msg { return RemoveMsg{Index: idx} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, the subtotal and, when open, the entry form.
func (m Model) View() string {
	summary := fmt.Sprintf("%d itens  |  Total dos itens: R$ %s", len(m.items), m.subtotal)
	parts := []string{
		theme.TitleStyle.Render("Itens"),
		m.table.View(),
		theme.HelpStyle.Render(summary),
	}
	if m.form != nil {
		parts = append(parts, "", m.form.View())
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height-6, 3))
}
