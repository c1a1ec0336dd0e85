package orderlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// OrderItem wraps a work order so it can be used in a bubbles/list.
type OrderItem struct {
	Order model.WorkOrder
}

// FilterValue matches on number, client and plate.
func (i OrderItem) FilterValue() string {
	return strings.Join([]string{i.Order.ID, i.Order.Client.Name, i.Order.Vehicle.Plate}, " ")
}

// Title returns the number and client name.
func (i OrderItem) Title() string {
	return i.Order.ID + " " + i.Order.Client.Name
}

// Description returns the date, plate, status and total.
func (i OrderItem) Description() string {
	return strings.Join([]string{
		i.Order.Date,
		i.Order.Vehicle.Plate,
		string(i.Order.Status),
		"R$ " + numfmt.FormatNullMoney(i.Order.Total),
	}, " | ")
}

// ItemDelegate renders one order per line.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	oi, ok := item.(OrderItem)
	if !ok {
		return
	}
	o := oi.Order

	total := "R$ " + numfmt.FormatNullMoney(o.Total)
	if !o.Total.Valid {
		total = "-"
	}

	line := fmt.Sprintf("%-6s  %-10s  %-24s  %-8s  %12s",
		o.ID,
		o.Date,
		truncate(o.Client.Name, 24),
		o.Vehicle.Plate,
		total,
	)
	status := theme.StatusStyle(o.Status).Render(string(o.Status))
	if o.HasOpaqueItems() {
		status += theme.WarningStyle.Render(" !")
	}

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line)+" "+status)
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line)+" "+status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
