package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines every keybinding of the work order terminal.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding

	New      key.Binding
	Save     key.Binding
	Search   key.Binding
	Delete   key.Binding
	Print    key.Binding
	Email    key.Binding
	Items    key.Binding
	Lookup   key.Binding
	List     key.Binding
	Reload   key.Binding
	AddItem  key.Binding
	DelItem  key.Binding
	Settings key.Binding
}

// DefaultKeyMap returns a KeyMap populated with the default keybindings.
// Work order actions use ctrl chords so they stay available while a form
// field has focus.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new order"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "search by number"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete order"),
		),
		Print: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "save and render"),
		),
		Email: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export e-mail draft"),
		),
		Items: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "items"),
		),
		Lookup: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "look up CEP"),
		),
		List: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "list orders"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload table"),
		),
		AddItem: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		DelItem: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove item"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "settings"),
		),
	}
}

// ShortHelp returns a compact list of key bindings for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Save, k.Search, k.Print, k.Help, k.Quit}
}

// FullHelp returns all key bindings grouped into columns for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Save, k.Search, k.Delete, k.Reload},
		{k.Print, k.Email, k.Lookup, k.Items, k.List},
		{k.AddItem, k.DelItem, k.Up, k.Down, k.Select},
		{k.Settings, k.Back, k.Help, k.Quit},
	}
}
