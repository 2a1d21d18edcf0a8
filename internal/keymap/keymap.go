// Package keymap defines the keyboard shortcuts for the grid editor and
// groups them into help categories.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Category groups related bindings for the help view.
type Category string

const (
	CategoryFile       Category = "file"
	CategoryEdit       Category = "edit"
	CategoryNavigation Category = "navigation"
	CategorySelection  Category = "selection"
	CategoryView       Category = "view"
	CategoryHelp       Category = "help"
)

// KeyMap holds every binding the grid editor responds to.
type KeyMap struct {
	// File
	Save    key.Binding
	Quit    key.Binding
	Reload  key.Binding

	// Edit
	Edit      key.Binding
	Clear     key.Binding
	Undo      key.Binding
	Redo      key.Binding
	AddRow    key.Binding
	DeleteRow key.Binding
	DupRow    key.Binding
	AddCol    key.Binding
	DeleteCol key.Binding

	// Navigation
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	NextSheet key.Binding
	PrevSheet key.Binding

	// Selection / editing session
	Confirm key.Binding
	Cancel  key.Binding

	// View
	Search       key.Binding
	Filter       key.Binding
	ClearFilters key.Binding

	// Help
	Help key.Binding
}

// Default returns the standard key map.
func Default() KeyMap {
	return KeyMap{
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload file")),

		Edit:      key.NewBinding(key.WithKeys("enter", "f2"), key.WithHelp("enter", "edit cell")),
		Clear:     key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "clear cell")),
		Undo:      key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("ctrl+z", "undo")),
		Redo:      key.NewBinding(key.WithKeys("ctrl+y", "ctrl+shift+z"), key.WithHelp("ctrl+y", "redo")),
		AddRow:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "insert row")),
		DeleteRow: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete row")),
		DupRow:    key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "duplicate row")),
		AddCol:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "insert column")),
		DeleteCol: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "delete column")),

		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "right")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first column")),
		End:       key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last column")),
		NextSheet: key.NewBinding(key.WithKeys("ctrl+right", "]"), key.WithHelp("]", "next sheet")),
		PrevSheet: key.NewBinding(key.WithKeys("ctrl+left", "["), key.WithHelp("[", "prev sheet")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Search:       key.NewBinding(key.WithKeys("/", "ctrl+f"), key.WithHelp("/", "search")),
		Filter:       key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "filter")),
		ClearFilters: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear filters")),

		Help: key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
	}
}

// Entry pairs a binding with the category it belongs to in the help view.
type Entry struct {
	Binding  key.Binding
	Category Category
}

// Entries returns all bindings grouped for help rendering, in display order.
func (k KeyMap) Entries() []Entry {
	return []Entry{
		{k.Save, CategoryFile},
		{k.Reload, CategoryFile},
		{k.Quit, CategoryFile},
		{k.Edit, CategoryEdit},
		{k.Clear, CategoryEdit},
		{k.Undo, CategoryEdit},
		{k.Redo, CategoryEdit},
		{k.AddRow, CategoryEdit},
		{k.DeleteRow, CategoryEdit},
		{k.DupRow, CategoryEdit},
		{k.AddCol, CategoryEdit},
		{k.DeleteCol, CategoryEdit},
		{k.Up, CategoryNavigation},
		{k.Down, CategoryNavigation},
		{k.Left, CategoryNavigation},
		{k.Right, CategoryNavigation},
		{k.PageUp, CategoryNavigation},
		{k.PageDown, CategoryNavigation},
		{k.Home, CategoryNavigation},
		{k.End, CategoryNavigation},
		{k.NextSheet, CategoryNavigation},
		{k.PrevSheet, CategoryNavigation},
		{k.Confirm, CategorySelection},
		{k.Cancel, CategorySelection},
		{k.Search, CategoryView},
		{k.Filter, CategoryView},
		{k.ClearFilters, CategoryView},
		{k.Help, CategoryHelp},
	}
}

// AllowedWhileEditing reports whether a key press should still be dispatched
// as a shortcut while a text input has focus. Everything else is passed to
// the input so typing "j" writes a j instead of moving the cursor.
func (k KeyMap) AllowedWhileEditing(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Confirm) ||
		key.Matches(msg, k.Cancel) ||
		key.Matches(msg, k.Quit) ||
		key.Matches(msg, k.Save)
}
