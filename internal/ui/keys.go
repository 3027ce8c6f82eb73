package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/nzaccagnino/volon/internal/i18n"
)

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Edit    key.Binding
	Escape  key.Binding
	Save    key.Binding
	New     key.Binding
	Delete  key.Binding
	Undo    key.Binding
	Search  key.Binding
	Preview key.Binding
	Aside   key.Binding
	Order   key.Binding
	Export  key.Binding
	Quit    key.Binding
	Help    key.Binding
}

func NewKeyMap() KeyMap {
	t := i18n.T()
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", t.KeyUp),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", t.KeyDown),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", t.KeyEnter),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", t.KeyEdit),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", t.KeyEscape),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", t.KeySave),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n", "n"),
			key.WithHelp("Ctrl+N", t.KeyNew),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d", "d"),
			key.WithHelp("Ctrl+D", t.KeyDelete),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "u"),
			key.WithHelp("Ctrl+Z", t.KeyUndo),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+k", "/"),
			key.WithHelp("Ctrl+K", t.KeySearch),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("Ctrl+P", t.KeyPreview),
		),
		Aside: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("Ctrl+B", t.KeyAside),
		),
		Order: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("Ctrl+O", t.KeyOrder),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", t.KeyExport),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("Ctrl+Q", t.KeyQuit),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", t.KeyHelp),
		),
	}
}

// EditorKeys are the bindings still active while the textarea has focus.
// Single letters are typed into the note there.
func (k KeyMap) EditorKeys() KeyMap {
	e := k
	e.New = key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("Ctrl+N", k.New.Help().Desc))
	e.Delete = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("Ctrl+D", k.Delete.Help().Desc))
	e.Undo = key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("Ctrl+Z", k.Undo.Help().Desc))
	e.Search = key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("Ctrl+K", k.Search.Help().Desc))
	e.Quit = key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("Ctrl+Q", k.Quit.Help().Desc))
	return e
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Enter, k.Edit, k.Delete, k.Undo, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Search, k.Escape},
		{k.Edit, k.Save, k.New, k.Delete, k.Undo},
		{k.Preview, k.Aside, k.Order, k.Export},
		{k.Help, k.Quit},
	}
}
