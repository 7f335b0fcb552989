package tui

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type authKeyMap struct {
	NextField  key.Binding
	PrevField  key.Binding
	Activate   key.Binding
	SwitchMode key.Binding
	Quit       key.Binding
}

func newAuthKeyMap() authKeyMap {
	return authKeyMap{
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		SwitchMode: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch mode")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k authKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Activate, k.SwitchMode, k.Quit}
}

func (k authKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.PrevField, k.Activate, k.SwitchMode, k.Quit}}
}

type taskKeyMap struct {
	UpDown  key.Binding
	Add     key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Filter  key.Binding
	Clear   key.Binding
	SignOut key.Binding
	Quit    key.Binding
}

func newTaskKeyMap() taskKeyMap {
	return taskKeyMap{
		UpDown:  key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("j/k", "navigate")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		SignOut: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign out")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k taskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.Add, k.Toggle, k.Filter, k.SignOut, k.Quit}
}

func (k taskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.UpDown, k.Add, k.Toggle, k.Delete, k.Filter, k.Clear, k.SignOut, k.Quit}}
}
