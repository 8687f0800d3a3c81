package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	MoreCount key.Binding
	LessCount key.Binding
	Exact     key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		MoreCount: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "more results")),
		LessCount: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "fewer results")),
		Exact:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "exact match")),
		NextPage:  key.NewBinding(key.WithKeys("pgdown", "ctrl+n"), key.WithHelp("pgdn", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("pgup", "ctrl+p"), key.WithHelp("pgup", "prev page")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.MoreCount, k.Exact, k.PrevPage, k.NextPage, k.Quit}
}
