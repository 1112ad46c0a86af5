package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter  key.Binding
	back   key.Binding
	toggle key.Binding
	sort   key.Binding
	reload key.Binding
	notify key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		notify: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.sort, k.reload, k.notify, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back},
		{k.toggle, k.sort, k.reload},
		{k.notify, k.quit},
	}
}
