package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Runs    key.Binding
	Wide    key.Binding
	NoBall  key.Binding
	Wicket  key.Binding
	Advance key.Binding
	Scroll  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Runs: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6"),
			key.WithHelp("0-6", "runs"),
		),
		Wide: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "wide"),
		),
		NoBall: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no ball"),
		),
		Wicket: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wicket"),
		),
		Advance: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "add over"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown", "k", "j"),
			key.WithHelp("↑/↓", "scroll overs"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Runs, k.Wide, k.NoBall, k.Wicket, k.Advance, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Runs, k.Wide, k.NoBall, k.Wicket},
		{k.Advance, k.Scroll},
		{k.Help, k.Quit},
	}
}
