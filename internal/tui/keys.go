package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the picker.
type keyMap struct {
	Quit      key.Binding
	Confirm   key.Binding
	Back      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Preview   key.Binding
	Up        key.Binding
	Down      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle all"),
	),
	Preview: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "preview"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "scroll down"),
	),
}

// pickerHelp lists the bindings shown under the list.
func pickerHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.ToggleAll, keys.Preview, keys.Confirm, keys.Quit}
}

// renderHelp renders bindings as "key desc · key desc".
func renderHelp(bindings []key.Binding) string {
	var s string
	for i, b := range bindings {
		if i > 0 {
			s += " · "
		}
		h := b.Help()
		s += h.Key + " " + h.Desc
	}
	return helpStyle.Render("  " + s)
}
