package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	prevMonth key.Binding
	nextMonth key.Binding
	today     key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	logout    key.Binding
	copy      key.Binding
	version   key.Binding
	signup    key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	left:      key.NewBinding(key.WithKeys("left", "h")),
	right:     key.NewBinding(key.WithKeys("right", "l")),
	prevMonth: key.NewBinding(key.WithKeys("[", "p")),
	nextMonth: key.NewBinding(key.WithKeys("]", "n")),
	today:     key.NewBinding(key.WithKeys("t")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q")),
	logout:    key.NewBinding(key.WithKeys("L")),
	copy:      key.NewBinding(key.WithKeys("c")),
	version:   key.NewBinding(key.WithKeys("v")),
	signup:    key.NewBinding(key.WithKeys("ctrl+s")),
}
