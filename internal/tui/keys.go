package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit   key.Binding
	RunNow key.Binding
	Clear  key.Binding
	Help   key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
	RunNow: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run pass now")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear history")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
}

// helpLine renders the bindings as "key: desc" pairs for the footer.
func (k keyMap) helpLine() string {
	bindings := []key.Binding{k.Quit, k.RunNow, k.Clear, k.Help}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
