package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/shardbal/internal/engine"
)

// TickMsg refreshes elapsed-time displays.
type TickMsg time.Time

// Sink forwards balancer events to a running program. Send blocks until the
// program accepts the message and is a no-op once the program has exited.
func Sink(p *tea.Program) engine.Sink {
	return func(event any) {
		p.Send(event)
	}
}
