package tui

import "github.com/charmbracelet/lipgloss"

// severity is how close a node figure is to trouble.
type severity int

const (
	severityNormal severity = iota
	severityWarning
	severityCritical
)

// limits colours a node figure. For "free" figures (falling is bad) set
// inverted; warn and crit are then lower bounds.
type limits struct {
	warn, crit float64
	inverted   bool
}

var (
	cpuLimits      = limits{warn: 80, crit: 90}
	heapLimits     = limits{warn: 75, crit: 85}
	diskFreeLimits = limits{warn: 20, crit: 10, inverted: true}
)

func (l limits) classify(v float64) severity {
	if l.inverted {
		v, l.warn, l.crit = -v, -l.warn, -l.crit
	}
	switch {
	case v > l.crit:
		return severityCritical
	case v > l.warn:
		return severityWarning
	default:
		return severityNormal
	}
}

func (s severity) style() lipgloss.Style {
	switch s {
	case severityWarning:
		return styleWarn
	case severityCritical:
		return styleCrit
	default:
		return styleNormal
	}
}
