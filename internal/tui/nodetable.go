package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/shardbal/internal/engine"
	"github.com/dm/shardbal/internal/format"
	"github.com/dm/shardbal/internal/model"
)

var nodeColumns = []string{"Node", "IP", "CPU", "Heap", "Disk Free", "Primaries", "Load"}

// renderNodeTable renders the per-node view from the last cluster summary.
// Nodes holding more than one primary are highlighted.
func renderNodeTable(app *App) string {
	title := StyleTitle.Render("Nodes")
	if len(app.loads) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, StyleDim.Render("  (no data yet)"))
	}

	loads := app.loads
	primaries := app.primaries
	t := ltable.New().
		Headers(nodeColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			l := loads[row]
			base := lipgloss.NewStyle()
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			switch col {
			case 1:
				return base.Foreground(colorBlue)
			case 2:
				return base.Inherit(cpuLimits.classify(l.CPUPercent).style())
			case 3:
				return base.Inherit(heapLimits.classify(l.HeapPercent).style())
			case 4:
				return base.Inherit(diskFreeLimits.classify(l.DiskFreePercent).style())
			case 5:
				if primaries[l.Name] > 1 {
					return base.Foreground(colorYellow).Bold(true)
				}
				return base.Foreground(colorWhite)
			case 6:
				return base.Foreground(colorPurple)
			default:
				return base.Foreground(colorWhite)
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if app.width > 0 {
		t = t.Width(app.width)
	}
	for _, l := range loads {
		t = t.Row(nodeCells(l, primaries[l.Name])...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}

// nodeCells formats one node row.
func nodeCells(l model.NodeLoad, primaries int) []string {
	return []string{
		sanitize(l.Name),
		sanitize(l.IP),
		format.FormatPercent(l.CPUPercent),
		format.FormatPercent(l.HeapPercent),
		format.FormatPercent(l.DiskFreePercent),
		strconv.Itoa(primaries),
		strconv.FormatFloat(engine.LoadScore(l), 'f', 1, 64),
	}
}

// sanitize strips control characters so node-reported strings cannot break
// the layout.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
