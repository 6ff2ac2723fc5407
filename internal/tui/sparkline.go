package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/shardbal/internal/model"
)

// sparkBlocks is the 8-level block character set for sparklines.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderSparkline draws one block per value, scaled to the largest value,
// left-padded to width. Only the last width values are shown.
func renderSparkline(values []int, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	maxVal := slices.Max(values)
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := 0
		if maxVal > 0 {
			idx = v * 7 / maxVal
		}
		idx = max(0, min(idx, 7))
		sb.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// renderHistory renders a sparkline of moves per pass and the latest report.
func renderHistory(app *App) string {
	title := StyleTitle.Render("Passes")
	if app.history.Len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, StyleDim.Render("  (no completed pass)"))
	}

	reports := app.history.Reports()
	migrated := make([]int, len(reports))
	for i, r := range reports {
		migrated[i] = r.Migrated
	}
	last := reports[len(reports)-1]
	lines := []string{
		renderSparkline(migrated, 20, colorGreen) +
			StyleDim.Render(fmt.Sprintf("  %d moves over %d passes", app.history.TotalMigrated(), len(reports))),
		reportLine(last),
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, StylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func reportLine(r model.PassReport) string {
	if r.NoIndex {
		return StyleDim.Render("last pass: no matching index")
	}
	line := fmt.Sprintf("last pass: %s  migrated %d  failed %d  unplaced %d",
		sanitize(r.Index), r.Migrated, r.Failed, r.Unplaced)
	if r.DryRun {
		line += "  (dry run)"
	}
	if len(r.Skipped) > 0 {
		line += fmt.Sprintf("  skipped %d records", len(r.Skipped))
	}
	return line
}
