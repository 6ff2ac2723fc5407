package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/shardbal/internal/format"
	"github.com/dm/shardbal/internal/model"
)

const barWidth = 40

// activeMigration tracks the move currently being monitored.
type activeMigration struct {
	started  model.MigrationStarted
	latest   *model.MigrationObservation
	files    progress.Model
	translog progress.Model
}

func newActiveMigration(msg model.MigrationStarted) *activeMigration {
	return &activeMigration{
		started:  msg,
		files:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		translog: progress.New(progress.WithSolidFill(string(colorPurple)), progress.WithWidth(barWidth), progress.WithoutPercentage()),
	}
}

// matches reports whether obs belongs to this migration.
func (m *activeMigration) matches(index string, shard int) bool {
	return m.started.Index == index && m.started.Shard == shard
}

// renderMigration renders the active migration panel, or the outcome of the
// last move when nothing is in flight.
func renderMigration(app *App) string {
	title := StyleTitle.Render("Migration")
	m := app.active
	if m == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, StylePanel.Render(lastMoveLine(app.lastMove)))
	}

	s := m.started
	lines := []string{
		fmt.Sprintf("%s[%d]  %s → %s  (%s)", sanitize(s.Index), s.Shard, sanitize(s.From), sanitize(s.To),
			format.FormatBytes(s.SizeBytes)),
	}

	state := model.StateAwaitingStart
	var filePct, translogPct, rate float64
	elapsed := app.now.Sub(s.At)
	if obs := m.latest; obs != nil {
		state = obs.State
		filePct, translogPct, rate = obs.FilePercent, obs.TranslogPercent, obs.BytesPerSecond
		if elapsed < obs.Elapsed {
			elapsed = obs.Elapsed
		}
	}
	if elapsed < 0 {
		elapsed = 0
	}

	lines = append(lines,
		fmt.Sprintf("stage: %s  speed: %s  elapsed: %s", state, format.FormatThroughput(rate), format.FormatElapsed(elapsed)),
		"files    "+m.files.ViewAs(filePct/100)+" "+format.FormatPercent(filePct),
		"translog "+m.translog.ViewAs(translogPct/100)+" "+format.FormatPercent(translogPct),
	)
	if obs := m.latest; obs != nil {
		lines = append(lines, StyleDim.Render(fmt.Sprintf("%s / %s  translog %d / %d ops",
			format.FormatBytes(obs.Recovery.BytesRecovered), format.FormatBytes(obs.Recovery.BytesTotal),
			obs.Recovery.TranslogOpsRecovered, obs.Recovery.TranslogOpsTotal)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, StylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func lastMoveLine(f *model.MigrationFinished) string {
	if f == nil {
		return StyleDim.Render("idle")
	}
	head := fmt.Sprintf("last: %s[%d] %s → %s", sanitize(f.Index), f.Shard, sanitize(f.From), sanitize(f.To))
	if f.Err != nil {
		return head + "  " + StyleError.Render("failed: "+classifyError(f.Err))
	}
	return head + "  " + StyleGreen.Render("done in "+format.FormatElapsed(f.Elapsed.Round(time.Second)))
}
