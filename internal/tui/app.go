package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/shardbal/internal/model"
)

const tickInterval = time.Second

// App is the root Bubble Tea model. It holds no cluster client: all state
// arrives as balancer events, and the only command it issues back is a
// request for an immediate pass.
type App struct {
	baseURL  string
	interval time.Duration
	runNow   func()

	// Latest cluster view
	index     string
	loads     []model.NodeLoad
	primaries map[string]int
	health    string

	// Pass state
	passRunning  bool
	runRequested bool
	lastPass     *model.PassReport
	lastErr      error
	history      *model.PassHistory

	// Migration state
	active   *activeMigration
	lastMove *model.MigrationFinished

	now time.Time

	// Layout
	width, height int

	// UI state
	showHelp bool
}

// NewApp creates an App for the cluster at baseURL. runNow is called when
// the user asks for an immediate pass; it may be nil.
func NewApp(baseURL string, interval time.Duration, runNow func()) *App {
	return &App{
		baseURL:  baseURL,
		interval: interval,
		runNow:   runNow,
		history:  model.NewPassHistory(0),
		now:      time.Now(),
	}
}

// Init implements tea.Model. Starts the elapsed-time ticker.
func (app *App) Init() tea.Cmd {
	return tickCmd(tickInterval)
}

// Update implements tea.Model. It is the only place App state changes.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case TickMsg:
		app.now = time.Time(msg)
		return app, tickCmd(tickInterval)

	case model.PassStarted:
		app.passRunning = true
		app.runRequested = false
		app.lastErr = nil

	case model.ClusterSummary:
		app.index = msg.Index
		app.loads = msg.Loads
		app.primaries = msg.Primaries

	case model.MigrationStarted:
		app.active = newActiveMigration(msg)

	case model.MigrationProgress:
		if app.active != nil && app.active.matches(msg.Index, msg.Shard) {
			obs := msg.MigrationObservation
			app.active.latest = &obs
		}

	case model.MigrationFinished:
		app.active = nil
		app.lastMove = &msg
		if msg.Health != "" {
			app.health = msg.Health
		}

	case model.PassFinished:
		app.passRunning = false
		app.active = nil
		report := msg.Report
		app.lastPass = &report
		if msg.Err != nil {
			app.lastErr = msg.Err
		} else {
			app.history.Push(report)
			if report.NoIndex {
				app.index = ""
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return app, tea.Quit
		case key.Matches(msg, keys.RunNow):
			if app.passRunning || app.runRequested || app.runNow == nil {
				return app, nil
			}
			app.runRequested = true
			app.runNow()
		case key.Matches(msg, keys.Clear):
			app.history.Clear()
			app.lastMove = nil
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
	}

	return app, nil
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	parts := []string{
		renderHeader(app),
		renderNodeTable(app),
		renderMigration(app),
		renderHistory(app),
		renderFooter(app),
	}
	return strings.Join(parts, "\n")
}

// tickCmd schedules the next clock refresh after duration d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
