package tui

// renderFooter shows a short hint, or every binding when help is toggled.
// A pending `r` request is acknowledged until the pass starts.
func renderFooter(app *App) string {
	text := "? for help"
	if app.showHelp {
		text = keys.helpLine()
	}
	if app.runRequested {
		text += "  (pass requested)"
	}
	width := app.width
	if width <= 0 {
		width = 80
	}
	return StyleDim.Width(width).Render(text)
}
