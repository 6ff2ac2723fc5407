package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top header bar.
//
// Layout:
//   left:   cluster URL and the index being balanced
//   center: "● STATUS" from the last post-move health check, "● PASS FAILED  <reason>"
//           after a failed pass, or "● BALANCING" while a pass runs
//   right:  "Last: HH:MM:SS  Every: 60s"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := app.baseURL
	if app.index != "" {
		left += "  " + app.index
	}

	var center string
	switch {
	case app.passRunning:
		center = StyleCyan.Bold(true).Render("● BALANCING")
	case app.lastErr != nil:
		center = StyleError.Render("● PASS FAILED  " + classifyError(app.lastErr))
	case app.health != "":
		center = StatusStyle(app.health).Render("● " + strings.ToUpper(app.health))
	default:
		center = StyleDim.Render("● WAITING")
	}

	lastStr := "never"
	if app.lastPass != nil {
		lastStr = app.lastPass.StartedAt.Format("15:04:05")
	}
	right := StyleDim.Render(fmt.Sprintf("Last: %s  Every: %s", lastStr, formatDuration(app.interval)))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// classifyError maps common cluster errors to a short human label. Unknown
// errors are truncated to 40 characters.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized"):
		return "Authentication failed (401)"
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		return "Authentication failed (403)"
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "Timeout"
	case isTLSError(err):
		return "TLS error"
	}
	if len(msg) > 40 {
		return msg[:40] + "..."
	}
	return msg
}

// isTLSError reports whether err looks like a certificate or handshake failure.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "tls") ||
		strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate")
}

// formatDuration formats an interval as a compact string, e.g. "10s" or "2m".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
