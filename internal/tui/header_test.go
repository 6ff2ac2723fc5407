package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/dm/shardbal/internal/model"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"connection refused", errors.New("dial tcp: connection refused"), "Connection refused"},
		{"401", errors.New("unexpected status 401 Unauthorized"), "Authentication failed (401)"},
		{"403", errors.New("unexpected status 403 Forbidden"), "Authentication failed (403)"},
		{"context deadline exceeded", errors.New("context deadline exceeded"), "Timeout"},
		{"certificate", errors.New("x509: certificate signed by unknown authority"), "TLS error"},
		{"short unknown", errors.New("reroute not acknowledged"), "reroute not acknowledged"},
		{"long unknown", errors.New("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyError(tc.err))
		})
	}
}

func TestIsTLSError(t *testing.T) {
	assert.False(t, isTLSError(nil))
	assert.False(t, isTLSError(errors.New("connection refused")))
	assert.True(t, isTLSError(errors.New("tls: handshake failure")))
	assert.True(t, isTLSError(errors.New("TLS certificate error")))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "10s", formatDuration(10*time.Second))
	assert.Equal(t, "1m", formatDuration(time.Minute))
	assert.Equal(t, "5m", formatDuration(5*time.Minute))
}

func TestRenderHeader_States(t *testing.T) {
	app := NewApp("http://es:9200", time.Minute, nil)
	app.width = 120

	h := stripANSI(renderHeader(app))
	assert.Contains(t, h, "http://es:9200")
	assert.Contains(t, h, "WAITING")
	assert.Contains(t, h, "Last: never")
	assert.Contains(t, h, "Every: 1m")

	app.passRunning = true
	app.index = fixtureIndex
	h = stripANSI(renderHeader(app))
	assert.Contains(t, h, "BALANCING")
	assert.Contains(t, h, fixtureIndex)

	app.passRunning = false
	app.health = "green"
	app.lastPass = &model.PassReport{StartedAt: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)}
	h = stripANSI(renderHeader(app))
	assert.Contains(t, h, "GREEN")
	assert.Contains(t, h, "Last: 08:30:00")

	app.lastErr = errors.New("connection refused")
	h = stripANSI(renderHeader(app))
	assert.Contains(t, h, "PASS FAILED")
	assert.Contains(t, h, "Connection refused")
}

func TestRenderHeader_FillsWidth(t *testing.T) {
	app := NewApp("http://es:9200", time.Minute, nil)
	app.width = 100
	assert.Equal(t, 100, lipgloss.Width(renderHeader(app)))
}
