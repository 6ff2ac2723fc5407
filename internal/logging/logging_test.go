package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/shardbal/internal/config"
)

func TestBuild_JSONLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	log.Info().Msg("hidden")
	log.Warn().Str("node", "node-a").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "node-a", entry["node"])
	assert.Contains(t, entry, "time")
}

func TestBuild_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, config.LoggingConfig{Level: "nonsense", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestBuild_Console(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, config.LoggingConfig{Level: "info", Format: "console"})
	log.Info().Msg("balancing pass finished")
	assert.Contains(t, buf.String(), "balancing pass finished")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(zerolog.New(&buf), "monitor")
	log.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"monitor"`)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shardbal.log")
	log, closer, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewForTUI_DiscardsTerminalOutput(t *testing.T) {
	log, closer, err := NewForTUI(config.LoggingConfig{Level: "info", Format: "console", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	assert.NoError(t, closer.Close())
}
