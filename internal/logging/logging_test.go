// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zsellera/dps-wifi/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, config.LoggingConfig{Level: "WARN", Format: "json"})
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("dropped")
	log.Warn().Str("component", "runner").Msg("link lost")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "link lost", entry["message"])
	require.Equal(t, "runner", entry["component"])
	require.Contains(t, entry, "time")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, config.LoggingConfig{Format: "text"})
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.NotContains(t, buf.String(), `"message"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LoggingConfig{Level: "loud"})
	require.Error(t, err)
}
