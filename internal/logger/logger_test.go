package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriterJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := SetupWriter("warn", "json", &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "session_service").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "session_service", entry["component"])
	assert.Contains(t, entry, "caller")
}

func TestSetupWriterFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := SetupWriter("loud", "pretty", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("countdown ready")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "countdown ready")
}
