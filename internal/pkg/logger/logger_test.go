package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	defer Configure(Config{Level: InfoLevel})

	var buf bytes.Buffer
	Configure(Config{Level: "WARN", Output: &buf})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Warn().Str("courseID", "c1").Msg("kept")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "c1", entry["courseID"])
	assert.Contains(t, entry, "time")
}

func TestLogLevel_UnknownFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, LogLevel("verbose").zerologLevel())
	assert.Equal(t, zerolog.DebugLevel, LogLevel("debug").zerologLevel())
}
