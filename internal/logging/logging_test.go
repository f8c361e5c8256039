package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/taqueria-landing/internal/config"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(config.LogConfig{Level: "warn"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("dropped")
	log.Warn().Str("section", "hero").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "hero", entry["section"])
	assert.Contains(t, entry, "time")
}

func TestInit_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(config.LogConfig{Level: "loud"}, &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInit_Pretty(t *testing.T) {
	var buf bytes.Buffer
	Init(config.LogConfig{Level: "debug", Pretty: true}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Msg("hola")

	assert.Contains(t, buf.String(), "hola")
	assert.False(t, json.Valid(buf.Bytes()), "console output is not JSON")
}
