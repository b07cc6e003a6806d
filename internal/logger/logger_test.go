package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	SetupWriter(&buf, false, "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("key", "auth-storage").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "auth-storage", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestSetupWriter_DefaultLevels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	SetupWriter(&buf, true, "")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log.Debug().Msg("console line")
	assert.Contains(t, buf.String(), "console line")

	SetupWriter(&buf, false, "bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
