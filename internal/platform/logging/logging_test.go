package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", false)

	log.Debug().Str("op", "test").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "test", line["op"])
	assert.Equal(t, "cargo-fleet", line["service"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "nonsense", false)

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
}
