package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestNamedYWithActor(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Output: &buf}).Named("stock_documents")

	log.WithActor("u-7").Info().Str("document_id", "d-1").Msg("documento aprobado")
	log.WithActor("").Info().Msg("sin actor")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "stock_documents", lines[0][FieldComponent])
	assert.Equal(t, "u-7", lines[0][FieldActor])
	assert.Equal(t, "d-1", lines[0]["document_id"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Contains(t, lines[0], "time")

	assert.Equal(t, "stock_documents", lines[1][FieldComponent])
	assert.NotContains(t, lines[1], FieldActor)
}

func TestNivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info().Msg("descartado")
	log.Warn().Msg("visible")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "visible", lines[0]["message"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
