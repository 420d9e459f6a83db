package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetGlobalLogger(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetGlobalLogger(prev) })

	var buf bytes.Buffer
	SetGlobalLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	Debug().Str("relation", "docs").Msg("inspecting restriction clauses")
	Trace().Msg("dropped")

	require.Contains(t, buf.String(), `"relation":"docs"`)
	require.Contains(t, buf.String(), "inspecting restriction clauses")
	require.NotContains(t, buf.String(), "dropped")

	// Contexts without a logger fall back to the global one.
	buf.Reset()
	Ctx(context.Background()).Info().Msg("from context")
	require.Contains(t, buf.String(), "from context")
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, zerolog.InfoLevel)

	logger.Debug().Msg("hidden")
	logger.Info().Str("operator", "zdb").Msg("resolved operator")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "resolved operator")
	require.Contains(t, buf.String(), "operator=zdb")
}
