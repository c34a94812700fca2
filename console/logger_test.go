package console

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseLevel(raw), "level %q", raw)
	}
}

func TestSetRawLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(slog.LevelInfo) })

	SetRawLevel("error")
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, Logger().Enabled(t.Context(), slog.LevelError))

	SetRawLevel("debug")
	assert.True(t, Logger().Enabled(t.Context(), slog.LevelDebug))
}
