package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"Warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestSetup(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := Setup("warn", &buf, true)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	// the set-up message is below the global level
	assert.Empty(t, buf.String())

	sceneLogger := Component(logger, "scene")
	sceneLogger.Warn().Msg("model not loaded")
	out := buf.String()
	assert.Contains(t, out, "model not loaded")
	assert.Contains(t, out, "component=scene")
	assert.Contains(t, out, "WRN")

	buf.Reset()
	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}
