package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI colours.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(l *logger.Logger)
		goldenName string
	}{
		{name: "info", log: func(l *logger.Logger) { l.Info("some message") }, goldenName: "info_basic"},
		{name: "warn", log: func(l *logger.Logger) { l.Warn("some warning") }, goldenName: "warn_basic"},
		{name: "multiline", log: func(l *logger.Logger) { l.Info("line1\nline2") }, goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_DebugOnlyWhenVerbose(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	assert.Empty(t, buf.String())

	lg.SetVerbose(true)
	lg.Debug("state ranking")
	assert.Equal(t, "● state ranking\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("hidden again")
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	err := zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer")
	lg.Error(err)

	g := goldie.New(t)
	g.Assert(t, "error_chain", buf.Bytes())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Warn("cache corrupt")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "cache corrupt", record["msg"])
}

func TestCollectMessages(t *testing.T) {
	err := zerr.Wrap(errors.New("root cause"), "outer layer")
	assert.Equal(t, []string{"outer layer", "root cause"}, logger.CollectMessages(err))
}

func TestFormatChain_Continuation(t *testing.T) {
	got := logger.FormatChain([]string{"first\nsecond", "cause"})
	assert.Equal(t, "Error: first\n       second\n\n  Caused by:\n    → cause", got)
}

func TestFromEnv_Format(t *testing.T) {
	t.Setenv(logger.FormatEnv, "JSON")
	buf := &bytes.Buffer{}
	lg := logger.FromEnv()
	lg.SetOutput(buf)

	lg.Info("structured")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["msg"])

	t.Setenv(logger.FormatEnv, "")
	buf.Reset()
	lg = logger.FromEnv()
	lg.SetOutput(buf)
	lg.Info("pretty")
	assert.False(t, json.Valid(buf.Bytes()))
}
