package slogx

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ParseLevel(tc.in), "input %q", tc.in)
	}
}

func TestChanWriterSplitsLines(t *testing.T) {
	ch := make(chan string, 4)
	w := NewChanWriter(ch)

	_, err := w.Write([]byte("first li"))
	require.NoError(t, err)
	assert.Empty(t, ch)

	_, err = w.Write([]byte("ne\nsecond line\ntail"))
	require.NoError(t, err)

	assert.Equal(t, "first line", <-ch)
	assert.Equal(t, "second line", <-ch)
	assert.Empty(t, ch) // "tail" still buffered
}

func TestChanWriterDropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	w := NewChanWriter(ch)

	_, err := w.Write([]byte("kept\ndropped\n"))
	require.NoError(t, err)

	assert.Equal(t, "kept", <-ch)
	assert.Empty(t, ch)
}

func TestNewChanLogger(t *testing.T) {
	ch := make(chan string, 8)
	logger := NewChanLogger(ch)

	logger.Info("crawl finished", "venue", "SHFE", "files", 3)

	line := <-ch
	assert.True(t, strings.Contains(line, "crawl finished"))
	assert.True(t, strings.Contains(line, "venue=SHFE"))

	logger.Debug("suppressed at info level")
	assert.Empty(t, ch)
}
