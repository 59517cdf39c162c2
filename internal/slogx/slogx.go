// Package slogx carries the shared slog plumbing: level parsing, the
// default stderr logger and a channel-backed writer for fan-in logging
// from worker goroutines.
package slogx

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
)

// ChanWriter accumulates writes and forwards each complete line to a
// channel. When the channel is full the line is dropped; logging must
// never block a worker.
type ChanWriter struct {
	ch  chan<- string
	buf []byte
}

func NewChanWriter(ch chan<- string) *ChanWriter {
	return &ChanWriter{ch: ch}
}

func (w *ChanWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		select {
		case w.ch <- line:
		default:
		}
	}
}

// NewChanLogger builds a text-format logger whose lines arrive on ch.
func NewChanLogger(ch chan<- string) *slog.Logger {
	return slog.New(slog.NewTextHandler(NewChanWriter(ch), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Default writes text records to stderr at info level.
var Default = NewDefault("info")

// ParseLevel maps debug|info|warn|warning|error to a slog.Level. Anything
// else falls back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewDefault builds a stderr text logger at the named level.
func NewDefault(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}
