package saver

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrInvalidArguments reports a nil payload or empty path, rejected
	// before any filesystem operation.
	ErrInvalidArguments = errors.New("nil data or empty path")

	// ErrPartialWrite reports a write loop that could not deliver every
	// byte. The destination file must be considered corrupt.
	ErrPartialWrite = errors.New("partial write")
)

// SaveRaw persists data to path byte for byte, truncating any previous
// content. A zero-length (but non-nil) payload produces an empty file.
func SaveRaw(data []byte, path string) error {
	if data == nil || path == "" {
		return ErrInvalidArguments
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := writeFull(f, data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// writeFull drives w.Write until data is exhausted. Any error, and any
// round that makes no progress, aborts with ErrPartialWrite so a short
// write is never mistaken for completion.
func writeFull(w io.Writer, data []byte) error {
	written := 0
	for written < len(data) {
		n, err := w.Write(data[written:])
		written += n
		if err != nil {
			return fmt.Errorf("%w: %d of %d bytes: %v", ErrPartialWrite, written, len(data), err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %d of %d bytes: %v", ErrPartialWrite, written, len(data), io.ErrNoProgress)
		}
	}
	return nil
}
