package model

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// TickDecoder decodes one tick record from the head of data and reports how
// many bytes it consumed. Each venue wire format supplies its own decoder.
type TickDecoder interface {
	DecodeTick(data []byte) (*Tick, int, error)
}

// ErrNoDecoder reports a venue with no registered tick decoder.
var ErrNoDecoder = errors.New("no tick decoder registered")

var (
	decoderMu sync.RWMutex
	decoders  = map[Venue]TickDecoder{}
)

// RegisterTickDecoder binds a decoder to a venue, replacing any previous
// binding. Typically called from a decoder package's init.
func RegisterTickDecoder(v Venue, dec TickDecoder) {
	decoderMu.Lock()
	defer decoderMu.Unlock()
	decoders[v] = dec
}

// TickDecoderFor returns the decoder registered for v.
func TickDecoderFor(v Venue) (TickDecoder, bool) {
	decoderMu.RLock()
	defer decoderMu.RUnlock()
	dec, ok := decoders[v]
	return dec, ok
}

// TickReader walks a memory region of consecutive tick records, decoding
// one per call. The region is the caller's; the reader only advances an
// offset into it.
type TickReader struct {
	dec  TickDecoder
	data []byte
	off  int
}

// NewTickReader opens a reader over data using the decoder registered for
// the venue.
func NewTickReader(v Venue, data []byte) (*TickReader, error) {
	dec, ok := TickDecoderFor(v)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoDecoder, v)
	}
	return &TickReader{dec: dec, data: data}, nil
}

// Next decodes and returns the next tick. It returns io.EOF once the region
// is exhausted; after any error the reader position does not advance.
func (r *TickReader) Next() (*Tick, error) {
	if r.off >= len(r.data) {
		return nil, io.EOF
	}
	tick, n, err := r.dec.DecodeTick(r.data[r.off:])
	if err != nil {
		return nil, fmt.Errorf("tick at offset %d: %w", r.off, err)
	}
	r.off += n
	return tick, nil
}

// Offset reports how far into the region the reader has advanced.
func (r *TickReader) Offset() int {
	return r.off
}
