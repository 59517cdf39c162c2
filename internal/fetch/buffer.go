package fetch

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the transfer buffer size used when none is configured.
const DefaultCapacity = 8 << 20

// ErrBadCapacity reports a non-positive requested buffer capacity.
var ErrBadCapacity = errors.New("buffer capacity must be positive")

// Buffer is a fixed-capacity transfer region. The region is allocated once
// and nothing may ever write past its end; a response that does not fit is
// rejected, never spilled.
type Buffer struct {
	region []byte
	n      int
}

// NewBuffer allocates a buffer with the given capacity in bytes.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	return &Buffer{region: make([]byte, capacity)}, nil
}

// Wrap adopts an existing slice as the backing region. The caller keeps
// ownership of the memory; capacity is len(region).
func Wrap(region []byte) *Buffer {
	return &Buffer{region: region}
}

// Capacity reports the size of the backing region.
func (b *Buffer) Capacity() int {
	return len(b.region)
}

// Len reports how many bytes the last fill committed.
func (b *Buffer) Len() int {
	return b.n
}

// Bytes returns the committed region. The slice aliases the buffer; it is
// valid until the next fill or Reset.
func (b *Buffer) Bytes() []byte {
	return b.region[:b.n]
}

// Reset forgets the committed bytes without touching the region, making
// the full capacity available to the next fill.
func (b *Buffer) Reset() {
	b.n = 0
}
