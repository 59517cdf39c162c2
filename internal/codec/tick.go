package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"cn-data/internal/model"
)

// TickHeaderSize is the wire size of the fixed tick header. The book
// payload that follows is Level*BytesPerLevel regardless of layout.
const (
	TickHeaderSize = 92
	BytesPerLevel  = 32
	pvSize         = 16
)

var (
	ErrShortRecord   = errors.New("tick record shorter than declared")
	ErrSchemaVersion = errors.New("unsupported tick schema version")
	ErrDepthTooDeep  = errors.New("book depth exceeds uint16")
)

// EncodeTick serializes t into a self-describing record: fixed header with
// schema version, layout tag and level count, then the book payload. dst's
// backing array is reused when large enough.
func EncodeTick(dst []byte, t *model.Tick) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Level > 0xFFFF {
		return nil, fmt.Errorf("%w: %d", ErrDepthTooDeep, t.Level)
	}

	size := TickHeaderSize + t.Level*BytesPerLevel
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
	}

	binary.LittleEndian.PutUint64(dst[0:8], t.Timestamp)
	dst[8] = model.TickSchemaVersion
	copy(dst[9:41], t.Symbol[:])
	copy(dst[41:73], t.Exchange[:])
	putPV(dst[73:89], t.Last)
	dst[89] = byte(t.Layout)
	binary.LittleEndian.PutUint16(dst[90:92], uint16(t.Level))

	switch t.Layout {
	case model.BookSeparateArrays:
		off := TickHeaderSize
		for _, pv := range t.Bids {
			putPV(dst[off:off+pvSize], pv)
			off += pvSize
		}
		for _, pv := range t.Asks {
			putPV(dst[off:off+pvSize], pv)
			off += pvSize
		}
	case model.BookInterleavedPairs:
		off := TickHeaderSize
		for _, pair := range t.Pairs {
			putPV(dst[off:off+pvSize], pair.Bid)
			putPV(dst[off+pvSize:off+2*pvSize], pair.Ask)
			off += 2 * pvSize
		}
	}

	return dst, nil
}

// DecodeTick parses one tick record from the head of src and reports the
// bytes consumed.
func DecodeTick(src []byte) (*model.Tick, int, error) {
	if len(src) < TickHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d header bytes", ErrShortRecord, len(src))
	}
	if v := src[8]; v != model.TickSchemaVersion {
		return nil, 0, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, v, model.TickSchemaVersion)
	}

	layout := model.BookLayout(src[89])
	level := int(binary.LittleEndian.Uint16(src[90:92]))

	size := TickHeaderSize + level*BytesPerLevel
	if len(src) < size {
		return nil, 0, fmt.Errorf("%w: %d of %d bytes", ErrShortRecord, len(src), size)
	}

	t := &model.Tick{
		Timestamp: binary.LittleEndian.Uint64(src[0:8]),
		Last:      getPV(src[73:89]),
		Level:     level,
		Layout:    layout,
	}
	copy(t.Symbol[:], src[9:41])
	copy(t.Exchange[:], src[41:73])

	switch layout {
	case model.BookSeparateArrays:
		t.Bids = make([]model.PV, level)
		t.Asks = make([]model.PV, level)
		off := TickHeaderSize
		for i := 0; i < level; i++ {
			t.Bids[i] = getPV(src[off : off+pvSize])
			off += pvSize
		}
		for i := 0; i < level; i++ {
			t.Asks[i] = getPV(src[off : off+pvSize])
			off += pvSize
		}
	case model.BookInterleavedPairs:
		t.Pairs = make([]model.BAPair, level)
		off := TickHeaderSize
		for i := 0; i < level; i++ {
			t.Pairs[i] = model.BAPair{
				Bid: getPV(src[off : off+pvSize]),
				Ask: getPV(src[off+pvSize : off+2*pvSize]),
			}
			off += 2 * pvSize
		}
	case model.BookLayoutNone:
		if level != 0 {
			return nil, 0, fmt.Errorf("%w: no layout with level %d", model.ErrBadLayout, level)
		}
	default:
		return nil, 0, fmt.Errorf("%w: %d", model.ErrBadLayout, src[89])
	}

	return t, size, nil
}

// TickCodec adapts this package's wire format to the decoder interface used
// by the tick reader.
type TickCodec struct{}

func (TickCodec) DecodeTick(data []byte) (*model.Tick, int, error) {
	return DecodeTick(data)
}

func putPV(dst []byte, pv model.PV) {
	putFloat(dst[0:8], pv.Price)
	putFloat(dst[8:16], pv.Volume)
}

func getPV(src []byte) model.PV {
	return model.PV{
		Price:  getFloat(src[0:8]),
		Volume: getFloat(src[8:16]),
	}
}
