package codec

import (
	"encoding/binary"
	"math"

	"cn-data/internal/model"
)

// BarPayloadSize is the fixed wire size of one encoded bar.
const BarPayloadSize = 129

// EncodeBar serializes a bar into a fixed-size little-endian payload.
func EncodeBar(dst []byte, b model.Bar) []byte {
	if cap(dst) < BarPayloadSize {
		dst = make([]byte, BarPayloadSize)
	} else {
		dst = dst[:BarPayloadSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], b.Timestamp)
	dst[8] = byte(b.Interval)
	copy(dst[9:41], b.Symbol[:])
	copy(dst[41:73], b.Exchange[:])
	putFloat(dst[73:81], b.Open)
	putFloat(dst[81:89], b.High)
	putFloat(dst[89:97], b.Low)
	putFloat(dst[97:105], b.Close)
	putFloat(dst[105:113], b.Volume)
	putFloat(dst[113:121], b.OpenInterest)
	putFloat(dst[121:129], b.Amount)

	return dst
}

// DecodeBar parses a fixed-size bar payload.
func DecodeBar(src []byte) (model.Bar, bool) {
	if len(src) < BarPayloadSize {
		return model.Bar{}, false
	}
	b := model.Bar{
		Timestamp:    binary.LittleEndian.Uint64(src[0:8]),
		Interval:     model.Interval(src[8]),
		Open:         getFloat(src[73:81]),
		High:         getFloat(src[81:89]),
		Low:          getFloat(src[89:97]),
		Close:        getFloat(src[97:105]),
		Volume:       getFloat(src[105:113]),
		OpenInterest: getFloat(src[113:121]),
		Amount:       getFloat(src[121:129]),
	}
	copy(b.Symbol[:], src[9:41])
	copy(b.Exchange[:], src[41:73])
	return b, true
}

func putFloat(dst []byte, f float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
}

func getFloat(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}
