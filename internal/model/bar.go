package model

import (
	"errors"
	"fmt"
)

// ErrInvalidBar wraps every range violation reported by Bar.Validate.
var ErrInvalidBar = errors.New("invalid bar")

// Bar represents one aggregated OHLCV record (minute/daily etc.).
// Dùng chung cho fetch, saver và serialization (json, parquet).
type Bar struct {
	Timestamp    uint64   `json:"t" parquet:"t"` // Unix timestamp in milliseconds
	Interval     Interval `json:"k" parquet:"k"`
	Symbol       Ident    `json:"s" parquet:"s"`
	Exchange     Ident    `json:"e" parquet:"e"`
	Open         float64  `json:"o" parquet:"o"`
	High         float64  `json:"h" parquet:"h"`
	Low          float64  `json:"l" parquet:"l"`
	Close        float64  `json:"c" parquet:"c"`
	Volume       float64  `json:"v" parquet:"v"`
	OpenInterest float64  `json:"oi,omitempty" parquet:"oi,optional"` // Futures only
	Amount       float64  `json:"a,omitempty" parquet:"a,optional"`   // Turnover in quote currency
}

// Validate checks range invariants on demand. Construction never enforces
// them; raw exchange files carry out-of-range rows that must survive
// ingestion untouched.
func (b Bar) Validate() error {
	if !b.Interval.IsAvailable() {
		return fmt.Errorf("%w: %v", ErrInvalidBar, b.Interval)
	}
	if b.Symbol.IsZero() {
		return fmt.Errorf("%w: empty symbol", ErrInvalidBar)
	}
	if b.High < b.Low {
		return fmt.Errorf("%w: high %v below low %v", ErrInvalidBar, b.High, b.Low)
	}
	if b.Open < b.Low || b.Open > b.High {
		return fmt.Errorf("%w: open %v outside [%v, %v]", ErrInvalidBar, b.Open, b.Low, b.High)
	}
	if b.Close < b.Low || b.Close > b.High {
		return fmt.Errorf("%w: close %v outside [%v, %v]", ErrInvalidBar, b.Close, b.Low, b.High)
	}
	if b.Volume < 0 || b.OpenInterest < 0 || b.Amount < 0 {
		return fmt.Errorf("%w: negative volume fields", ErrInvalidBar)
	}
	return nil
}
