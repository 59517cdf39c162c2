package model

import (
	"errors"
	"fmt"
)

// TickSchemaVersion pins the tick record variant produced and accepted by
// this build: the one carrying Symbol and Exchange inline. Readers and
// writers must agree on this exact version.
const TickSchemaVersion = 2

// PV is one price/volume observation.
type PV struct {
	Price  float64 `json:"p"`
	Volume float64 `json:"v"`
}

// BAPair couples the bid and ask sides of one depth level.
type BAPair struct {
	Bid PV `json:"b"`
	Ask PV `json:"a"`
}

// BookLayout tags which physical order-book representation a tick carries.
// Exactly one payload slice is populated per tick; the tag says which.
type BookLayout uint8

const (
	BookLayoutNone BookLayout = iota
	// BookSeparateArrays keeps bids and asks in two parallel slices.
	BookSeparateArrays
	// BookInterleavedPairs keeps one slice of bid/ask pairs per level.
	BookInterleavedPairs
)

func (l BookLayout) String() string {
	switch l {
	case BookLayoutNone:
		return "none"
	case BookSeparateArrays:
		return "separate"
	case BookInterleavedPairs:
		return "interleaved"
	}
	return fmt.Sprintf("layout(%d)", uint8(l))
}

var (
	ErrUnevenDepth   = errors.New("bid and ask depth differ")
	ErrLevelMismatch = errors.New("level count does not match book payload")
	ErrBadLayout     = errors.New("unknown book layout")
)

// Tick is one granular market update: the last trade plus an order-book
// snapshot in one of the two layouts.
type Tick struct {
	Timestamp uint64
	Symbol    Ident
	Exchange  Ident
	Last      PV
	Level     int

	Layout BookLayout
	Bids   []PV
	Asks   []PV
	Pairs  []BAPair

	// Basic points at the shared per-day session context. Referenced only;
	// the owner is whoever loaded the session.
	Basic *Session
}

// NewTickSeparate builds a tick whose book uses parallel bid and ask
// slices. Both slices must be the same length.
func NewTickSeparate(ts uint64, symbol, exchange Ident, last PV, bids, asks []PV) (*Tick, error) {
	if len(bids) != len(asks) {
		return nil, fmt.Errorf("%w: %d bids, %d asks", ErrUnevenDepth, len(bids), len(asks))
	}
	return &Tick{
		Timestamp: ts,
		Symbol:    symbol,
		Exchange:  exchange,
		Last:      last,
		Level:     len(bids),
		Layout:    BookSeparateArrays,
		Bids:      bids,
		Asks:      asks,
	}, nil
}

// NewTickInterleaved builds a tick whose book is one pair per level.
func NewTickInterleaved(ts uint64, symbol, exchange Ident, last PV, pairs []BAPair) *Tick {
	return &Tick{
		Timestamp: ts,
		Symbol:    symbol,
		Exchange:  exchange,
		Last:      last,
		Level:     len(pairs),
		Layout:    BookInterleavedPairs,
		Pairs:     pairs,
	}
}

// BidAt returns the bid at depth level i regardless of layout.
func (t *Tick) BidAt(i int) (PV, bool) {
	if i < 0 || i >= t.Level {
		return PV{}, false
	}
	switch t.Layout {
	case BookSeparateArrays:
		return t.Bids[i], true
	case BookInterleavedPairs:
		return t.Pairs[i].Bid, true
	}
	return PV{}, false
}

// AskAt returns the ask at depth level i regardless of layout.
func (t *Tick) AskAt(i int) (PV, bool) {
	if i < 0 || i >= t.Level {
		return PV{}, false
	}
	switch t.Layout {
	case BookSeparateArrays:
		return t.Asks[i], true
	case BookInterleavedPairs:
		return t.Pairs[i].Ask, true
	}
	return PV{}, false
}

// LevelAt returns both sides of depth level i regardless of layout.
func (t *Tick) LevelAt(i int) (bid, ask PV, ok bool) {
	bid, ok = t.BidAt(i)
	if !ok {
		return PV{}, PV{}, false
	}
	ask, _ = t.AskAt(i)
	return bid, ask, true
}

// Validate checks that the layout tag, level count and payload slices
// agree, and that the inactive layout carries no data.
func (t *Tick) Validate() error {
	switch t.Layout {
	case BookSeparateArrays:
		if len(t.Pairs) != 0 {
			return fmt.Errorf("%w: separate layout with %d pairs", ErrBadLayout, len(t.Pairs))
		}
		if len(t.Bids) != len(t.Asks) {
			return fmt.Errorf("%w: %d bids, %d asks", ErrUnevenDepth, len(t.Bids), len(t.Asks))
		}
		if t.Level != len(t.Bids) {
			return fmt.Errorf("%w: level %d, depth %d", ErrLevelMismatch, t.Level, len(t.Bids))
		}
	case BookInterleavedPairs:
		if len(t.Bids) != 0 || len(t.Asks) != 0 {
			return fmt.Errorf("%w: interleaved layout with side slices", ErrBadLayout)
		}
		if t.Level != len(t.Pairs) {
			return fmt.Errorf("%w: level %d, depth %d", ErrLevelMismatch, t.Level, len(t.Pairs))
		}
	case BookLayoutNone:
		if t.Level != 0 || len(t.Bids) != 0 || len(t.Asks) != 0 || len(t.Pairs) != 0 {
			return fmt.Errorf("%w: no layout but book data present", ErrBadLayout)
		}
	default:
		return fmt.Errorf("%w: %v", ErrBadLayout, t.Layout)
	}
	return nil
}
