package model

import (
	"fmt"
	"strings"
)

// Venue identifies the trading venue or feed a record originates from.
type Venue uint8

const (
	_venue_beg Venue = iota
	VenueCTP
	VenueSHFE
	VenueCFFEX
	VenueCZCE
	VenueDCE
	VenueINE
	VenueSSE
	VenueSZSE
	_venue_end
)

var venueNames = [...]string{
	VenueCTP:   "CTP",
	VenueSHFE:  "SHFE",
	VenueCFFEX: "CFFEX",
	VenueCZCE:  "CZCE",
	VenueDCE:   "DCE",
	VenueINE:   "INE",
	VenueSSE:   "SSE",
	VenueSZSE:  "SZSE",
}

func (v Venue) IsAvailable() bool {
	return v > _venue_beg && v < _venue_end
}

func (v Venue) String() string {
	if !v.IsAvailable() {
		return fmt.Sprintf("venue(%d)", uint8(v))
	}
	return venueNames[v]
}

// ParseVenue resolves a case-insensitive venue name.
func ParseVenue(s string) (Venue, error) {
	for v := _venue_beg + 1; v < _venue_end; v++ {
		if strings.EqualFold(venueNames[v], s) {
			return v, nil
		}
	}
	return _venue_beg, fmt.Errorf("unknown venue %q", s)
}
