package model

import "fmt"

// Interval classifies the aggregation span of a bar, from finest to
// coarsest. It is a tag only; no arithmetic is derived from it.
type Interval uint8

const (
	_interval_beg Interval = iota
	IntervalMin
	Interval5Min
	Interval15Min
	Interval30Min
	IntervalHour
	IntervalDay
	IntervalWeek
	IntervalMonth
	IntervalYear
	_interval_end
)

var intervalNames = [...]string{
	IntervalMin:   "1min",
	Interval5Min:  "5min",
	Interval15Min: "15min",
	Interval30Min: "30min",
	IntervalHour:  "hour",
	IntervalDay:   "day",
	IntervalWeek:  "week",
	IntervalMonth: "month",
	IntervalYear:  "year",
}

func (iv Interval) IsAvailable() bool {
	return iv > _interval_beg && iv < _interval_end
}

func (iv Interval) String() string {
	if !iv.IsAvailable() {
		return fmt.Sprintf("interval(%d)", uint8(iv))
	}
	return intervalNames[iv]
}

// ParseInterval maps the textual form back to its Interval.
func ParseInterval(s string) (Interval, error) {
	for iv := _interval_beg + 1; iv < _interval_end; iv++ {
		if intervalNames[iv] == s {
			return iv, nil
		}
	}
	return _interval_beg, fmt.Errorf("unknown interval %q", s)
}
