package model

// Session carries the per-instrument daily context shared by every tick of
// one trading day: reference prices, price bands and the running open
// interest. Ticks reference a Session but never own it.
type Session struct {
	TradingDay     string  `json:"trading_day"`
	Open           float64 `json:"open"`
	PrevClose      float64 `json:"prev_close"`
	PrevSettlement float64 `json:"prev_settlement"`
	UpperLimit     float64 `json:"upper_limit"`
	LowerLimit     float64 `json:"lower_limit"`
	OpenInterest   float64 `json:"open_interest"`
}
