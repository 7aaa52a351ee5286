package models

import (
	"math"
	"time"
)

// Signal is the trading action derived for one ticker.
type Signal string

const (
	SignalStrongBuy Signal = "BUY (STRONG)"
	SignalSell      Signal = "SELL"
	SignalHold      Signal = "HOLD"
)

// MACDDirection describes the slope of the MACD histogram between the
// previous and the current day.
type MACDDirection string

const (
	MACDUp      MACDDirection = "↑"
	MACDDown    MACDDirection = "↓"
	MACDFlat    MACDDirection = "→"
	MACDUnknown MACDDirection = "?"
)

// IndicatorSnapshot is the last-two-rows view of the indicator series for
// one ticker. Undefined values are NaN, except ATR which collapses to 0 so
// the risk calculator takes its percentage fallback.
type IndicatorSnapshot struct {
	Close        float64
	RSI          float64
	MACDHist     float64
	PrevMACDHist float64
	EMA50        float64
	ATR          float64
}

// TickerResult is the final evaluation of one ticker in one run.
// Numeric fields are rounded: MACD to 4 decimals, everything else to 2.
type TickerResult struct {
	Ticker  string
	Price   float64
	RSI     float64
	MACD    float64
	MACDDir MACDDirection
	EMA50   float64
	ATR     float64
	Signal  Signal
	Stop    float64
	Target  float64
}

// RunDigest is the rendered report for one pipeline run. Text is the full
// message (header + body); Body excludes the timestamped header so it can
// be fingerprinted independently of run time.
type RunDigest struct {
	GeneratedAt time.Time
	Results     []TickerResult
	Header      string
	Body        string
	Text        string
}

// RunRecord summarizes one pipeline run for the history recorder.
type RunRecord struct {
	ID          string
	Timestamp   time.Time
	TickerCount int
	SignalCount int
	Fingerprint string
}

// Round rounds v to the given number of decimal places, passing NaN through.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
