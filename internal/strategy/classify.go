// Package strategy turns an indicator snapshot into a trading signal,
// stop/target levels, and a commentary line.
package strategy

import (
	"math"

	"github.com/ekiren/bistsignal/internal/models"
)

// Direction compares the current MACD histogram against the previous one.
// Either value being undefined yields MACDUnknown.
func Direction(current, previous float64) models.MACDDirection {
	if math.IsNaN(current) || math.IsNaN(previous) {
		return models.MACDUnknown
	}
	switch {
	case current > previous:
		return models.MACDUp
	case current < previous:
		return models.MACDDown
	default:
		return models.MACDFlat
	}
}

// Classify derives the signal from a snapshot. Any undefined input forces
// HOLD: indeterminate data is never an error. Rules are evaluated in fixed
// order; the first match wins.
func Classify(snap models.IndicatorSnapshot) models.Signal {
	if math.IsNaN(snap.RSI) || math.IsNaN(snap.MACDHist) ||
		math.IsNaN(snap.PrevMACDHist) || math.IsNaN(snap.EMA50) {
		return models.SignalHold
	}
	if snap.Close > snap.EMA50 && snap.RSI < 40 && snap.MACDHist > snap.PrevMACDHist {
		return models.SignalStrongBuy
	}
	if snap.RSI > 70 && snap.MACDHist < snap.PrevMACDHist {
		return models.SignalSell
	}
	return models.SignalHold
}

// Evaluate produces the full ticker result from a snapshot: signal, MACD
// direction, and risk levels, with values rounded for rendering and export.
func Evaluate(ticker string, snap models.IndicatorSnapshot) models.TickerResult {
	stop, target := Levels(snap.Close, snap.ATR)
	return models.TickerResult{
		Ticker:  ticker,
		Price:   models.Round(snap.Close, 2),
		RSI:     models.Round(snap.RSI, 2),
		MACD:    models.Round(snap.MACDHist, 4),
		MACDDir: Direction(snap.MACDHist, snap.PrevMACDHist),
		EMA50:   models.Round(snap.EMA50, 2),
		ATR:     models.Round(snap.ATR, 2),
		Signal:  Classify(snap),
		Stop:    models.Round(stop, 2),
		Target:  models.Round(target, 2),
	}
}
