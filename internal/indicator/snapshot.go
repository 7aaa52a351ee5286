package indicator

import (
	"errors"
	"math"

	"github.com/ekiren/bistsignal/internal/models"
)

// MinBars is the minimum history length a ticker needs to be evaluated.
// Shorter histories are skipped entirely, they never produce a result.
const MinBars = 80

// ErrInsufficientHistory is returned when a ticker has fewer than MinBars bars.
var ErrInsufficientHistory = errors.New("insufficient price history")

// Compute runs all indicator series over the full bar history and returns
// the last-two-rows snapshot consumed by the strategy. An undefined ATR
// collapses to 0 so the risk calculator falls back to fixed percentages.
func Compute(bars []models.PriceBar) (models.IndicatorSnapshot, error) {
	if len(bars) < MinBars {
		return models.IndicatorSnapshot{}, ErrInsufficientHistory
	}

	closes := models.Closes(bars)
	rsi := RSI(closes, 14)
	macd := MACDHist(closes)
	ema50 := EMA(closes, 50)
	atr := ATR(bars, 14)

	last := len(bars) - 1
	snap := models.IndicatorSnapshot{
		Close:        closes[last],
		RSI:          rsi[last],
		MACDHist:     macd[last],
		PrevMACDHist: macd[last-1],
		EMA50:        ema50[last],
		ATR:          atr[last],
	}
	if math.IsNaN(snap.ATR) {
		snap.ATR = 0
	}
	return snap, nil
}
