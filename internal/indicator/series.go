// Package indicator computes the technical indicator series used by the
// strategy: RSI, MACD histogram, EMA, and ATR. Each function returns a
// slice aligned with its input; positions where the indicator is not yet
// defined hold NaN.
package indicator

import (
	"math"

	"github.com/ekiren/bistsignal/internal/models"
)

// RSI computes the Relative Strength Index over a simple (non-smoothed)
// rolling mean of gains and losses. The first defined value sits at index
// period. A window with zero average loss yields NaN, which downstream
// stages treat as insufficient data.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period <= 0 || n <= period {
		return out
	}

	diffs := make([]float64, n) // diffs[0] unused
	for i := 1; i < n; i++ {
		diffs[i] = closes[i] - closes[i-1]
	}

	for i := period; i < n; i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			if diffs[j] > 0 {
				gain += diffs[j]
			} else {
				loss -= diffs[j]
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)
		if avgLoss == 0 {
			continue // leave NaN
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// EMA computes the exponential moving average with k = 2/(span+1),
// seeded with the first value (no warm-up bias correction).
func EMA(values []float64, span int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	k := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < n; i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACDHist computes the MACD histogram: EMA(12) − EMA(26), minus its own
// EMA(9) signal line.
func MACDHist(closes []float64) []float64 {
	n := len(closes)
	if n == 0 {
		return nil
	}
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)
	macdLine := make([]float64, n)
	for i := range macdLine {
		macdLine[i] = ema12[i] - ema26[i]
	}
	signal := EMA(macdLine, 9)
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = macdLine[i] - signal[i]
	}
	return hist
}

// ATR computes the Average True Range as a rolling mean of the true range
// over the given period. The first bar has no previous close, so its true
// range is simply high−low. The first defined value sits at index period−1.
func ATR(bars []models.PriceBar, period int) []float64 {
	n := len(bars)
	out := nanSlice(n)
	if period <= 0 || n == 0 {
		return out
	}

	tr := make([]float64, n)
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	for i := period - 1; i < n; i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
