package strategy

import (
	"fmt"
	"math"

	"github.com/ekiren/bistsignal/internal/models"
)

// Commentary renders one narrative line for a ticker result, combining the
// RSI band with the MACD direction. The combined hints are mutually
// exclusive and checked top to bottom.
func Commentary(r models.TickerResult) string {
	if math.IsNaN(r.RSI) || r.MACDDir == models.MACDUnknown {
		return fmt.Sprintf("%s → insufficient data, keep watching.", r.Ticker)
	}

	var rsiTxt string
	switch {
	case r.RSI >= 70:
		rsiTxt = "RSI high (overbought)"
	case r.RSI <= 30:
		rsiTxt = "RSI low (oversold)"
	default:
		rsiTxt = "RSI in normal range"
	}

	var macdTxt string
	switch r.MACDDir {
	case models.MACDUp:
		macdTxt = "MACD rising (momentum building)"
	case models.MACDDown:
		macdTxt = "MACD falling (momentum fading)"
	default:
		macdTxt = "MACD flat (indecisive)"
	}

	var hint string
	switch {
	case r.RSI >= 70 && r.MACDDir == models.MACDDown:
		hint = "→ caution: correction or profit-taking risk is rising."
	case r.RSI <= 30 && r.MACDDir == models.MACDUp:
		hint = "→ watch: a rebound opportunity may be forming."
	case r.RSI >= 40 && r.RSI <= 60 && r.MACDDir == models.MACDUp:
		hint = "→ trend strengthening, an opportunity may emerge."
	case r.RSI >= 40 && r.RSI <= 60 && r.MACDDir == models.MACDDown:
		hint = "→ weakening, stay cautious."
	default:
		hint = "→ unclear, keep watching."
	}

	return fmt.Sprintf("%s → %s + %s %s", r.Ticker, rsiTxt, macdTxt, hint)
}
