// Package report renders the per-run digest and fingerprints its content.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ekiren/bistsignal/internal/models"
	"github.com/ekiren/bistsignal/internal/strategy"
)

// commentaryFallback is how many watchlist rows get a commentary line when
// no ticker signaled.
const commentaryFallback = 5

var (
	tableHeader = fmt.Sprintf("%-2s %-10s %-12s %8s %6s %10s %9s %9s",
		"", "Ticker", "Signal", "Price", "RSI", "MACD", "Stop", "Target")
	tableSep = strings.Repeat("-", 74)
)

// Render builds the digest for one run. The header carries the run time and
// is kept separate from the body so the fingerprint stays stable across
// runs with identical data.
func Render(results []models.TickerResult, now time.Time) models.RunDigest {
	signaled := make([]models.TickerResult, 0, len(results))
	for _, r := range results {
		if r.Signal != models.SignalHold {
			signaled = append(signaled, r)
		}
	}

	var b strings.Builder

	b.WriteString("\n🚨 Signals\n")
	b.WriteString("```\n")
	b.WriteString(tableHeader + "\n")
	b.WriteString(tableSep + "\n")
	if len(signaled) > 0 {
		for _, r := range signaled {
			b.WriteString(row(r) + "\n")
		}
	} else {
		b.WriteString("🟡  none (no BUY/SELL signal today)\n")
	}
	b.WriteString("```\n")

	b.WriteString("\n📋 Watchlist\n")
	b.WriteString("```\n")
	b.WriteString(tableHeader + "\n")
	b.WriteString(tableSep + "\n")
	for _, r := range results {
		b.WriteString(row(r) + "\n")
	}
	b.WriteString("```\n")

	b.WriteString("\n🧠 Commentary (RSI + MACD)\n")
	source := signaled
	if len(source) == 0 {
		source = results
		if len(source) > commentaryFallback {
			source = source[:commentaryFallback]
		}
	}
	for _, r := range source {
		b.WriteString("• " + strategy.Commentary(r) + "\n")
	}

	body := strings.TrimSuffix(b.String(), "\n")
	header := fmt.Sprintf("📌 BIST Watchlist (%s)", now.Format("02.01.2006 15:04"))

	return models.RunDigest{
		GeneratedAt: now,
		Results:     results,
		Header:      header,
		Body:        body,
		Text:        header + "\n" + body,
	}
}

func row(r models.TickerResult) string {
	macd := num(r.MACD, 4) + string(r.MACDDir)
	return fmt.Sprintf("%s %-10s %-12s %8s %6s %10s %9s %9s",
		icon(r.Signal), r.Ticker, r.Signal,
		num(r.Price, 2), num(r.RSI, 2), macd, num(r.Stop, 2), num(r.Target, 2))
}

func icon(s models.Signal) string {
	switch {
	case strings.HasPrefix(string(s), "BUY"):
		return "🟢"
	case s == models.SignalSell:
		return "🔴"
	default:
		return "🟡"
	}
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
