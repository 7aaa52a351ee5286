// Package pipeline runs one full evaluation: watchlist → price history →
// indicators → signal and risk levels → spreadsheet and history export →
// digest rendering → state persistence → dedup-gated delivery.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ekiren/bistsignal/internal/indicator"
	"github.com/ekiren/bistsignal/internal/logger"
	"github.com/ekiren/bistsignal/internal/marketdata"
	"github.com/ekiren/bistsignal/internal/models"
	"github.com/ekiren/bistsignal/internal/report"
	"github.com/ekiren/bistsignal/internal/state"
	"github.com/ekiren/bistsignal/internal/strategy"
	"github.com/ekiren/bistsignal/internal/watchlist"
)

// Notifier delivers a rendered digest. A nil Notifier disables delivery;
// the pipeline still evaluates and persists.
type Notifier interface {
	Send(text string) error
}

// Exporter writes the run's results to a spreadsheet.
type Exporter interface {
	Write(results []models.TickerResult, now time.Time) (string, error)
}

// Recorder appends the run to the history database.
type Recorder interface {
	RecordRun(timestamp time.Time, fingerprint string, results []models.TickerResult) (string, error)
}

// Pipeline wires one evaluation run. Exporter, Recorder and Notifier are
// optional; Fetcher, Watchlist and Store are not.
type Pipeline struct {
	Fetcher   marketdata.Fetcher
	Watchlist string
	Store     *state.Store
	Notifier  Notifier
	Exporter  Exporter
	Recorder  Recorder

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Run executes one evaluation. The only returned errors are the watchlist
// precondition and a failed delivery; per-ticker and collaborator failures
// are logged and absorbed.
func (p *Pipeline) Run(ctx context.Context) error {
	tickers, err := watchlist.Load(p.Watchlist)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	logger.Info("run started: %d tickers", len(tickers))

	results := make([]models.TickerResult, 0, len(tickers))
	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		bars, err := p.Fetcher.History(ctx, ticker)
		if err != nil {
			logger.Warn("%s: fetch failed, skipping: %v", ticker, err)
			continue
		}
		snap, err := indicator.Compute(bars)
		if err != nil {
			logger.Warn("%s: %v (%d bars), skipping", ticker, err, len(bars))
			continue
		}
		results = append(results, strategy.Evaluate(ticker, snap))
	}

	digest := report.Render(results, now)
	fp := report.Fingerprint(digest)

	if p.Exporter != nil {
		if path, err := p.Exporter.Write(results, now); err != nil {
			logger.Error("spreadsheet export failed: %v", err)
		} else {
			logger.Info("spreadsheet written: %s", path)
		}
	}

	// Run state is persisted every run, changed digest or not, so /status
	// and /last always reflect the latest evaluation.
	if err := p.Store.SaveRun(now, digest.Text); err != nil {
		logger.Error("persist run state: %v", err)
	}

	if p.Recorder != nil {
		if _, err := p.Recorder.RecordRun(now, fp, results); err != nil {
			logger.Error("record run history: %v", err)
		}
	}

	if fp == p.Store.LastFingerprint() {
		logger.Info("digest unchanged, delivery skipped")
		return nil
	}
	if p.Notifier == nil {
		logger.Info("delivery disabled, digest not sent")
		return nil
	}
	if err := p.Notifier.Send(digest.Text); err != nil {
		// The fingerprint stays untouched so the digest retries on the
		// next differing run.
		logger.Error("digest delivery failed: %v", err)
		return fmt.Errorf("deliver digest: %w", err)
	}
	if err := p.Store.SaveFingerprint(fp); err != nil {
		logger.Error("persist fingerprint: %v", err)
	}
	logger.Info("digest delivered: %d tickers, %d signaled", len(results), signalCount(results))
	return nil
}

func signalCount(results []models.TickerResult) int {
	n := 0
	for _, r := range results {
		if r.Signal != models.SignalHold {
			n++
		}
	}
	return n
}
