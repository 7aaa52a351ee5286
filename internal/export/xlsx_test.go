package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ekiren/bistsignal/internal/models"
)

func testResults() []models.TickerResult {
	return []models.TickerResult{
		{Ticker: "THYAO.IS", Price: 100, RSI: 35, MACD: 0.51, MACDDir: models.MACDUp, EMA50: 98, ATR: 5, Signal: models.SignalStrongBuy, Stop: 90, Target: 120},
		{Ticker: "GARAN.IS", Price: 50, RSI: math.NaN(), MACD: math.NaN(), MACDDir: models.MACDUnknown, EMA50: 48, ATR: 0, Signal: models.SignalHold, Stop: 47.5, Target: 55},
	}
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	w := NewWriter(path)

	got, err := w.Write(testResults(), time.Now())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got != path {
		t.Errorf("written path = %s, want %s", got, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	ticker, err := f.GetCellValue(sheet, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if ticker != "THYAO.IS" {
		t.Errorf("A2 = %q, want THYAO.IS", ticker)
	}
	// Undefined RSI must be an empty cell, not NaN text.
	rsi, err := f.GetCellValue(sheet, "C3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if rsi != "" {
		t.Errorf("C3 = %q, want empty cell for undefined RSI", rsi)
	}
}

func TestWriter_FallbackPath(t *testing.T) {
	dir := t.TempDir()
	// Make the primary path unwritable by turning it into a directory.
	locked := filepath.Join(dir, "signals.xlsx")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(locked)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	got, err := w.Write(testResults(), now)
	if err != nil {
		t.Fatalf("Write should fall back, got error: %v", err)
	}
	want := filepath.Join(dir, "signals_20250314_093000.xlsx")
	if got != want {
		t.Errorf("fallback path = %s, want %s", got, want)
	}
	if _, err := os.Stat(got); err != nil {
		t.Errorf("fallback workbook missing: %v", err)
	}
}
