// Package export writes the per-run ticker results to a spreadsheet.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ekiren/bistsignal/internal/models"
)

var columns = []string{"Ticker", "Price", "RSI", "MACD", "MACD Dir", "EMA50", "ATR", "Signal", "Stop", "Target"}

// Writer exports ticker results as an .xlsx workbook.
type Writer struct {
	path string
}

// NewWriter returns a writer targeting the given workbook path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write saves all results to the configured path. When that path cannot be
// written (typically the file is open and locked), it falls back to a
// timestamped sibling instead of failing the run. Returns the path
// actually written.
func (w *Writer) Write(results []models.TickerResult, now time.Time) (string, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{
		columns[0], columns[1], columns[2], columns[3], columns[4],
		columns[5], columns[6], columns[7], columns[8], columns[9],
	}); err != nil {
		return "", fmt.Errorf("write header row: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		row := []any{
			r.Ticker, r.Price, cellValue(r.RSI), cellValue(r.MACD), string(r.MACDDir),
			cellValue(r.EMA50), r.ATR, string(r.Signal), r.Stop, r.Target,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("write row for %s: %w", r.Ticker, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(w.path); err == nil {
		return w.path, nil
	}

	alt := w.altPath(now)
	if err := f.SaveAs(alt); err != nil {
		return "", fmt.Errorf("save workbook (fallback %s): %w", alt, err)
	}
	return alt, nil
}

func (w *Writer) altPath(now time.Time) string {
	dir := filepath.Dir(w.path)
	base := strings.TrimSuffix(filepath.Base(w.path), filepath.Ext(w.path))
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", base, now.Format("20060102_150405")))
}

// cellValue maps NaN to nil so undefined indicators become empty cells.
func cellValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
