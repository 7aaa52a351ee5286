// Package storage provides SQLite-backed persistence of run history:
// one row per pipeline run plus the per-ticker results of each run.
package storage

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ekiren/bistsignal/internal/models"
)

// Storage wraps a SQLite database for run-history persistence.
type Storage struct {
	db      *sql.DB
	maxRuns int
}

// New opens or creates the SQLite database at dbPath. An empty dbPath
// defaults to $TMPDIR/bistsignal/history.db.
func New(maxRuns int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "bistsignal", "history.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Storage{db: db, maxRuns: maxRuns}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			ticker_count INTEGER NOT NULL,
			signal_count INTEGER NOT NULL,
			fingerprint  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			ticker   TEXT NOT NULL,
			price    REAL NOT NULL,
			rsi      REAL,
			macd     REAL,
			macd_dir TEXT NOT NULL,
			ema50    REAL,
			atr      REAL NOT NULL,
			signal   TEXT NOT NULL,
			stop     REAL NOT NULL,
			target   REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun persists one run with its results and enforces the run cap,
// dropping the oldest runs (their results cascade).
func (s *Storage) RecordRun(timestamp time.Time, fingerprint string, results []models.TickerResult) (string, error) {
	signalCount := 0
	for _, r := range results {
		if r.Signal != models.SignalHold {
			signalCount++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	runID := uuid.NewString()
	if _, err := tx.Exec(`
		INSERT INTO runs (id, timestamp, ticker_count, signal_count, fingerprint)
		VALUES (?,?,?,?,?)`,
		runID, timestamp.UnixNano(), len(results), signalCount, fingerprint,
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, r := range results {
		if _, err := tx.Exec(`
			INSERT INTO results
				(run_id, ticker, price, rsi, macd, macd_dir, ema50, atr, signal, stop, target)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, r.Ticker, r.Price, nullable(r.RSI), nullable(r.MACD), string(r.MACDDir),
			nullable(r.EMA50), r.ATR, string(r.Signal), r.Stop, r.Target,
		); err != nil {
			return "", fmt.Errorf("failed to insert result for %s: %w", r.Ticker, err)
		}
	}

	if s.maxRuns > 0 {
		if _, err := tx.Exec(`
			DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY timestamp DESC LIMIT ?
			)`, s.maxRuns); err != nil {
			return "", fmt.Errorf("failed to enforce run cap: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRun returns the most recent run record.
func (s *Storage) LatestRun() (*models.RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, timestamp, ticker_count, signal_count, fingerprint
		FROM runs ORDER BY timestamp DESC LIMIT 1`)
	var rec models.RunRecord
	var ts int64
	if err := row.Scan(&rec.ID, &ts, &rec.TickerCount, &rec.SignalCount, &rec.Fingerprint); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no runs recorded")
		}
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	rec.Timestamp = time.Unix(0, ts)
	return &rec, nil
}

// RunResults returns the per-ticker results of a run, in insertion order.
func (s *Storage) RunResults(runID string) ([]models.TickerResult, error) {
	rows, err := s.db.Query(`
		SELECT ticker, price, rsi, macd, macd_dir, ema50, atr, signal, stop, target
		FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.TickerResult
	for rows.Next() {
		var r models.TickerResult
		var rsi, macd, ema50 sql.NullFloat64
		var dir, signal string
		if err := rows.Scan(&r.Ticker, &r.Price, &rsi, &macd, &dir, &ema50, &r.ATR, &signal, &r.Stop, &r.Target); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.RSI = fromNull(rsi)
		r.MACD = fromNull(macd)
		r.EMA50 = fromNull(ema50)
		r.MACDDir = models.MACDDirection(dir)
		r.Signal = models.Signal(signal)
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountRuns returns the number of retained runs.
func (s *Storage) CountRuns() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// nullable maps NaN to NULL so undefined indicator values survive the
// REAL column round trip.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
