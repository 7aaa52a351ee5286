// Package state persists the run markers the listener reads: last run
// timestamp, last digest text, and last digest fingerprint. Three flat
// files, each independently readable; a missing file is an empty value.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	lastRunFile         = "last_run.txt"
	lastDigestFile      = "last_digest.txt"
	lastFingerprintFile = "last_fingerprint.txt"

	// TimestampLayout is the format of the persisted last-run marker.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Store reads and writes run state under a single directory. The pipeline
// is the only writer, the listener only reads, so no locking is needed;
// writes go through a temp file and rename so readers never see a partial
// record.
type Store struct {
	dir string
}

// New creates the state directory if needed and returns a store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveRun records the run timestamp and digest text. Called every run,
// whether or not the digest changed.
func (s *Store) SaveRun(ts time.Time, digestText string) error {
	if err := s.write(lastRunFile, ts.Format(TimestampLayout)); err != nil {
		return err
	}
	return s.write(lastDigestFile, digestText)
}

// SaveFingerprint records the fingerprint of the last delivered digest.
// Only called after a successful delivery, so a failed send retries on the
// next differing run.
func (s *Store) SaveFingerprint(fp string) error {
	return s.write(lastFingerprintFile, fp)
}

// LastRun returns the persisted run timestamp, or "" if no run happened.
func (s *Store) LastRun() string {
	return s.read(lastRunFile)
}

// LastDigest returns the persisted digest text, or "".
func (s *Store) LastDigest() string {
	return s.read(lastDigestFile)
}

// LastFingerprint returns the fingerprint of the last delivered digest, or "".
func (s *Store) LastFingerprint() string {
	return strings.TrimSpace(s.read(lastFingerprintFile))
}

func (s *Store) write(name, content string) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state file %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close state file %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file %s: %w", name, err)
	}
	return nil
}

func (s *Store) read(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}
