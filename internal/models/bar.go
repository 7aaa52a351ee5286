// Package models defines the core domain entities: price bars, indicator
// snapshots, ticker results, and run state.
package models

import (
	"errors"
	"time"
)

// PriceBar represents one day of OHLCV data for a single ticker.
// Bars are chronological and immutable once retrieved.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate checks bar field constraints.
func (b *PriceBar) Validate() error {
	if b.Time.IsZero() {
		return errors.New("bar time must not be zero")
	}
	if b.High < b.Low {
		return errors.New("bar high must be >= low")
	}
	if b.Close <= 0 {
		return errors.New("bar close must be positive")
	}
	if b.Volume < 0 {
		return errors.New("bar volume must not be negative")
	}
	return nil
}

// Closes extracts the closing prices from a bar sequence.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
