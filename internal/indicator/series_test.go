package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/ekiren/bistsignal/internal/models"
)

// wavyBars builds a history with a mild trend and an oscillation so every
// window contains both gains and losses.
func wavyBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + 0.1*float64(i) + 3*math.Sin(float64(i)/3)
		bars[i] = models.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestRSI_BalancedSeriesIsFifty(t *testing.T) {
	// Alternating +1/-1 moves: average gain equals average loss.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10
		if i%2 == 1 {
			closes[i] = 11
		}
	}
	rsi := RSI(closes, 14)
	got := rsi[len(rsi)-1]
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("RSI of balanced series = %v, want 50", got)
	}
}

func TestRSI_AllGainsIsUndefined(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	rsi := RSI(closes, 14)
	if !math.IsNaN(rsi[len(rsi)-1]) {
		t.Errorf("RSI with zero average loss = %v, want NaN", rsi[len(rsi)-1])
	}
}

func TestRSI_WarmupIsUndefined(t *testing.T) {
	closes := models.Closes(wavyBars(30))
	rsi := RSI(closes, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Fatalf("rsi[%d] = %v, want NaN during warm-up", i, rsi[i])
		}
	}
	if math.IsNaN(rsi[14]) {
		t.Error("rsi[14] should be defined for a mixed series")
	}
}

func TestRSI_ShortSeries(t *testing.T) {
	rsi := RSI([]float64{1, 2, 3}, 14)
	for i, v := range rsi {
		if !math.IsNaN(v) {
			t.Errorf("rsi[%d] = %v, want NaN for short series", i, v)
		}
	}
}

func TestEMA_SeededRecurrence(t *testing.T) {
	// span 3 => k = 0.5; seeded with the first value.
	ema := EMA([]float64{1, 2, 4}, 3)
	want := []float64{1, 1.5, 2.75}
	for i := range want {
		if math.Abs(ema[i]-want[i]) > 1e-12 {
			t.Errorf("ema[%d] = %v, want %v", i, ema[i], want[i])
		}
	}
}

func TestEMA_ConstantSeries(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5}
	ema := EMA(values, 50)
	for i, v := range ema {
		if v != 5 {
			t.Errorf("ema[%d] = %v, want 5", i, v)
		}
	}
}

func TestMACDHist_ConstantSeriesIsZero(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 42
	}
	hist := MACDHist(values)
	for i, v := range hist {
		if math.Abs(v) > 1e-12 {
			t.Errorf("hist[%d] = %v, want 0 for constant series", i, v)
		}
	}
}

func TestATR_ConstantRange(t *testing.T) {
	bars := make([]models.PriceBar, 30)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.PriceBar{Time: start.AddDate(0, 0, i), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1}
	}
	atr := ATR(bars, 14)
	for i := 0; i < 13; i++ {
		if !math.IsNaN(atr[i]) {
			t.Fatalf("atr[%d] = %v, want NaN during warm-up", i, atr[i])
		}
	}
	for i := 13; i < len(atr); i++ {
		if math.Abs(atr[i]-2) > 1e-12 {
			t.Errorf("atr[%d] = %v, want 2", i, atr[i])
		}
	}
}

func TestATR_GapUsesPreviousClose(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []models.PriceBar{
		{Time: start, Open: 10, High: 11, Low: 9, Close: 10},
		// Gap up: range is 1 but distance from previous close is 5.
		{Time: start.AddDate(0, 0, 1), Open: 15, High: 15, Low: 14, Close: 15},
	}
	atr := ATR(bars, 2)
	// tr = [2, max(1, |15-10|, |14-10|)] = [2, 5]
	if math.Abs(atr[1]-3.5) > 1e-12 {
		t.Errorf("atr[1] = %v, want 3.5", atr[1])
	}
}

func TestCompute_FinalRowDefined(t *testing.T) {
	snap, err := Compute(wavyBars(100))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.IsNaN(snap.RSI) {
		t.Error("RSI undefined for full history")
	}
	if math.IsNaN(snap.MACDHist) || math.IsNaN(snap.PrevMACDHist) {
		t.Error("MACD histogram undefined for full history")
	}
	if math.IsNaN(snap.EMA50) {
		t.Error("EMA50 undefined for full history")
	}
	if snap.ATR <= 0 {
		t.Errorf("ATR = %v, want > 0 for full history", snap.ATR)
	}
	if snap.Close <= 0 {
		t.Errorf("Close = %v, want > 0", snap.Close)
	}
}

func TestCompute_InsufficientHistory(t *testing.T) {
	_, err := Compute(wavyBars(60))
	if err != ErrInsufficientHistory {
		t.Errorf("Compute(60 bars) error = %v, want ErrInsufficientHistory", err)
	}
}
