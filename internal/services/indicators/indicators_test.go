package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMovingAverage(t *testing.T) {
	if got := MovingAverage([]float64{10, 20, 30}); !almostEqual(got, 20) {
		t.Fatalf("unexpected MA %v", got)
	}
	if got := MovingAverage(nil); got != 0 {
		t.Fatalf("empty window should be 0, got %v", got)
	}
}

func TestRSIBounds(t *testing.T) {
	windows := [][]float64{
		{100, 101, 99, 102, 98, 103},
		{100, 100, 100},
		{50},
		nil,
	}
	for _, w := range windows {
		got := RSI(w)
		if got < 0 || got > 100 {
			t.Fatalf("rsi out of bounds for %v: %v", w, got)
		}
	}
}

func TestRSINoLosses(t *testing.T) {
	// monotonically rising closes: no losses, rsi pinned to 100
	if got := RSI([]float64{100, 101, 102, 103}); !almostEqual(got, 100) {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestRSIAllLosses(t *testing.T) {
	if got := RSI([]float64{103, 102, 101, 100}); !almostEqual(got, 0) {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestEMAEmpty(t *testing.T) {
	if got := EMA(nil); got != 0 {
		t.Fatalf("ema of empty window should be 0, got %v", got)
	}
}

func TestEMASingle(t *testing.T) {
	if got := EMA([]float64{42}); !almostEqual(got, 42) {
		t.Fatalf("ema seeded with first element, got %v", got)
	}
}

func TestEMASmoothing(t *testing.T) {
	// n=2, multiplier 2/3: ema = 20*2/3 + 10*1/3 = 50/3
	if got := EMA([]float64{10, 20}); !almostEqual(got, 50.0/3.0) {
		t.Fatalf("unexpected ema %v", got)
	}
}

func TestMACDShortWindow(t *testing.T) {
	// windows shorter than 26 still produce a value
	prices := []float64{100, 101, 102, 103, 104}
	got := MACD(prices)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("macd should be finite on short windows, got %v", got)
	}
}

func TestMACDFlat(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100
	}
	if got := MACD(prices); !almostEqual(got, 0) {
		t.Fatalf("flat series should have zero macd, got %v", got)
	}
}

func TestVolatility(t *testing.T) {
	if got := Volatility([]float64{100}); got != 0 {
		t.Fatalf("fewer than 2 samples should be 0, got %v", got)
	}
	// {90, 110}: mean 100, population stddev 10, volatility 0.1
	if got := Volatility([]float64{90, 110}); !almostEqual(got, 0.1) {
		t.Fatalf("unexpected volatility %v", got)
	}
	if got := Volatility([]float64{100, 100, 100}); !almostEqual(got, 0) {
		t.Fatalf("flat series should have zero volatility, got %v", got)
	}
}

func TestTrend(t *testing.T) {
	if got := Trend(90, 100); !almostEqual(got, -0.1) {
		t.Fatalf("unexpected trend %v", got)
	}
	if got := Trend(100, 0); got != 0 {
		t.Fatalf("zero MA should give zero trend, got %v", got)
	}
}

func TestComputeConsistency(t *testing.T) {
	closes := []float64{105, 104, 103, 102, 101}
	ind := Compute(closes[0], closes)
	if !almostEqual(ind.MovingAverage, 103) {
		t.Fatalf("unexpected MA %v", ind.MovingAverage)
	}
	if !almostEqual(ind.Trend, Trend(105, 103)) {
		t.Fatalf("trend not derived from MA")
	}
}
