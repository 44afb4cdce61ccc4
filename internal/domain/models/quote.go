package models

import "time"

// Quote is an immutable market snapshot for one symbol, produced once per cycle.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	Timestamp     time.Time
}

// Snapshot bundles a quote with its most-recent-first closing price window
// (at most 20 samples) used for indicator computation.
type Snapshot struct {
	Quote  Quote
	Closes []float64
	// Synthetic marks snapshots produced by the fallback generator when the
	// live quote source is unavailable.
	Synthetic bool
}

// IndicatorSet holds technical indicators derived from a closing price window.
// Recomputed every cycle and consumed immediately by the scorer; never stored.
type IndicatorSet struct {
	MovingAverage float64
	RSI           float64 // [0,100]
	MACD          float64
	Volatility    float64 // >= 0
	Trend         float64 // (price - MA) / MA
}
