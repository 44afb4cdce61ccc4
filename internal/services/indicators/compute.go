package indicators

import "StockTiming/internal/domain/models"

// Compute derives the full indicator set for one quote from its most-recent-
// first closing price window.
func Compute(price float64, closes []float64) models.IndicatorSet {
	ma := MovingAverage(closes)
	return models.IndicatorSet{
		MovingAverage: ma,
		RSI:           RSI(closes),
		MACD:          MACD(closes),
		Volatility:    Volatility(closes),
		Trend:         Trend(price, ma),
	}
}
