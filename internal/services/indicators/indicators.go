// Package indicators computes technical indicators from a closing price
// window. All functions are pure and safe for concurrent use.
//
// Price windows are most-recent-first: prices[0] is the latest close. The
// monitor keeps windows at 20 samples, so MACD's 26-sample EMA runs over a
// short slice; this mirrors the permissive behavior of the data source and
// is a known approximation rather than a bug.
package indicators

import "math"

// MovingAverage returns the arithmetic mean of the window, or 0 for an
// empty window.
func MovingAverage(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// RSI computes a simplified Relative Strength Index over successive window
// deltas. When there are no losses the result is pinned to 100 by rule, not
// derived as a limit. Output is clamped to [0,100].
func RSI(prices []float64) float64 {
	var gains, losses []float64
	for i := 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains = append(gains, diff)
		} else {
			losses = append(losses, math.Abs(diff))
		}
	}

	avgGain := MovingAverage(gains)
	avgLoss := MovingAverage(losses)

	if avgLoss == 0 {
		return 100
	}
	rsi := 100 - (100 / (1 + avgGain/avgLoss))

	return math.Min(100, math.Max(0, rsi))
}

// EMA applies exponential smoothing with multiplier 2/(n+1), seeded with the
// first element and processed in slice order. Empty input returns 0.
func EMA(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	multiplier := 2.0 / float64(len(prices)+1)
	ema := prices[0]
	for i := 1; i < len(prices); i++ {
		ema = prices[i]*multiplier + ema*(1-multiplier)
	}
	return ema
}

// MACD is the 12-sample EMA minus the 26-sample EMA of the window. Windows
// shorter than 26 are processed over whatever is available.
func MACD(prices []float64) float64 {
	return EMA(head(prices, 12)) - EMA(head(prices, 26))
}

// Volatility is the population standard deviation of the window divided by
// its mean; 0 for fewer than 2 samples.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	mean := MovingAverage(prices)
	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))
	return math.Sqrt(variance) / mean
}

// Trend is the relative distance of price from its moving average.
func Trend(price, movingAverage float64) float64 {
	if movingAverage == 0 {
		return 0
	}
	return (price - movingAverage) / movingAverage
}

func head(prices []float64, n int) []float64 {
	if len(prices) < n {
		return prices
	}
	return prices[:n]
}
