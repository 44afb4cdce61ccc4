package usecase

import (
	"context"
	"strings"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	applogger "StockTiming/pkg/logger"
)

const (
	baseConfidence = 50
	minConfidence  = 30
	maxConfidence  = 95

	reasonSeparator = " • "
	reasonNeutral   = "Neutral market conditions"
)

// SignalScorer turns a quote plus indicators into a decision. When an
// advisor is configured it is consulted first; any failure falls back to the
// deterministic rule cascade.
type SignalScorer struct {
	advisor domrepo.Advisor
	logger  *applogger.Logger
}

func NewSignalScorer(advisor domrepo.Advisor, logger *applogger.Logger) *SignalScorer {
	return &SignalScorer{advisor: advisor, logger: logger}
}

func (s *SignalScorer) Score(ctx context.Context, quote models.Quote, ind models.IndicatorSet) models.Decision {
	if s.advisor != nil {
		decision, err := s.advisor.Analyze(ctx, quote, ind)
		if err == nil {
			return decision
		}
		if s.logger != nil {
			s.logger.Warn("advisor failed, using rule cascade",
				applogger.String("symbol", quote.Symbol),
				applogger.Error(err))
		}
	}
	return RuleCascade(quote, ind)
}

// RuleCascade is the deterministic scoring path. Rules may only move the
// action away from hold; once set, later rules adjust confidence and
// reasoning but never overwrite the action.
func RuleCascade(quote models.Quote, ind models.IndicatorSet) models.Decision {
	action := models.ActionHold
	confidence := baseConfidence
	var reasons []string

	// RSI
	if ind.RSI < 30 {
		action = models.ActionBuy
		confidence += 25
		reasons = append(reasons, "Oversold (RSI < 30)")
	} else if ind.RSI > 70 {
		action = models.ActionSell
		confidence += 25
		reasons = append(reasons, "Overbought (RSI > 70)")
	}

	// MACD
	if ind.MACD > 0.5 {
		if action == models.ActionHold {
			action = models.ActionBuy
		}
		confidence += 15
		reasons = append(reasons, "Bullish MACD crossover")
	} else if ind.MACD < -0.5 {
		if action == models.ActionHold {
			action = models.ActionSell
		}
		confidence += 15
		reasons = append(reasons, "Bearish MACD divergence")
	}

	// Price vs moving average
	if ind.MovingAverage != 0 {
		priceDiff := (quote.Price - ind.MovingAverage) / ind.MovingAverage
		if priceDiff < -0.05 {
			if action == models.ActionHold {
				action = models.ActionBuy
			}
			confidence += 10
			reasons = append(reasons, "Price 5% below MA")
		} else if priceDiff > 0.05 {
			if action == models.ActionHold {
				action = models.ActionSell
			}
			confidence += 10
			reasons = append(reasons, "Price 5% above MA")
		}
	}

	// Trend
	if ind.Trend > 0.05 {
		if action == models.ActionHold {
			action = models.ActionBuy
		}
		confidence += 10
		reasons = append(reasons, "Strong upward trend")
	} else if ind.Trend < -0.05 {
		if action == models.ActionHold {
			action = models.ActionSell
		}
		confidence += 10
		reasons = append(reasons, "Strong downward trend")
	}

	// Volatility never changes the action
	if ind.Volatility > 0.03 && quote.ChangePercent < -2 {
		confidence += 5
		reasons = append(reasons, "High volatility opportunity")
	}

	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	if confidence < minConfidence {
		confidence = minConfidence
	}

	reasoning := reasonNeutral
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, reasonSeparator)
	}

	return models.Decision{Action: action, Confidence: confidence, Reasoning: reasoning}
}
