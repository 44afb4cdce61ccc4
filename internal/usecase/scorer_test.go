package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"StockTiming/internal/domain/models"
)

func TestRuleCascadeNeutral(t *testing.T) {
	d := RuleCascade(models.Quote{Price: 100}, models.IndicatorSet{
		MovingAverage: 100, RSI: 50, MACD: 0, Trend: 0, Volatility: 0.01,
	})
	if d.Action != models.ActionHold {
		t.Fatalf("expected hold, got %v", d.Action)
	}
	if d.Confidence != 50 {
		t.Fatalf("expected baseline 50, got %d", d.Confidence)
	}
	if d.Reasoning != "Neutral market conditions" {
		t.Fatalf("unexpected reasoning %q", d.Reasoning)
	}
}

func TestRuleCascadeOversoldStacking(t *testing.T) {
	// rsi=25 → buy +25; macd=0.6 → +15; price 90 vs MA 100 → +10;
	// trend=-0.08 → +10; total 110 clamps to 95. Action stays buy even
	// though the trend rule leans sell.
	d := RuleCascade(
		models.Quote{Price: 90, ChangePercent: -1},
		models.IndicatorSet{MovingAverage: 100, RSI: 25, MACD: 0.6, Trend: -0.08, Volatility: 0.01},
	)
	if d.Action != models.ActionBuy {
		t.Fatalf("expected buy, got %v", d.Action)
	}
	if d.Confidence != 95 {
		t.Fatalf("expected clamped 95, got %d", d.Confidence)
	}
	for _, want := range []string{
		"Oversold (RSI < 30)",
		"Bullish MACD crossover",
		"Price 5% below MA",
		"Strong downward trend",
	} {
		if !strings.Contains(d.Reasoning, want) {
			t.Fatalf("reasoning %q missing %q", d.Reasoning, want)
		}
	}
}

func TestRuleCascadeOverbought(t *testing.T) {
	d := RuleCascade(models.Quote{Price: 100}, models.IndicatorSet{
		MovingAverage: 100, RSI: 75,
	})
	if d.Action != models.ActionSell {
		t.Fatalf("expected sell, got %v", d.Action)
	}
	if d.Confidence != 75 {
		t.Fatalf("expected 75, got %d", d.Confidence)
	}
}

func TestRuleCascadeActionNotOverwritten(t *testing.T) {
	// RSI fires sell first; bullish MACD must not flip the action
	d := RuleCascade(models.Quote{Price: 100}, models.IndicatorSet{
		MovingAverage: 100, RSI: 75, MACD: 0.8,
	})
	if d.Action != models.ActionSell {
		t.Fatalf("action must not be overwritten, got %v", d.Action)
	}
	if !strings.Contains(d.Reasoning, "Bullish MACD crossover") {
		t.Fatalf("confidence rule should still contribute reasoning: %q", d.Reasoning)
	}
}

func TestRuleCascadeVolatilityKeepsAction(t *testing.T) {
	d := RuleCascade(
		models.Quote{Price: 100, ChangePercent: -3},
		models.IndicatorSet{MovingAverage: 100, RSI: 50, Volatility: 0.05},
	)
	if d.Action != models.ActionHold {
		t.Fatalf("volatility rule must not change action, got %v", d.Action)
	}
	if d.Confidence != 55 {
		t.Fatalf("expected 55, got %d", d.Confidence)
	}
	if !strings.Contains(d.Reasoning, "High volatility opportunity") {
		t.Fatalf("unexpected reasoning %q", d.Reasoning)
	}
}

func TestRuleCascadeConfidenceBounds(t *testing.T) {
	quotes := []models.IndicatorSet{
		{MovingAverage: 100, RSI: 10, MACD: 5, Trend: 0.5, Volatility: 0.5},
		{MovingAverage: 100, RSI: 50},
		{MovingAverage: 0, RSI: 50},
	}
	for _, ind := range quotes {
		d := RuleCascade(models.Quote{Price: 100, ChangePercent: -5}, ind)
		if d.Confidence < 30 || d.Confidence > 95 {
			t.Fatalf("confidence out of bounds: %d", d.Confidence)
		}
	}
}

func TestScorerAdvisorOverride(t *testing.T) {
	adv := &fakeAdvisor{decision: models.Decision{Action: models.ActionSell, Confidence: 88, Reasoning: "pattern"}}
	s := NewSignalScorer(adv, testLogger())

	d := s.Score(context.Background(), models.Quote{Price: 100}, models.IndicatorSet{MovingAverage: 100, RSI: 25})
	if d.Action != models.ActionSell || d.Confidence != 88 {
		t.Fatalf("expected advisor decision, got %+v", d)
	}
}

func TestScorerAdvisorFallback(t *testing.T) {
	adv := &fakeAdvisor{err: fmt.Errorf("timeout")}
	s := NewSignalScorer(adv, testLogger())

	d := s.Score(context.Background(), models.Quote{Price: 100}, models.IndicatorSet{MovingAverage: 100, RSI: 25})
	if d.Action != models.ActionBuy {
		t.Fatalf("expected rule cascade fallback buy, got %+v", d)
	}
}

func TestScorerNoAdvisor(t *testing.T) {
	s := NewSignalScorer(nil, testLogger())
	d := s.Score(context.Background(), models.Quote{Price: 100}, models.IndicatorSet{MovingAverage: 100, RSI: 50})
	if d.Action != models.ActionHold {
		t.Fatalf("expected hold, got %+v", d)
	}
}
