// Package advisor provides the optional external-model path of the scorer:
// an OpenAI-compatible chat client that turns a quote plus its indicators
// into a trading decision. Any transport or parse failure is returned to the
// caller, which falls back to the rule cascade.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	"StockTiming/pkg/config"
	xhttp "StockTiming/pkg/http"
)

type OpenAIAdvisor struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *xhttp.Client
}

func NewOpenAIAdvisor(cfg *config.Config) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		baseURL:     cfg.Advisor.BaseURL,
		apiKey:      cfg.Advisor.APIKey,
		model:       cfg.Advisor.Model,
		temperature: cfg.Advisor.Temperature,
		maxTokens:   cfg.Advisor.MaxTokens,
		client:      xhttp.NewClient(xhttp.WithTimeout(cfg.Advisor.Timeout)),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = "You are a professional stock market analyst. Analyze technical indicators and provide trading recommendations based on patterns."

func (a *OpenAIAdvisor) Analyze(ctx context.Context, quote models.Quote, ind models.IndicatorSet) (models.Decision, error) {
	if a.apiKey == "" {
		return models.Decision{}, fmt.Errorf("advisor api key not configured")
	}

	prompt := fmt.Sprintf(`Analyze this stock data and provide a trading recommendation:

Symbol: %s
Current Price: $%.2f
Change: %.2f%%
RSI: %.2f
MACD: %.4f
Moving Average: $%.2f
Volatility: %.2f%%
Trend: %.2f%%

Based on technical analysis patterns, provide:
1. Action: BUY, SELL, or HOLD
2. Confidence: 0-100
3. Reasoning: Brief explanation of the pattern analysis

Respond in JSON format: {"action": "BUY|SELL|HOLD", "confidence": 0-100, "reasoning": "explanation"}`,
		quote.Symbol, quote.Price, quote.ChangePercent,
		ind.RSI, ind.MACD, ind.MovingAverage,
		ind.Volatility*100, ind.Trend*100)

	req := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}

	var resp chatResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    a.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + a.apiKey,
		},
		Body: req,
	}, &resp)
	if err != nil {
		return models.Decision{}, fmt.Errorf("advisor request: %w", err)
	}
	if resp.Error != nil {
		return models.Decision{}, fmt.Errorf("advisor error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return models.Decision{}, fmt.Errorf("advisor reply has no choices")
	}

	return ParseReply(resp.Choices[0].Message.Content)
}

var _ domrepo.Advisor = (*OpenAIAdvisor)(nil)

// stripFences removes markdown code fences models sometimes wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
