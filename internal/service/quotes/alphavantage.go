// Package quotes fetches market snapshots from Alpha Vantage and generates
// synthetic fallbacks when the upstream is unavailable or unconfigured.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	"StockTiming/pkg/cache"
	"StockTiming/pkg/config"
	xhttp "StockTiming/pkg/http"
)

// windowSize is the closing-price window used for indicator computation.
const windowSize = 20

// AlphaVantageClient implements QuoteSource against the intraday time
// series endpoint.
type AlphaVantageClient struct {
	apiKey   string
	baseURL  string
	interval string
	cacheTTL time.Duration
	client   *xhttp.Client
	cache    cache.Service
}

func NewAlphaVantageClient(cfg *config.Config, c cache.Service) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:   cfg.Quotes.APIKey,
		baseURL:  cfg.Quotes.BaseURL,
		interval: cfg.Quotes.Interval,
		cacheTTL: cfg.Quotes.CacheTTL,
		client:   xhttp.NewClient(xhttp.WithTimeout(cfg.Quotes.Timeout)),
		cache:    c,
	}
}

type avBar struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type avResponse struct {
	ErrorMessage string
	Note         string
	Series       map[string]avBar
}

// UnmarshalJSON probes for the series key instead of binding a struct tag:
// Alpha Vantage names it after the requested interval ("Time Series (1min)",
// "Time Series (5min)", ...).
func (r *avResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["Error Message"]; ok {
		if err := json.Unmarshal(v, &r.ErrorMessage); err != nil {
			return err
		}
	}
	if v, ok := raw["Note"]; ok {
		if err := json.Unmarshal(v, &r.Note); err != nil {
			return err
		}
	}
	for key, v := range raw {
		if strings.HasPrefix(key, "Time Series") {
			return json.Unmarshal(v, &r.Series)
		}
	}
	return nil
}

// Fetch returns a snapshot for one symbol. Rate-limit notes and API errors
// are returned as errors so the caller can fall back to synthetic data.
func (c *AlphaVantageClient) Fetch(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alphavantage api key not configured")
	}

	if c.cache != nil {
		var cached interface{}
		if err := c.cache.Get(ctx, cacheKey(symbol), &cached); err == nil {
			if snap, ok := cached.(*models.Snapshot); ok {
				return snap, nil
			}
		}
	}

	var resp avResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"function": {"TIME_SERIES_INTRADAY"},
			"symbol":   {symbol},
			"interval": {c.interval},
			"apikey":   {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("fetch %s: %s", symbol, resp.ErrorMessage)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("fetch %s: rate limited: %s", symbol, resp.Note)
	}
	if len(resp.Series) < 2 {
		return nil, fmt.Errorf("fetch %s: time series too short (%d bars)", symbol, len(resp.Series))
	}

	snap, err := buildSnapshot(symbol, resp.Series)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		_ = c.cache.Set(ctx, cacheKey(symbol), snap, c.cacheTTL)
	}
	return snap, nil
}

// buildSnapshot orders bars newest-first and derives the quote plus the
// closing window from the two most recent bars.
func buildSnapshot(symbol string, series map[string]avBar) (*models.Snapshot, error) {
	stamps := make([]string, 0, len(series))
	for ts := range series {
		stamps = append(stamps, ts)
	}
	// "2006-01-02 15:04:05" timestamps sort lexicographically
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))

	closes := make([]float64, 0, windowSize)
	for _, ts := range stamps {
		if len(closes) == windowSize {
			break
		}
		v, err := strconv.ParseFloat(series[ts].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close at %s: %w", ts, err)
		}
		closes = append(closes, v)
	}

	price := closes[0]
	previous := closes[1]
	change := price - previous
	changePercent := change / previous * 100

	volume, _ := strconv.ParseInt(series[stamps[0]].Volume, 10, 64)

	ts, err := time.Parse("2006-01-02 15:04:05", stamps[0])
	if err != nil {
		ts = time.Now()
	}

	return &models.Snapshot{
		Quote: models.Quote{
			Symbol:        symbol,
			Price:         price,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        volume,
			Timestamp:     ts,
		},
		Closes: closes,
	}, nil
}

func cacheKey(symbol string) string {
	return "quotes:snapshot:" + symbol
}

var _ domrepo.QuoteSource = (*AlphaVantageClient)(nil)
