package quotes

import (
	"context"
	"encoding/json"
	"testing"
)

func TestSyntheticSnapshot(t *testing.T) {
	src := NewSeededSyntheticSource(1)
	snap, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.Synthetic {
		t.Fatalf("synthetic snapshot must be flagged")
	}
	if snap.Quote.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", snap.Quote.Symbol)
	}
	if len(snap.Closes) != windowSize {
		t.Fatalf("expected %d closes, got %d", windowSize, len(snap.Closes))
	}
	if snap.Quote.Price < 50 || snap.Quote.Price > 250 {
		t.Fatalf("price out of plausible range: %v", snap.Quote.Price)
	}
	if snap.Quote.Volume < 1_000_000 {
		t.Fatalf("volume out of plausible range: %v", snap.Quote.Volume)
	}
	if snap.Closes[0] != snap.Quote.Price {
		t.Fatalf("latest close should match quote price")
	}
}

func TestBuildSnapshotOrdersNewestFirst(t *testing.T) {
	series := map[string]avBar{
		"2024-10-10 10:00:00": {Close: "100.0", Volume: "1000"},
		"2024-10-10 10:05:00": {Close: "102.0", Volume: "2000"},
		"2024-10-10 09:55:00": {Close: "99.0", Volume: "500"},
	}

	snap, err := buildSnapshot("MSFT", series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Quote.Price != 102.0 {
		t.Fatalf("expected latest close 102.0, got %v", snap.Quote.Price)
	}
	if snap.Quote.Change != 2.0 {
		t.Fatalf("expected change 2.0, got %v", snap.Quote.Change)
	}
	if snap.Quote.Volume != 2000 {
		t.Fatalf("expected latest volume, got %v", snap.Quote.Volume)
	}
	if snap.Closes[2] != 99.0 {
		t.Fatalf("expected oldest close last, got %v", snap.Closes)
	}
	if snap.Synthetic {
		t.Fatalf("live snapshot must not be flagged synthetic")
	}
}

func TestResponseSeriesKeyFollowsInterval(t *testing.T) {
	body := `{
		"Meta Data": {"1. Information": "Intraday (1min)"},
		"Time Series (1min)": {
			"2024-10-10 10:00:00": {"4. close": "100.0", "5. volume": "1000"},
			"2024-10-10 10:01:00": {"4. close": "101.0", "5. volume": "1200"}
		}
	}`

	var resp avResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Series) != 2 {
		t.Fatalf("expected 2 bars for a 1min series, got %d", len(resp.Series))
	}
	if resp.Series["2024-10-10 10:01:00"].Close != "101.0" {
		t.Fatalf("unexpected bars %v", resp.Series)
	}
}

func TestResponseErrorAndNote(t *testing.T) {
	var resp avResponse
	if err := json.Unmarshal([]byte(`{"Error Message":"Invalid API call"}`), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ErrorMessage != "Invalid API call" {
		t.Fatalf("error message not parsed: %+v", resp)
	}

	resp = avResponse{}
	if err := json.Unmarshal([]byte(`{"Note":"rate limit"}`), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Note != "rate limit" {
		t.Fatalf("note not parsed: %+v", resp)
	}
}

func TestAlphaVantageRequiresKey(t *testing.T) {
	c := &AlphaVantageClient{}
	if _, err := c.Fetch(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
