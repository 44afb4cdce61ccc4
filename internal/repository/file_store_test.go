package repository

import (
	"context"
	"testing"
	"time"

	"StockTiming/internal/domain/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	// empty dir loads as empty collection
	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}

	endpoints := []models.Endpoint{
		{ID: "1", Name: "alerts", URL: "https://example.com", Enabled: true,
			Types: []models.Action{models.ActionBuy}, MinConfidence: 70, CreatedAt: time.Now().UTC()},
	}
	if err := fs.Save(ctx, endpoints); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = fs.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" || got[0].MinConfidence != 70 {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestHistoryFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	hs := NewHistoryFileStore(fs)
	ctx := context.Background()

	entries := []models.HistoryEntry{
		{Signal: models.Signal{Symbol: "AAPL", Action: models.ActionBuy, Confidence: 85}, Sent: true},
		{Signal: models.Signal{Symbol: "TSLA", Action: models.ActionHold, Confidence: 50}},
	}
	if err := hs.Save(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := hs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Symbol != "AAPL" || !got[0].Sent || got[1].Sent {
		t.Fatalf("round trip mismatch: %v", got)
	}
}
