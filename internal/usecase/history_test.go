package usecase

import (
	"context"
	"fmt"
	"testing"

	"StockTiming/internal/domain/models"
)

func entry(symbol string, action models.Action) models.HistoryEntry {
	return models.HistoryEntry{Signal: models.Signal{Symbol: symbol, Action: action}}
}

func TestHistoryCapacityEviction(t *testing.T) {
	h := NewHistory(nil, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		h.Append(ctx, entry(fmt.Sprintf("S%d", i), models.ActionHold))
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}

	got := h.Entries("", 0)
	if got[0].Symbol != "S2" || got[2].Symbol != "S4" {
		t.Fatalf("oldest entries must be evicted first: %v", got)
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(nil, 0)
	ctx := context.Background()
	for i := 0; i < 1005; i++ {
		h.Append(ctx, entry("AAPL", models.ActionHold))
	}
	if h.Len() != 1000 {
		t.Fatalf("expected default cap 1000, got %d", h.Len())
	}
}

func TestHistoryFilterAndLimit(t *testing.T) {
	h := NewHistory(nil, 100)
	ctx := context.Background()
	h.Append(ctx, entry("A", models.ActionBuy))
	h.Append(ctx, entry("B", models.ActionSell))
	h.Append(ctx, entry("C", models.ActionBuy))
	h.Append(ctx, entry("D", models.ActionBuy))

	buys := h.Entries(models.ActionBuy, 0)
	if len(buys) != 3 {
		t.Fatalf("expected 3 buys, got %d", len(buys))
	}

	recent := h.Entries(models.ActionBuy, 2)
	if len(recent) != 2 || recent[0].Symbol != "C" || recent[1].Symbol != "D" {
		t.Fatalf("expected most recent 2 buys, got %v", recent)
	}
}

func TestHistoryInitTrimsToCapacity(t *testing.T) {
	store := &fakeHistoryStore{}
	for i := 0; i < 10; i++ {
		store.entries = append(store.entries, entry(fmt.Sprintf("S%d", i), models.ActionHold))
	}

	h := NewHistory(store, 4)
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if h.Len() != 4 {
		t.Fatalf("expected trim to 4, got %d", h.Len())
	}
	got := h.Entries("", 0)
	if got[0].Symbol != "S6" {
		t.Fatalf("expected most recent entries kept, got %v", got)
	}
}

func TestHistoryAppendPersists(t *testing.T) {
	store := &fakeHistoryStore{}
	h := NewHistory(store, 10)

	h.Append(context.Background(), entry("AAPL", models.ActionBuy))

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.entries) != 1 || store.entries[0].Symbol != "AAPL" {
		t.Fatalf("append must persist, store has %v", store.entries)
	}
}

func TestHistoryAppendSurfacesSaveFailure(t *testing.T) {
	store := &fakeHistoryStore{failSave: true}
	h := NewHistory(store, 10)

	if err := h.Append(context.Background(), entry("AAPL", models.ActionBuy)); err == nil {
		t.Fatal("expected save failure to be returned")
	}
	if h.Len() != 1 {
		t.Fatalf("entry must stay in memory after a failed save, got %d", h.Len())
	}
}
