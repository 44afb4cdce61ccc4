package usecase

import (
	"context"
	"fmt"
	"sync"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
)

// History is the bounded rolling signal log. Appends evict the oldest entry
// once capacity is exceeded. Mutations are serialized; readers get copies.
type History struct {
	mu       sync.Mutex
	store    domrepo.HistoryStore
	entries  []models.HistoryEntry
	capacity int
}

func NewHistory(store domrepo.HistoryStore, capacity int) *History {
	if capacity <= 0 {
		capacity = 1000
	}
	return &History{store: store, capacity: capacity}
}

// Init restores persisted history, trimming to capacity if the stored log
// grew under a larger previous limit.
func (h *History) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store == nil {
		return nil
	}
	entries, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(entries) > h.capacity {
		entries = entries[len(entries)-h.capacity:]
	}
	h.entries = entries
	return nil
}

// Append adds an entry, evicting the oldest when full, and persists the
// trimmed log. The entry stays in memory even when persistence fails; the
// error is returned so the caller can log and count it.
func (h *History) Append(ctx context.Context, entry models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}

	if h.store != nil {
		if err := h.store.Save(ctx, h.entries); err != nil {
			return fmt.Errorf("persist history: %w", err)
		}
	}
	return nil
}

// Entries returns a copy of the log, oldest first, optionally filtered by
// action ("" means all) and limited to the most recent n (0 means all).
func (h *History) Entries(action models.Action, limit int) []models.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	filtered := make([]models.HistoryEntry, 0, len(h.entries))
	for _, e := range h.entries {
		if action != "" && e.Action != action {
			continue
		}
		filtered = append(filtered, e)
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered
}

// Len reports the current number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
