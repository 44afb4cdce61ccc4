package quotes

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
)

// SyntheticSource generates plausible random snapshots so the pipeline stays
// exercisable when the live quote source is unavailable. Snapshots are
// flagged Synthetic so they are distinguishable downstream.
type SyntheticSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSyntheticSource is used by tests that need determinism.
func NewSeededSyntheticSource(seed int64) *SyntheticSource {
	return &SyntheticSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *SyntheticSource) Fetch(_ context.Context, symbol string) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	basePrice := 50 + s.rng.Float64()*200

	// random walk backwards in time, newest-first
	closes := make([]float64, windowSize)
	closes[0] = basePrice
	for i := 1; i < windowSize; i++ {
		closes[i] = closes[i-1] * (1 + (s.rng.Float64()-0.5)*0.01)
	}

	change := closes[0] - closes[1]
	changePercent := change / closes[1] * 100

	return &models.Snapshot{
		Quote: models.Quote{
			Symbol:        symbol,
			Price:         basePrice,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        int64(s.rng.Intn(10_000_000)) + 1_000_000,
			Timestamp:     time.Now(),
		},
		Closes:    closes,
		Synthetic: true,
	}, nil
}

var _ domrepo.QuoteSource = (*SyntheticSource)(nil)
