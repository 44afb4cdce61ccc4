package usecase

import (
	"context"
	"fmt"
	"sync"

	"StockTiming/internal/domain/models"
	applogger "StockTiming/pkg/logger"
)

func testLogger() *applogger.Logger {
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return l
}

// fakeEndpointStore records saves in memory.
type fakeEndpointStore struct {
	mu        sync.Mutex
	endpoints []models.Endpoint
	saves     int
	failSave  bool
}

func (s *fakeEndpointStore) Load(context.Context) ([]models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out, nil
}

func (s *fakeEndpointStore) Save(_ context.Context, endpoints []models.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return fmt.Errorf("save failed")
	}
	s.endpoints = make([]models.Endpoint, len(endpoints))
	copy(s.endpoints, endpoints)
	s.saves++
	return nil
}

// fakeHistoryStore is an in-memory persistence backend.
type fakeHistoryStore struct {
	mu       sync.Mutex
	entries  []models.HistoryEntry
	failSave bool
}

func (s *fakeHistoryStore) Load(context.Context) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries, nil
}

func (s *fakeHistoryStore) Save(_ context.Context, entries []models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return fmt.Errorf("save failed")
	}
	s.entries = make([]models.HistoryEntry, len(entries))
	copy(s.entries, entries)
	return nil
}

// fakeTransport fails for URLs listed in failURLs.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []string // endpoint names in delivery order
	failURLs map[string]bool
}

func (t *fakeTransport) Send(_ context.Context, ep models.Endpoint, _ interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failURLs[ep.URL] {
		return fmt.Errorf("connection refused")
	}
	t.sent = append(t.sent, ep.Name)
	return nil
}

// fakeMetrics satisfies the Metrics interface.
type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func (m *fakeMetrics) RecordSignal(string, string)     {}
func (m *fakeMetrics) RecordDelivery(string, bool)     {}
func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordCycleDuration(float64)     {}
func (m *fakeMetrics) RecordQuoteSource(string)        {}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

// fakeQuoteSource returns canned snapshots, optionally failing per symbol.
type fakeQuoteSource struct {
	snapshots   map[string]*models.Snapshot
	failSymbols map[string]bool
}

func (q *fakeQuoteSource) Fetch(_ context.Context, symbol string) (*models.Snapshot, error) {
	if q.failSymbols[symbol] {
		return nil, fmt.Errorf("rate limited")
	}
	snap, ok := q.snapshots[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return snap, nil
}

// fakeAdvisor returns a fixed decision or error.
type fakeAdvisor struct {
	decision models.Decision
	err      error
}

func (a *fakeAdvisor) Analyze(context.Context, models.Quote, models.IndicatorSet) (models.Decision, error) {
	if a.err != nil {
		return models.Decision{}, a.err
	}
	return a.decision, nil
}

// fakePublisher collects published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []models.SignalEvent
}

func (p *fakePublisher) Publish(_ context.Context, event models.SignalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
