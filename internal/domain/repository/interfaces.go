package repository

import (
	"context"
	"errors"
	"time"

	"StockTiming/internal/domain/models"
)

// ErrNotFound is returned when a stored entity does not exist.
var ErrNotFound = errors.New("not found")

// QuoteSource produces a market snapshot for one symbol. Implementations may
// fail on network or rate-limit errors; callers fall back to a synthetic
// generator so the pipeline stays exercisable without live data.
type QuoteSource interface {
	Fetch(ctx context.Context, symbol string) (*models.Snapshot, error)
}

// Advisor is an optional external model that can override the rule cascade.
// Any error (transport, malformed reply, missing action) makes the scorer
// fall back to the cascade.
type Advisor interface {
	Analyze(ctx context.Context, quote models.Quote, ind models.IndicatorSet) (models.Decision, error)
}

// EndpointTransport delivers a rendered payload to a single endpoint.
type EndpointTransport interface {
	Send(ctx context.Context, endpoint models.Endpoint, payload interface{}) error
}

// EndpointStore persists the full endpoint collection. Save replaces the
// stored collection atomically; Load returns endpoints in insertion order.
type EndpointStore interface {
	Load(ctx context.Context) ([]models.Endpoint, error)
	Save(ctx context.Context, endpoints []models.Endpoint) error
}

// HistoryStore persists the bounded signal history across restarts.
type HistoryStore interface {
	Load(ctx context.Context) ([]models.HistoryEntry, error)
	Save(ctx context.Context, entries []models.HistoryEntry) error
}

// SignalArchive appends signals to long-term storage for offline analysis.
type SignalArchive interface {
	Append(ctx context.Context, s models.Signal) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Signal, error)
	Close() error
}

// EventPublisher pushes new-signal events to subscribers (websocket hub,
// message broker). Publishing is best-effort; failures must not abort cycles.
type EventPublisher interface {
	Publish(ctx context.Context, event models.SignalEvent) error
}

// Metrics records operational counters.
type Metrics interface {
	RecordSignal(symbol, action string)
	RecordDelivery(endpoint string, success bool)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordCycleDuration(seconds float64)
	RecordQuoteSource(source string)
}
