package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	"StockTiming/internal/services/indicators"
	applogger "StockTiming/pkg/logger"
)

// Gates are the admin switches checked before every scheduled cycle. Any
// failing gate skips the cycle entirely: no partial work, no history
// mutation.
type Gates struct {
	autoUpdates atomic.Bool
	maintenance atomic.Bool
	lockdown    atomic.Bool
}

func NewGates() *Gates {
	g := &Gates{}
	g.autoUpdates.Store(true)
	return g
}

func (g *Gates) SetAutoUpdates(v bool) { g.autoUpdates.Store(v) }
func (g *Gates) SetMaintenance(v bool) { g.maintenance.Store(v) }
func (g *Gates) SetLockdown(v bool)    { g.lockdown.Store(v) }

func (g *Gates) AutoUpdates() bool { return g.autoUpdates.Load() }
func (g *Gates) Maintenance() bool { return g.maintenance.Load() }
func (g *Gates) Lockdown() bool    { return g.lockdown.Load() }

// Open reports whether a scheduled cycle may start.
func (g *Gates) Open() bool {
	return g.autoUpdates.Load() && !g.maintenance.Load() && !g.lockdown.Load()
}

// MonitorConfig tunes the monitor loop.
type MonitorConfig struct {
	Symbols        []string
	UpdateInterval time.Duration
	// SymbolDelay spaces out quote fetches to stay under upstream rate
	// limits; symbols are processed strictly sequentially for the same
	// reason.
	SymbolDelay   time.Duration
	MinConfidence int
}

// MonitorLoop runs the periodic analyze cycle: fetch a quote per symbol,
// compute indicators, score, append to history, and dispatch signals that
// clear the global confidence threshold.
type MonitorLoop struct {
	cfg        MonitorConfig
	primary    domrepo.QuoteSource
	fallback   domrepo.QuoteSource
	scorer     *SignalScorer
	dispatcher *DispatchEngine
	history    *History
	archive    domrepo.SignalArchive
	publishers []domrepo.EventPublisher
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	gates      *Gates

	// running guards against overlapping cycles: a new tick is dropped
	// while the previous cycle is still in flight.
	running atomic.Bool

	mu      sync.Mutex
	current []models.Signal
	stats   models.CycleStats

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewMonitorLoop(
	cfg MonitorConfig,
	primary domrepo.QuoteSource,
	fallback domrepo.QuoteSource,
	scorer *SignalScorer,
	dispatcher *DispatchEngine,
	history *History,
	archive domrepo.SignalArchive,
	publishers []domrepo.EventPublisher,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	gates *Gates,
) *MonitorLoop {
	return &MonitorLoop{
		cfg:        cfg,
		primary:    primary,
		fallback:   fallback,
		scorer:     scorer,
		dispatcher: dispatcher,
		history:    history,
		archive:    archive,
		publishers: publishers,
		metrics:    metrics,
		logger:     logger,
		gates:      gates,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the timer loop. The first cycle runs immediately.
func (m *MonitorLoop) Start(ctx context.Context) {
	go func() {
		defer close(m.doneCh)

		if m.gates.Open() {
			m.RunCycleOnce(ctx)
		}

		ticker := time.NewTicker(m.cfg.UpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				if !m.gates.Open() {
					m.logger.Debug("cycle skipped by gates",
						applogger.Bool("auto_updates", m.gates.AutoUpdates()),
						applogger.Bool("maintenance", m.gates.Maintenance()),
						applogger.Bool("lockdown", m.gates.Lockdown()))
					continue
				}
				m.RunCycleOnce(ctx)
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it. An in-flight cycle runs to
// completion first.
func (m *MonitorLoop) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

// RunCycleOnce processes every tracked symbol sequentially. Returns false if
// a cycle was already in flight.
func (m *MonitorLoop) RunCycleOnce(ctx context.Context) bool {
	if !m.running.CompareAndSwap(false, true) {
		m.logger.Warn("cycle already running, skipping")
		return false
	}
	defer m.running.Store(false)

	start := time.Now()
	newSignals := make([]models.Signal, 0, len(m.cfg.Symbols))
	var sent int64

	for i, symbol := range m.cfg.Symbols {
		signal, dispatched, err := m.processSymbol(ctx, symbol)
		if err != nil {
			// one symbol must never abort the cycle
			m.metrics.RecordError("symbol")
			m.logger.Error("symbol processing failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		} else {
			newSignals = append(newSignals, signal)
			if dispatched {
				sent++
			}
		}

		if i < len(m.cfg.Symbols)-1 && m.cfg.SymbolDelay > 0 {
			select {
			case <-ctx.Done():
				return true
			case <-time.After(m.cfg.SymbolDelay):
			}
		}
	}

	m.mu.Lock()
	m.current = newSignals
	m.stats.ActiveSymbols = len(newSignals)
	m.stats.SignalsSent += sent
	m.stats.LastUpdate = time.Now()
	m.mu.Unlock()

	m.publish(ctx, newSignals)

	m.metrics.RecordCycleDuration(time.Since(start).Seconds())
	m.logger.Info("cycle complete",
		applogger.Int("symbols", len(newSignals)),
		applogger.Int64("dispatched", sent),
		applogger.Duration("took", time.Since(start)))
	return true
}

func (m *MonitorLoop) processSymbol(ctx context.Context, symbol string) (models.Signal, bool, error) {
	snap, err := m.fetch(ctx, symbol)
	if err != nil {
		return models.Signal{}, false, err
	}

	quote := snap.Quote
	ind := indicators.Compute(quote.Price, snap.Closes)
	decision := m.scorer.Score(ctx, quote, ind)

	signal := models.Signal{
		Symbol:        quote.Symbol,
		Action:        decision.Action,
		Price:         quote.Price,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Confidence:    decision.Confidence,
		Reasoning:     decision.Reasoning,
		RSI:           ind.RSI,
		MACD:          ind.MACD,
		Volume:        quote.Volume,
		Timestamp:     quote.Timestamp,
	}

	m.metrics.RecordSignal(signal.Symbol, string(signal.Action))
	m.metrics.RecordLastPrice(signal.Symbol, signal.Price)

	dispatched := false
	if signal.Confidence >= m.cfg.MinConfidence {
		m.dispatcher.Dispatch(ctx, signal)
		dispatched = true
	}

	if err := m.history.Append(ctx, models.HistoryEntry{Signal: signal, Sent: dispatched}); err != nil {
		m.metrics.RecordError("persist")
		m.logger.Warn("history persist failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
	}

	if m.archive != nil {
		if err := m.archive.Append(ctx, signal); err != nil {
			m.metrics.RecordError("archive")
			m.logger.Warn("signal archive append failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
	}

	return signal, dispatched, nil
}

// fetch tries the live quote source and falls back to the synthetic
// generator so the pipeline keeps producing without live data.
func (m *MonitorLoop) fetch(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if m.primary != nil {
		snap, err := m.primary.Fetch(ctx, symbol)
		if err == nil {
			m.metrics.RecordQuoteSource("live")
			return snap, nil
		}
		m.metrics.RecordError("quote_fetch")
		m.logger.Warn("quote fetch failed, using synthetic data",
			applogger.String("symbol", symbol),
			applogger.Error(err))
	}

	snap, err := m.fallback.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	m.metrics.RecordQuoteSource("synthetic")
	return snap, nil
}

func (m *MonitorLoop) publish(ctx context.Context, signals []models.Signal) {
	for _, signal := range signals {
		event := models.SignalEvent{Type: models.EventNewSignal, Signal: signal}
		for _, pub := range m.publishers {
			if err := pub.Publish(ctx, event); err != nil {
				m.metrics.RecordError("publish")
				m.logger.Warn("event publish failed", applogger.Error(err))
			}
		}
	}
}

// CurrentSignals returns the signals from the most recent completed cycle.
func (m *MonitorLoop) CurrentSignals() []models.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Signal, len(m.current))
	copy(out, m.current)
	return out
}

// Stats returns the cycle-level counters.
func (m *MonitorLoop) Stats() models.CycleStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
