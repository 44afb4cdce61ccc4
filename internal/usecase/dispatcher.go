package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	applogger "StockTiming/pkg/logger"
	"StockTiming/pkg/util"
)

// Embed colors per action.
const (
	colorBuy  = 0x10b981
	colorSell = 0xef4444
	colorHold = 0xf59e0b
)

// DispatchEngine fans a signal out to eligible endpoints. Deliveries run
// concurrently, one attempt per endpoint per signal, and one endpoint's
// failure never affects another's attempt.
type DispatchEngine struct {
	registry  *EndpointRegistry
	transport domrepo.EndpointTransport
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	username  string
}

func NewDispatchEngine(registry *EndpointRegistry, transport domrepo.EndpointTransport, metrics domrepo.Metrics, logger *applogger.Logger, username string) *DispatchEngine {
	return &DispatchEngine{
		registry:  registry,
		transport: transport,
		metrics:   metrics,
		logger:    logger,
		username:  username,
	}
}

// Dispatch delivers the signal to every eligible enabled endpoint and
// returns one outcome per attempted endpoint.
func (d *DispatchEngine) Dispatch(ctx context.Context, signal models.Signal) []models.DispatchOutcome {
	eligible := make([]models.Endpoint, 0)
	for _, ep := range d.registry.ListEnabled() {
		if ep.Accepts(signal) {
			eligible = append(eligible, ep)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	outcomes := make([]models.DispatchOutcome, len(eligible))
	var wg sync.WaitGroup
	for i, ep := range eligible {
		wg.Add(1)
		go func(i int, ep models.Endpoint) {
			defer wg.Done()
			outcomes[i] = d.deliver(ctx, ep, signal)
		}(i, ep)
	}
	wg.Wait()

	return outcomes
}

// TestDispatch sends a fixed canary signal to one endpoint so configuration
// can be validated without waiting for a real cycle.
func (d *DispatchEngine) TestDispatch(ctx context.Context, endpointID string) (models.DispatchOutcome, error) {
	ep, err := d.registry.Get(endpointID)
	if err != nil {
		return models.DispatchOutcome{}, err
	}

	testSignal := models.Signal{
		Symbol:        "TEST",
		Action:        models.ActionBuy,
		Price:         100.00,
		ChangePercent: 0.00,
		Confidence:    100,
		Reasoning:     "This is a test message from StockTiming Pro admin panel",
		RSI:           50,
		MACD:          0,
		Volume:        0,
		Timestamp:     time.Now(),
	}

	return d.deliver(ctx, ep, testSignal), nil
}

func (d *DispatchEngine) deliver(ctx context.Context, ep models.Endpoint, signal models.Signal) models.DispatchOutcome {
	outcome := models.DispatchOutcome{EndpointName: ep.Name}

	if ep.URL == "" {
		outcome.Error = "endpoint has no URL configured"
		d.metrics.RecordDelivery(ep.Name, false)
		return outcome
	}

	payload := RenderPayload(signal, d.username)
	if err := d.transport.Send(ctx, ep, payload); err != nil {
		outcome.Error = err.Error()
		d.metrics.RecordDelivery(ep.Name, false)
		if d.logger != nil {
			d.logger.Warn("webhook delivery failed",
				applogger.String("endpoint", ep.Name),
				applogger.String("symbol", signal.Symbol),
				applogger.Error(err))
		}
		return outcome
	}

	outcome.Success = true
	d.metrics.RecordDelivery(ep.Name, true)
	return outcome
}

// Embed is a Discord-style rich notification body.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp"`
	Footer      EmbedFooter  `json:"footer"`
	Fields      []EmbedField `json:"fields"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Payload is the JSON body posted to webhook endpoints.
type Payload struct {
	Embeds   []Embed `json:"embeds"`
	Username string  `json:"username"`
}

// RenderPayload builds the notification body for one signal.
func RenderPayload(signal models.Signal, username string) Payload {
	color := colorHold
	switch signal.Action {
	case models.ActionBuy:
		color = colorBuy
	case models.ActionSell:
		color = colorSell
	}

	embed := Embed{
		Title: fmt.Sprintf("📈 %s - %s Signal", signal.Symbol, strings.ToUpper(string(signal.Action))),
		Description: fmt.Sprintf("**Confidence:** %d%%\n**Price:** %s\n**Change:** %s\n\n**Analysis:** %s",
			signal.Confidence,
			util.FormatCurrency(signal.Price),
			util.FormatPercent(signal.ChangePercent),
			signal.Reasoning),
		Color:     color,
		Timestamp: signal.Timestamp.UTC().Format(time.RFC3339),
		Footer:    EmbedFooter{Text: username + " - AI-Powered Analysis"},
		Fields: []EmbedField{
			{Name: "RSI", Value: fmt.Sprintf("%.2f", signal.RSI), Inline: true},
			{Name: "MACD", Value: fmt.Sprintf("%.4f", signal.MACD), Inline: true},
			{Name: "Volume", Value: util.FormatVolume(signal.Volume), Inline: true},
		},
	}

	return Payload{Embeds: []Embed{embed}, Username: username}
}
