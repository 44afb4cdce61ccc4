package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"StockTiming/internal/domain/models"
	"StockTiming/internal/usecase"
	applogger "StockTiming/pkg/logger"
)

type memEndpointStore struct {
	endpoints []models.Endpoint
}

func (s *memEndpointStore) Load(context.Context) ([]models.Endpoint, error) {
	return s.endpoints, nil
}

func (s *memEndpointStore) Save(_ context.Context, endpoints []models.Endpoint) error {
	s.endpoints = endpoints
	return nil
}

type noopTransport struct{ sent int }

func (t *noopTransport) Send(context.Context, models.Endpoint, interface{}) error {
	t.sent++
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordSignal(string, string)     {}
func (noopMetrics) RecordDelivery(string, bool)     {}
func (noopMetrics) RecordError(string)              {}
func (noopMetrics) RecordLastPrice(string, float64) {}
func (noopMetrics) RecordCycleDuration(float64)     {}
func (noopMetrics) RecordQuoteSource(string)        {}

type fixture struct {
	handler   *Handler
	echo      *echo.Echo
	registry  *usecase.EndpointRegistry
	transport *noopTransport
	gates     *usecase.Gates
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	registry := usecase.NewEndpointRegistry(&memEndpointStore{})
	if err := registry.Init(context.Background()); err != nil {
		t.Fatalf("registry init: %v", err)
	}
	history := usecase.NewHistory(nil, 100)
	transport := &noopTransport{}
	dispatcher := usecase.NewDispatchEngine(registry, transport, noopMetrics{}, logger, "StockTiming Pro")
	gates := usecase.NewGates()

	h := NewHandler(logger, nil, registry, history, dispatcher, gates, nil, nil)

	e := echo.New()
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/signals/history", h.History)
	g.GET("/webhooks", h.ListWebhooks)
	g.POST("/webhooks", h.CreateWebhook)
	g.PUT("/webhooks/:id", h.UpdateWebhook)
	g.DELETE("/webhooks/:id", h.DeleteWebhook)
	g.POST("/webhooks/:id/test", h.TestWebhook)
	g.GET("/admin/controls", h.GetControls)
	g.POST("/admin/controls", h.SetControls)

	return &fixture{handler: h, echo: e, registry: registry, transport: transport, gates: gates}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestCreateWebhookDefaults(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/webhooks",
		`{"name":"alerts","url":"https://discord.com/api/webhooks/1/x"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusCreated {
		t.Fatalf("expected 201 envelope, got %d: %s", env.Status, rec.Body.String())
	}

	var ep models.Endpoint
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatalf("decode endpoint: %v", err)
	}
	if !ep.Enabled || ep.MinConfidence != 70 || len(ep.Types) != 3 {
		t.Fatalf("defaults not applied: %+v", ep)
	}
}

func TestCreateWebhookValidation(t *testing.T) {
	f := newFixture(t)

	// missing url
	rec := f.do(t, http.MethodPost, "/api/webhooks", `{"name":"alerts"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope, got %d", env.Status)
	}

	// invalid action type
	rec = f.do(t, http.MethodPost, "/api/webhooks",
		`{"name":"alerts","url":"https://x.example/hook","types":["short"]}`)
	env = decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope for bad type, got %d", env.Status)
	}
}

func TestUpdateWebhook(t *testing.T) {
	f := newFixture(t)

	ep, err := f.registry.Add(context.Background(), "alerts", "https://x.example/hook", nil, 70)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := f.do(t, http.MethodPut, "/api/webhooks/"+ep.ID, `{"enabled":false,"minConfidence":90}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200 envelope, got %d: %s", env.Status, rec.Body.String())
	}

	got, err := f.registry.Get(ep.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Enabled || got.MinConfidence != 90 {
		t.Fatalf("patch not applied: %+v", got)
	}
}

func TestUpdateWebhookNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPut, "/api/webhooks/missing", `{"enabled":false}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusNotFound {
		t.Fatalf("expected 404 envelope, got %d", env.Status)
	}
}

func TestDeleteWebhook(t *testing.T) {
	f := newFixture(t)

	ep, _ := f.registry.Add(context.Background(), "alerts", "https://x.example/hook", nil, 70)
	rec := f.do(t, http.MethodDelete, "/api/webhooks/"+ep.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(f.registry.List()) != 0 {
		t.Fatal("endpoint not removed")
	}

	// deleting again is still a 204
	rec = f.do(t, http.MethodDelete, "/api/webhooks/"+ep.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for absent id, got %d", rec.Code)
	}
}

func TestTestWebhook(t *testing.T) {
	f := newFixture(t)

	ep, _ := f.registry.Add(context.Background(), "alerts", "https://x.example/hook", nil, 70)
	rec := f.do(t, http.MethodPost, "/api/webhooks/"+ep.ID+"/test", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200 envelope, got %d", env.Status)
	}
	if f.transport.sent != 1 {
		t.Fatalf("expected one test delivery, got %d", f.transport.sent)
	}
}

func TestAdminControls(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/admin/controls", `{"maintenance":true}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200 envelope, got %d", env.Status)
	}
	if !f.gates.Maintenance() {
		t.Fatal("maintenance gate not set")
	}
	if f.gates.Open() {
		t.Fatal("gates should be closed under maintenance")
	}

	var controls map[string]bool
	if err := json.Unmarshal(env.Data, &controls); err != nil {
		t.Fatalf("decode controls: %v", err)
	}
	if !controls["maintenance"] || !controls["autoUpdates"] {
		t.Fatalf("unexpected controls %v", controls)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/signals/history?limit=10", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200 envelope, got %d", env.Status)
	}

	rec = f.do(t, http.MethodGet, "/api/signals/history?action=short", "")
	env = decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid action filter, got %d", env.Status)
	}
}
