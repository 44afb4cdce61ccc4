package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
	"StockTiming/internal/service/ws"
	"StockTiming/internal/usecase"
	xhttp "StockTiming/pkg/http"
	xlogger "StockTiming/pkg/logger"
)

// Handler exposes the REST API: signals, webhook management, history, and
// admin controls.
type Handler struct {
	logger     *xlogger.Logger
	monitor    *usecase.MonitorLoop
	registry   *usecase.EndpointRegistry
	history    *usecase.History
	dispatcher *usecase.DispatchEngine
	gates      *usecase.Gates
	archive    domrepo.SignalArchive
	hub        *ws.Hub
	startedAt  time.Time
}

func NewHandler(
	logger *xlogger.Logger,
	monitor *usecase.MonitorLoop,
	registry *usecase.EndpointRegistry,
	history *usecase.History,
	dispatcher *usecase.DispatchEngine,
	gates *usecase.Gates,
	archive domrepo.SignalArchive,
	hub *ws.Hub,
) *Handler {
	return &Handler{
		logger:     logger,
		monitor:    monitor,
		registry:   registry,
		history:    history,
		dispatcher: dispatcher,
		gates:      gates,
		archive:    archive,
		hub:        hub,
		startedAt:  time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/history", h.History)
	g.GET("/signals/archive", h.Archive)
	g.GET("/stats", h.Stats)

	g.GET("/webhooks", h.ListWebhooks)
	g.POST("/webhooks", h.CreateWebhook)
	g.PUT("/webhooks/:id", h.UpdateWebhook)
	g.DELETE("/webhooks/:id", h.DeleteWebhook)
	g.POST("/webhooks/:id/test", h.TestWebhook)

	g.GET("/admin/controls", h.GetControls)
	g.POST("/admin/controls", h.SetControls)
	g.POST("/admin/update", h.RunUpdate)

	if h.hub != nil {
		e.GET("/ws", echo.WrapHandler(http.HandlerFunc(h.hub.Handle)))
	}
}

func (h *Handler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

func (h *Handler) Signals(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.monitor.CurrentSignals())
}

func (h *Handler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries := h.history.Entries(models.Action(req.Action), req.Limit)
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

func (h *Handler) Archive(c echo.Context) error {
	if h.archive == nil {
		return xhttp.NotFoundResponse(c, "signal archive is not enabled")
	}

	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	now := time.Now()
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), now)
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)

	signals, err := h.archive.Query(c.Request().Context(), symbol, from, to, limit)
	if err != nil {
		h.logger.Error("archive query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *Handler) Stats(c echo.Context) error {
	stats := h.monitor.Stats()
	out := map[string]interface{}{
		"activeSymbols": stats.ActiveSymbols,
		"signalsSent":   stats.SignalsSent,
		"lastUpdate":    stats.LastUpdate,
		"webhooks":      len(h.registry.List()),
		"historySize":   h.history.Len(),
	}
	if h.hub != nil {
		out["wsClients"] = h.hub.Clients()
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *Handler) ListWebhooks(c echo.Context) error {
	endpoints := h.registry.List()
	return xhttp.ListResponse(c, endpoints, int64(len(endpoints)))
}

func (h *Handler) CreateWebhook(c echo.Context) error {
	req := &models.CreateWebhookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ep, err := h.registry.Add(c.Request().Context(), req.Name, req.URL, toActions(req.Types), req.MinConfidence)
	if err != nil {
		h.logger.Error("webhook create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, ep)
}

func (h *Handler) UpdateWebhook(c echo.Context) error {
	req := &models.UpdateWebhookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	patch := models.EndpointPatch{
		Name:          req.Name,
		URL:           req.URL,
		Enabled:       req.Enabled,
		MinConfidence: req.MinConfidence,
	}
	if req.Types != nil {
		patch.Types = toActions(req.Types)
	}

	ep, err := h.registry.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.NotFoundResponse(c, "webhook not found")
		}
		h.logger.Error("webhook update error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ep)
}

func (h *Handler) DeleteWebhook(c echo.Context) error {
	if err := h.registry.Remove(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("webhook delete error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *Handler) TestWebhook(c echo.Context) error {
	outcome, err := h.dispatcher.TestDispatch(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.NotFoundResponse(c, "webhook not found")
		}
		h.logger.Error("webhook test error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, outcome)
}

func (h *Handler) GetControls(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]bool{
		"autoUpdates": h.gates.AutoUpdates(),
		"maintenance": h.gates.Maintenance(),
		"lockdown":    h.gates.Lockdown(),
	})
}

func (h *Handler) SetControls(c echo.Context) error {
	req := &models.AdminControlsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.AutoUpdates != nil {
		h.gates.SetAutoUpdates(*req.AutoUpdates)
	}
	if req.Maintenance != nil {
		h.gates.SetMaintenance(*req.Maintenance)
	}
	if req.Lockdown != nil {
		h.gates.SetLockdown(*req.Lockdown)
	}
	return h.GetControls(c)
}

// RunUpdate triggers a cycle outside the schedule. Returns 409 when a cycle
// is already in flight.
func (h *Handler) RunUpdate(c echo.Context) error {
	if !h.monitor.RunCycleOnce(c.Request().Context()) {
		return xhttp.DataResponse(c, http.StatusConflict, "update already in progress")
	}
	return xhttp.SuccessResponse(c, h.monitor.Stats())
}

func toActions(types []string) []models.Action {
	out := make([]models.Action, 0, len(types))
	for _, t := range types {
		out = append(out, models.Action(t))
	}
	return out
}
