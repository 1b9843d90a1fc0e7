package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ecotrack/internal/config"
	"ecotrack/internal/dashboard"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/middleware"
	api "ecotrack/pkg/contracts/api/v1"
	"ecotrack/pkg/contracts/domain"
)

type tabKey struct{}

// DashboardHandler serves tab panels and dispatches dashboard events
type DashboardHandler struct {
	service      DashboardService
	validation   *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DashboardHandler{
		service:      service,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListTabs)
	r.With(middleware.ContentTypeValidator("application/json"), h.validation.ValidateRequest).
		Post("/events", h.HandleEvent)

	r.Route("/tabs/{tab}", func(r chi.Router) {
		r.Use(h.TabCtx)
		r.Get("/", h.GetPanel)
		r.Get("/charts", h.GetCharts)
	})
	return r
}

// TabCtx validates the tab URL parameter and stores it in the context
func (h *DashboardHandler) TabCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tab := domain.TabID(chi.URLParam(r, "tab"))
		if !tab.Valid() {
			h.errorHandler.HandleError(w, r, apierrors.UnknownTabError(string(tab)))
			return
		}
		ctx := context.WithValue(r.Context(), tabKey{}, tab)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tabFromContext(ctx context.Context) domain.TabID {
	tab, _ := ctx.Value(tabKey{}).(domain.TabID)
	return tab
}

// ListTabs handles GET /api/dashboard
func (h *DashboardHandler) ListTabs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"title": config.AppTitle,
		"tabs":  h.service.Tabs(),
	})
}

// GetPanel handles GET /api/dashboard/tabs/{tab}
func (h *DashboardHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	panel, err := h.service.Panel(r.Context(), tabFromContext(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, panel)
}

// GetCharts handles GET /api/dashboard/tabs/{tab}/charts?value=
func (h *DashboardHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	value, ok := h.query.ValidateRequired(w, r, "value")
	if !ok {
		return
	}
	q := api.ChartsQuery{Value: value}
	if err := h.validation.ValidateStruct(&q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	set, err := h.service.Charts(r.Context(), tabFromContext(r.Context()), q.Value)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, set)
}

// HandleEvent handles POST /api/dashboard/events
func (h *DashboardHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req api.DashboardEventRequest
	if err := h.validation.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.HandleEvent(r.Context(), dashboard.Event{
		Type:  req.Type,
		Tab:   req.Tab,
		Value: req.Value,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "dashboard event handled",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("event", string(req.Type)),
		slog.String("tab", string(req.Tab)),
	)
	render.JSON(w, r, resp)
}
