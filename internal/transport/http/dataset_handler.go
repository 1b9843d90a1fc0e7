package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ecotrack/internal/eda"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/middleware"
)

// DatasetHandler serves exploratory summaries of the loaded dataset
type DatasetHandler struct {
	service      DatasetService
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DatasetHandler{
		service:      service,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/info", h.GetInfo)
	r.Get("/summary", h.GetSummary)
	r.With(middleware.TraceMiddleware("dataset.summary.export")).Get("/summary/export", h.ExportSummary)
	r.Get("/charts", h.GetCharts)
	return r
}

// GetInfo handles GET /api/dataset/info
func (h *DatasetHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetSummary handles GET /api/dataset/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// ExportSummary handles GET /api/dataset/summary/export?format=csv|json|xlsx.
// The document is rendered in memory so a failure still yields a problem response.
func (h *DatasetHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	allowed := make([]string, len(eda.Formats))
	for i, f := range eda.Formats {
		allowed[i] = string(f)
	}
	name, ok := h.query.ValidateEnum(w, r, "format", allowed, string(eda.FormatCSV))
	if !ok {
		return
	}
	format, err := eda.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="summary.%s"`, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "summary download interrupted",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

// GetCharts handles GET /api/dataset/charts
func (h *DatasetHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	figs, err := h.service.Charts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, figs)
}
