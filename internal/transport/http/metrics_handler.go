package http

import (
	"net/http"

	apierrors "ecotrack/internal/errors"
)

// MetricsHandler exposes the Prometheus exposition of the OpenTelemetry meter
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler wraps the Prometheus HTTP handler. A nil handler means
// the metric exporter is disabled and the endpoint answers 404.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		apierrors.WriteError(w, apierrors.New(http.StatusNotFound, "NOT_FOUND", "metrics exporter disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
