package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"ecotrack/internal/config"
	"ecotrack/internal/dashboard"
	"ecotrack/internal/middleware"
)

//go:embed web/index.html
var templateFS embed.FS

type pageData struct {
	Title      string
	Version    string
	PlotlyURL  string
	Tabs       []dashboard.TabInfo
	DefaultTab string
}

// PageHandler renders the dashboard page
type PageHandler struct {
	tmpl   *template.Template
	tabs   []dashboard.TabInfo
	logger *slog.Logger
}

// NewPageHandler parses the embedded page template
func NewPageHandler(tabs []dashboard.TabInfo, logger *slog.Logger) (*PageHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "web/index.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		tmpl:   tmpl,
		tabs:   tabs,
		logger: logger.With(slog.String("handler", "page")),
	}, nil
}

// ServeHTTP handles GET /
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:     config.AppTitle,
		Version:   config.AppVersion,
		PlotlyURL: middleware.PlotlyCDN + "/plotly-2.35.2.min.js",
		Tabs:      h.tabs,
	}
	if len(h.tabs) > 0 {
		data.DefaultTab = string(h.tabs[0].ID)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	buf.WriteTo(w)
}
