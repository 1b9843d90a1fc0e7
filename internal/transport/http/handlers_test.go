package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ecotrack/internal/charts"
	"ecotrack/internal/dataset"
	"ecotrack/internal/eda"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/services"
	"ecotrack/internal/shared/testutil"
)

type mockDatasetService struct {
	mock.Mock
}

func (m *mockDatasetService) Info(ctx context.Context) (eda.DatasetInfo, error) {
	args := m.Called()
	return args.Get(0).(eda.DatasetInfo), args.Error(1)
}

func (m *mockDatasetService) Summary(ctx context.Context) (*eda.Summary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eda.Summary), args.Error(1)
}

func (m *mockDatasetService) Export(ctx context.Context, w io.Writer, format eda.Format) error {
	return m.Called(format).Error(0)
}

func (m *mockDatasetService) Charts(ctx context.Context) (map[string]charts.Figure, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]charts.Figure), args.Error(1)
}

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.ReadCSV(strings.NewReader(testutil.SampleESGCSV))
	require.NoError(t, err)
	return table
}

func newDashboardRouter(t *testing.T) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDashboardService(sampleTable(t), nil, logger)
	r := chi.NewRouter()
	r.Mount("/api/dashboard", NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false)).Routes())
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDashboardHandler_ListTabs(t *testing.T) {
	rec := httptest.NewRecorder()
	newDashboardRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "EcoTrack Dashboard", body["title"])
	tabs := body["tabs"].([]interface{})
	require.Len(t, tabs, 4)
	assert.Equal(t, "overview", tabs[0].(map[string]interface{})["id"])
	assert.Equal(t, "Company Overview", tabs[0].(map[string]interface{})["label"])
}

func TestDashboardHandler_GetPanel(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantValue  string
	}{
		{"overview", "/api/dashboard/tabs/overview", http.StatusOK, "AlphaCorp"},
		{"industry", "/api/dashboard/tabs/industry", http.StatusOK, "Technology"},
		{"unknown tab", "/api/dashboard/tabs/settings", http.StatusBadRequest, ""},
	}

	router := newDashboardRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
				assert.Equal(t, "UNKNOWN_TAB", body["error_code"])
				return
			}
			assert.Equal(t, tt.wantValue, body["value"])
			assert.Len(t, body["charts"], 2)
		})
	}
}

func TestDashboardHandler_GetCharts(t *testing.T) {
	router := newDashboardRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/tabs/esg/charts?value=BetaWorks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	figs := body["charts"].([]interface{})
	layout := figs[0].(map[string]interface{})["layout"].(map[string]interface{})
	assert.Equal(t, "BetaWorks - ESG Overall Trend", layout["title"].(map[string]interface{})["text"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/tabs/esg/charts", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_HandleEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantKey     string
	}{
		{"tab selected", `{"type":"tab_selected","tab":"resources"}`, "application/json", http.StatusOK, "panel"},
		{"dropdown changed", `{"type":"dropdown_changed","tab":"industry","value":"Energy"}`, "application/json", http.StatusOK, "charts"},
		{"unknown value gives empty charts", `{"type":"dropdown_changed","tab":"overview","value":"DeltaCo"}`, "application/json", http.StatusOK, "charts"},
		{"dropdown without value", `{"type":"dropdown_changed","tab":"esg"}`, "application/json", http.StatusBadRequest, ""},
		{"unknown event", `{"type":"hover","tab":"esg"}`, "application/json", http.StatusBadRequest, ""},
		{"unknown field", `{"type":"tab_selected","tab":"esg","extra":1}`, "application/json", http.StatusBadRequest, ""},
		{"invalid json", `{"type":`, "application/json", http.StatusBadRequest, ""},
		{"wrong content type", `type=tab_selected`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType, ""},
	}

	router := newDashboardRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/events", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantKey != "" {
				assert.Contains(t, decode(t, rec), tt.wantKey)
			}
		})
	}
}

func newDatasetRouter(t *testing.T, svc DatasetService) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	r := chi.NewRouter()
	r.Mount("/api/dataset", NewDatasetHandler(svc, logger, apierrors.NewErrorHandler(logger, false)).Routes())
	return r
}

func TestDatasetHandler(t *testing.T) {
	router := newDatasetRouter(t, services.NewDatasetService(sampleTable(t), nil))

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		contentType string
	}{
		{"info", "/api/dataset/info", http.StatusOK, "application/json"},
		{"summary", "/api/dataset/summary", http.StatusOK, "application/json"},
		{"charts", "/api/dataset/charts", http.StatusOK, "application/json"},
		{"export default csv", "/api/dataset/summary/export", http.StatusOK, "text/csv; charset=utf-8"},
		{"export json", "/api/dataset/summary/export?format=json", http.StatusOK, "application/json"},
		{"export xlsx", "/api/dataset/summary/export?format=xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"export unknown format", "/api/dataset/summary/export?format=pdf", http.StatusBadRequest, "application/problem+json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType), rec.Header().Get("Content-Type"))
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/summary/export?format=csv", nil))
	assert.Equal(t, `attachment; filename="summary.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "column,count,mean,std,min,25%,50%,75%,max\n"))
}

func TestDatasetHandler_ServiceErrors(t *testing.T) {
	svc := &mockDatasetService{}
	svc.On("Summary").Return(nil, services.ErrDatasetNotLoaded)
	svc.On("Export", eda.FormatJSON).Return(errors.New("disk on fire"))
	svc.On("Info").Return(eda.DatasetInfo{}, apierrors.NewParsingError("bad file", nil))

	router := newDatasetRouter(t, svc)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/dataset/summary", http.StatusServiceUnavailable},
		{"/api/dataset/summary/export?format=json", http.StatusInternalServerError},
		{"/api/dataset/info", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Header().Get("Content-Disposition"))
		})
	}
	svc.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dash := services.NewDashboardService(sampleTable(t), nil, logger)
	hs := services.NewHealthService(services.HealthDeps{Version: "1.0.0", Dataset: dash}, logger)
	h := NewHealthHandler(hs, logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)

	for _, path := range []string{"/api/health", "/api/health/ready", "/api/health/live", "/api/version"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, "plotly-v2", decode(t, rec)["chart_format"])

	notReady := NewHealthHandler(services.NewHealthService(services.HealthDeps{Version: "1.0.0"}, logger), logger)
	rec = httptest.NewRecorder()
	notReady.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# HELP http_requests_total\n"))
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exporter).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestClientLogHandler(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewClientLogHandler(logger, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"error entry", `{"level":"error","message":"plot failed","data":{"tab":"esg"},"source":"dashboard"}`, http.StatusOK},
		{"default level", `{"message":"hello"}`, http.StatusOK},
		{"missing message", `{"level":"info"}`, http.StatusBadRequest},
		{"bad level", `{"level":"trace","message":"x"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.True(t, logs.ContainsMessage("plot failed"))
	assert.True(t, logs.ContainsAttr("client_source", "dashboard"))
}

func TestPageHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDashboardService(sampleTable(t), nil, logger)

	h, err := NewPageHandler(svc.Tabs(), logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	page := rec.Body.String()
	assert.Contains(t, page, "<title>EcoTrack Dashboard</title>")
	assert.Contains(t, page, "https://cdn.plot.ly/plotly-")
	for _, label := range []string{"Company Overview", "ESG Scores", "Resource Utilization", "Industry Comparison"} {
		assert.Contains(t, page, label)
	}
}
