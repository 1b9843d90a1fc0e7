package http

import (
	"context"
	"io"

	"ecotrack/internal/charts"
	"ecotrack/internal/dashboard"
	"ecotrack/internal/eda"
	"ecotrack/pkg/contracts/domain"
)

// DashboardService is the dashboard behaviour the handlers need
type DashboardService interface {
	Tabs() []dashboard.TabInfo
	Panel(ctx context.Context, tab domain.TabID) (*dashboard.Panel, error)
	Charts(ctx context.Context, tab domain.TabID, value string) (*dashboard.ChartSet, error)
	HandleEvent(ctx context.Context, ev dashboard.Event) (*dashboard.Response, error)
}

// DatasetService is the exploratory analysis behaviour the handlers need
type DatasetService interface {
	Info(ctx context.Context) (eda.DatasetInfo, error)
	Summary(ctx context.Context) (*eda.Summary, error)
	Export(ctx context.Context, w io.Writer, format eda.Format) error
	Charts(ctx context.Context) (map[string]charts.Figure, error)
}
