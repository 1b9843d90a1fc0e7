package services

import (
	"context"
	"log/slog"

	"ecotrack/internal/dashboard"
	"ecotrack/internal/dataset"
	"ecotrack/pkg/contracts/domain"
)

// DashboardService answers dashboard requests against one loaded table
type DashboardService struct {
	table      *dataset.Table
	dispatcher *dashboard.Dispatcher
	logger     *slog.Logger
}

// NewDashboardService creates a dashboard service over table. A nil
// dispatcher gets the default tabs and handlers.
func NewDashboardService(table *dataset.Table, dispatcher *dashboard.Dispatcher, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if dispatcher == nil {
		dispatcher = dashboard.NewDispatcher(logger, nil)
	}

	rows := 0
	if table != nil {
		rows = table.Len()
	}
	logger.Info("DashboardService initialized",
		slog.Int("rows", rows),
		slog.Int("tabs", len(dispatcher.Tabs())))

	return &DashboardService{
		table:      table,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("service", "dashboard")),
	}
}

// Table returns the table served by the dashboard
func (s *DashboardService) Table() *dataset.Table {
	return s.table
}

// Tabs lists the dashboard tabs
func (s *DashboardService) Tabs() []dashboard.TabInfo {
	return s.dispatcher.Tabs()
}

// HandleEvent dispatches one UI event
func (s *DashboardService) HandleEvent(ctx context.Context, ev dashboard.Event) (*dashboard.Response, error) {
	if s.table == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dispatcher.Dispatch(ctx, s.table, ev)
}

// Panel returns a tab's panel for its default selection
func (s *DashboardService) Panel(ctx context.Context, tab domain.TabID) (*dashboard.Panel, error) {
	resp, err := s.HandleEvent(ctx, dashboard.Event{Type: domain.EventTabSelected, Tab: tab})
	if err != nil {
		return nil, err
	}
	return resp.Panel, nil
}

// Charts returns a tab's charts for value
func (s *DashboardService) Charts(ctx context.Context, tab domain.TabID, value string) (*dashboard.ChartSet, error) {
	resp, err := s.HandleEvent(ctx, dashboard.Event{Type: domain.EventDropdownChanged, Tab: tab, Value: value})
	if err != nil {
		return nil, err
	}
	return resp.Charts, nil
}

// Loaded reports whether a table is being served
func (s *DashboardService) Loaded() bool {
	return s.table != nil
}

// Rows returns the row count of the served table
func (s *DashboardService) Rows() int {
	if s.table == nil {
		return 0
	}
	return s.table.Len()
}
