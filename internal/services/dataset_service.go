package services

import (
	"context"
	"io"
	"log/slog"

	"ecotrack/internal/charts"
	"ecotrack/internal/dataset"
	"ecotrack/internal/eda"
)

// DatasetService serves exploratory summaries of the loaded table
type DatasetService struct {
	table  *dataset.Table
	logger *slog.Logger
}

// NewDatasetService creates a dataset service over table
func NewDatasetService(table *dataset.Table, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		table:  table,
		logger: logger.With(slog.String("service", "dataset")),
	}
}

// Info returns the table shape and column kinds
func (s *DatasetService) Info(ctx context.Context) (eda.DatasetInfo, error) {
	if s.table == nil {
		return eda.DatasetInfo{}, ErrDatasetNotLoaded
	}
	return eda.Info(s.table), nil
}

// Summary returns describe statistics of the numeric columns
func (s *DatasetService) Summary(ctx context.Context) (*eda.Summary, error) {
	if s.table == nil {
		return nil, ErrDatasetNotLoaded
	}
	return eda.Describe(ctx, s.table)
}

// Export writes info and summary to w in format
func (s *DatasetService) Export(ctx context.Context, w io.Writer, format eda.Format) error {
	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}
	if err := eda.Export(w, format, eda.Info(s.table), summary); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "summary exported", slog.String("format", string(format)))
	return nil
}

// Charts returns the exploratory charts keyed by name
func (s *DatasetService) Charts(ctx context.Context) (map[string]charts.Figure, error) {
	if s.table == nil {
		return nil, ErrDatasetNotLoaded
	}
	trend, err := eda.IndustryESGTrend(s.table)
	if err != nil {
		return nil, err
	}
	water, err := eda.WaterUsageByCompany(s.table)
	if err != nil {
		return nil, err
	}
	return map[string]charts.Figure{
		"industry_esg_trend":     trend,
		"water_usage_by_company": water,
	}, nil
}
