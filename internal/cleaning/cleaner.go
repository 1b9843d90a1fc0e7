package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ecotrack/internal/dataset"
	"ecotrack/internal/exporter"
	"ecotrack/internal/infrastructure"
)

// Report describes one cleaning pass
type Report struct {
	InputRows         int                `json:"input_rows"`
	DuplicatesRemoved int                `json:"duplicates_removed"`
	ImputedCells      map[string]int     `json:"imputed_cells"`
	Medians           map[string]float64 `json:"medians"`
	Modes             map[string]string  `json:"modes"`
	EmptyColumns      []string           `json:"empty_columns,omitempty"`
	OutputRows        int                `json:"output_rows"`
	Duration          time.Duration      `json:"duration"`
}

// TotalImputed returns the number of filled cells over all columns
func (r *Report) TotalImputed() int {
	total := 0
	for _, n := range r.ImputedCells {
		total += n
	}
	return total
}

// Cleaner deduplicates and imputes a dataset table
type Cleaner struct {
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
	tracer  trace.Tracer
}

// NewCleaner creates a cleaner. metrics may be nil.
func NewCleaner(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger:  infrastructure.WithComponent(logger, "cleaner"),
		metrics: metrics,
		tracer:  otel.Tracer("ecotrack.cleaning"),
	}
}

// Clean returns a new table without duplicate rows or missing cells.
// Statistics are taken after the first deduplication; rows that become
// identical through imputation are removed by a second pass.
func (c *Cleaner) Clean(ctx context.Context, t *dataset.Table) (*dataset.Table, *Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	report := &Report{
		InputRows:    t.Len(),
		ImputedCells: make(map[string]int),
		Medians:      make(map[string]float64),
		Modes:        make(map[string]string),
	}

	deduped, removed := dropDuplicates(t)
	report.DuplicatesRemoved = removed

	fills := c.snapshot(ctx, deduped, report)

	records := deduped.Rows()
	columns := deduped.Columns()
	for _, rec := range records {
		for col, cell := range rec {
			fill, ok := fills[col]
			if !ok || !dataset.IsMissing(cell) {
				continue
			}
			rec[col] = fill
			report.ImputedCells[columns[col]]++
		}
	}

	imputed, err := dataset.New(columns, records)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild cleaned table: %w", err)
	}

	cleaned, removed := dropDuplicates(imputed)
	report.DuplicatesRemoved += removed
	report.OutputRows = cleaned.Len()
	report.Duration = time.Since(start)

	c.logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("input_rows", report.InputRows),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("imputed_cells", report.TotalImputed()),
		slog.Int("output_rows", report.OutputRows),
		slog.Duration("duration", report.Duration),
	)
	infrastructure.RecordCleaning(ctx, c.metrics, report.InputRows, report.OutputRows, report.DuplicatesRemoved, report.TotalImputed())

	return cleaned, report, nil
}

// snapshot computes the fill text per column position; columns without any
// value are left out and reported.
func (c *Cleaner) snapshot(ctx context.Context, t *dataset.Table, report *Report) map[int]string {
	fills := make(map[int]string)

	for col, name := range t.Columns() {
		kind := t.KindAt(col)

		if kind.IsNumeric() {
			values := make([]float64, 0, t.Len())
			for r := 0; r < t.Len(); r++ {
				values = append(values, t.FloatAt(r, col))
			}
			median := Median(values)
			if math.IsNaN(median) {
				c.emptyColumn(ctx, name, report)
				continue
			}
			report.Medians[name] = median
			fills[col] = exporter.FormatFloat(median)
			continue
		}

		values := make([]string, 0, t.Len())
		for r := 0; r < t.Len(); r++ {
			if !t.Missing(r, col) {
				values = append(values, t.Cell(r, col))
			}
		}
		mode, ok := Mode(values)
		if !ok {
			c.emptyColumn(ctx, name, report)
			continue
		}
		report.Modes[name] = mode
		fills[col] = mode
	}
	return fills
}

func (c *Cleaner) emptyColumn(ctx context.Context, name string, report *Report) {
	report.EmptyColumns = append(report.EmptyColumns, name)
	c.logger.WarnContext(ctx, "column has no values to impute from",
		slog.String("column", name))
}

func dropDuplicates(t *dataset.Table) (*dataset.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	out := t.Filter(func(r dataset.Row) bool {
		key := t.RowKey(r.Index())
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
	return out, t.Len() - out.Len()
}

// Run loads in, cleans it and writes the result to out
func (c *Cleaner) Run(ctx context.Context, in, out string) (*Report, error) {
	ctx, span := c.tracer.Start(ctx, "cleaning.run",
		trace.WithAttributes(
			attribute.String("input", in),
			attribute.String("output", out),
		),
	)
	defer span.End()

	logger := infrastructure.WithRun(c.logger, "clean", in)
	logger.InfoContext(ctx, "cleaning dataset", slog.String("output", out))

	table, err := dataset.Load(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}

	cleaned, report, err := c.Clean(ctx, table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clean failed")
		return nil, err
	}

	if err := dataset.WriteCSV(out, cleaned); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows.in", report.InputRows),
		attribute.Int("rows.out", report.OutputRows),
	)
	logger.InfoContext(ctx, "cleaned dataset written", slog.String("output", out))
	return report, nil
}
