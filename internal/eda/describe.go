package eda

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ecotrack/internal/dataset"
)

// ColumnInfo is the name, kind and non-missing count of one column
type ColumnInfo struct {
	Name    string       `json:"name"`
	Kind    dataset.Kind `json:"kind"`
	NonNull int          `json:"non_null"`
}

// DatasetInfo describes the shape of a table
type DatasetInfo struct {
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// Info returns the row count and per column kind and non-missing count
func Info(t *dataset.Table) DatasetInfo {
	info := DatasetInfo{Rows: t.Len(), Columns: make([]ColumnInfo, 0, t.Width())}
	for c, name := range t.Columns() {
		nonNull := 0
		for r := 0; r < t.Len(); r++ {
			if !t.Missing(r, c) {
				nonNull++
			}
		}
		info.Columns = append(info.Columns, ColumnInfo{Name: name, Kind: t.KindAt(c), NonNull: nonNull})
	}
	return info
}

// ColumnSummary holds describe statistics for one numeric column. Every
// statistic is NaN when the column has no values; Std is NaN below two.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Summary is the describe output of a table, one entry per numeric column
// in column order
type Summary struct {
	Columns []ColumnSummary `json:"columns"`
}

// Describe computes summary statistics for every numeric column. Columns
// are summarised concurrently.
func Describe(ctx context.Context, t *dataset.Table) (*Summary, error) {
	var numeric []string
	for c, name := range t.Columns() {
		if t.KindAt(c).IsNumeric() {
			numeric = append(numeric, name)
		}
	}

	out := make([]ColumnSummary, len(numeric))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range numeric {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := t.FloatColumn(name)
			if err != nil {
				return err
			}
			out[i] = summarize(name, values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Summary{Columns: out}, nil
}

func summarize(name string, values []float64) ColumnSummary {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}

	nan := math.NaN()
	s := ColumnSummary{Column: name, Count: len(xs), Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	if len(xs) == 0 {
		return s
	}

	sort.Float64s(xs)
	s.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		s.Std = stat.StdDev(xs, nil)
	}
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	s.P25 = Quantile(xs, 0.25)
	s.P50 = Quantile(xs, 0.5)
	s.P75 = Quantile(xs, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted by linear interpolation between
// the closest ranks at position (n-1)p. sorted must be ascending and free
// of NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
