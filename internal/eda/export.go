package eda

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/exporter"
)

// Format is a summary export format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported export formats
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX}

// ParseFormat validates a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", apierrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", s)).
		WithContext("format", s)
}

// FormatFromPath derives the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType returns the MIME type of an export format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// SummaryHeaders is the header row of a tabular summary export
var SummaryHeaders = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// InfoHeaders is the header row of the Info sheet
var InfoHeaders = []string{"column", "kind", "non_null"}

// Report bundles dataset info with its summary for export
type Report struct {
	Info    DatasetInfo `json:"info"`
	Summary *Summary    `json:"summary"`
}

func (s ColumnSummary) stats() []float64 {
	return []float64{s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max}
}

// MarshalJSON renders undefined statistics as null
func (s ColumnSummary) MarshalJSON() ([]byte, error) {
	nullable := func(f float64) *float64 {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		P25    *float64 `json:"p25"`
		P50    *float64 `json:"p50"`
		P75    *float64 `json:"p75"`
		Max    *float64 `json:"max"`
	}{
		Column: s.Column,
		Count:  s.Count,
		Mean:   nullable(s.Mean),
		Std:    nullable(s.Std),
		Min:    nullable(s.Min),
		P25:    nullable(s.P25),
		P50:    nullable(s.P50),
		P75:    nullable(s.P75),
		Max:    nullable(s.Max),
	})
}

// Records renders the summary as CSV records. Undefined statistics are empty.
func (s *Summary) Records() [][]string {
	records := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		rec := []string{c.Column, strconv.Itoa(c.Count)}
		for _, v := range c.stats() {
			rec = append(rec, exporter.FormatFloat(v))
		}
		records = append(records, rec)
	}
	return records
}

func (s *Summary) sheetRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(s.Columns))
	for _, c := range s.Columns {
		row := []interface{}{c.Column, c.Count}
		for _, v := range c.stats() {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows
}

func (info DatasetInfo) sheetRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(info.Columns))
	for _, c := range info.Columns {
		rows = append(rows, []interface{}{c.Name, c.Kind.String(), c.NonNull})
	}
	return rows
}

func (r Report) sheets() []exporter.Sheet {
	return []exporter.Sheet{
		{Name: "Summary", Headers: SummaryHeaders, Rows: r.Summary.sheetRows()},
		{Name: "Info", Headers: InfoHeaders, Rows: r.Info.sheetRows()},
	}
}

// WriteSummaryCSV writes the summary table to path
func WriteSummaryCSV(path string, s *Summary) error {
	if err := exporter.NewCSVWriter("").WriteSimpleCSV(path, SummaryHeaders, s.Records()); err != nil {
		return apierrors.NewStorageError("failed to write summary "+path, err).WithContext("path", path)
	}
	return nil
}

// WriteSummaryJSON writes info and summary as one JSON document to path
func WriteSummaryJSON(path string, info DatasetInfo, s *Summary) error {
	if err := exporter.WriteJSON(path, Report{Info: info, Summary: s}); err != nil {
		return apierrors.NewStorageError("failed to write summary "+path, err).WithContext("path", path)
	}
	return nil
}

// WriteSummaryXLSX writes a workbook with a Summary and an Info sheet to path
func WriteSummaryXLSX(path string, info DatasetInfo, s *Summary) error {
	if err := exporter.WriteWorkbook(path, Report{Info: info, Summary: s}.sheets()); err != nil {
		return apierrors.NewStorageError("failed to write summary "+path, err).WithContext("path", path)
	}
	return nil
}

// WriteSummary writes to path in the format named by its extension
func WriteSummary(path string, info DatasetInfo, s *Summary) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return WriteSummaryJSON(path, info, s)
	case FormatXLSX:
		return WriteSummaryXLSX(path, info, s)
	default:
		return WriteSummaryCSV(path, s)
	}
}

// Export streams the summary to w in the given format
func Export(w io.Writer, format Format, info DatasetInfo, s *Summary) error {
	switch format {
	case FormatCSV:
		return exporter.WriteTo(w, SummaryHeaders, s.Records())
	case FormatJSON:
		return exporter.EncodeJSON(w, Report{Info: info, Summary: s})
	case FormatXLSX:
		return exporter.WriteWorkbookTo(w, Report{Info: info, Summary: s}.sheets())
	default:
		return apierrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
}
