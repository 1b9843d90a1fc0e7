package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
)

// Load reads a dataset file. .xlsx and .xlsm files are read from their first
// sheet; any other extension is parsed as CSV.
func Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apierrors.NewNotFoundError(fmt.Sprintf("dataset %s", path)).WithContext("path", path)
		}
		return nil, apierrors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
	}
	if info.IsDir() {
		return nil, apierrors.NewParsingError(fmt.Sprintf("%s is a directory", path), nil)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err = loadWorkbook(path)
	default:
		t, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	infrastructure.AddSpanEvent(ctx, "dataset.loaded", map[string]interface{}{
		"path":    path,
		"rows":    t.Len(),
		"columns": t.Width(),
	})
	return t, nil
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		var appErr *apierrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return t, nil
}

// ReadCSV parses CSV text with a header row. Every record must have as many
// fields as the header. A leading UTF-8 BOM is ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apierrors.NewParsingError("missing header row", err)
		}
		return nil, apierrors.NewParsingError("malformed header row", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apierrors.NewParsingError("malformed CSV record", err)
	}

	return New(header, records)
}

func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, apierrors.NewParsingError("missing header row", nil)
	}

	header := rows[0]
	width := len(header)
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if len(row) > width {
			return nil, apierrors.NewParsingError(
				fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), width), nil)
		}
		// GetRows drops trailing empty cells
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}

	return New(header, records)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
