package dataset

import (
	"io"

	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/exporter"
)

// WriteCSV writes the table with its header to path, creating parent
// directories and replacing any existing file.
func WriteCSV(path string, t *Table) error {
	if err := exporter.NewCSVWriter("").WriteSimpleCSV(path, t.columns, t.cells); err != nil {
		return apierrors.NewStorageError("failed to write "+path, err).WithContext("path", path)
	}
	return nil
}

// Encode writes the table as CSV to w
func Encode(w io.Writer, t *Table) error {
	return exporter.WriteTo(w, t.columns, t.cells)
}
