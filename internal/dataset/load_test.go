package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/shared/testutil"
	"ecotrack/pkg/contracts/domain"
)

func TestLoadCSV(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.SampleESGCSV)

	table, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, table.Len())
	assert.Equal(t, domain.Columns, table.Columns())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantType apierrors.ErrorType
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(dir, "absent.csv") },
			wantType: apierrors.ErrTypeNotFound,
		},
		{
			name:     "directory",
			path:     func(t *testing.T) string { return dir },
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name: "ragged record",
			path: func(t *testing.T) string {
				return testutil.WriteCSV(t, "a,b\n1,2\n3\n")
			},
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name: "empty file",
			path: func(t *testing.T) string {
				return testutil.WriteCSV(t, "")
			},
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name: "unterminated quote",
			path: func(t *testing.T) string {
				return testutil.WriteCSV(t, "a,b\n\"1,2\n")
			},
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name: "corrupt workbook",
			path: func(t *testing.T) string {
				return testutil.WriteFile(t, "data.xlsx", "not a zip")
			},
			wantType: apierrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.path(t))
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, testutil.WriteCSV(t, testutil.SampleESGCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadCSVStripsBOM(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\ufeffCompanyName,Year\nAlphaCorp,2020\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CompanyName", "Year"}, table.Columns())
	assert.True(t, table.HasColumn(domain.ColCompanyName))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("CompanyName,Year\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	kind, _ := table.Kind("Year")
	assert.Equal(t, KindFloat, kind)
}

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"CompanyName", "Industry", "Year", "Revenue"},
		{"AlphaCorp", "Technology", 2020, 100.5},
		{},
		{"BetaWorks", "Technology", 2021},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len(), "blank rows are skipped")
	assert.Equal(t, "BetaWorks", table.Value(1, domain.ColCompanyName))
	assert.True(t, table.Missing(1, table.ColumnIndex(domain.ColRevenue)), "trailing cells are padded")
	kind, _ := table.Kind(domain.ColYear)
	assert.Equal(t, KindInt, kind)
	assert.Equal(t, 100.5, table.Float(0, domain.ColRevenue))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table := sampleTable(t)
	out := filepath.Join(t.TempDir(), "cleaned_data", "nested", "cleaned.csv")

	require.NoError(t, WriteCSV(out, table))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleESGCSV, string(content))

	reloaded, err := Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, table.Rows(), reloaded.Rows())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))
	assert.Equal(t, testutil.SampleESGCSV, buf.String())
}

func TestWriteCSVError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := WriteCSV(filepath.Join(blocker, "out.csv"), sampleTable(t))
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage))
}
