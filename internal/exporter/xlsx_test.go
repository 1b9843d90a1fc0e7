package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testSheets() []Sheet {
	return []Sheet{
		{
			Name:    "Summary",
			Headers: []string{"stat", "Revenue"},
			Rows: [][]interface{}{
				{"count", 6},
				{"mean", 165.75},
			},
		},
		{
			Name:    "Info",
			Headers: []string{"column", "kind"},
			Rows:    [][]interface{}{{"Revenue", "float"}},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "summary.xlsx")
	require.NoError(t, WriteWorkbook(path, testSheets()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Info"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"stat", "Revenue"}, rows[0])
	assert.Equal(t, []string{"mean", "165.75"}, rows[2])

	info, err := f.GetRows("Info")
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "float"}, info[1])
}

func TestWriteWorkbookTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbookTo(&buf, testSheets()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Info"}, f.GetSheetList())
}

func TestWriteWorkbookNoSheets(t *testing.T) {
	assert.Error(t, WriteWorkbookTo(&bytes.Buffer{}, nil))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.json")
	require.NoError(t, WriteJSON(path, map[string]int{"rows": 6}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, 6, got["rows"])
	assert.Contains(t, string(content), "\n  \"rows\"")
}
