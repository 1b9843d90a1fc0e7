package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apierrors "ecotrack/internal/errors"
)

// Kind is the inferred type of a column
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// MarshalText renders the kind name in JSON documents
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsNumeric reports whether cells of the kind carry numbers
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// Table is an immutable, row-major table of raw cell text with inferred
// column kinds. Numeric cells are parsed once at construction.
type Table struct {
	columns []string
	index   map[string]int
	kinds   []Kind
	cells   [][]string
	nums    [][]float64
}

// New builds a table from a header and records, inferring column kinds.
// Every record must have one field per column. Records are copied.
func New(columns []string, records [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, apierrors.NewParsingError(fmt.Sprintf("duplicate column %q", name), nil)
		}
		index[name] = i
	}

	cells := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, apierrors.NewParsingError(
				fmt.Sprintf("record %d has %d fields, header has %d", i+1, len(rec), len(columns)), nil).
				WithContext("record", i+1)
		}
		cells[i] = append([]string(nil), rec...)
	}

	t := &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		kinds:   make([]Kind, len(columns)),
		cells:   cells,
	}
	for c := range columns {
		t.kinds[c] = inferKind(cells, c)
	}
	t.nums = parseNumbers(cells, t.kinds)
	return t, nil
}

func inferKind(cells [][]string, col int) Kind {
	kind := KindInt
	for _, row := range cells {
		if IsMissing(row[col]) {
			continue
		}
		s := strings.TrimSpace(row[col])
		if kind == KindInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return KindString
		}
	}
	if kind == KindInt && !hasValue(cells, col) {
		return KindFloat
	}
	return kind
}

func hasValue(cells [][]string, col int) bool {
	for _, row := range cells {
		if !IsMissing(row[col]) {
			return true
		}
	}
	return false
}

func parseNumbers(cells [][]string, kinds []Kind) [][]float64 {
	nums := make([][]float64, len(cells))
	for r, row := range cells {
		nums[r] = make([]float64, len(kinds))
		for c, kind := range kinds {
			nums[r][c] = math.NaN()
			if !kind.IsNumeric() || IsMissing(row[c]) {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64); err == nil {
				nums[r][c] = v
			}
		}
	}
	return nums
}

// derive returns a table over a subset of rows sharing the parent's schema
func (t *Table) derive(rows []int) *Table {
	d := &Table{
		columns: t.columns,
		index:   t.index,
		kinds:   t.kinds,
		cells:   make([][]string, len(rows)),
		nums:    make([][]float64, len(rows)),
	}
	for i, r := range rows {
		d.cells[i] = t.cells[r]
		d.nums[i] = t.nums[r]
	}
	return d
}

func unknownColumn(name string) error {
	return apierrors.NewNotFoundError(fmt.Sprintf("column %q", name))
}

// Columns returns the column names in file order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.cells)
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// ColumnIndex returns the position of name, or -1
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the table has a column called name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Kind returns the inferred kind of a column
func (t *Table) Kind(name string) (Kind, bool) {
	i, ok := t.index[name]
	if !ok {
		return KindString, false
	}
	return t.kinds[i], true
}

// KindAt returns the kind of the column at position col
func (t *Table) KindAt(col int) Kind {
	return t.kinds[col]
}

// Cell returns the raw text of a cell
func (t *Table) Cell(row, col int) string {
	return t.cells[row][col]
}

// Missing reports whether a cell holds a missing token
func (t *Table) Missing(row, col int) bool {
	return IsMissing(t.cells[row][col])
}

// FloatAt returns the numeric value of a cell, NaN when missing or non-numeric
func (t *Table) FloatAt(row, col int) float64 {
	return t.nums[row][col]
}

// Value returns the raw text of the named cell, or "" for an unknown column
func (t *Table) Value(row int, name string) string {
	i, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.cells[row][i]
}

// Float returns the numeric value of the named cell. It is NaN for a
// missing cell, a string column or an unknown column.
func (t *Table) Float(row int, name string) float64 {
	i, ok := t.index[name]
	if !ok {
		return math.NaN()
	}
	return t.nums[row][i]
}

// Row returns a view of row i
func (t *Table) Row(i int) Row {
	return Row{t: t, i: i}
}

// Rows returns a copy of all records
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.cells))
	for i, row := range t.cells {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Column returns a copy of the raw cells of a column
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, unknownColumn(name)
	}
	out := make([]string, len(t.cells))
	for r, row := range t.cells {
		out[r] = row[i]
	}
	return out, nil
}

// FloatColumn returns the numeric values of a column with NaN for missing cells
func (t *Table) FloatColumn(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, unknownColumn(name)
	}
	if !t.kinds[i].IsNumeric() {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("column %q is not numeric", name))
	}
	out := make([]float64, len(t.nums))
	for r, row := range t.nums {
		out[r] = row[i]
	}
	return out, nil
}

// Unique returns the distinct non-missing values of a column in order of first appearance
func (t *Table) Unique(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, unknownColumn(name)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.cells {
		v := row[i]
		if IsMissing(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Where returns the rows whose cell in column name equals value.
// Numeric columns compare by value, string columns by exact text.
func (t *Table) Where(name, value string) (*Table, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, unknownColumn(name)
	}

	var match func(r int) bool
	if t.kinds[i].IsNumeric() {
		want, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return t.derive(nil), nil
		}
		match = func(r int) bool { return t.nums[r][i] == want }
	} else {
		match = func(r int) bool { return t.cells[r][i] == value }
	}

	var rows []int
	for r := range t.cells {
		if match(r) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows), nil
}

// Filter returns the rows for which pred is true
func (t *Table) Filter(pred func(Row) bool) *Table {
	var rows []int
	for r := range t.cells {
		if pred(Row{t: t, i: r}) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows)
}

// SortBy returns the rows stably sorted ascending by a column.
// Missing numeric cells sort last.
func (t *Table) SortBy(name string) (*Table, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, unknownColumn(name)
	}

	rows := make([]int, len(t.cells))
	for r := range rows {
		rows[r] = r
	}

	if t.kinds[i].IsNumeric() {
		sort.SliceStable(rows, func(a, b int) bool {
			return lessFloat(t.nums[rows[a]][i], t.nums[rows[b]][i])
		})
	} else {
		sort.SliceStable(rows, func(a, b int) bool {
			return t.cells[rows[a]][i] < t.cells[rows[b]][i]
		})
	}
	return t.derive(rows), nil
}

func lessFloat(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

// RowKey returns a normalised identity of a row: numeric cells by value,
// string cells by text, every missing cell equal to every other.
func (t *Table) RowKey(row int) string {
	var b strings.Builder
	for c, kind := range t.kinds {
		if c > 0 {
			b.WriteByte(0x1f)
		}
		switch {
		case t.Missing(row, c):
			b.WriteByte(0)
		case kind.IsNumeric():
			b.WriteString(strconv.FormatFloat(t.nums[row][c], 'g', -1, 64))
		default:
			b.WriteString(t.cells[row][c])
		}
	}
	return b.String()
}

// Row is a read-only view of one table row
type Row struct {
	t *Table
	i int
}

// Index returns the row position in its table
func (r Row) Index() int {
	return r.i
}

// Value returns the raw text of the named cell
func (r Row) Value(name string) string {
	return r.t.Value(r.i, name)
}

// Float returns the numeric value of the named cell, NaN when absent
func (r Row) Float(name string) float64 {
	return r.t.Float(r.i, name)
}
