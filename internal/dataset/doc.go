// Package dataset loads the company ESG/financial dataset into an immutable
// in-memory table.
//
// Column kinds are inferred on load: a column is an integer column when
// every non-missing cell parses as a base-10 int64, a float column when
// every non-missing cell parses as a float64, and a string column otherwise.
// A column without any non-missing cell is a float column.
//
// Tables never change after construction. Where, Filter and SortBy return
// new tables that keep the parent's column kinds.
package dataset
