// Package cleaning removes duplicate rows from the dataset and fills missing
// cells: numeric columns with their median and categorical columns with
// their mode. Cleaning is idempotent, so the cleaned file is a fixed point.
package cleaning
