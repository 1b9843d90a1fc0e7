// Package exporter writes tabular results to disk.
//
// CSVWriter writes a header and records with encoding/csv, creating parent
// directories and truncating existing files. WriteJSON and the workbook
// writers serve the summary statistics downloads.
//
// Example usage:
//
//	w := exporter.NewCSVWriter("")
//	err := w.WriteSimpleCSV("cleaned_data/cleaned_dataset.csv", header, rows)
package exporter
