// Package eda provides exploratory summaries of a dataset table: column
// info, describe-style statistics for numeric columns and two exploratory
// charts. Summaries export to CSV, JSON and XLSX.
package eda
