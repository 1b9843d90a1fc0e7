package exporter

import (
	"math"
	"strconv"
)

// FormatFloat renders f with the shortest representation that parses back
// to the same value. NaN renders as the empty string.
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatInt formats an int64 value for CSV output
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
