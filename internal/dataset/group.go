package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Group is the mean of a value column over rows sharing the same keys
type Group struct {
	Keys []string
	// KeyValues holds the numeric value of each key, NaN for string keys
	KeyValues []float64
	Mean      float64
	Count     int
}

// GroupMean groups rows by the key columns and averages value over each
// group, skipping missing values. Rows with a missing key are dropped. A
// group without any value has a NaN mean. Groups are sorted by key tuple:
// numeric keys by value, string keys lexically.
func (t *Table) GroupMean(keys []string, value string) ([]Group, error) {
	keyCols := make([]int, len(keys))
	for i, k := range keys {
		c, ok := t.index[k]
		if !ok {
			return nil, unknownColumn(k)
		}
		keyCols[i] = c
	}
	valCol, ok := t.index[value]
	if !ok {
		return nil, unknownColumn(value)
	}

	type acc struct {
		keys  []string
		nums  []float64
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	var order []*acc

rows:
	for r := range t.cells {
		var id strings.Builder
		for i, c := range keyCols {
			if t.Missing(r, c) {
				continue rows
			}
			if i > 0 {
				id.WriteByte(0x1f)
			}
			if t.kinds[c].IsNumeric() {
				id.WriteString(strconv.FormatFloat(t.nums[r][c], 'g', -1, 64))
			} else {
				id.WriteString(t.cells[r][c])
			}
		}

		g, seen := groups[id.String()]
		if !seen {
			g = &acc{keys: make([]string, len(keyCols)), nums: make([]float64, len(keyCols))}
			for i, c := range keyCols {
				g.keys[i] = strings.TrimSpace(t.cells[r][c])
				g.nums[i] = t.nums[r][c]
			}
			groups[id.String()] = g
			order = append(order, g)
		}

		if v := t.nums[r][valCol]; !math.IsNaN(v) {
			g.sum += v
			g.count++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		for i, c := range keyCols {
			if t.kinds[c].IsNumeric() {
				if order[a].nums[i] != order[b].nums[i] {
					return order[a].nums[i] < order[b].nums[i]
				}
				continue
			}
			if order[a].keys[i] != order[b].keys[i] {
				return order[a].keys[i] < order[b].keys[i]
			}
		}
		return false
	})

	out := make([]Group, len(order))
	for i, g := range order {
		mean := math.NaN()
		if g.count > 0 {
			mean = g.sum / float64(g.count)
		}
		out[i] = Group{Keys: g.keys, KeyValues: g.nums, Mean: mean, Count: g.count}
	}
	return out, nil
}
