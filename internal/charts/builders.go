package charts

import (
	"math"

	"ecotrack/internal/dataset"
)

// bubbleSizeMax is the diameter in pixels of the largest bubble
const bubbleSizeMax = 20

// Line plots each y column against x as lines with markers. Rows are
// stably sorted by x first so the lines run left to right.
func Line(t *dataset.Table, x string, ys []string, title string) (Figure, error) {
	sorted, err := t.SortBy(x)
	if err != nil {
		return Figure{}, err
	}
	fig, err := wide(sorted, TypeScatter, x, ys, title)
	if err != nil {
		return Figure{}, err
	}
	for i := range fig.Data {
		fig.Data[i].Mode = ModeLinesMarkers
	}
	return fig, nil
}

// Bar plots each y column against x as bars combined with barMode
func Bar(t *dataset.Table, x string, ys []string, title, barMode string) (Figure, error) {
	fig, err := wide(t, TypeBar, x, ys, title)
	if err != nil {
		return Figure{}, err
	}
	fig.Layout.BarMode = barMode
	return fig, nil
}

// wide builds one trace per y column, named after the column
func wide(t *dataset.Table, traceType, x string, ys []string, title string) (Figure, error) {
	xs, err := t.FloatColumn(x)
	if err != nil {
		return Figure{}, err
	}

	fig := NewFigure(title)
	for _, y := range ys {
		values, err := t.FloatColumn(y)
		if err != nil {
			return Figure{}, err
		}
		fig.Data = append(fig.Data, Trace{
			Type: traceType,
			Name: y,
			X:    Values(xs),
			Y:    Values(values),
		})
	}

	yTitle := "value"
	if len(ys) == 1 {
		yTitle = ys[0]
	}
	fig.Layout.XAxis = axis(x)
	fig.Layout.YAxis = axis(yTitle)
	if len(ys) > 1 {
		fig.Layout.Legend = &Legend{Title: &Title{Text: "variable"}}
	}
	return fig, nil
}

// Box plots the distribution of y per category of x as a single trace
func Box(t *dataset.Table, x, y, title string) (Figure, error) {
	categories, err := t.Column(x)
	if err != nil {
		return Figure{}, err
	}
	values, err := t.FloatColumn(y)
	if err != nil {
		return Figure{}, err
	}

	fig := NewFigure(title)
	fig.Data = append(fig.Data, Trace{
		Type: TypeBox,
		X:    categories,
		Y:    Values(values),
	})
	fig.Layout.XAxis = axis(x)
	fig.Layout.YAxis = axis(y)
	return fig, nil
}

// Treemap aggregates the mean of value over (parent, child) pairs of the
// whole table. Leaves are sized and coloured by their mean; a parent is
// sized by the sum of its children and coloured by their value-weighted mean.
func Treemap(t *dataset.Table, parent, child, value, title string) (Figure, error) {
	groups, err := t.GroupMean([]string{parent, child}, value)
	if err != nil {
		return Figure{}, err
	}

	type branch struct {
		sum      float64
		weighted float64
		mean     float64
		n        int
	}
	branches := make(map[string]*branch)
	var parentOrder []string

	trace := Trace{
		Type:         TypeTreemap,
		BranchValues: "total",
		Marker: &Marker{
			ColorScale: "RdBu",
			ShowScale:  true,
			ColorBar:   &ColorBar{Title: Title{Text: value}},
		},
	}

	for _, g := range groups {
		if math.IsNaN(g.Mean) {
			continue
		}
		p, c := g.Keys[0], g.Keys[1]
		trace.IDs = append(trace.IDs, p+"/"+c)
		trace.Labels = append(trace.Labels, c)
		trace.Parents = append(trace.Parents, p)
		trace.Values = append(trace.Values, g.Mean)
		trace.Marker.Colors = append(trace.Marker.Colors, g.Mean)

		b, ok := branches[p]
		if !ok {
			b = &branch{}
			branches[p] = b
			parentOrder = append(parentOrder, p)
		}
		b.sum += g.Mean
		b.weighted += g.Mean * g.Mean
		b.mean += g.Mean
		b.n++
	}

	for _, p := range parentOrder {
		b := branches[p]
		color := b.mean / float64(b.n)
		if b.sum != 0 {
			color = b.weighted / b.sum
		}
		trace.IDs = append(trace.IDs, p)
		trace.Labels = append(trace.Labels, p)
		trace.Parents = append(trace.Parents, "")
		trace.Values = append(trace.Values, b.sum)
		trace.Marker.Colors = append(trace.Marker.Colors, color)
	}

	fig := NewFigure(title)
	fig.Data = append(fig.Data, trace)
	return fig, nil
}

// Bubble scatters y against x with one trace per group in order of first
// appearance. Bubble area follows size, clamped at zero.
func Bubble(t *dataset.Table, x, y, size, group, title string) (Figure, error) {
	names, err := t.Unique(group)
	if err != nil {
		return Figure{}, err
	}
	for _, col := range []string{x, y, size} {
		if _, err := t.FloatColumn(col); err != nil {
			return Figure{}, err
		}
	}

	fig := NewFigure(title)
	maxSize := 0.0
	for _, name := range names {
		subset, err := t.Where(group, name)
		if err != nil {
			return Figure{}, err
		}
		xs, _ := subset.FloatColumn(x)
		ys, _ := subset.FloatColumn(y)
		raw, _ := subset.FloatColumn(size)

		sizes := make(Values, len(raw))
		text := make([]string, len(raw))
		for i, s := range raw {
			if math.IsNaN(s) || s < 0 {
				s = 0
			}
			sizes[i] = s
			maxSize = math.Max(maxSize, s)
			text[i] = name
		}

		fig.Data = append(fig.Data, Trace{
			Type:      TypeScatter,
			Mode:      ModeMarkers,
			Name:      name,
			X:         Values(xs),
			Y:         Values(ys),
			HoverText: text,
			Marker: &Marker{
				Size:     sizes,
				SizeMode: "area",
			},
		})
	}

	sizeRef := 1.0
	if maxSize > 0 {
		sizeRef = 2 * maxSize / (bubbleSizeMax * bubbleSizeMax)
	}
	for i := range fig.Data {
		fig.Data[i].Marker.SizeRef = sizeRef
	}

	fig.Layout.XAxis = axis(x)
	fig.Layout.YAxis = axis(y)
	fig.Layout.Legend = &Legend{Title: &Title{Text: group}}
	return fig, nil
}
