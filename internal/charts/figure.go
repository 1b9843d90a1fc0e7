package charts

import (
	"math"
	"strconv"
)

// Trace types and modes used by the dashboard
const (
	TypeScatter = "scatter"
	TypeBar     = "bar"
	TypeBox     = "box"
	TypeTreemap = "treemap"

	ModeLinesMarkers = "lines+markers"
	ModeMarkers      = "markers"

	BarModeGroup = "group"
	BarModeStack = "stack"
)

// Figure is a plotly figure document
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Title returns the figure title text
func (f Figure) Title() string {
	return f.Layout.Title.Text
}

// Trace is one plotly trace. X and Y hold Values for numeric data or
// []string for categories.
type Trace struct {
	Type         string      `json:"type"`
	Name         string      `json:"name,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	X            interface{} `json:"x,omitempty"`
	Y            interface{} `json:"y,omitempty"`
	Text         []string    `json:"text,omitempty"`
	HoverInfo    string      `json:"hoverinfo,omitempty"`
	HoverText    []string    `json:"hovertext,omitempty"`
	IDs          []string    `json:"ids,omitempty"`
	Labels       []string    `json:"labels,omitempty"`
	Parents      []string    `json:"parents,omitempty"`
	Values       Values      `json:"values,omitempty"`
	BranchValues string      `json:"branchvalues,omitempty"`
	BoxPoints    string      `json:"boxpoints,omitempty"`
	Marker       *Marker     `json:"marker,omitempty"`
}

// Marker styles points, bars and treemap tiles
type Marker struct {
	Size       Values    `json:"size,omitempty"`
	SizeMode   string    `json:"sizemode,omitempty"`
	SizeRef    float64   `json:"sizeref,omitempty"`
	Colors     Values    `json:"colors,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
	ShowScale  bool      `json:"showscale,omitempty"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
}

// ColorBar labels a continuous colour scale
type ColorBar struct {
	Title Title `json:"title"`
}

// Layout is the subset of plotly layout attributes the dashboard sets
type Layout struct {
	Title   Title   `json:"title"`
	XAxis   *Axis   `json:"xaxis,omitempty"`
	YAxis   *Axis   `json:"yaxis,omitempty"`
	BarMode string  `json:"barmode,omitempty"`
	Legend  *Legend `json:"legend,omitempty"`
}

// Title is a plotly title object
type Title struct {
	Text string `json:"text"`
}

// Axis configures one cartesian axis
type Axis struct {
	Title *Title `json:"title,omitempty"`
}

// Legend configures the legend
type Legend struct {
	Title *Title `json:"title,omitempty"`
}

// NewFigure returns a figure with an empty trace list and the given title
func NewFigure(title string) Figure {
	return Figure{
		Data:   []Trace{},
		Layout: Layout{Title: Title{Text: title}},
	}
}

func axis(title string) *Axis {
	if title == "" {
		return &Axis{}
	}
	return &Axis{Title: &Title{Text: title}}
}

// Values is a numeric array that marshals NaN and infinities as null
type Values []float64

// MarshalJSON implements json.Marshaler
func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	b := make([]byte, 0, len(v)*8+2)
	b = append(b, '[')
	for i, f := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, f, 'g', -1, 64)
	}
	return append(b, ']'), nil
}
