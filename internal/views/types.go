// Package views turns a filtered subset into render-ready chart and table
// descriptions. The output is plain JSON; the browser draws it with Plotly.
package views

// EmptyMessage is shown in place of every view when the subset is empty.
const EmptyMessage = "Please select more data"

// Chart types
const (
	ChartScatter   = "scatter"
	ChartHistogram = "histogram"
)

// Palette is the discrete colour sequence. Categories take colours in their
// declared order and wrap around.
var Palette = []string{"lightgray", "#1F85DE", "#f90f04"}

// Chart describes one figure.
type Chart struct {
	ID      string   `json:"id"`
	Type    string   `json:"chartType"`
	Title   string   `json:"title"`
	XAxis   string   `json:"xAxis,omitempty"`
	YAxis   string   `json:"yAxis,omitempty"`
	ColorBy string   `json:"colorBy,omitempty"`
	SizeBy  string   `json:"sizeBy,omitempty"`
	BarMode string   `json:"barMode,omitempty"`
	Series  []Series `json:"series"`
	Markers []Marker `json:"markers,omitempty"`
	Layout  Layout   `json:"layout"`

	// Skipped counts records left out because a plotted value was missing,
	// non-finite or undefined.
	Skipped int `json:"skipped"`

	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// Series is one colour group.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points,omitempty"`
	Bins   []Bin   `json:"bins,omitempty"`
}

// Point is a scatter marker. Size is set only on bubble charts.
type Point struct {
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Size  *float64    `json:"size,omitempty"`
	Label interface{} `json:"label,omitempty"`
}

// Bin is one histogram bar covering [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count float64 `json:"count"`
}

// Marker is a reference line drawn across the plot.
type Marker struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Dash  string  `json:"dash"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Layout is the shared figure template.
type Layout struct {
	FontFamily string   `json:"fontFamily"`
	FontSize   int      `json:"fontSize"`
	Legend     Legend   `json:"legend"`
	Colors     []string `json:"colors"`
}

// DefaultLayout returns the template every chart uses.
func DefaultLayout() Layout {
	colors := make([]string, len(Palette))
	copy(colors, Palette)
	return Layout{
		FontFamily: "Century Gothic",
		FontSize:   14,
		Legend:     Legend{Orientation: "h", X: 0, Y: 1.1},
		Colors:     colors,
	}
}

// Column is a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number"
	Align string `json:"align"`
}

// Table is the raw data view.
type Table struct {
	ID       string          `json:"id"`
	Columns  []Column        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	PageSize int             `json:"pageSize"`
	Total    int             `json:"total"`
	Empty    bool            `json:"empty"`
	Message  string          `json:"message,omitempty"`
}

// ColorFor returns the palette colour of the i-th category.
func ColorFor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
