// Package encoding selects a chart type and assigns result columns to
// visual roles.
//
// Selection looks only at the result table's shape (column kinds and
// distinct counts) and the original question text; the source dataset is
// never consulted. Like translation, selection is total: a chart whose
// minimum column requirements are unmet carries a placeholder annotation
// instead of failing.
package encoding

import (
	"fmt"
	"strings"
)

// ChartType is an entry of the fixed chart catalog.
type ChartType string

const (
	// Auto asks the selector to choose. It never appears in an Encoding.
	Auto ChartType = "Auto"

	Bar       ChartType = "Bar"
	Line      ChartType = "Line"
	Pie       ChartType = "Pie"
	Scatter   ChartType = "Scatter"
	Histogram ChartType = "Histogram"
	Box       ChartType = "Box"
	Bubble    ChartType = "Bubble"
	Heatmap   ChartType = "Heatmap"
	Area      ChartType = "Area"
	Treemap   ChartType = "Treemap"
	Table     ChartType = "Table"
)

// Catalog lists every concrete chart type.
var Catalog = []ChartType{Bar, Line, Pie, Scatter, Histogram, Box, Bubble, Heatmap, Area, Treemap, Table}

// labels are the long display names used by chart pickers.
var labels = map[ChartType]string{
	Auto:      "Auto",
	Bar:       "Bar Chart",
	Line:      "Line Chart",
	Pie:       "Pie Chart",
	Scatter:   "Scatter Plot",
	Histogram: "Histogram",
	Box:       "Box Plot",
	Bubble:    "Bubble Chart",
	Heatmap:   "Heatmap",
	Area:      "Area Chart",
	Treemap:   "Treemap",
	Table:     "Table",
}

// Label returns the display name, e.g. "Box Plot".
func (c ChartType) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// ParseChartType accepts a catalog name or display label, case-insensitive:
// "bar", "Bar Chart", "box plot" and "AUTO" are all valid.
func ParseChartType(s string) (ChartType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, " chart")
	name = strings.TrimSuffix(name, " plot")
	if name == "" {
		return Auto, nil
	}
	for c := range labels {
		if strings.ToLower(string(c)) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q: must be Auto or one of %v", s, Catalog)
}

// Role is a visual channel a result column can be assigned to.
type Role string

const (
	RoleX      Role = "x"
	RoleY      Role = "y"
	RoleColor  Role = "color"
	RoleSize   Role = "size"
	RoleNames  Role = "names"
	RoleValues Role = "values"
)

// RoleOrder lists every role in display order.
var RoleOrder = []Role{RoleX, RoleY, RoleColor, RoleSize, RoleNames, RoleValues}

// Transform is a reshaping the renderer applies before drawing.
type Transform string

const (
	TransformNone Transform = ""

	// TransformValueCount counts occurrences of each value of the x (or
	// names) column.
	TransformValueCount Transform = "value_count"

	// TransformHistogram bins the x column instead of drawing bars per row.
	TransformHistogram Transform = "histogram"

	// TransformCorrelation draws the correlation matrix of every numeric
	// column.
	TransformCorrelation Transform = "correlation"
)

const noDataNote = "no data available for visualization"

// Encoding is a chart type plus the assignment of result columns to roles.
type Encoding struct {
	Chart ChartType       `json:"chart"`
	Title string          `json:"title,omitempty"`
	Roles map[Role]string `json:"roles"`

	// Path lists the treemap hierarchy levels, outermost first.
	Path []string `json:"path,omitempty"`

	Transform Transform `json:"transform,omitempty"`

	// Placeholder is set when the chart's column requirements are unmet.
	Placeholder string `json:"placeholder,omitempty"`

	// Note annotates an empty result or a derived chart.
	Note string `json:"note,omitempty"`
}

// Role returns the column assigned to r.
func (e Encoding) Role(r Role) (string, bool) {
	c, ok := e.Roles[r]
	return c, ok
}

// Renderable reports whether the encoding has no placeholder.
func (e Encoding) Renderable() bool { return e.Placeholder == "" }
