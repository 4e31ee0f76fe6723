package encoding

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/askviz/internal/normalize"
	"github.com/roach88/askviz/internal/schema"
	"github.com/roach88/askviz/internal/vocab"
)

// overrides maps chart vocabulary in the question to a chart type. The first
// family with a hit wins, so "correlation" selects Scatter before Heatmap.
var overrides = vocab.Table[ChartType]{
	{Terms: []string{"pie", "percentage", "proportion", "breakdown"}, Result: Pie},
	{Terms: []string{"line", "trend", "over time", "timeseries"}, Result: Line},
	{Terms: []string{"scatter", "correlation", "relationship"}, Result: Scatter},
	{Terms: []string{"box", "distribution", "spread"}, Result: Box},
	{Terms: []string{"heat", "matrix", "correlation"}, Result: Heatmap},
	{Terms: []string{"histogram", "frequency"}, Result: Histogram},
	{Terms: []string{"area", "cumulative"}, Result: Area},
	{Terms: []string{"tree", "hierarchy"}, Result: Treemap},
}

// Distinct-count thresholds of the shape rules.
const (
	fewCategories   = 10
	maxHeatmapCells = 100
)

// Select picks a chart for a result table and the question that produced
// it. It is SelectAs with Auto.
func Select(result *schema.Index, question string) Encoding {
	return SelectAs(result, question, Auto)
}

// SelectAs assigns roles for the requested chart type. Auto (or the empty
// string) chooses the type from chart vocabulary in the question first and
// the result shape second.
func SelectAs(result *schema.Index, question string, requested ChartType) Encoding {
	chart := requested
	if chart == Auto || chart == "" {
		chart = Choose(result, question)
	}

	enc := assignRoles(chart, newShape(result))
	enc.Title = title(question)
	if result.RowCount() == 0 {
		enc.Note = noDataNote
	}
	return enc
}

// Choose returns the chart type Auto resolves to.
func Choose(result *schema.Index, question string) ChartType {
	if c, ok := overrides.FirstSubstring(normalize.Clean(question)); ok {
		return c
	}
	return byShape(newShape(result))
}

// byShape applies the shape rules in order.
func byShape(s shape) ChartType {
	numeric, categorical := len(s.numeric), len(s.nonNumeric)

	switch {
	case s.hasTemporal && numeric >= 1:
		return Line

	case s.total <= 2 && numeric == 1 && categorical == 1:
		if s.nonNumeric[0].Distinct <= fewCategories {
			return Bar
		}
		return Box

	case s.total == 1:
		if numeric == 1 {
			return Histogram
		}
		return Bar

	case numeric >= 2 && categorical <= 1:
		if numeric == 2 {
			return Scatter
		}
		if categorical == 1 && s.nonNumeric[0].Distinct <= fewCategories {
			return Bar
		}
		return Table

	case categorical >= 2 && numeric >= 1:
		if s.nonNumeric[0].Distinct*s.nonNumeric[1].Distinct <= maxHeatmapCells {
			return Heatmap
		}
		return Bar

	// Unreachable: one numeric column with one categorical column is caught
	// by the two-column rule, and with more by the heatmap rule.
	case categorical >= 1 && numeric == 1:
		if s.nonNumeric[0].Distinct <= fewCategories {
			return Pie
		}
		return Bar
	}

	return Bar
}

// title turns a question into a chart title: trimmed, first letter upper
// case, trailing question mark removed.
func title(question string) string {
	t := strings.TrimSpace(question)
	t = strings.TrimSuffix(t, "?")
	r, size := utf8.DecodeRuneInString(t)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + t[size:]
}

// shape partitions result columns the way both selection and role
// assignment need them, in schema order.
type shape struct {
	columns    []schema.ColumnInfo
	total      int
	numeric    []schema.ColumnInfo
	nonNumeric []schema.ColumnInfo // every non-numeric column, dates included

	dates       []schema.ColumnInfo // datetime kind, or non-numeric with a temporal name
	categorical []schema.ColumnInfo // non-numeric and not a date
	hasTemporal bool                // any column is a date or has a temporal name
}

func newShape(ix *schema.Index) shape {
	s := shape{columns: ix.Columns(), total: ix.Len()}
	for _, c := range s.columns {
		if schema.LooksTemporal(c.Name) || c.Kind == schema.KindDatetime {
			s.hasTemporal = true
		}
		if c.IsNumeric() {
			s.numeric = append(s.numeric, c)
			continue
		}
		s.nonNumeric = append(s.nonNumeric, c)
		if c.Kind == schema.KindDatetime || schema.LooksTemporal(c.Name) {
			s.dates = append(s.dates, c)
		} else {
			s.categorical = append(s.categorical, c)
		}
	}
	return s
}
