package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/askviz/internal/schema"
)

// maxCategories is the absolute cap on distinct values for a categorical
// column; the relative cap is half the row count.
const maxCategories = 20

// dateLayouts are tried in order when deciding whether a text column holds
// dates.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01",
}

// missingValues are cell texts read as a missing value, compared
// case-insensitively after trimming.
var missingValues = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"#n/a": true,
}

// IsMissing reports whether a raw cell text is a missing value.
func IsMissing(s string) bool {
	return missingValues[strings.ToLower(strings.TrimSpace(s))]
}

// ParseTime parses s with the first matching date layout.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Infer builds a Table from named columns of raw values, inferring each
// column's kind and coercing its cells. Accepted raw values are string,
// []byte, float64, float32, the integer types, bool, time.Time and nil.
// A column is numeric if every present value is a number or parses as one,
// datetime if every present value is a time or parses as a date,
// categorical if it has fewer distinct values than min(20, rows/2), and
// text otherwise. A column with no present values is text.
func Infer(names []string, rows [][]any) *Table {
	t := &Table{Columns: make([]Column, len(names)), Rows: make([][]any, len(rows))}
	for i := range rows {
		t.Rows[i] = make([]any, len(names))
	}

	for j, name := range names {
		raw := make([]any, len(rows))
		for i, row := range rows {
			if j < len(row) {
				raw[i] = canonical(row[j])
			}
		}
		kind, cells := inferColumn(raw)
		for i := range rows {
			t.Rows[i][j] = cells[i]
		}
		t.Columns[j] = Column{Name: name, Kind: kind, Distinct: countDistinct(cells)}
	}

	// Categorical needs the final distinct count and row total.
	for j := range t.Columns {
		c := &t.Columns[j]
		if c.Kind == schema.KindText && c.Distinct > 0 && isCategorical(c.Distinct, len(rows)) {
			c.Kind = schema.KindCategorical
		}
	}
	return t
}

func isCategorical(distinct, rows int) bool {
	limit := float64(maxCategories)
	if half := 0.5 * float64(rows); half < limit {
		limit = half
	}
	return float64(distinct) < limit
}

// canonical maps a raw value onto nil, float64, time.Time or string.
func canonical(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if IsMissing(x) {
			return nil
		}
		return strings.TrimSpace(x)
	case []byte:
		return canonical(string(x))
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		return canonical(float64(x))
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case time.Time:
		return x
	default:
		return nil
	}
}

func inferColumn(raw []any) (schema.Kind, []any) {
	if cells, ok := asNumbers(raw); ok {
		return schema.KindNumeric, cells
	}
	if cells, ok := asTimes(raw); ok {
		return schema.KindDatetime, cells
	}
	cells := make([]any, len(raw))
	for i, v := range raw {
		if v != nil {
			cells[i] = FormatValue(v)
		}
	}
	return schema.KindText, cells
}

func asNumbers(raw []any) ([]any, bool) {
	cells := make([]any, len(raw))
	present := false
	for i, v := range raw {
		switch x := v.(type) {
		case nil:
		case float64:
			cells[i], present = x, true
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, false
			}
			cells[i], present = f, true
		default:
			return nil, false
		}
	}
	return cells, present
}

func asTimes(raw []any) ([]any, bool) {
	cells := make([]any, len(raw))
	present := false
	for i, v := range raw {
		switch x := v.(type) {
		case nil:
		case time.Time:
			cells[i], present = x, true
		case string:
			tm, ok := ParseTime(x)
			if !ok {
				return nil, false
			}
			cells[i], present = tm, true
		default:
			return nil, false
		}
	}
	return cells, present
}

func countDistinct(cells []any) int {
	seen := make(map[any]struct{}, len(cells))
	for _, v := range cells {
		switch x := v.(type) {
		case nil:
			continue
		case time.Time:
			seen[x.UnixNano()] = struct{}{}
		default:
			seen[x] = struct{}{}
		}
	}
	return len(seen)
}
