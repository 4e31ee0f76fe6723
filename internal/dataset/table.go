// Package dataset holds tabular data in memory: CSV ingestion, column-name
// normalization and kind inference, and the Schema Index of a table.
//
// Cell values are typed by column kind: float64 for numeric columns,
// time.Time for datetime columns, string otherwise, and nil for a missing
// value. The executor returns its results as Tables too, so source datasets
// and query results share one representation.
package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/askviz/internal/schema"
)

// Column describes one column of a Table.
type Column struct {
	Name     string      `json:"name"`
	Kind     schema.Kind `json:"kind"`
	Distinct int         `json:"distinct"`
}

// Table is an ordered set of named, typed columns and their rows.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the Schema Index describing t.
func (t *Table) Index() *schema.Index {
	if t == nil {
		return schema.New(0)
	}
	cols := make([]schema.ColumnInfo, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = schema.ColumnInfo{Name: c.Name, Kind: c.Kind, Distinct: c.Distinct}
	}
	return schema.New(len(t.Rows), cols...)
}

// ColumnIndex returns the position of the column called name,
// case-insensitive.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// Head returns a table holding the first n rows of t. Column descriptors
// are recomputed for the shorter table.
func (t *Table) Head(n int) *Table {
	if n >= len(t.Rows) {
		return t
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return Infer(names, t.Rows[:n])
}

// Records returns every row formatted as text, the header first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	out = append(out, header)
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = FormatValue(v)
		}
		out = append(out, rec)
	}
	return out
}

// FormatValue renders a cell as text. Dates without a time of day print as
// 2006-01-02; nil prints as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return formatTime(x)
	case string:
		return x
	default:
		return ""
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

// tableJSON is the wire form of a Table: numbers stay numbers, dates are
// formatted, missing values are null.
type tableJSON struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...]]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Columns: t.Columns, Rows: make([][]any, len(t.Rows))}
	if out.Columns == nil {
		out.Columns = []Column{}
	}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case time.Time:
				cells[j] = formatTime(x)
			default:
				cells[j] = x
			}
		}
		out.Rows[i] = cells
	}
	return json.Marshal(out)
}
