// Package schema provides the Schema Index: a read-only description of a
// tabular dataset's columns (name, kind, distinct-value count) plus its row
// count.
//
// An Index is an immutable snapshot. It is built once per dataset by the
// ingestion collaborator (or loaded from a file) and passed explicitly to
// every translation and encoding call. When the dataset changes the caller
// builds a new Index; nothing here detects staleness.
//
// Column lookup is case-insensitive and always resolves to the column's
// canonical (schema) casing. A nil *Index behaves as an empty schema.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
	KindText        Kind = "text"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindNumeric, KindCategorical, KindDatetime, KindText}

// ParseKind converts a kind label to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Kinds {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown column kind %q: must be one of %v", s, Kinds)
}

// ColumnInfo describes a single column.
type ColumnInfo struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Distinct int    `json:"distinct" yaml:"distinct"`
}

// IsNumeric reports whether the column is numeric.
func (c ColumnInfo) IsNumeric() bool { return c.Kind == KindNumeric }

// Index is an immutable, ordered set of column descriptors.
type Index struct {
	columns []ColumnInfo
	byLower map[string]int
	rows    int
}

// New builds an Index from columns in schema order. The slice is copied.
// When two columns differ only in case, lookups resolve to the first.
func New(rows int, columns ...ColumnInfo) *Index {
	if rows < 0 {
		rows = 0
	}
	ix := &Index{
		columns: make([]ColumnInfo, len(columns)),
		byLower: make(map[string]int, len(columns)),
		rows:    rows,
	}
	copy(ix.columns, columns)
	for i, c := range ix.columns {
		key := strings.ToLower(c.Name)
		if _, dup := ix.byLower[key]; !dup {
			ix.byLower[key] = i
		}
	}
	return ix
}

// Columns returns a copy of the columns in schema order.
func (ix *Index) Columns() []ColumnInfo {
	if ix == nil {
		return nil
	}
	out := make([]ColumnInfo, len(ix.columns))
	copy(out, ix.columns)
	return out
}

// Len returns the number of columns.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.columns)
}

// RowCount returns the number of rows in the described dataset.
func (ix *Index) RowCount() int {
	if ix == nil {
		return 0
	}
	return ix.rows
}

// Column returns the column at position i in schema order.
func (ix *Index) Column(i int) ColumnInfo {
	return ix.columns[i]
}

// Lookup finds a column by case-insensitive name.
func (ix *Index) Lookup(name string) (ColumnInfo, bool) {
	if ix == nil {
		return ColumnInfo{}, false
	}
	i, ok := ix.byLower[strings.ToLower(name)]
	if !ok {
		return ColumnInfo{}, false
	}
	return ix.columns[i], true
}

// Has reports whether a column with the given name exists (case-insensitive).
func (ix *Index) Has(name string) bool {
	_, ok := ix.Lookup(name)
	return ok
}

// Canonical returns the schema casing of name, or name unchanged when no
// such column exists.
func (ix *Index) Canonical(name string) string {
	if c, ok := ix.Lookup(name); ok {
		return c.Name
	}
	return name
}

// IsNumeric reports whether name refers to a numeric column.
func (ix *Index) IsNumeric(name string) bool {
	c, ok := ix.Lookup(name)
	return ok && c.IsNumeric()
}

// OfKind returns the columns of the given kind in schema order.
func (ix *Index) OfKind(kind Kind) []ColumnInfo {
	if ix == nil {
		return nil
	}
	var out []ColumnInfo
	for _, c := range ix.columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstOfKind returns the first column of the given kind in schema order.
func (ix *Index) FirstOfKind(kind Kind) (ColumnInfo, bool) {
	if ix == nil {
		return ColumnInfo{}, false
	}
	for _, c := range ix.columns {
		if c.Kind == kind {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// IsLowCardinality reports whether c has fewer distinct values than
// min(20, 10% of the row count). Such columns make usable implicit group keys.
func (ix *Index) IsLowCardinality(c ColumnInfo) bool {
	limit := 0.1 * float64(ix.RowCount())
	if limit > 20 {
		limit = 20
	}
	return float64(c.Distinct) < limit
}

// temporalMarkers are the name fragments that make a column look like a date.
var temporalMarkers = []string{"date", "time", "year", "month", "day"}

// LooksTemporal reports whether a column name suggests a date or time value.
func LooksTemporal(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range temporalMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
