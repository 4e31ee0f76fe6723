package queryplan

import "github.com/roach88/askviz/internal/schema"

// ResultShape estimates the Schema Index of the table p yields when run
// against a dataset described by ix. Chart selection can then run before,
// or without, executing the query.
//
// Column kinds follow the expression: source columns keep their kind,
// aggregates and COUNT(*) are numeric, DateTrunc is datetime. The row
// count is the product of group-key distinct counts for grouped plans, 1
// for ungrouped aggregates and the source row count otherwise, capped by
// the source rows and by Limit. Filters are assumed to keep every row.
func ResultShape(p Plan, ix *schema.Index) *schema.Index {
	rows := estimateRows(p, ix)

	var cols []schema.ColumnInfo
	for _, item := range p.Select {
		if isStar(item.Expr) {
			for _, c := range ix.Columns() {
				cols = append(cols, capDistinct(c, rows))
			}
			continue
		}
		c := outputColumn(p, item, ix)
		cols = append(cols, capDistinct(c, rows))
	}
	return schema.New(rows, cols...)
}

func estimateRows(p Plan, ix *schema.Index) int {
	source := ix.RowCount()
	rows := source

	switch {
	case len(p.GroupBy) > 0:
		rows = 1
		for _, e := range p.GroupBy {
			d := groupDistinct(p, e, ix)
			if d <= 0 || rows*d > source {
				rows = source
				break
			}
			rows *= d
		}
	case hasAggregate(p):
		rows = 1
	}

	if p.Limit > 0 && rows > p.Limit {
		rows = p.Limit
	}
	return rows
}

// groupDistinct returns the distinct count of a group key, 0 when unknown.
// Ref and Ordinal keys resolve through the select list.
func groupDistinct(p Plan, e Expr, ix *schema.Index) int {
	switch x := e.(type) {
	case Ref:
		return aliasDistinct(p, x.Alias, ix)
	case *Ref:
		return aliasDistinct(p, x.Alias, ix)
	case Ordinal:
		return positionDistinct(p, x.Position, ix)
	case *Ordinal:
		return positionDistinct(p, x.Position, ix)
	}
	return exprDistinct(e, ix)
}

func aliasDistinct(p Plan, alias string, ix *schema.Index) int {
	for _, item := range p.Select {
		if item.Alias == alias {
			return exprDistinct(item.Expr, ix)
		}
	}
	return 0
}

func positionDistinct(p Plan, pos int, ix *schema.Index) int {
	item, ok := p.Item(pos)
	if !ok {
		return 0
	}
	return exprDistinct(item.Expr, ix)
}

func exprDistinct(e Expr, ix *schema.Index) int {
	switch x := e.(type) {
	case DateTrunc:
		return sourceDistinct(x.Column, ix)
	case *DateTrunc:
		return sourceDistinct(x.Column, ix)
	}
	if name, ok := sourceColumn(e); ok {
		return sourceDistinct(name, ix)
	}
	return 0
}

func outputColumn(p Plan, item SelectItem, ix *schema.Index) schema.ColumnInfo {
	out := schema.ColumnInfo{Name: item.Alias, Kind: schema.KindText}

	switch x := item.Expr.(type) {
	case Aggregate, *Aggregate, CountAll, *CountAll:
		out.Kind = schema.KindNumeric
		out.Distinct = estimateRows(p, ix)
	case DateTrunc:
		out.Kind = schema.KindDatetime
		out.Distinct = sourceDistinct(x.Column, ix)
	case *DateTrunc:
		out.Kind = schema.KindDatetime
		out.Distinct = sourceDistinct(x.Column, ix)
	default:
		if name, ok := sourceColumn(item.Expr); ok {
			if c, found := ix.Lookup(name); found {
				out.Kind, out.Distinct = c.Kind, c.Distinct
				if out.Name == "" {
					out.Name = c.Name
				}
			}
		}
	}

	if out.Name == "" {
		out.Name = defaultName(item.Expr)
	}
	return out
}

func sourceDistinct(name string, ix *schema.Index) int {
	c, _ := ix.Lookup(name)
	return c.Distinct
}

func sourceColumn(e Expr) (string, bool) {
	switch x := e.(type) {
	case Column:
		return x.Name, true
	case *Column:
		return x.Name, true
	}
	return "", false
}

// defaultName is the column name an engine gives an unaliased expression.
func defaultName(e Expr) string {
	switch x := e.(type) {
	case Column:
		return x.Name
	case *Column:
		return x.Name
	case CountAll, *CountAll:
		return "COUNT(*)"
	case Aggregate:
		return string(x.Func) + "(" + x.Column + ")"
	case *Aggregate:
		return string(x.Func) + "(" + x.Column + ")"
	case DateTrunc:
		return x.Column
	case *DateTrunc:
		return x.Column
	}
	return "?column?"
}

func hasAggregate(p Plan) bool {
	for _, item := range p.Select {
		switch item.Expr.(type) {
		case Aggregate, *Aggregate, CountAll, *CountAll:
			return true
		}
	}
	return false
}

func isStar(e Expr) bool {
	switch e.(type) {
	case Star, *Star:
		return true
	}
	return false
}

func capDistinct(c schema.ColumnInfo, rows int) schema.ColumnInfo {
	if c.Distinct > rows {
		c.Distinct = rows
	}
	return c
}
