package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/schema"
)

// BuildFilter selects the question's columns (or every column) and applies
// its predicates AND-combined. Values compared against numeric columns are
// coerced to numbers when they parse; everything else is a string literal.
// A requested sort orders by the first selected column, or the first schema
// column when none was selected.
func BuildFilter(bag keywords.Bag, ix *schema.Index) Result {
	var plan queryplan.Plan

	cols := columnsOf(bag, ix)
	for _, c := range cols {
		plan.Select = append(plan.Select, queryplan.SelectItem{Expr: queryplan.Column{Name: c}})
	}
	if len(plan.Select) == 0 {
		plan.Select = []queryplan.SelectItem{{Expr: queryplan.Star{}}}
	}

	text := "This query filters the data"

	var conds []string
	for _, p := range bag.Predicates {
		col, ok := ix.Lookup(p.Column)
		if !ok {
			continue
		}
		lit := literalFor(col, p.Value)
		plan.Filters = append(plan.Filters, queryplan.Compare{
			Column: col.Name,
			Op:     queryplan.Operator(p.Operator),
			Value:  lit,
		})
		conds = append(conds, fmt.Sprintf("where %s is %s %s", col.Name, p.Operator.Phrase(), literalText(lit)))
	}
	if len(conds) > 0 {
		text += " " + strings.Join(conds, " and ")
	}

	if bag.Sort != keywords.SortNone {
		sortCol := ""
		if len(cols) > 0 {
			sortCol = cols[0]
		} else if ix.Len() > 0 {
			sortCol = ix.Column(0).Name
		}
		if sortCol != "" {
			desc := bag.Sort == keywords.SortDesc
			plan.OrderBy = &queryplan.Order{Expr: queryplan.Column{Name: sortCol}, Desc: desc}
			text += fmt.Sprintf(" and sorts by %s %s", sortCol, direction(desc))
		}
	}

	if bag.Limit > 0 {
		plan.Limit = bag.Limit
		text += fmt.Sprintf(" with a limit of %d rows", bag.Limit)
	}

	return Result{Plan: plan, Explanation: text + "."}
}

// literalFor coerces a raw predicate value for col. Only finite numbers are
// accepted for numeric columns; "inf" and "nan" stay strings.
func literalFor(col schema.ColumnInfo, raw string) queryplan.Literal {
	if col.IsNumeric() {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return queryplan.Number(f)
		}
	}
	return queryplan.String(raw)
}

func literalText(lit queryplan.Literal) string {
	switch v := lit.(type) {
	case queryplan.Number:
		return v.String()
	case queryplan.String:
		return string(v)
	}
	return ""
}
