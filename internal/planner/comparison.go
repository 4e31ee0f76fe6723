package planner

import (
	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/schema"
)

// BuildComparison compares up to two dimensions from the question.
//
// Tiers, most specific first:
//   - two or more columns and a numeric metric outside them: group by both,
//     SUM(metric)
//   - two or more columns, no such metric: row counts of the first
//   - one column: row counts of that column
//   - no columns: a low-cardinality column paired with the first numeric
//     column, else that column's row counts, else SELECT *
//
// Every comparison plan is limited to ComparisonLimit rows, and plans whose
// second item is a row count are ordered by it descending.
func BuildComparison(bag keywords.Bag, ix *schema.Index) Result {
	var (
		plan     queryplan.Plan
		text     = "This query compares "
		fallback = FallbackNone
	)

	cols := columnsOf(bag, ix)
	switch {
	case len(cols) >= 2:
		c1, c2 := cols[0], cols[1]
		metric, ok := metricOutside(ix, c1, c2)
		if ok {
			plan.Select = []queryplan.SelectItem{
				{Expr: queryplan.Column{Name: c1}},
				{Expr: queryplan.Column{Name: c2}},
				totalOf(metric),
			}
			plan.GroupBy = []queryplan.Expr{queryplan.Column{Name: c1}, queryplan.Column{Name: c2}}
			text += c1 + " and " + c2 + " based on total " + metric
		} else {
			plan = countBy(c1)
			text += "the distribution of " + c1 + " values"
		}

	case len(cols) == 1:
		plan = countBy(cols[0])
		text += "the distribution of " + cols[0] + " values"

	default:
		cat, hasCat := firstGroupCandidate(ix)
		num, hasNum := ix.FirstOfKind(schema.KindNumeric)
		switch {
		case hasCat && hasNum:
			plan.Select = []queryplan.SelectItem{{Expr: queryplan.Column{Name: cat.Name}}, totalOf(num.Name)}
			plan.GroupBy = []queryplan.Expr{queryplan.Column{Name: cat.Name}}
			text += "different " + cat.Name + " values based on total " + num.Name
			fallback = FallbackSchemaPair
		case hasCat:
			plan = countBy(cat.Name)
			text += "the distribution of " + cat.Name + " values"
			fallback = FallbackSchemaDist
		default:
			plan = queryplan.SelectAll(0)
			text = "This query shows a sample of the data"
			fallback = FallbackSample
		}
	}

	if second, ok := plan.Item(2); ok {
		if _, isCount := second.Expr.(queryplan.CountAll); isCount {
			plan.OrderBy = &queryplan.Order{Expr: queryplan.Ordinal{Position: 2}, Desc: true}
		}
	}
	plan.Limit = ComparisonLimit

	return Result{Plan: plan, Explanation: text + ".", Fallback: fallback}
}

// metricOutside returns the first numeric schema column that is neither a
// nor b.
func metricOutside(ix *schema.Index, a, b string) (string, bool) {
	for _, c := range ix.OfKind(schema.KindNumeric) {
		if !containsFold([]string{a, b}, c.Name) {
			return c.Name, true
		}
	}
	return "", false
}

func totalOf(metric string) queryplan.SelectItem {
	return queryplan.SelectItem{
		Expr:  queryplan.Aggregate{Func: queryplan.Sum, Column: metric},
		Alias: metric + "_total",
	}
}

func countBy(col string) queryplan.Plan {
	return queryplan.Plan{
		Select: []queryplan.SelectItem{
			{Expr: queryplan.Column{Name: col}},
			{Expr: queryplan.CountAll{}, Alias: "count"},
		},
		GroupBy: []queryplan.Expr{queryplan.Column{Name: col}},
	}
}
