package planner

import (
	"fmt"
	"strings"

	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/schema"
)

// BuildAggregate groups by the non-numeric columns of the question and
// aggregates its numeric columns with the first aggregate verb (SUM when
// none). With no columns it sums the first numeric schema column, grouped
// by a low-cardinality column when one exists, or counts rows.
//
// A requested sort orders by the first aggregate; a requested limit is
// appended verbatim.
func BuildAggregate(bag keywords.Bag, ix *schema.Index) Result {
	var (
		plan     queryplan.Plan
		text     sentence
		fallback = FallbackNone
	)

	cols := columnsOf(bag, ix)
	if len(cols) > 0 {
		var groups []string
		for _, c := range cols {
			if !ix.IsNumeric(c) {
				groups = append(groups, c)
			}
		}
		// Aggregated columns follow schema order, not question order.
		var numeric []string
		for _, c := range ix.Columns() {
			if c.IsNumeric() && containsFold(cols, c.Name) {
				numeric = append(numeric, c.Name)
			}
		}

		for _, g := range groups {
			plan.Select = append(plan.Select, queryplan.SelectItem{Expr: queryplan.Column{Name: g}})
			plan.GroupBy = append(plan.GroupBy, queryplan.Column{Name: g})
		}
		if len(groups) > 0 {
			text.add("groups data by " + strings.Join(groups, ", "))
		}

		fn := aggFunc(bag.FirstVerb())
		for _, n := range numeric {
			plan.Select = append(plan.Select, queryplan.SelectItem{
				Expr:  queryplan.Aggregate{Func: fn, Column: n},
				Alias: aggAlias(fn, n),
			})
			text.add(fmt.Sprintf("calculates the %s of %s", strings.ToLower(string(fn)), n))
		}
	}

	if len(plan.Select) == 0 {
		plan, text, fallback = aggregateFromSchema(ix)
	}

	if bag.Sort != keywords.SortNone {
		if alias, ok := firstAggregateAlias(plan); ok {
			desc := bag.Sort != keywords.SortAsc
			plan.OrderBy = &queryplan.Order{Expr: queryplan.Ref{Alias: alias}, Desc: desc}
			text.add("sorts results " + direction(desc))
		}
	}

	if bag.Limit > 0 {
		plan.Limit = bag.Limit
		text.suffix = fmt.Sprintf(" with a limit of %d rows", bag.Limit)
	}

	return Result{Plan: plan, Explanation: text.String(), Fallback: fallback}
}

// aggregateFromSchema is the no-columns branch of BuildAggregate.
func aggregateFromSchema(ix *schema.Index) (queryplan.Plan, sentence, Fallback) {
	var (
		plan queryplan.Plan
		text sentence
	)

	num, ok := ix.FirstOfKind(schema.KindNumeric)
	if !ok {
		plan.Select = []queryplan.SelectItem{{Expr: queryplan.CountAll{}, Alias: "row_count"}}
		text.reset("counts the number of rows")
		return plan, text, FallbackCountRows
	}

	sum := queryplan.SelectItem{
		Expr:  queryplan.Aggregate{Func: queryplan.Sum, Column: num.Name},
		Alias: aggAlias(queryplan.Sum, num.Name),
	}
	if g, ok := firstGroupCandidate(ix); ok {
		plan.Select = []queryplan.SelectItem{{Expr: queryplan.Column{Name: g.Name}}, sum}
		plan.GroupBy = []queryplan.Expr{queryplan.Column{Name: g.Name}}
		text.reset("groups data by " + g.Name)
		text.add("calculates the sum of " + num.Name)
	} else {
		plan.Select = []queryplan.SelectItem{sum}
		text.reset("calculates the sum of " + num.Name)
	}
	return plan, text, FallbackSchemaSum
}

// firstAggregateAlias returns the alias of the first aggregate or row count
// in the select list.
func firstAggregateAlias(plan queryplan.Plan) (string, bool) {
	for _, item := range plan.Select {
		switch item.Expr.(type) {
		case queryplan.Aggregate, queryplan.CountAll:
			return item.Alias, true
		}
	}
	return "", false
}

func direction(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}
