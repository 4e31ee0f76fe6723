package planner

import (
	"fmt"
	"strings"

	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/schema"
)

// periodRules are checked in order; the first whose name occurs in the time
// column's name, or whose adverb occurs in the question, selects the bucket.
var periodRules = []struct {
	period queryplan.Period
	adverb string
}{
	{queryplan.Month, "monthly"},
	{queryplan.Year, "yearly"},
	{queryplan.Day, "daily"},
}

// BuildTrend buckets a time column by period and aggregates a metric over
// the buckets, ordered ascending by period and limited to SampleLimit rows.
//
// The time column is the first datetime column, else the first column whose
// name looks temporal, else the first column. The metric is the first
// numeric column from the question, else the first numeric schema column.
func BuildTrend(bag keywords.Bag, ix *schema.Index) Result {
	timeCol, hasTime := trendTimeColumn(ix)
	metric, hasMetric := trendMetric(bag, ix)
	if !hasTime || !hasMetric {
		return Result{
			Plan:        queryplan.SelectAll(SampleLimit),
			Explanation: "This query shows a sample of the data since no time or metric columns were identified.",
			Fallback:    FallbackSample,
		}
	}

	period := trendPeriod(timeCol, bag.Text)
	bucket := string(period)
	fn := aggFunc(bag.FirstVerb())

	plan := queryplan.Plan{
		Select: []queryplan.SelectItem{
			{Expr: queryplan.DateTrunc{Period: period, Column: timeCol}, Alias: bucket},
			{Expr: queryplan.Aggregate{Func: fn, Column: metric}, Alias: aggAlias(fn, metric)},
		},
		GroupBy: []queryplan.Expr{queryplan.Ref{Alias: bucket}},
		OrderBy: &queryplan.Order{Expr: queryplan.Ref{Alias: bucket}},
		Limit:   SampleLimit,
	}

	text := fmt.Sprintf("This query analyzes trends of %s by %s using %s.",
		metric, bucket, strings.ToLower(string(fn)))
	return Result{Plan: plan, Explanation: text}
}

func trendTimeColumn(ix *schema.Index) (string, bool) {
	if c, ok := ix.FirstOfKind(schema.KindDatetime); ok {
		return c.Name, true
	}
	for _, c := range ix.Columns() {
		if schema.LooksTemporal(c.Name) {
			return c.Name, true
		}
	}
	if ix.Len() > 0 {
		return ix.Column(0).Name, true
	}
	return "", false
}

func trendMetric(bag keywords.Bag, ix *schema.Index) (string, bool) {
	for _, c := range columnsOf(bag, ix) {
		if ix.IsNumeric(c) {
			return c, true
		}
	}
	if c, ok := ix.FirstOfKind(schema.KindNumeric); ok {
		return c.Name, true
	}
	return "", false
}

func trendPeriod(timeCol, text string) queryplan.Period {
	name := strings.ToLower(timeCol)
	for _, r := range periodRules {
		if strings.Contains(name, string(r.period)) || strings.Contains(text, r.adverb) {
			return r.period
		}
	}
	return queryplan.Month
}
