// Package planner builds a Query Plan and an English explanation for a
// classified question. There is one builder per intent.
//
// Builders never fail. Every branch that cannot find the columns it wants
// falls back to a simpler plan, ending at worst in
//
//	SELECT * FROM data LIMIT 100
//
// Every emitted column reference uses the column's canonical schema casing.
package planner

import (
	"strings"

	"github.com/roach88/askviz/internal/intent"
	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/schema"
)

const (
	// SampleLimit bounds default, sample and trend plans.
	SampleLimit = 100

	// ComparisonLimit bounds every comparison plan.
	ComparisonLimit = 10

	defaultExplanation = "Generated a default query to show sample data."
)

// Fallback names the tier a builder settled on when it could not use the
// columns from the question. FallbackNone means the primary branch applied.
type Fallback string

const (
	FallbackNone       Fallback = ""
	FallbackDefault    Fallback = "default"
	FallbackSchemaSum  Fallback = "schema-sum"
	FallbackCountRows  Fallback = "count-rows"
	FallbackSchemaPair Fallback = "schema-pair"
	FallbackSchemaDist Fallback = "schema-distribution"
	FallbackSample     Fallback = "sample"
)

// Result is a built plan with its explanation.
type Result struct {
	Plan        queryplan.Plan
	Explanation string
	Fallback    Fallback
}

// Default returns the sample plan used when a question carries no signal.
func Default() Result {
	return Result{
		Plan:        queryplan.SelectAll(SampleLimit),
		Explanation: defaultExplanation,
		Fallback:    FallbackDefault,
	}
}

// Build dispatches to the builder for in.
func Build(in intent.Intent, bag keywords.Bag, ix *schema.Index) Result {
	switch in {
	case intent.Filter:
		return BuildFilter(bag, ix)
	case intent.Comparison:
		return BuildComparison(bag, ix)
	case intent.Trend:
		return BuildTrend(bag, ix)
	default:
		return BuildAggregate(bag, ix)
	}
}

// aggFunc maps an aggregate verb to its SQL function. An empty verb means
// no verb was given and defaults to SUM.
func aggFunc(verb string) queryplan.AggFunc {
	switch verb {
	case "", "total", "sum":
		return queryplan.Sum
	case "average", "avg", "mean":
		return queryplan.Avg
	default:
		return queryplan.AggFunc(strings.ToUpper(verb))
	}
}

// aggAlias is the select alias of an aggregate: "sum_revenue".
func aggAlias(fn queryplan.AggFunc, column string) string {
	return strings.ToLower(string(fn)) + "_" + column
}

// columnsOf resolves bag columns to canonical casing, de-duplicated, and
// drops anything the schema does not know.
func columnsOf(bag keywords.Bag, ix *schema.Index) []string {
	var out []string
	for _, c := range bag.UniqueColumns() {
		if col, ok := ix.Lookup(c); ok {
			out = append(out, col.Name)
		}
	}
	return out
}

// firstGroupCandidate returns the first non-numeric column with low
// cardinality, the implicit group key used when a question names no columns.
func firstGroupCandidate(ix *schema.Index) (schema.ColumnInfo, bool) {
	for _, c := range ix.Columns() {
		if !c.IsNumeric() && ix.IsLowCardinality(c) {
			return c, true
		}
	}
	return schema.ColumnInfo{}, false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// sentence assembles an explanation of the form
// "This query <clause> and <clause> with a limit of N rows."
type sentence struct {
	clauses []string
	suffix  string
}

func (s *sentence) add(clause string) { s.clauses = append(s.clauses, clause) }

func (s *sentence) reset(clause string) { s.clauses = []string{clause} }

func (s sentence) String() string {
	return "This query " + strings.Join(s.clauses, " and ") + s.suffix + "."
}
