package keywords

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/askviz/internal/normalize"
	"github.com/roach88/askviz/internal/schema"
	"github.com/roach88/askviz/internal/vocab"
)

// minFuzzyLen is the shortest token and column name considered for
// substring column matching.
const minFuzzyLen = 3

var (
	aggregateVerbs = vocab.NewSet("sum", "count", "average", "avg", "mean", "max", "min", "total")

	filterTriggers = vocab.NewSet("where", "filter", "only", "exclude", "include", "greater", "less", "than", "equal")

	comparators = vocab.Table[Operator]{
		{Terms: []string{"greater", "more", "higher", "above", "over"}, Result: OpGt},
		{Terms: []string{"less", "lower", "below", "under"}, Result: OpLt},
		{Terms: []string{"equal", "equals", "is"}, Result: OpEq},
	}

	sortTerms = vocab.Table[SortDirection]{
		{Terms: []string{"top", "highest"}, Result: SortDesc},
		{Terms: []string{"sort", "order", "arrange", "ranking", "rank", "bottom", "lowest"}, Result: SortAsc},
	}

	timeTerms = []string{
		"year", "month", "day", "date", "time", "period", "quarter",
		"weekly", "daily", "monthly", "yearly", "trend", "over time",
	}

	limitPattern = regexp.MustCompile(`\b(?:top|bottom|first|last|limit)\s+(\d+)`)
)

// Extract builds the keyword bag for a normalized question against a schema.
// It never fails; a question with no matches yields a bag whose fields are
// all empty or default.
func Extract(q normalize.Result, ix *schema.Index) Bag {
	bag := Bag{Text: q.Text}

	for _, token := range q.Tokens {
		bag.Columns = append(bag.Columns, matchColumns(token, ix)...)

		if aggregateVerbs.Has(token) {
			bag.AggregateVerbs = append(bag.AggregateVerbs, token)
		}

		// Later sort terms override earlier ones.
		if dir, ok := sortTerms.FirstToken(token); ok {
			bag.Sort = dir
		}
	}

	bag.Predicates = extractPredicates(q.Tokens, ix)
	bag.Limit = extractLimit(q.Text)
	bag.TimeRelated = vocab.ContainsAny(q.Text, timeTerms)

	return bag
}

// matchColumns returns the columns a token refers to. An exact
// case-insensitive name match wins outright; otherwise every column whose
// name contains the token, or is contained in it, matches, provided both
// are at least minFuzzyLen characters long.
//
// The substring fallback is deliberately loose and can pick unintended
// columns ("age" matches "average_wage").
func matchColumns(token string, ix *schema.Index) []string {
	if c, ok := ix.Lookup(token); ok {
		return []string{c.Name}
	}
	if utf8.RuneCountInString(token) < minFuzzyLen {
		return nil
	}

	var out []string
	for _, c := range ix.Columns() {
		name := strings.ToLower(c.Name)
		if utf8.RuneCountInString(name) < minFuzzyLen {
			continue
		}
		if strings.Contains(name, token) || strings.Contains(token, name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// extractPredicates scans for "<column> <comparator> <value>" windows that
// start after the first filter trigger word. The column token must name a
// column exactly (case-insensitive).
func extractPredicates(tokens []string, ix *schema.Index) []Predicate {
	var preds []Predicate
	triggered := false
	for i, token := range tokens {
		if filterTriggers.Has(token) {
			triggered = true
		}
		if !triggered || i+2 >= len(tokens) {
			continue
		}
		col, ok := ix.Lookup(token)
		if !ok {
			continue
		}
		op, ok := comparators.FirstToken(tokens[i+1])
		if !ok {
			continue
		}
		preds = append(preds, Predicate{Column: col.Name, Operator: op, Value: tokens[i+2]})
	}
	return preds
}

// extractLimit finds "top 5", "first 10", "limit 3" and similar phrases.
// Zero and out-of-range counts are ignored.
func extractLimit(text string) int {
	m := limitPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
