// Package keywords extracts schema-relevant signals from a normalized
// question: referenced columns, aggregate verbs, filter predicates, sort
// direction, row limit and whether the question is about time.
package keywords

import "strings"

// SortDirection is the ordering requested by a question.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// String returns "none", "asc" or "desc".
func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Operator is a filter comparison operator.
type Operator string

const (
	OpEq Operator = "="
	OpGt Operator = ">"
	OpLt Operator = "<"
)

// Phrase returns the English wording of the operator used in explanations.
func (o Operator) Phrase() string {
	switch o {
	case OpEq:
		return "equals"
	case OpGt:
		return "greater than"
	case OpLt:
		return "less than"
	default:
		return string(o)
	}
}

// Predicate is a filter condition captured from a "<column> <comparator> <value>" window.
type Predicate struct {
	Column   string
	Operator Operator
	Value    string // raw token, not yet coerced
}

// Bag is the structured keyword extraction of one question. It has no
// identity beyond the translation call that built it.
type Bag struct {
	// Text is the normalized question text the bag was extracted from.
	Text string

	// Columns holds column matches in order of appearance, in schema casing.
	// A token may match several columns and a column may appear more than
	// once; consumers de-duplicate with UniqueColumns.
	Columns []string

	// AggregateVerbs are the raw tokens found in the aggregate vocabulary.
	AggregateVerbs []string

	Predicates []Predicate
	Sort       SortDirection

	// Limit is the requested row limit; 0 means no limit was requested.
	Limit int

	TimeRelated bool
}

// IsEmpty reports whether the bag carries no signal at all.
func (b Bag) IsEmpty() bool {
	return len(b.Columns) == 0 &&
		len(b.AggregateVerbs) == 0 &&
		len(b.Predicates) == 0 &&
		b.Sort == SortNone &&
		b.Limit == 0 &&
		!b.TimeRelated
}

// UniqueColumns returns Columns with case-insensitive duplicates removed,
// keeping first-appearance order.
func (b Bag) UniqueColumns() []string {
	seen := make(map[string]bool, len(b.Columns))
	var out []string
	for _, c := range b.Columns {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// FirstVerb returns the first aggregate verb, or "" when none was found.
func (b Bag) FirstVerb() string {
	if len(b.AggregateVerbs) == 0 {
		return ""
	}
	return b.AggregateVerbs[0]
}
