package queryplan

import (
	"strconv"
	"strings"
)

// Expr is an expression that can appear in a select list, GROUP BY or
// ORDER BY.
//
// Expr types:
//   - Column: a reference to a source column
//   - Star: every source column
//   - CountAll: COUNT(*)
//   - Aggregate: an aggregate function applied to a column
//   - DateTrunc: a column truncated to a calendar period
//   - Ref: a reference to a select-list alias
//   - Ordinal: a 1-based select-list position
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Predicate is a filter condition. A Plan AND-combines its predicates.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Literal is a constant compared against in a Predicate.
type Literal interface {
	literalNode() // Marker method - seals interface to this package
}

// Column references a source column by its canonical schema name.
type Column struct {
	Name string
}

func (Column) exprNode() {}

// Star selects every column of the relation.
type Star struct{}

func (Star) exprNode() {}

// CountAll counts rows.
type CountAll struct{}

func (CountAll) exprNode() {}

// AggFunc is an SQL aggregate function name, upper case.
type AggFunc string

const (
	Sum   AggFunc = "SUM"
	Avg   AggFunc = "AVG"
	Count AggFunc = "COUNT"
	Max   AggFunc = "MAX"
	Min   AggFunc = "MIN"
)

// Aggregate applies Func to a source column.
type Aggregate struct {
	Func   AggFunc
	Column string
}

func (Aggregate) exprNode() {}

// Period is a calendar bucket for DateTrunc.
type Period string

const (
	Day   Period = "day"
	Month Period = "month"
	Year  Period = "year"
)

// DateTrunc truncates a source column to the start of its Period.
type DateTrunc struct {
	Period Period
	Column string
}

func (DateTrunc) exprNode() {}

// Ref references a select-list item by alias.
type Ref struct {
	Alias string
}

func (Ref) exprNode() {}

// Ordinal references a select-list item by 1-based position.
type Ordinal struct {
	Position int
}

func (Ordinal) exprNode() {}

// Operator is a comparison operator.
type Operator string

const (
	Eq Operator = "="
	Gt Operator = ">"
	Lt Operator = "<"
)

// Compare is a "<column> <op> <literal>" predicate.
type Compare struct {
	Column string
	Op     Operator
	Value  Literal
}

func (Compare) predicateNode() {}

// Number is a numeric literal.
type Number float64

func (Number) literalNode() {}

// String is a string literal.
type String string

func (String) literalNode() {}

// SelectItem is one entry of the select list. Alias is empty for bare
// column references and Star.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// Order is the ORDER BY clause.
type Order struct {
	Expr Expr
	Desc bool
}

// Plan is a single select/filter/group/sort/limit operation.
//
// Semantics:
//
//	SELECT <Select> FROM data [WHERE <Filters AND-ed>] [GROUP BY <GroupBy>]
//	[ORDER BY <OrderBy>] [LIMIT <Limit>]
type Plan struct {
	Select  []SelectItem
	GroupBy []Expr
	Filters []Predicate
	OrderBy *Order // nil = unordered
	Limit   int    // 0 = no limit
}

// SelectAll returns "SELECT * FROM data LIMIT limit".
func SelectAll(limit int) Plan {
	return Plan{
		Select: []SelectItem{{Expr: Star{}}},
		Limit:  limit,
	}
}

// Item returns the select item at 1-based position pos.
func (p Plan) Item(pos int) (SelectItem, bool) {
	if pos < 1 || pos > len(p.Select) {
		return SelectItem{}, false
	}
	return p.Select[pos-1], true
}

// Aliases returns the non-empty select-list aliases in order.
func (p Plan) Aliases() []string {
	var out []string
	for _, item := range p.Select {
		if item.Alias != "" {
			out = append(out, item.Alias)
		}
	}
	return out
}

// Columns returns every source column the plan references, in the order
// select list, filters, group by, order by. Duplicates are kept.
func (p Plan) Columns() []string {
	var out []string
	for _, item := range p.Select {
		out = appendExprColumns(out, item.Expr)
	}
	for _, pred := range p.Filters {
		switch c := pred.(type) {
		case Compare:
			out = append(out, c.Column)
		case *Compare:
			out = append(out, c.Column)
		}
	}
	for _, e := range p.GroupBy {
		out = appendExprColumns(out, e)
	}
	if p.OrderBy != nil {
		out = appendExprColumns(out, p.OrderBy.Expr)
	}
	return out
}

func appendExprColumns(out []string, e Expr) []string {
	switch x := e.(type) {
	case Column:
		return append(out, x.Name)
	case *Column:
		return append(out, x.Name)
	case Aggregate:
		return append(out, x.Column)
	case *Aggregate:
		return append(out, x.Column)
	case DateTrunc:
		return append(out, x.Column)
	case *DateTrunc:
		return append(out, x.Column)
	}
	return out
}

// String renders the number the way it appears in SQL and explanations:
// shortest round-trip form, always with a decimal point ("1000.0", "2.5").
func (n Number) String() string {
	s := strconv.FormatFloat(float64(n), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
