// Package querysql renders a Query Plan as SQL text over the logical
// relation "data".
//
// Rendering is pure serialization. Plans are not checked against a schema
// here; builders guarantee the column invariant before a plan reaches
// Compile.
package querysql

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/roach88/askviz/internal/queryplan"
)

// Relation is the table name every rendered query reads from.
const Relation = "data"

// bareIdent matches aliases that need no quoting.
var bareIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Compile renders p as a single SQL statement:
//
//	SELECT <items> FROM data [WHERE ...] [GROUP BY ...] [ORDER BY ... ASC|DESC] [LIMIT n]
//
// Column references are double-quoted. Literals are inlined: the rendered
// text is meant for display and for an executor that runs it verbatim.
// An error is returned only for node types this package does not know.
func Compile(p queryplan.Plan) (string, error) {
	if len(p.Select) == 0 {
		return "", fmt.Errorf("cannot compile plan with empty select list")
	}

	items := make([]string, 0, len(p.Select))
	for _, item := range p.Select {
		sql, err := compileExpr(item.Expr)
		if err != nil {
			return "", fmt.Errorf("compile select: %w", err)
		}
		if item.Alias != "" {
			sql += " AS " + quoteAlias(item.Alias)
		}
		items = append(items, sql)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(items, ", "))
	b.WriteString(" FROM ")
	b.WriteString(Relation)

	if len(p.Filters) > 0 {
		var conds []string
		for _, pred := range p.Filters {
			sql, err := compilePredicate(pred)
			if err != nil {
				return "", fmt.Errorf("compile filter: %w", err)
			}
			conds = append(conds, sql)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	if len(p.GroupBy) > 0 {
		var keys []string
		for _, e := range p.GroupBy {
			sql, err := compileExpr(e)
			if err != nil {
				return "", fmt.Errorf("compile group by: %w", err)
			}
			keys = append(keys, sql)
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(keys, ", "))
	}

	if p.OrderBy != nil {
		sql, err := compileExpr(p.OrderBy.Expr)
		if err != nil {
			return "", fmt.Errorf("compile order by: %w", err)
		}
		dir := "ASC"
		if p.OrderBy.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", sql, dir)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)
	}

	return b.String(), nil
}

// compileExpr renders a select, group or order expression.
func compileExpr(e queryplan.Expr) (string, error) {
	switch x := e.(type) {
	case queryplan.Column:
		return QuoteIdent(x.Name), nil
	case *queryplan.Column:
		return QuoteIdent(x.Name), nil
	case queryplan.Star, *queryplan.Star:
		return "*", nil
	case queryplan.CountAll, *queryplan.CountAll:
		return "COUNT(*)", nil
	case queryplan.Aggregate:
		return compileAggregate(x)
	case *queryplan.Aggregate:
		return compileAggregate(*x)
	case queryplan.DateTrunc:
		return compileDateTrunc(x)
	case *queryplan.DateTrunc:
		return compileDateTrunc(*x)
	case queryplan.Ref:
		return quoteAlias(x.Alias), nil
	case *queryplan.Ref:
		return quoteAlias(x.Alias), nil
	case queryplan.Ordinal:
		return fmt.Sprintf("%d", x.Position), nil
	case *queryplan.Ordinal:
		return fmt.Sprintf("%d", x.Position), nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func compileAggregate(a queryplan.Aggregate) (string, error) {
	if a.Func == "" {
		return "", fmt.Errorf("aggregate over %q has no function", a.Column)
	}
	return fmt.Sprintf("%s(%s)", a.Func, QuoteIdent(a.Column)), nil
}

func compileDateTrunc(d queryplan.DateTrunc) (string, error) {
	if d.Period == "" {
		return "", fmt.Errorf("date truncation of %q has no period", d.Column)
	}
	return fmt.Sprintf("DATE_TRUNC(%s, %s)", QuoteString(string(d.Period)), QuoteIdent(d.Column)), nil
}

// compilePredicate renders one WHERE condition.
func compilePredicate(p queryplan.Predicate) (string, error) {
	switch c := p.(type) {
	case queryplan.Compare:
		return compileCompare(c)
	case *queryplan.Compare:
		return compileCompare(*c)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileCompare(c queryplan.Compare) (string, error) {
	switch c.Op {
	case queryplan.Eq, queryplan.Gt, queryplan.Lt:
	default:
		return "", fmt.Errorf("unsupported operator %q", c.Op)
	}
	lit, err := compileLiteral(c.Value)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", c.Column, err)
	}
	return fmt.Sprintf("%s %s %s", QuoteIdent(c.Column), c.Op, lit), nil
}

func compileLiteral(l queryplan.Literal) (string, error) {
	switch v := l.(type) {
	case queryplan.Number:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("non-finite number literal")
		}
		return v.String(), nil
	case queryplan.String:
		return QuoteString(string(v)), nil
	default:
		return "", fmt.Errorf("unsupported literal type: %T", l)
	}
}

// QuoteIdent double-quotes an identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString single-quotes a string literal, doubling embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteAlias leaves simple lower-case identifiers bare and quotes the rest.
func quoteAlias(alias string) string {
	if bareIdent.MatchString(alias) {
		return alias
	}
	return QuoteIdent(alias)
}
