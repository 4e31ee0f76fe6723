package queryplan

import (
	"fmt"
	"math"

	"github.com/roach88/askviz/internal/schema"
)

// ValidationResult lists the ways a plan breaks the column invariant or is
// otherwise not renderable.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes each violation found, in traversal order.
	Problems []string
}

// Validate checks a plan against the Schema Index it was built for:
//  1. every referenced column exists (case-insensitive)
//  2. every Ref names a select-list alias
//  3. every Ordinal is within the select list
//  4. numeric literals are finite
//  5. the select list is not empty
//
// Validate is a pure function with no side effects.
func Validate(p Plan, ix *schema.Index) ValidationResult {
	v := &validator{
		ix:       ix,
		plan:     p,
		aliases:  make(map[string]bool),
		problems: []string{},
	}
	for _, a := range p.Aliases() {
		v.aliases[a] = true
	}
	v.validatePlan()

	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	ix       *schema.Index
	plan     Plan
	aliases  map[string]bool
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validatePlan() {
	if len(v.plan.Select) == 0 {
		v.addProblem("empty select list")
	}
	for _, item := range v.plan.Select {
		v.validateExpr(item.Expr, "select")
	}
	for _, pred := range v.plan.Filters {
		v.validatePredicate(pred)
	}
	for _, e := range v.plan.GroupBy {
		v.validateExpr(e, "group by")
	}
	if v.plan.OrderBy != nil {
		v.validateExpr(v.plan.OrderBy.Expr, "order by")
	}
	if v.plan.Limit < 0 {
		v.addProblem("negative limit %d", v.plan.Limit)
	}
}

func (v *validator) validateExpr(e Expr, clause string) {
	switch x := e.(type) {
	case Column:
		v.checkColumn(x.Name, clause)
	case *Column:
		v.checkColumn(x.Name, clause)
	case Aggregate:
		v.checkColumn(x.Column, clause)
	case *Aggregate:
		v.checkColumn(x.Column, clause)
	case DateTrunc:
		v.checkColumn(x.Column, clause)
	case *DateTrunc:
		v.checkColumn(x.Column, clause)
	case Star, *Star, CountAll, *CountAll:
	case Ref:
		v.checkAlias(x.Alias, clause)
	case *Ref:
		v.checkAlias(x.Alias, clause)
	case Ordinal:
		v.checkOrdinal(x.Position, clause)
	case *Ordinal:
		v.checkOrdinal(x.Position, clause)
	default:
		v.addProblem("%s: unknown expression type %T", clause, e)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch c := p.(type) {
	case Compare:
		v.validateCompare(c)
	case *Compare:
		v.validateCompare(*c)
	default:
		v.addProblem("where: unknown predicate type %T", p)
	}
}

func (v *validator) validateCompare(c Compare) {
	v.checkColumn(c.Column, "where")
	switch lit := c.Value.(type) {
	case Number:
		if math.IsNaN(float64(lit)) || math.IsInf(float64(lit), 0) {
			v.addProblem("where: non-finite literal for column %q", c.Column)
		}
	case String:
	default:
		v.addProblem("where: unknown literal type %T", c.Value)
	}
}

func (v *validator) checkColumn(name, clause string) {
	if !v.ix.Has(name) {
		v.addProblem("%s: column %q does not exist", clause, name)
	}
}

func (v *validator) checkAlias(alias, clause string) {
	if !v.aliases[alias] {
		v.addProblem("%s: alias %q is not in the select list", clause, alias)
	}
}

func (v *validator) checkOrdinal(pos int, clause string) {
	if _, ok := v.plan.Item(pos); !ok {
		v.addProblem("%s: position %d is outside the select list", clause, pos)
	}
}
