package executor

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// checkColumns reports the first column reference in query that names
// neither a column of the data relation nor a select alias. SQLite reads an
// unknown double-quoted identifier as a string literal, so without this
// check a missing column yields wrong rows instead of an error.
//
// Statements the PostgreSQL grammar rejects are left to SQLite.
func (e *Executor) checkColumns(query string) error {
	result, err := pg_query.Parse(query)
	if err != nil {
		return nil
	}

	known := make(map[string]bool, len(e.table.Columns))
	for _, c := range e.table.Columns {
		known[strings.ToLower(c.Name)] = true
	}

	for _, stmt := range result.Stmts {
		sel := stmt.Stmt.GetSelectStmt()
		if sel == nil {
			continue
		}
		for _, target := range sel.TargetList {
			if rt := target.GetResTarget(); rt != nil && rt.Name != "" {
				known[strings.ToLower(rt.Name)] = true
			}
		}

		var refs []string
		collectColumnRefs(sel, &refs)
		for _, ref := range refs {
			if !known[strings.ToLower(ref)] {
				return fmt.Errorf("no such column: %s", ref)
			}
		}
	}
	return nil
}

// collectColumnRefs appends the column names referenced by a SELECT.
func collectColumnRefs(sel *pg_query.SelectStmt, refs *[]string) {
	for _, target := range sel.TargetList {
		collectExprRefs(target, refs)
	}
	collectExprRefs(sel.WhereClause, refs)
	for _, g := range sel.GroupClause {
		collectExprRefs(g, refs)
	}
	collectExprRefs(sel.HavingClause, refs)
	for _, s := range sel.SortClause {
		collectExprRefs(s, refs)
	}
}

func collectExprRefs(node *pg_query.Node, refs *[]string) {
	if node == nil {
		return
	}

	switch n := node.Node.(type) {
	case *pg_query.Node_ColumnRef:
		// Qualified references use the last field; * has no name.
		fields := n.ColumnRef.Fields
		if len(fields) == 0 {
			return
		}
		if s := fields[len(fields)-1].GetString_(); s != nil {
			*refs = append(*refs, s.Sval)
		}
	case *pg_query.Node_ResTarget:
		collectExprRefs(n.ResTarget.Val, refs)
	case *pg_query.Node_FuncCall:
		for _, arg := range n.FuncCall.Args {
			collectExprRefs(arg, refs)
		}
	case *pg_query.Node_AExpr:
		collectExprRefs(n.AExpr.Lexpr, refs)
		collectExprRefs(n.AExpr.Rexpr, refs)
	case *pg_query.Node_BoolExpr:
		for _, arg := range n.BoolExpr.Args {
			collectExprRefs(arg, refs)
		}
	case *pg_query.Node_TypeCast:
		collectExprRefs(n.TypeCast.Arg, refs)
	case *pg_query.Node_SortBy:
		collectExprRefs(n.SortBy.Node, refs)
	case *pg_query.Node_NullTest:
		collectExprRefs(n.NullTest.Arg, refs)
	}
}
