// Package queryplan provides the engine-agnostic Query Plan: a single
// select/filter/group/sort/limit operation over the logical relation "data".
//
// ARCHITECTURE:
//
// The plan sits between the intent builders and the SQL renderer:
//
//	[planner] → [Query Plan] → [querysql]
//
// A Plan is produced once by a builder and consumed once by the renderer;
// nothing mutates it in between.
//
// SEALED INTERFACES:
//
// Expr, Predicate and Literal are sealed with marker methods so the renderer
// can switch over every node type:
//
//	switch e := expr.(type) {
//	case Column:
//	    // "name"
//	case Aggregate:
//	    // SUM("name")
//	default:
//	    // unreachable for plans built by this module
//	}
//
// Value and pointer forms are both accepted by consumers.
//
// COLUMN INVARIANT:
//
// Every column a Plan references must exist in the Schema Index it was built
// against. Builders substitute a fallback rather than emit an unknown
// column; Validate checks the invariant after the fact.
package queryplan
