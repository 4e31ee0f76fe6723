// Package translate runs the whole translation stage: a free-text question
// and a Schema Index in, a Query Plan, its SQL text and an English
// explanation out.
//
// Translate is total. Questions with no recognizable signal produce the
// default sample query; every other path terminates in one of the planner's
// fallbacks. Errors never escape.
package translate

import (
	"log/slog"

	"github.com/roach88/askviz/internal/intent"
	"github.com/roach88/askviz/internal/keywords"
	"github.com/roach88/askviz/internal/normalize"
	"github.com/roach88/askviz/internal/planner"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/querysql"
	"github.com/roach88/askviz/internal/schema"
)

// Translation is the output of one translation call.
type Translation struct {
	Question string
	Text     string // normalized question text

	Intent        intent.Intent
	IntentMatched bool // false when Intent is the Aggregate default

	Keywords keywords.Bag
	Plan     queryplan.Plan
	SQL      string

	Explanation string
	Fallback    planner.Fallback
}

// Translate converts question into a query over ix.
func Translate(question string, ix *schema.Index) Translation {
	q := normalize.Normalize(question)
	bag := keywords.Extract(q, ix)
	in, matched := intent.Classify(q.Text)

	var built planner.Result
	if !matched && bag.IsEmpty() {
		built = planner.Default()
	} else {
		built = planner.Build(in, bag, ix)
	}

	sql, err := querysql.Compile(built.Plan)
	if err != nil {
		slog.Warn("plan did not render, using default query",
			"intent", in,
			"error", err)
		built = planner.Default()
		sql = mustCompile(built.Plan)
	}

	slog.Debug("translated question",
		"intent", in,
		"intent_matched", matched,
		"columns", len(bag.UniqueColumns()),
		"predicates", len(bag.Predicates),
		"fallback", string(built.Fallback))

	return Translation{
		Question:      question,
		Text:          q.Text,
		Intent:        in,
		IntentMatched: matched,
		Keywords:      bag,
		Plan:          built.Plan,
		SQL:           sql,
		Explanation:   built.Explanation,
		Fallback:      built.Fallback,
	}
}

// mustCompile renders a plan known to be valid.
func mustCompile(p queryplan.Plan) string {
	sql, err := querysql.Compile(p)
	if err != nil {
		panic("querysql: default plan failed to render: " + err.Error())
	}
	return sql
}
