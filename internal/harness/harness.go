package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/planner"
	"github.com/roach88/askviz/internal/queryplan"
	"github.com/roach88/askviz/internal/translate"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the Schema Index from the scenario schema
//  2. Translate each question
//  3. Estimate the result shape of its plan and select an encoding
//  4. Compare the outcome with the case's expectations
//
// An error is returned only when the scenario itself is unusable;
// expectation mismatches are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ix, err := scenario.Schema.Index(scenario.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		requested, err := encoding.ParseChartType(c.Chart)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}

		tr := translate.Translate(c.Question, ix)
		enc := encoding.SelectAs(queryplan.ResultShape(tr.Plan, ix), c.Question, requested)

		out := Outcome{
			Question:    c.Question,
			Requested:   requested,
			Translation: tr,
			Encoding:    enc,
		}
		result.Outcomes = append(result.Outcomes, out)

		if c.Expect != nil {
			checkExpect(i, c.Expect, out, result)
		}
	}

	slog.Debug("scenario executed",
		"scenario", scenario.Name,
		"cases", len(scenario.Cases),
		"errors", len(result.Errors))

	return result, nil
}

// checkExpect records a mismatch for every expectation field the outcome
// does not satisfy.
func checkExpect(index int, e *Expect, out Outcome, r *Result) {
	mismatch := func(field string, got, want any) {
		r.AddError(fmt.Sprintf("cases[%d] %q: %s: got %q, want %q", index, out.Question, field, got, want))
	}

	tr := out.Translation
	if e.Intent != "" && string(tr.Intent) != e.Intent {
		mismatch("intent", tr.Intent, e.Intent)
	}
	if e.SQL != "" && tr.SQL != e.SQL {
		mismatch("sql", tr.SQL, e.SQL)
	}
	if e.Explanation != "" && tr.Explanation != e.Explanation {
		mismatch("explanation", tr.Explanation, e.Explanation)
	}
	if e.Fallback != "" && fallbackName(tr.Fallback) != e.Fallback {
		mismatch("fallback", fallbackName(tr.Fallback), e.Fallback)
	}
	if e.Chart != "" {
		// Validated at load time.
		want, _ := encoding.ParseChartType(e.Chart)
		if out.Encoding.Chart != want {
			mismatch("chart", out.Encoding.Chart, want)
		}
	}
	for role, want := range e.Roles {
		got, ok := out.Encoding.Role(encoding.Role(role))
		if !ok {
			r.AddError(fmt.Sprintf("cases[%d] %q: role %s: not assigned, want %q", index, out.Question, role, want))
			continue
		}
		if got != want {
			mismatch("role "+role, got, want)
		}
	}
}

func fallbackName(f planner.Fallback) string {
	if f == planner.FallbackNone {
		return fallbackNone
	}
	return string(f)
}
