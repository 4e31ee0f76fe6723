package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/askviz/internal/encoding"
)

// Snapshot renders a scenario result as the plain-text golden format:
// a "scenario:" header, then one blank-line separated block per case.
// Optional lines (requested, title, transform, path, placeholder, note)
// appear only when set.
func Snapshot(scenario *Scenario, result *Result) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)

	for _, out := range result.Outcomes {
		tr, enc := out.Translation, out.Encoding

		b.WriteString("\n")
		fmt.Fprintf(&b, "question: %s\n", out.Question)
		if tr.IntentMatched {
			fmt.Fprintf(&b, "intent: %s\n", tr.Intent)
		} else {
			fmt.Fprintf(&b, "intent: %s (default)\n", tr.Intent)
		}
		fmt.Fprintf(&b, "sql: %s\n", tr.SQL)
		fmt.Fprintf(&b, "explanation: %s\n", tr.Explanation)
		fmt.Fprintf(&b, "fallback: %s\n", fallbackName(tr.Fallback))

		if out.Requested != encoding.Auto {
			fmt.Fprintf(&b, "requested: %s\n", out.Requested)
		}
		fmt.Fprintf(&b, "chart: %s\n", enc.Chart)
		if enc.Title != "" {
			fmt.Fprintf(&b, "title: %s\n", enc.Title)
		}
		fmt.Fprintf(&b, "roles: %s\n", formatRoles(enc))
		if enc.Transform != encoding.TransformNone {
			fmt.Fprintf(&b, "transform: %s\n", enc.Transform)
		}
		if len(enc.Path) > 0 {
			fmt.Fprintf(&b, "path: %s\n", strings.Join(enc.Path, " > "))
		}
		if enc.Placeholder != "" {
			fmt.Fprintf(&b, "placeholder: %s\n", enc.Placeholder)
		}
		if enc.Note != "" {
			fmt.Fprintf(&b, "note: %s\n", enc.Note)
		}
	}
	return b.Bytes()
}

func formatRoles(enc encoding.Encoding) string {
	var parts []string
	for _, r := range encoding.RoleOrder {
		if col, ok := enc.Role(r); ok {
			parts = append(parts, string(r)+"="+col)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check expectations. Test failure
// (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))

	return result, nil
}
