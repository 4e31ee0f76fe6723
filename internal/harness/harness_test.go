package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/intent"
	"github.com/roach88/askviz/internal/schema"
)

func salesScenario(cases ...Case) *Scenario {
	return &Scenario{
		Name:        "sales",
		Description: "sales table",
		Schema: schema.File{
			Rows: 100,
			Columns: []schema.ColumnInfo{
				{Name: "region", Kind: schema.KindCategorical, Distinct: 4},
				{Name: "sales", Kind: schema.KindNumeric, Distinct: 90},
			},
		},
		Cases: cases,
	}
}

func TestRun_Outcomes(t *testing.T) {
	scenario := salesScenario(
		Case{Question: "total sales by region"},
		Case{Question: "total sales by region", Chart: "pie"},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Outcomes, 2)

	first := result.Outcomes[0]
	assert.Equal(t, intent.Aggregate, first.Translation.Intent)
	assert.Equal(t, `SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "region"`, first.Translation.SQL)
	assert.Equal(t, encoding.Auto, first.Requested)
	assert.Equal(t, encoding.Bar, first.Encoding.Chart)

	second := result.Outcomes[1]
	assert.Equal(t, encoding.Pie, second.Requested)
	assert.Equal(t, encoding.Pie, second.Encoding.Chart)
	assert.Equal(t, "region", second.Encoding.Roles[encoding.RoleNames])
}

func TestRun_ExpectationsPass(t *testing.T) {
	result, err := Run(salesScenario(Case{
		Question: "total sales by region",
		Expect: &Expect{
			Intent:      "aggregate",
			SQL:         `SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "region"`,
			Explanation: "This query groups data by region and calculates the sum of sales.",
			Fallback:    "none",
			Chart:       "Bar Chart",
			Roles:       map[string]string{"x": "region", "y": "sum_sales"},
		},
	}))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectationsFail(t *testing.T) {
	result, err := Run(salesScenario(Case{
		Question: "total sales by region",
		Expect: &Expect{
			Intent:   "trend",
			SQL:      "SELECT 1",
			Fallback: "default",
			Chart:    "line",
			Roles:    map[string]string{"y": "region", "size": "sales"},
		},
	}))
	require.NoError(t, err)
	assert.False(t, result.Pass)

	require.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], `intent: got "aggregate", want "trend"`)
	assert.Contains(t, result.Errors[1], `sql: got`)
	assert.Contains(t, result.Errors[2], `fallback: got "none", want "default"`)
	assert.Contains(t, result.Errors[3], `chart: got "Bar", want "Line"`)

	// Roles iterate in map order.
	assert.ElementsMatch(t, []string{
		`cases[0] "total sales by region": role y: got "sum_sales", want "region"`,
		`cases[0] "total sales by region": role size: not assigned, want "sales"`,
	}, result.Errors[4:])
}

func TestRun_InvalidScenario(t *testing.T) {
	scenario := salesScenario(Case{Question: "x"})
	scenario.Schema.Columns[0].Kind = "money"
	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build schema")

	_, err = Run(salesScenario(Case{Question: "x", Chart: "donut"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases[0]")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
