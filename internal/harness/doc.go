// Package harness runs translation scenarios: a Schema Index plus a list of
// questions, each translated, shaped and charted, checked against optional
// expectations and snapshotted to a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: store_sales
//	description: "What this scenario covers"
//	schema:
//	  rows: 500
//	  columns:
//	    - { name: region, kind: categorical, distinct: 4 }
//	    - { name: sales, kind: numeric, distinct: 480 }
//	cases:
//	  - question: "total sales by region"
//	    chart: pie            # optional; Auto when absent
//	    expect:               # optional; every field is optional
//	      intent: aggregate
//	      sql: 'SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "region"'
//	      fallback: none
//	      chart: Pie
//	      roles: { names: region, values: sum_sales }
//
// Expectations are subset matches: only the fields present are compared.
//
// # Result Shape
//
// Scenarios carry no rows. Chart selection runs against the result shape
// estimated from the plan (queryplan.ResultShape), so a scenario pins down
// the whole question-to-encoding path without executing SQL.
//
// # Golden Files
//
// RunWithGolden renders every outcome as plain text, one block per case,
// and compares it with testdata/golden/{scenario.Name}.golden. Regenerate
// with:
//
//	go test ./internal/harness -update
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/store_sales.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
