package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/askviz/internal/dataset"
	"github.com/roach88/askviz/internal/schema"
	"github.com/roach88/askviz/internal/translate"
)

const salesCSV = `order_date,region,sales
2024-01-05,West,100
2024-01-20,East,250
2024-02-03,West,75
2024-02-14,East,300
2024-03-01,West,120
2024-03-09,East,80
`

func openSales(t *testing.T) *Executor {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(salesCSV))
	require.NoError(t, err)

	ex, err := Open(context.Background(), tbl)
	require.NoError(t, err)
	t.Cleanup(func() { ex.Close() })
	return ex
}

func TestRun_GroupedAggregate(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(),
		`SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "region" ORDER BY sum_sales DESC`)
	require.NoError(t, err)
	assert.False(t, res.Degraded)

	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, []any{"East", 630.0}, res.Table.Rows[0])
	assert.Equal(t, []any{"West", 295.0}, res.Table.Rows[1])

	assert.True(t, res.Index.IsNumeric("sum_sales"))
	assert.Equal(t, 2, res.Index.RowCount())
}

func TestRun_DateTrunc(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(),
		`SELECT DATE_TRUNC('month', "order_date") AS month, SUM("sales") AS sum_sales FROM data GROUP BY month ORDER BY month ASC LIMIT 100`)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"month", "sum_sales"},
		{"2024-01-01", "350"},
		{"2024-02-01", "375"},
		{"2024-03-01", "200"},
	}, res.Table.Records())

	c, ok := res.Index.Lookup("month")
	require.True(t, ok)
	assert.Equal(t, schema.KindDatetime, c.Kind)
}

func TestRun_CountAll(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(), `SELECT COUNT(*) AS row_count FROM data`)
	require.NoError(t, err)
	assert.Equal(t, []any{6.0}, res.Table.Rows[0])
}

func TestRun_FilterLiterals(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(), `SELECT * FROM data WHERE "sales" > 100.0 AND "region" = 'East'`)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, "order_date", res.Table.Columns[0].Name)
	assert.Equal(t, schema.KindDatetime, res.Table.Columns[0].Kind)
}

func TestRun_TranslatedQuestions(t *testing.T) {
	ex := openSales(t)
	ix := ex.Table().Index()

	for _, q := range []string{
		"total sales by region",
		"show sales trend by month",
		"compare region",
		"where sales over 90",
		"",
	} {
		t.Run(q, func(t *testing.T) {
			tr := translate.Translate(q, ix)
			res, err := ex.Run(context.Background(), tr.SQL)
			require.NoError(t, err, tr.SQL)
			assert.False(t, res.Degraded)
			assert.NotEmpty(t, res.Table.Columns)
		})
	}
}

func TestRun_FailureFiltersSourceRows(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(), `SELECT "profit" FROM data WHERE "sales" > 100.0 AND "region" = 'East'`)
	require.Error(t, err)
	assert.True(t, IsExecutionFailed(err))
	assert.False(t, IsLoadFailed(err))

	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.SQL, `"profit"`)
	assert.True(t, strings.HasPrefix(err.Error(), "QUERY_EXECUTION_FAILED: query failed"))

	require.NotNil(t, res)
	assert.True(t, res.Degraded)
	assert.Equal(t, FallbackFilter, res.Fallback)
	assert.Equal(t, 2, res.Table.Len(), "East rows with sales above 100")
	assert.Len(t, res.Table.Columns, 3)
}

func TestRun_FailureSamplesWhenWhereUnknown(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(), `SELECT * FROM data WHERE "ghost" = 'x'`)
	require.Error(t, err)
	assert.Equal(t, FallbackSample, res.Fallback)
	assert.Equal(t, 6, res.Table.Len())
}

func TestRun_MissingColumnFails(t *testing.T) {
	ex := openSales(t)

	for _, q := range []string{
		`SELECT "profit" FROM data`,
		`SELECT SUM("profit") AS sum_profit FROM data`,
		`SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "ghost"`,
		`SELECT * FROM data ORDER BY "ghost" DESC`,
	} {
		t.Run(q, func(t *testing.T) {
			res, err := ex.Run(context.Background(), q)
			require.Error(t, err)
			assert.True(t, IsExecutionFailed(err))
			assert.Contains(t, err.Error(), "no such column")
			require.NotNil(t, res)
			assert.True(t, res.Degraded)
		})
	}
}

func TestCheckColumns(t *testing.T) {
	ex := openSales(t)

	tests := []struct {
		name    string
		query   string
		missing string
	}{
		{name: "star", query: `SELECT * FROM data LIMIT 100`},
		{name: "count star", query: `SELECT "region", COUNT(*) AS row_count FROM data GROUP BY "region" ORDER BY 2 DESC LIMIT 10`},
		{name: "alias in group and order", query: `SELECT DATE_TRUNC('month', "order_date") AS month, SUM("sales") AS sum_sales FROM data GROUP BY month ORDER BY month ASC LIMIT 100`},
		{name: "quoted alias", query: `SELECT SUM("sales") AS "Total Sales" FROM data ORDER BY "Total Sales" DESC`},
		{name: "case-insensitive column", query: `SELECT "Region" FROM data`},
		{name: "string literal is not a column", query: `SELECT * FROM data WHERE "region" = 'profit'`},
		{name: "unknown in select", query: `SELECT "profit" FROM data`, missing: "profit"},
		{name: "unknown in where", query: `SELECT * FROM data WHERE "sales" > 1.0 AND "ghost" = 'x'`, missing: "ghost"},
		{name: "unknown in function", query: `SELECT AVG("profit") AS avg_profit FROM data`, missing: "profit"},
		{name: "unparsable left to engine", query: `SELEC nonsense`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ex.checkColumns(tt.query)
			if tt.missing == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "no such column: "+tt.missing, err.Error())
		})
	}
}

func TestRun_FailureWithoutWhereSamples(t *testing.T) {
	ex := openSales(t)

	res, err := ex.Run(context.Background(), `SELEC nonsense`)
	require.Error(t, err)
	assert.Equal(t, FallbackSample, res.Fallback)
}

func TestRun_CancelledContext(t *testing.T) {
	ex := openSales(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ex.Run(ctx, `SELECT * FROM data`)
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestRun_EmptyDataset(t *testing.T) {
	ex, err := Open(context.Background(), &dataset.Table{})
	require.NoError(t, err)
	defer ex.Close()

	res, err := ex.Run(context.Background(), `SELECT * FROM data LIMIT 100`)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Len())
}

func TestOpen_QuotedColumnNames(t *testing.T) {
	tbl := dataset.Infer([]string{`odd "name"`}, [][]any{{1.0}, {2.0}})
	ex, err := Open(context.Background(), tbl)
	require.NoError(t, err)
	defer ex.Close()

	res, err := ex.Run(context.Background(), `SELECT SUM("odd ""name""") AS total FROM data`)
	require.NoError(t, err)
	assert.Equal(t, []any{3.0}, res.Table.Rows[0])
}

func TestDateTrunc(t *testing.T) {
	tests := []struct {
		period string
		value  any
		want   any
	}{
		{"month", "2024-03-17", "2024-03-01"},
		{"year", "2024-03-17 10:00:00", "2024-01-01"},
		{"day", "2024-03-17T10:00:00Z", "2024-03-17"},
		{"MONTH", []byte("2024-03-17"), "2024-03-01"},
		{"week", "2024-03-17", nil},
		{"month", "soon", nil},
		{"month", 12.0, nil},
		{"month", nil, nil},
	}
	for _, tt := range tests {
		got, err := dateTrunc(tt.period, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCompileWhere(t *testing.T) {
	tbl, err := dataset.ReadCSV(strings.NewReader(salesCSV))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"numeric", `SELECT * FROM data WHERE "sales" > 100.0`, true},
		{"string with quote", `SELECT * FROM data WHERE "region" = 'O''Hare' LIMIT 5`, true},
		{"before group by", `SELECT "region" FROM data WHERE "sales" < 90.0 GROUP BY "region"`, true},
		{"no where", `SELECT * FROM data`, false},
		{"unknown column", `SELECT * FROM data WHERE "ghost" > 1.0`, false},
		{"unquoted literal", `SELECT * FROM data WHERE "region" = west`, false},
		{"function call", `SELECT * FROM data WHERE LOWER("region") = 'west'`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileWhere(tt.query, tbl)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
