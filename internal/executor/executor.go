// Package executor runs rendered SQL against a dataset.
//
// A dataset.Table is copied into an in-memory SQLite database as the
// relation "data". Statements run verbatim with the caller's context. When a
// statement fails, Run reports an ExecutionError together with a degraded
// result: the source rows matching the statement's WHERE conditions, or a
// head sample when those cannot be re-interpreted.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/askviz/internal/dataset"
	"github.com/roach88/askviz/internal/querysql"
	"github.com/roach88/askviz/internal/schema"
)

// Fallback names how a degraded result was produced.
type Fallback string

const (
	FallbackNone   Fallback = ""
	FallbackFilter Fallback = "filter"
	FallbackSample Fallback = "sample"
)

// Result is the outcome of running one statement.
type Result struct {
	Table *dataset.Table

	// Index describes Table, with kinds inferred from the result values.
	Index *schema.Index

	// Degraded is set when Table came from the fallback rather than the
	// statement itself.
	Degraded bool
	Fallback Fallback
}

func newResult(t *dataset.Table, fb Fallback) *Result {
	return &Result{Table: t, Index: t.Index(), Degraded: fb != FallbackNone, Fallback: fb}
}

// Executor holds one dataset loaded into an in-memory database.
type Executor struct {
	db    *sql.DB
	table *dataset.Table
}

// Open loads t into a fresh in-memory database.
func Open(ctx context.Context, t *dataset.Table) (*Executor, error) {
	registerDriver()

	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, &ExecutionError{Code: ErrCodeLoadFailed, Message: "open database", Err: err}
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	start := time.Now()
	if err := load(ctx, db, t); err != nil {
		db.Close()
		return nil, &ExecutionError{Code: ErrCodeLoadFailed, Message: "load dataset", Err: err}
	}
	slog.Debug("dataset loaded",
		"columns", len(t.Columns),
		"rows", t.Len(),
		"duration", time.Since(start))

	return &Executor{db: db, table: t}, nil
}

// Close releases the database.
func (e *Executor) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Table returns the source dataset.
func (e *Executor) Table() *dataset.Table {
	return e.table
}

// Run executes query. On failure it returns both a degraded Result and an
// ExecutionError with code QUERY_EXECUTION_FAILED. A cancelled context
// yields the error alone.
func (e *Executor) Run(ctx context.Context, query string) (*Result, error) {
	if len(e.table.Columns) == 0 {
		return newResult(e.table, FallbackNone), nil
	}

	start := time.Now()
	err := e.checkColumns(query)
	var tbl *dataset.Table
	if err == nil {
		tbl, err = e.query(ctx, query)
	}
	if err == nil {
		slog.Debug("query executed",
			"rows", tbl.Len(),
			"columns", len(tbl.Columns),
			"duration", time.Since(start))
		return newResult(tbl, FallbackNone), nil
	}

	execErr := &ExecutionError{Code: ErrCodeQueryFailed, Message: "query failed", SQL: query, Err: err}
	if ctx.Err() != nil {
		return nil, execErr
	}

	fallback, kind := e.fallback(query)
	slog.Warn("query execution failed, using degraded result",
		"error", err,
		"fallback", string(kind),
		"rows", fallback.Len())
	return newResult(fallback, kind), execErr
}

func (e *Executor) query(ctx context.Context, query string) (*dataset.Table, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataset.Infer(cols, out), nil
}

// load creates the data relation and copies every row into it.
func load(ctx context.Context, db *sql.DB, t *dataset.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		typ := "TEXT"
		if c.Kind == schema.KindNumeric {
			typ = "REAL"
		}
		defs[i] = querysql.QuoteIdent(c.Name) + " " + typ
		marks[i] = "?"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	create := fmt.Sprintf("CREATE TABLE %s (%s)", querysql.Relation, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", querysql.Relation, strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			args[i] = sqlValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}
	return tx.Commit()
}

// sqlValue stores dates as text so DATE_TRUNC and comparisons see them
// the way they were written.
func sqlValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return dataset.FormatValue(x)
	default:
		return x
	}
}
