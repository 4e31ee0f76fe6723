package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no visualization has the requested id.
var ErrNotFound = errors.New("visualization not found")

// Visualization is one saved question, its query and its chart.
type Visualization struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Question  string          `json:"question"`
	SQL       string          `json:"sql"`
	ChartType string          `json:"chart_type"`
	Payload   json.RawMessage `json:"payload"`
	Views     int64           `json:"views"`
}

// Stats summarizes the store.
type Stats struct {
	Total   int64            `json:"total"`
	Views   int64            `json:"views"`
	ByChart map[string]int64 `json:"by_chart"`
}

const selectColumns = `id, name, created_at, question, sql, chart_type, payload, views`

// Save inserts v, or updates it when a record with v.ID exists.
//
// On insert an empty ID is generated, an empty Name defaults to
// "Visualization N" where N is one more than the number of saved records,
// and CreatedAt is stamped from the store clock. On update the question,
// SQL, chart type and payload are replaced; the name only when v.Name is
// set. The view counter and creation time are kept.
//
// Returns the record as stored.
func (s *Store) Save(ctx context.Context, v Visualization) (Visualization, error) {
	if v.ID == "" {
		v.ID = s.ids.Generate()
	}
	if len(v.Payload) == 0 {
		v.Payload = json.RawMessage("{}")
	}
	if !json.Valid(v.Payload) {
		return Visualization{}, fmt.Errorf("save visualization %q: payload is not valid JSON", v.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Visualization{}, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM visualizations WHERE id = ?)`, v.ID,
	).Scan(&exists); err != nil {
		return Visualization{}, fmt.Errorf("check visualization: %w", err)
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
			UPDATE visualizations
			SET question = ?, sql = ?, chart_type = ?, payload = ?,
			    name = CASE WHEN ? = '' THEN name ELSE ? END
			WHERE id = ?
		`, v.Question, v.SQL, v.ChartType, string(v.Payload), v.Name, v.Name, v.ID)
		if err != nil {
			return Visualization{}, fmt.Errorf("update visualization: %w", err)
		}
	} else {
		if v.Name == "" {
			var n int64
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM visualizations`).Scan(&n); err != nil {
				return Visualization{}, fmt.Errorf("count visualizations: %w", err)
			}
			v.Name = fmt.Sprintf("Visualization %d", n+1)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO visualizations (id, name, created_at, question, sql, chart_type, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, v.ID, v.Name, formatTime(s.now()), v.Question, v.SQL, v.ChartType, string(v.Payload))
		if err != nil {
			return Visualization{}, fmt.Errorf("insert visualization: %w", err)
		}
	}

	saved, err := scanVisualization(tx.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM visualizations WHERE id = ?`, v.ID))
	if err != nil {
		return Visualization{}, err
	}
	if err := tx.Commit(); err != nil {
		return Visualization{}, fmt.Errorf("commit save: %w", err)
	}
	return saved, nil
}

// Get returns the visualization with id and counts the view.
func (s *Store) Get(ctx context.Context, id string) (Visualization, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Visualization{}, fmt.Errorf("begin get: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE visualizations SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return Visualization{}, fmt.Errorf("count view: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return Visualization{}, fmt.Errorf("count view: %w", err)
	} else if n == 0 {
		return Visualization{}, fmt.Errorf("visualization %q: %w", id, ErrNotFound)
	}

	v, err := scanVisualization(tx.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM visualizations WHERE id = ?`, id))
	if err != nil {
		return Visualization{}, err
	}
	if err := tx.Commit(); err != nil {
		return Visualization{}, fmt.Errorf("commit get: %w", err)
	}
	return v, nil
}

// List returns saved visualizations newest first. A limit of zero or less
// returns every record. Listing does not count views.
//
// Returns an empty slice (not nil) when nothing is saved.
func (s *Store) List(ctx context.Context, limit int) ([]Visualization, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM visualizations ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visualizations: %w", err)
	}
	defer rows.Close()

	out := []Visualization{}
	for rows.Next() {
		v, err := scanVisualization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visualizations: %w", err)
	}
	return out, nil
}

// Delete removes the visualization with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visualizations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete visualization: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete visualization: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("visualization %q: %w", id, ErrNotFound)
	}
	return nil
}

// Stats returns the record count, total views and record count per chart
// type.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByChart: map[string]int64{}}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0) FROM visualizations`,
	).Scan(&st.Total, &st.Views); err != nil {
		return Stats{}, fmt.Errorf("query totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chart_type, COUNT(*) FROM visualizations GROUP BY chart_type ORDER BY chart_type`)
	if err != nil {
		return Stats{}, fmt.Errorf("query chart counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chart string
		var n int64
		if err := rows.Scan(&chart, &n); err != nil {
			return Stats{}, fmt.Errorf("scan chart count: %w", err)
		}
		st.ByChart[chart] = n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate chart counts: %w", err)
	}
	return st, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVisualization(row scanner) (Visualization, error) {
	var (
		v         Visualization
		createdAt string
		payload   string
	)
	err := row.Scan(&v.ID, &v.Name, &createdAt, &v.Question, &v.SQL, &v.ChartType, &payload, &v.Views)
	if errors.Is(err, sql.ErrNoRows) {
		return Visualization{}, ErrNotFound
	}
	if err != nil {
		return Visualization{}, fmt.Errorf("scan visualization: %w", err)
	}

	v.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Visualization{}, fmt.Errorf("parse created_at of %q: %w", v.ID, err)
	}
	v.Payload = json.RawMessage(payload)
	return v, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
