package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/askviz/internal/dataset"
)

// sampleRows is the size of the head sample returned when the WHERE clause
// cannot be re-interpreted.
const sampleRows = 100

var (
	wherePattern = regexp.MustCompile(`(?is)\bWHERE\s+(.*?)(?:\s+GROUP\s+BY\b|\s+ORDER\s+BY\b|\s+LIMIT\b|$)`)
	andPattern   = regexp.MustCompile(`(?i)\s+AND\s+`)
	condPattern  = regexp.MustCompile(`^"((?:[^"]|"")+)"\s*(>=|<=|<>|!=|=|>|<)\s*(.+)$`)
)

// fallback filters the source rows by the WHERE conditions of query, or
// returns a head sample.
func (e *Executor) fallback(query string) (*dataset.Table, Fallback) {
	names := make([]string, len(e.table.Columns))
	for i, c := range e.table.Columns {
		names[i] = c.Name
	}

	program, err := compileWhere(query, e.table)
	if err != nil {
		return e.table.Head(sampleRows), FallbackSample
	}

	var rows [][]any
	for _, row := range e.table.Rows {
		if matches(program, row) {
			rows = append(rows, row)
		}
	}
	return dataset.Infer(names, rows), FallbackFilter
}

// compileWhere turns the `"column" op literal` conditions of a WHERE
// clause into one boolean expr program over variables c0, c1, ... holding
// the row's cells.
func compileWhere(query string, t *dataset.Table) (*vm.Program, error) {
	m := wherePattern.FindStringSubmatch(query)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, fmt.Errorf("no where clause")
	}

	var terms []string
	for _, cond := range andPattern.Split(strings.TrimSpace(m[1]), -1) {
		term, err := compileCondition(cond, t)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return expr.Compile(strings.Join(terms, " && "), expr.AsBool())
}

func compileCondition(cond string, t *dataset.Table) (string, error) {
	m := condPattern.FindStringSubmatch(strings.TrimSpace(cond))
	if m == nil {
		return "", fmt.Errorf("unsupported condition %q", cond)
	}

	name := strings.ReplaceAll(m[1], `""`, `"`)
	col, ok := t.ColumnIndex(name)
	if !ok {
		return "", fmt.Errorf("unknown column %q", name)
	}

	op := m[2]
	switch op {
	case "=":
		op = "=="
	case "<>":
		op = "!="
	}

	lit, err := compileLiteral(strings.TrimSpace(m[3]))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("c%d %s %s", col, op, lit), nil
}

func compileLiteral(s string) (string, error) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strconv.Quote(strings.ReplaceAll(s[1:len(s)-1], "''", "'")), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("unsupported literal %q", s)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// matches evaluates program against one row. Type mismatches, such as a
// missing cell compared with a number, count as no match.
func matches(program *vm.Program, row []any) bool {
	env := make(map[string]any, len(row))
	for i, v := range row {
		if _, ok := v.(float64); ok || v == nil {
			env["c"+strconv.Itoa(i)] = v
			continue
		}
		env["c"+strconv.Itoa(i)] = dataset.FormatValue(v)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
