package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// sniffSize bounds the input examined for the delimiter.
const sniffSize = 64 * 1024

// delimiters are the candidate field separators, in tie-break order.
var delimiters = []rune{',', ';', '\t', '|'}

// ErrEmpty is returned for input with no header row.
var ErrEmpty = errors.New("dataset: no header row")

// LoadCSV reads and cleans the CSV file at path.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV reads delimited text with a header row. The delimiter is sniffed
// from the header line. Short rows are padded with missing values; a row
// with more fields than the header is an error. The table is cleaned by
// FromRecords.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = Sniff(head)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return FromRecords(records[0], records[1:])
}

// Sniff picks the delimiter that occurs most often, outside quotes, on the
// first non-blank line of data. It returns ',' when no candidate occurs.
func Sniff(data []byte) rune {
	line := firstLine(data)
	counts := make(map[rune]int, len(delimiters))
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func firstLine(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if s := strings.TrimSpace(string(line)); s != "" {
			return s
		}
	}
	return ""
}

// FromRecords cleans raw text records under a header: column names are
// normalized, columns with no present values are dropped, then rows with
// no present values are dropped, and kinds are inferred.
func FromRecords(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmpty
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(header))
		}
	}

	keep := make([]int, 0, len(header))
	for j := range header {
		for _, rec := range records {
			if j < len(rec) && !IsMissing(rec[j]) {
				keep = append(keep, j)
				break
			}
		}
	}

	names := NormalizeNames(header)
	kept := make([]string, len(keep))
	for i, j := range keep {
		kept[i] = names[j]
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(keep))
		present := false
		for i, j := range keep {
			if j < len(rec) && !IsMissing(rec[j]) {
				row[i] = rec[j]
				present = true
			}
		}
		if present {
			rows = append(rows, row)
		}
	}
	return Infer(kept, rows), nil
}

// NormalizeNames trims and lower-cases header names and replaces spaces
// with underscores. Blank names become column_N (1-based position);
// repeated names get a _2, _3, ... suffix.
func NormalizeNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.Join(strings.Fields(name), "_")
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for n := 2; seen[name] > 0; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		seen[name]++
		out[i] = name
	}
	return out
}
