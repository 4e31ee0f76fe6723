package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var constraintCUE string

// Format identifies the encoding of a Schema Index file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// File is the on-disk shape of a Schema Index.
type File struct {
	Rows    int          `json:"rows" yaml:"rows"`
	Columns []ColumnInfo `json:"columns" yaml:"columns"`
}

// File returns the serializable form of the index.
func (ix *Index) File() File {
	return File{Rows: ix.RowCount(), Columns: ix.Columns()}
}

// withColumns replaces a nil column list with an empty one so it encodes as
// a CUE list rather than null.
func (f File) withColumns() File {
	if f.Columns == nil {
		f.Columns = []ColumnInfo{}
	}
	return f
}

// FormatFromPath picks a Format from a file extension. Unknown extensions
// are treated as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".cue":
		return FormatCUE
	default:
		return FormatYAML
	}
}

// LoadFile reads and validates a Schema Index file.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	ix, err := Parse(data, FormatFromPath(path), path)
	if err != nil {
		return nil, err
	}
	return ix, nil
}

// LoadResultFile is LoadFile for a file describing a query result rather
// than a dataset. A result's row count decides whether it is empty, so the
// file must state rows explicitly.
func LoadResultFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	format := FormatFromPath(path)
	if !hasRows(data, format, path) {
		return nil, fmt.Errorf("invalid schema %s: rows is required for a result schema", path)
	}
	return Parse(data, format, path)
}

// hasRows reports whether the document sets a top-level rows field.
// Undecodable documents report true and are left for Parse to reject.
func hasRows(data []byte, format Format, filename string) bool {
	switch format {
	case FormatCUE:
		value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
		return value.Err() != nil || value.LookupPath(cue.ParsePath("rows")).Exists()
	case FormatJSON:
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return true
		}
		_, ok := doc["rows"]
		return ok
	default:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return true
		}
		_, ok := doc["rows"]
		return ok
	}
}

// Parse decodes a Schema Index in the given format and validates it against
// the embedded CUE constraint. filename is used only in error positions.
//
// YAML and JSON are decoded strictly (unknown fields are rejected) and then
// encoded into CUE for validation; CUE sources are compiled directly.
func Parse(data []byte, format Format, filename string) (*Index, error) {
	ctx := cuecontext.New()

	var value cue.Value
	switch format {
	case FormatCUE:
		value = ctx.CompileBytes(data, cue.Filename(filename))
	case FormatJSON:
		var f File
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse JSON schema %s: %w", filename, err)
		}
		value = ctx.Encode(f.withColumns())
	case FormatYAML:
		var f File
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse YAML schema %s: %w", filename, err)
		}
		value = ctx.Encode(f.withColumns())
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	return validate(ctx, value, filename)
}

// Index validates f against the embedded CUE constraint and builds an
// Index from it. name is used only in error messages.
func (f File) Index(name string) (*Index, error) {
	ctx := cuecontext.New()
	return validate(ctx, ctx.Encode(f.withColumns()), name)
}

func validate(ctx *cue.Context, value cue.Value, filename string) (*Index, error) {
	constraint := ctx.CompileString(constraintCUE, cue.Filename("schema.cue"))
	if err := constraint.Err(); err != nil {
		return nil, fmt.Errorf("compile schema constraint: %w", err)
	}
	def := constraint.LookupPath(cue.ParsePath("#Schema"))

	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("load schema %s: %s", filename, cueerrors.Details(err, nil))
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %s", filename, cueerrors.Details(err, nil))
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", filename, err)
	}
	return New(f.Rows, f.Columns...), nil
}
