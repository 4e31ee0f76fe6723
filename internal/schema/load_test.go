package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "sales.yaml", `
rows: 120
columns:
  - name: date
    kind: datetime
    distinct: 120
  - name: region
    kind: categorical
    distinct: 4
  - name: revenue
    kind: numeric
`)

	ix, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 120, ix.RowCount())
	require.Equal(t, 3, ix.Len())
	assert.Equal(t, ColumnInfo{Name: "region", Kind: KindCategorical, Distinct: 4}, ix.Column(1))
	assert.Equal(t, 0, ix.Column(2).Distinct, "distinct defaults to 0")
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "sales.json", `{"rows": 5, "columns": [{"name": "amount", "kind": "numeric", "distinct": 5}]}`)

	ix, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, ix.RowCount())
	assert.True(t, ix.IsNumeric("AMOUNT"))
}

func TestLoadFile_CUE(t *testing.T) {
	path := writeFile(t, "sales.cue", `
rows: 50
columns: [
	{name: "category", kind: "categorical", distinct: 5},
	{name: "amount", kind: "numeric", distinct: 40},
]
`)

	ix, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50, ix.RowCount())
	assert.Equal(t, "category", ix.Column(0).Name)
}

func TestLoadFile_EmptyColumns(t *testing.T) {
	path := writeFile(t, "empty.yaml", "rows: 0\n")

	ix, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "unknown kind",
			file:    "bad.yaml",
			content: "columns:\n  - name: a\n    kind: boolean\n",
		},
		{
			name:    "blank name",
			file:    "bad.yaml",
			content: "columns:\n  - name: \"  \"\n    kind: numeric\n",
		},
		{
			name:    "negative distinct",
			file:    "bad.json",
			content: `{"columns": [{"name": "a", "kind": "numeric", "distinct": -1}]}`,
		},
		{
			name:    "unknown YAML field",
			file:    "bad.yaml",
			content: "colums: []\n",
		},
		{
			name:    "unknown JSON field",
			file:    "bad.json",
			content: `{"rows": 1, "cols": []}`,
		},
		{
			name:    "CUE field outside the definition",
			file:    "bad.cue",
			content: "rows: 1\ncolumns: []\nowner: \"me\"\n",
		},
		{
			name:    "CUE syntax error",
			file:    "bad.cue",
			content: "rows: [\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schema file")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a.JSON"))
	assert.Equal(t, FormatCUE, FormatFromPath("a.cue"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("a"))
}

func TestFile_Index(t *testing.T) {
	ix, err := File{Rows: 3, Columns: []ColumnInfo{{Name: "a", Kind: KindText}}}.Index("inline")
	require.NoError(t, err)
	assert.Equal(t, 3, ix.RowCount())
	assert.Equal(t, "a", ix.Column(0).Name)

	ix, err = File{}.Index("inline")
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())

	_, err = File{Columns: []ColumnInfo{{Name: "a", Kind: "blob"}}}.Index("inline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema inline")
}

func TestLoadResultFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		rows    int
		wantErr string
	}{
		{
			name:    "explicit rows",
			file:    "result.yaml",
			content: "rows: 4\ncolumns:\n  - { name: region, kind: categorical, distinct: 4 }\n",
			rows:    4,
		},
		{
			name:    "explicit zero rows",
			file:    "result.json",
			content: `{"rows": 0, "columns": [{"name": "amount", "kind": "numeric"}]}`,
		},
		{
			name:    "CUE rows",
			file:    "result.cue",
			content: "rows: 2\ncolumns: []\n",
			rows:    2,
		},
		{
			name:    "YAML without rows",
			file:    "result.yaml",
			content: "columns:\n  - { name: region, kind: categorical }\n",
			wantErr: "rows is required",
		},
		{
			name:    "JSON without rows",
			file:    "result.json",
			content: `{"columns": []}`,
			wantErr: "rows is required",
		},
		{
			name:    "CUE without rows",
			file:    "result.cue",
			content: "columns: []\n",
			wantErr: "rows is required",
		},
		{
			name:    "syntax errors still come from the parser",
			file:    "result.yaml",
			content: "rows: [\n",
			wantErr: "parse YAML schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := LoadResultFile(writeFile(t, tt.file, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, ix.RowCount())
		})
	}
}
