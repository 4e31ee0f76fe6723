package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/askviz/internal/schema"
)

// SalesCSV is a small store-sales dataset: a date, a two-value region, a
// product and a sales figure per order.
const SalesCSV = `Order Date,Region,Product,Sales
2024-01-05,West,Chair,100
2024-01-20,East,Desk,250
2024-02-03,West,Lamp,75
2024-02-14,East,Chair,300
2024-03-01,West,Desk,120
2024-03-09,East,Lamp,80
2024-03-15,West,Chair,60
2024-03-28,East,Desk,210
`

// SalesIndex describes a 500-row store-sales dataset.
func SalesIndex() *schema.Index {
	return schema.New(500,
		schema.ColumnInfo{Name: "order_date", Kind: schema.KindDatetime, Distinct: 365},
		schema.ColumnInfo{Name: "region", Kind: schema.KindCategorical, Distinct: 4},
		schema.ColumnInfo{Name: "product", Kind: schema.KindCategorical, Distinct: 30},
		schema.ColumnInfo{Name: "sales", Kind: schema.KindNumeric, Distinct: 480},
	)
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
