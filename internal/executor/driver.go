package executor

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/askviz/internal/dataset"
)

// driverName is the sqlite3 driver variant with the askviz SQL functions.
const driverName = "sqlite3_askviz"

var registerOnce sync.Once

// registerDriver registers the sqlite3 driver whose connections carry
// DATE_TRUNC.
func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("date_trunc", dateTrunc, true)
			},
		})
	})
}

// dateTrunc truncates a date value to the start of its day, month or year
// and returns it as 2006-01-02 text. Values that are not dates, and
// unknown periods, yield NULL.
func dateTrunc(period string, value any) (any, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		s = v.Format(time.DateTime)
	default:
		return nil, nil
	}

	t, ok := dataset.ParseTime(s)
	if !ok {
		return nil, nil
	}

	switch strings.ToLower(period) {
	case "day":
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case "month":
		t = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "year":
		t = time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil, nil
	}
	return t.Format(time.DateOnly), nil
}
