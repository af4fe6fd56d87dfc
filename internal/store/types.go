package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Field is a single column value within a row. Value holds whatever the
// driver returned (int64, float64, string, bool, time.Time); nil marks NULL.
type Field struct {
	Column string
	Value  interface{}
}

// IsNull reports whether the field held SQL NULL
func (f Field) IsNull() bool {
	return f.Value == nil
}

// String renders the field value for display
func (f Field) String() string {
	return FormatValue(f.Value)
}

// Row is an ordered sequence of fields, preserving the column order of the
// statement that produced it
type Row []Field

// Get returns the value for a column name within the row
func (r Row) Get(column string) (interface{}, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}

	return nil, false
}

// ResultSet holds the rows returned by a read statement
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.Rows)
}

// FormatValue renders a driver value as text. NULL renders as the literal
// string "NULL"; dates with no time component render as YYYY-MM-DD.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}

		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// scanResultSet drains sql.Rows into a ResultSet, keeping column order
func scanResultSet(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &ResultSet{Columns: columns}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			// Normalize []byte so callers always see comparable string values
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}

			row[i] = Field{Column: col, Value: values[i]}
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}
