package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb-io/askdb/internal/errors"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "practice.db")

	opts := DefaultOptions()
	opts.CreateIfMissing = true

	s, err := Open(path, opts)
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	_, err = s.Seed(context.Background())
	require.NoError(t, err)

	return s
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	s, err := Open(path, DefaultOptions())
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStoreUnavailable))
	assert.Contains(t, err.Error(), "database file not found")
}

func TestOpenCreateIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")

	opts := DefaultOptions()
	opts.CreateIfMissing = true

	s, err := Open(path, opts)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, path, s.Path())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestSeedRowCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practice.db")

	opts := DefaultOptions()
	opts.CreateIfMissing = true

	s, err := Open(path, opts)
	require.NoError(t, err)
	defer s.Close()

	counts, err := s.Seed(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 8)

	expected := map[string]int64{
		"bank_statements":      4,
		"profit_loss_reports":  2,
		"purchase_orders":      2,
		"purchase_order_items": 3,
		"supply_catalog":       2,
		"equity_ownership":     3,
		"payor_contracts":      2,
		"contract_procedures":  2,
	}

	for _, tc := range counts {
		assert.Equal(t, expected[tc.Table], tc.Rows, tc.Table)
	}
}

func TestListTables(t *testing.T) {
	s := newSeededStore(t)

	tables, err := s.ListTables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"bank_statements",
		"profit_loss_reports",
		"purchase_orders",
		"purchase_order_items",
		"supply_catalog",
		"equity_ownership",
		"payor_contracts",
		"contract_procedures",
	}, tables)
}

func TestTableColumns(t *testing.T) {
	s := newSeededStore(t)

	columns, err := s.TableColumns(context.Background(), "purchase_orders")
	require.NoError(t, err)
	require.Len(t, columns, 5)

	assert.Equal(t, "id", columns[0].Name)
	assert.True(t, columns[0].PrimaryKey)

	byName := make(map[string]ColumnMeta)
	for _, col := range columns {
		byName[col.Name] = col
	}

	vendor, ok := byName["vendor"]
	require.True(t, ok)
	assert.Equal(t, "VARCHAR(100)", vendor.Type)
	assert.False(t, vendor.PrimaryKey)
	assert.False(t, vendor.NotNull)
	assert.False(t, vendor.Default.Valid)
}

func TestTableForeignKeys(t *testing.T) {
	s := newSeededStore(t)

	keys, err := s.TableForeignKeys(context.Background(), "purchase_order_items")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	assert.Equal(t, "purchase_order_id", keys[0].Column)
	assert.Equal(t, "purchase_orders", keys[0].RefTable)
	assert.Equal(t, "id", keys[0].RefColumn)

	// Tables without declared references report none
	keys, err = s.TableForeignKeys(context.Background(), "bank_statements")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestTableRowCount(t *testing.T) {
	s := newSeededStore(t)

	count, err := s.TableRowCount(context.Background(), "equity_ownership")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTableSample(t *testing.T) {
	s := newSeededStore(t)

	rows, err := s.TableSample(context.Background(), "bank_statements", 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Field order follows the table's column order
	assert.Equal(t, "id", rows[0][0].Column)
	assert.Equal(t, "date", rows[0][1].Column)

	desc, ok := rows[0].Get("description")
	require.True(t, ok)
	assert.Equal(t, "Insurance Reimbursement (Aetna)", FormatValue(desc))

	// The first statement row has a NULL withdrawal
	withdrawal, ok := rows[0].Get("withdrawal")
	require.True(t, ok)
	assert.Nil(t, withdrawal)

	rows, err = s.TableSample(context.Background(), "bank_statements", 0)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestRunSelect(t *testing.T) {
	s := newSeededStore(t)

	rs, err := s.RunSelect(context.Background(),
		"SELECT vendor, total_amount FROM purchase_orders ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor", "total_amount"}, rs.Columns)
	require.Equal(t, 2, rs.Len())

	vendor, _ := rs.Rows[0].Get("vendor")
	assert.Equal(t, "Medline Industries", vendor)
}

func TestRunSelectGuard(t *testing.T) {
	s := newSeededStore(t)

	tests := []struct {
		name    string
		sql     string
		wantErr string
	}{
		{
			name:    "empty statement",
			sql:     "   ",
			wantErr: "cannot be empty",
		},
		{
			name:    "insert rejected",
			sql:     "INSERT INTO purchase_orders (vendor) VALUES ('x')",
			wantErr: "only SELECT statements are allowed",
		},
		{
			name:    "drop rejected",
			sql:     "SELECT 1; DROP TABLE purchase_orders",
			wantErr: "dangerous operation",
		},
		{
			name:    "delete hidden in select rejected",
			sql:     "SELECT * FROM x WHERE 1=1; DELETE FROM purchase_orders",
			wantErr: "dangerous operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RunSelect(context.Background(), tt.sql)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	// CTE reads are allowed
	rs, err := s.RunSelect(context.Background(),
		"WITH totals AS (SELECT SUM(total_amount) AS t FROM purchase_orders) SELECT t FROM totals")
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestCheck(t *testing.T) {
	s := newSeededStore(t)

	report, err := s.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, s.Path(), report.Path)
	assert.Positive(t, report.FileSizeBytes)
	assert.Len(t, report.Tables, 8)
	assert.Empty(t, report.EmptyTables)
	assert.Greater(t, report.ConnectTime, time.Duration(0))
}

func TestCheckReportsEmptyTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	opts := DefaultOptions()
	opts.CreateIfMissing = true

	s, err := Open(path, opts)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec("CREATE TABLE hollow (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	report, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hollow"}, report.EmptyTables)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "Medline", "Medline"},
		{"bytes", []byte("raw"), "raw"},
		{"int64", int64(42), "42"},
		{"float whole", float64(18565), "18565"},
		{"float fraction", 22.5, "22.5"},
		{"bool", true, "true"},
		{"date", time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), "2025-01-12"},
		{"datetime", time.Date(2025, 1, 12, 9, 30, 0, 0, time.UTC), "2025-01-12 09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"purchase_orders"`, quoteIdentifier("purchase_orders"))
	assert.Equal(t, `"odd""name"`, quoteIdentifier(`odd"name`))
}
