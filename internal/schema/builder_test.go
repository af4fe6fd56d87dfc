package schema

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb-io/askdb/internal/store"
	"github.com/askdb-io/askdb/internal/testutil"
)

// fakeIntrospector serves canned table metadata and lets tests inject
// per-call failures
type fakeIntrospector struct {
	tables        []string
	columns       map[string][]store.ColumnMeta
	foreignKeys   map[string][]store.ForeignKeyMeta
	rowCounts     map[string]int64
	samples       map[string][]store.Row
	errors        map[string]error
	sampleLimits  []int
	listTablesErr error
}

func newFakeIntrospector() *fakeIntrospector {
	return &fakeIntrospector{
		columns:     make(map[string][]store.ColumnMeta),
		foreignKeys: make(map[string][]store.ForeignKeyMeta),
		rowCounts:   make(map[string]int64),
		samples:     make(map[string][]store.Row),
		errors:      make(map[string]error),
	}
}

func (f *fakeIntrospector) ListTables(_ context.Context) ([]string, error) {
	if f.listTablesErr != nil {
		return nil, f.listTablesErr
	}

	return f.tables, nil
}

func (f *fakeIntrospector) TableColumns(_ context.Context, table string) ([]store.ColumnMeta, error) {
	if err := f.errors[table+":columns"]; err != nil {
		return nil, err
	}

	return f.columns[table], nil
}

func (f *fakeIntrospector) TableForeignKeys(_ context.Context, table string) ([]store.ForeignKeyMeta, error) {
	if err := f.errors[table+":fks"]; err != nil {
		return nil, err
	}

	return f.foreignKeys[table], nil
}

func (f *fakeIntrospector) TableRowCount(_ context.Context, table string) (int64, error) {
	if err := f.errors[table+":count"]; err != nil {
		return 0, err
	}

	return f.rowCounts[table], nil
}

func (f *fakeIntrospector) TableSample(_ context.Context, table string, limit int) ([]store.Row, error) {
	f.sampleLimits = append(f.sampleLimits, limit)

	if err := f.errors[table+":sample"]; err != nil {
		return nil, err
	}

	return f.samples[table], nil
}

func (f *fakeIntrospector) addTable(name string, columns []store.ColumnMeta) {
	f.tables = append(f.tables, name)
	f.columns[name] = columns
}

func TestBuildSnapshot(t *testing.T) {
	fake := newFakeIntrospector()
	fake.addTable("purchase_orders", []store.ColumnMeta{
		{CID: 0, Name: "id", Type: "INTEGER", NotNull: false, PrimaryKey: true},
		{CID: 1, Name: "vendor", Type: "VARCHAR(100)", NotNull: false},
		{
			CID: 2, Name: "status", Type: "VARCHAR(20)", NotNull: true,
			Default: sql.NullString{String: "'open'", Valid: true},
		},
	})
	fake.addTable("purchase_order_items", []store.ColumnMeta{
		{CID: 0, Name: "id", Type: "INTEGER", PrimaryKey: true},
		{CID: 1, Name: "purchase_order_id", Type: "INTEGER"},
	})
	fake.foreignKeys["purchase_order_items"] = []store.ForeignKeyMeta{
		{Column: "purchase_order_id", RefTable: "purchase_orders", RefColumn: "id"},
	}
	fake.rowCounts["purchase_orders"] = 2
	fake.rowCounts["purchase_order_items"] = 3
	fake.samples["purchase_orders"] = []store.Row{
		{
			{Column: "id", Value: int64(1)},
			{Column: "vendor", Value: "Medline Industries"},
			{Column: "status", Value: "open"},
		},
	}

	builder := NewBuilder(fake, 3)

	snapshot, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 2, snapshot.Len())
	assert.False(t, snapshot.Partial())
	assert.False(t, snapshot.BuiltAt.IsZero())

	orders, ok := snapshot.Lookup("purchase_orders")
	require.True(t, ok)
	require.Len(t, orders.Columns, 3)

	assert.Equal(t, "id", orders.Columns[0].Name)
	assert.True(t, orders.Columns[0].PrimaryKey)
	assert.True(t, orders.Columns[0].Nullable)
	assert.Nil(t, orders.Columns[0].Default)

	assert.Equal(t, "vendor", orders.Columns[1].Name)
	assert.Equal(t, "VARCHAR(100)", orders.Columns[1].Type)
	assert.False(t, orders.Columns[1].PrimaryKey)

	require.NotNil(t, orders.Columns[2].Default)
	assert.Equal(t, "'open'", *orders.Columns[2].Default)
	assert.False(t, orders.Columns[2].Nullable)

	assert.Equal(t, int64(2), orders.RowCount)
	require.Len(t, orders.Samples, 1)
	assert.Equal(t, "vendor", orders.Samples[0][1].Column)

	items, ok := snapshot.Lookup("purchase_order_items")
	require.True(t, ok)
	require.Len(t, items.ForeignKeys, 1)
	assert.Equal(t, "purchase_order_id", items.ForeignKeys[0].Column)
	assert.Equal(t, "purchase_orders", items.ForeignKeys[0].RefTable)
	assert.Equal(t, "id", items.ForeignKeys[0].RefColumn)
}

func TestBuildSkipsFailingTable(t *testing.T) {
	cases := []struct {
		name     string
		errorKey string
	}{
		{"column introspection fails", "broken:columns"},
		{"foreign key introspection fails", "broken:fks"},
		{"row count fails", "broken:count"},
		{"sample fetch fails", "broken:sample"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeIntrospector()
			fake.addTable("healthy", []store.ColumnMeta{
				{Name: "id", Type: "INTEGER", PrimaryKey: true},
			})
			fake.addTable("broken", []store.ColumnMeta{
				{Name: "id", Type: "INTEGER", PrimaryKey: true},
			})
			fake.errors[tc.errorKey] = fmt.Errorf("database disk image is malformed")

			builder := NewBuilder(fake, 3)

			snapshot, err := builder.Build(context.Background())
			require.NoError(t, err, "a single broken table must not fail the build")

			assert.Equal(t, 1, snapshot.Len())
			assert.True(t, snapshot.Partial())
			assert.Equal(t, []string{"broken"}, snapshot.Failed)

			_, ok := snapshot.Lookup("healthy")
			assert.True(t, ok)

			_, ok = snapshot.Lookup("broken")
			assert.False(t, ok)
		})
	}
}

func TestBuildListTablesError(t *testing.T) {
	fake := newFakeIntrospector()
	fake.listTablesErr = fmt.Errorf("unable to open database file")

	builder := NewBuilder(fake, 3)

	snapshot, err := builder.Build(context.Background())
	require.Error(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 0, snapshot.Len())
	assert.False(t, snapshot.BuiltAt.IsZero())
}

func TestBuildSampleRowsDefault(t *testing.T) {
	fake := newFakeIntrospector()
	fake.addTable("t", []store.ColumnMeta{{Name: "id", Type: "INTEGER"}})

	builder := NewBuilder(fake, 0)

	_, err := builder.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, fake.sampleLimits, 1)
	assert.Equal(t, 3, fake.sampleLimits[0])
}

func TestBuildFromStore(t *testing.T) {
	st := testutil.NewSeededStore(t)

	builder := NewBuilder(st, 3)

	snapshot, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, snapshot.Len())
	assert.False(t, snapshot.Partial())

	orders, ok := snapshot.Lookup("purchase_orders")
	require.True(t, ok)
	assert.Equal(t, int64(2), orders.RowCount)
	require.Len(t, orders.Samples, 2)

	vendor := findColumn(t, orders.Columns, "vendor")
	assert.Equal(t, "VARCHAR(100)", vendor.Type)
	assert.True(t, vendor.Nullable)
	assert.False(t, vendor.PrimaryKey)

	items, ok := snapshot.Lookup("purchase_order_items")
	require.True(t, ok)
	require.Len(t, items.ForeignKeys, 1)
	assert.Equal(t, "purchase_orders", items.ForeignKeys[0].RefTable)

	statements, ok := snapshot.Lookup("bank_statements")
	require.True(t, ok)
	assert.Empty(t, statements.ForeignKeys)
	assert.Equal(t, int64(4), statements.RowCount)
	assert.Len(t, statements.Samples, 3)
}

func TestBuildEmptyDatabase(t *testing.T) {
	st := testutil.NewEmptyStore(t)

	builder := NewBuilder(st, 3)

	snapshot, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Len())
	assert.False(t, snapshot.Partial())
}

func findColumn(t *testing.T, columns []Column, name string) Column {
	t.Helper()

	for _, col := range columns {
		if col.Name == name {
			return col
		}
	}

	t.Fatalf("column %q not found", name)

	return Column{}
}
