package schema

import (
	"context"
	"time"

	"github.com/askdb-io/askdb/internal/logging"
	"github.com/askdb-io/askdb/internal/store"
)

const defaultSampleRows = 3

// Introspector is the slice of store behavior the builder needs. *store.Store
// satisfies it; tests substitute fakes to exercise failure paths.
type Introspector interface {
	ListTables(ctx context.Context) ([]string, error)
	TableColumns(ctx context.Context, table string) ([]store.ColumnMeta, error)
	TableForeignKeys(ctx context.Context, table string) ([]store.ForeignKeyMeta, error)
	TableRowCount(ctx context.Context, table string) (int64, error)
	TableSample(ctx context.Context, table string, limit int) ([]store.Row, error)
}

// Builder assembles Snapshots from a live store
type Builder struct {
	source     Introspector
	sampleRows int
}

// NewBuilder creates a Builder. sampleRows bounds the representative rows
// fetched per table; zero or negative falls back to the default of 3.
func NewBuilder(source Introspector, sampleRows int) *Builder {
	if sampleRows <= 0 {
		sampleRows = defaultSampleRows
	}

	return &Builder{source: source, sampleRows: sampleRows}
}

// Build introspects every user table and returns a fresh Snapshot.
//
// A failure on a single table is logged and the table omitted so one broken
// table cannot take down the whole schema view. A failure to enumerate
// tables at all is connection-level and returned to the caller.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	tables, err := b.source.ListTables(ctx)
	if err != nil {
		return &Snapshot{BuiltAt: time.Now()}, err
	}

	snapshot := &Snapshot{
		Tables:  make([]Table, 0, len(tables)),
		BuiltAt: time.Now(),
	}

	for _, name := range tables {
		table, err := b.buildTable(ctx, name)
		if err != nil {
			logging.WithField("table", name).
				WithError(err).
				Warn("Skipping table after introspection failure")

			snapshot.Failed = append(snapshot.Failed, name)

			continue
		}

		snapshot.Tables = append(snapshot.Tables, table)
	}

	logging.WithFields(map[string]interface{}{
		"tables":      len(snapshot.Tables),
		"failed":      len(snapshot.Failed),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Schema snapshot built")

	return snapshot, nil
}

// buildTable assembles the full description of one table
func (b *Builder) buildTable(ctx context.Context, name string) (Table, error) {
	table := Table{Name: name}

	columns, err := b.source.TableColumns(ctx, name)
	if err != nil {
		return table, err
	}

	table.Columns = make([]Column, 0, len(columns))

	for _, col := range columns {
		column := Column{
			Name:       col.Name,
			Type:       col.Type,
			PrimaryKey: col.PrimaryKey,
			Nullable:   !col.NotNull,
		}

		if col.Default.Valid {
			value := col.Default.String
			column.Default = &value
		}

		table.Columns = append(table.Columns, column)
	}

	keys, err := b.source.TableForeignKeys(ctx, name)
	if err != nil {
		return table, err
	}

	for _, key := range keys {
		table.ForeignKeys = append(table.ForeignKeys, ForeignKey{
			Column:    key.Column,
			RefTable:  key.RefTable,
			RefColumn: key.RefColumn,
		})
	}

	count, err := b.source.TableRowCount(ctx, name)
	if err != nil {
		return table, err
	}

	table.RowCount = count

	samples, err := b.source.TableSample(ctx, name, b.sampleRows)
	if err != nil {
		return table, err
	}

	table.Samples = samples

	return table, nil
}
