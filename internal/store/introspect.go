package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ColumnMeta describes one column as reported by PRAGMA table_info
type ColumnMeta struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	Default    sql.NullString
	PrimaryKey bool
}

// ForeignKeyMeta describes one outgoing foreign key of a table
type ForeignKeyMeta struct {
	Column    string
	RefTable  string
	RefColumn string
}

// ListTables returns the names of all user tables in creation order,
// excluding SQLite internals
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rs, err := s.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, rs.Len())

	for _, row := range rs.Rows {
		if name, ok := row.Get("name"); ok {
			tables = append(tables, FormatValue(name))
		}
	}

	return tables, nil
}

// TableColumns returns column metadata for a table via PRAGMA table_info
func (s *Store) TableColumns(ctx context.Context, table string) ([]ColumnMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ColumnMeta

	for rows.Next() {
		var (
			col     ColumnMeta
			notNull int
			pk      int
		)

		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &notNull, &col.Default, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}

		col.NotNull = notNull != 0
		col.PrimaryKey = pk != 0
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("column iteration failed for %s: %w", table, err)
	}

	return columns, nil
}

// TableForeignKeys returns outgoing foreign keys via PRAGMA foreign_key_list
func (s *Store) TableForeignKeys(ctx context.Context, table string) ([]ForeignKeyMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var keys []ForeignKeyMeta

	for rows.Next() {
		var (
			id, seq                   int
			refTable, from            string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)

		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key of %s: %w", table, err)
		}

		key := ForeignKeyMeta{Column: from, RefTable: refTable}
		if to.Valid {
			key.RefColumn = to.String
		} else {
			// Reference to the target's primary key when no column is named
			key.RefColumn = "id"
		}

		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("foreign key iteration failed for %s: %w", table, err)
	}

	return keys, nil
}

// TableRowCount returns the current row count of a table
func (s *Store) TableRowCount(ctx context.Context, table string) (int64, error) {
	var count int64

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdentifier(table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}

	return count, nil
}

// TableSample returns up to limit representative rows from a table
func (s *Store) TableSample(ctx context.Context, table string, limit int) ([]Row, error) {
	if limit <= 0 {
		return nil, nil
	}

	rs, err := s.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdentifier(table), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to sample rows of %s: %w", table, err)
	}

	return rs.Rows, nil
}
