package store

import (
	"context"
	"os"
	"time"
)

// CheckReport summarizes database health for the doctor command
type CheckReport struct {
	Path          string
	FileSizeBytes int64
	ConnectTime   time.Duration
	Tables        []TableCount
	EmptyTables   []string
}

// Check verifies connectivity and collects per-table row counts. A store
// that pings but has no tables is reported, not failed; the caller decides
// how loud to be about it.
func (s *Store) Check(ctx context.Context) (*CheckReport, error) {
	report := &CheckReport{Path: s.path}

	if info, err := os.Stat(s.path); err == nil {
		report.FileSizeBytes = info.Size()
	}

	start := time.Now()

	if err := s.Ping(ctx); err != nil {
		return nil, err
	}

	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	report.ConnectTime = time.Since(start)

	for _, table := range tables {
		count, err := s.TableRowCount(ctx, table)
		if err != nil {
			return nil, err
		}

		report.Tables = append(report.Tables, TableCount{Table: table, Rows: count})

		if count == 0 {
			report.EmptyTables = append(report.EmptyTables, table)
		}
	}

	return report, nil
}
