// Package formatter renders query results, schema views, and diagnostic
// reports for terminal display.
package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/askdb-io/askdb/internal/schema"
	"github.com/askdb-io/askdb/internal/store"
)

// Formatter handles terminal output formatting
type Formatter struct{}

// NewFormatter creates a new formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatResultSet renders rows as an aligned markdown table with a row
// count footer
func (f *Formatter) FormatResultSet(rs *store.ResultSet) string {
	if rs == nil || len(rs.Columns) == 0 {
		return "(no rows)"
	}

	widths := make([]int, len(rs.Columns))
	for i, col := range rs.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}

	cells := make([][]string, len(rs.Rows))

	for r, row := range rs.Rows {
		cells[r] = make([]string, len(rs.Columns))

		for i := range rs.Columns {
			value := "NULL"
			if i < len(row) {
				value = store.FormatValue(row[i].Value)
			}

			// Pipes would break the table layout
			value = strings.ReplaceAll(value, "|", "\\|")

			cells[r][i] = value

			if width := utf8.RuneCountInString(value); width > widths[i] {
				widths[i] = width
			}
		}
	}

	var lines []string

	header := make([]string, len(rs.Columns))
	separator := make([]string, len(rs.Columns))

	for i, col := range rs.Columns {
		header[i] = pad(col, widths[i])
		separator[i] = strings.Repeat("-", widths[i])
	}

	lines = append(lines, "| "+strings.Join(header, " | ")+" |")
	lines = append(lines, "|-"+strings.Join(separator, "-|-")+"-|")

	for _, row := range cells {
		padded := make([]string, len(row))
		for i, value := range row {
			padded[i] = pad(value, widths[i])
		}

		lines = append(lines, "| "+strings.Join(padded, " | ")+" |")
	}

	lines = append(lines, "")
	lines = append(lines, formatRowCount(int64(len(rs.Rows))))

	return strings.Join(lines, "\n")
}

// FormatSnapshot renders the schema view shown by the schema command
func (f *Formatter) FormatSnapshot(snap *schema.Snapshot) string {
	if snap == nil || snap.Len() == 0 {
		return "No tables found in the database."
	}

	var lines []string

	lines = append(lines, "Database Schema")
	lines = append(lines, "")

	for _, table := range snap.Tables {
		lines = append(lines, fmt.Sprintf("%s (%s)", table.Name, formatRowCount(table.RowCount)))

		nameWidth, typeWidth := columnWidths(table.Columns)

		for _, col := range table.Columns {
			marker := " "
			if col.PrimaryKey {
				marker = "✓"
			}

			nullable := "NULL"
			if !col.Nullable {
				nullable = "NOT NULL"
			}

			line := fmt.Sprintf("  %s  %s  %s  %s",
				pad(col.Name, nameWidth), pad(col.Type, typeWidth), marker, nullable)

			if col.Default != nil {
				line += " DEFAULT " + *col.Default
			}

			lines = append(lines, line)
		}

		if len(table.ForeignKeys) > 0 {
			lines = append(lines, "  Relationships:")

			for _, fk := range table.ForeignKeys {
				lines = append(lines, fmt.Sprintf("    %s → %s.%s", fk.Column, fk.RefTable, fk.RefColumn))
			}
		}

		lines = append(lines, "")
	}

	if snap.Partial() {
		lines = append(lines, fmt.Sprintf("Warning: %d table(s) could not be introspected: %s",
			len(snap.Failed), strings.Join(snap.Failed, ", ")))
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// FormatCheckReport renders the doctor command's connection diagnostics
func (f *Formatter) FormatCheckReport(report *store.CheckReport) string {
	var lines []string

	lines = append(lines, "Database Connection Status:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Connection successful (checked in %.2fs)", report.ConnectTime.Seconds()))
	lines = append(lines, fmt.Sprintf("File: %s (%s)", report.Path, formatBytes(report.FileSizeBytes)))
	lines = append(lines, "")

	if len(report.Tables) == 0 {
		lines = append(lines, "No tables found in the database.")
		lines = append(lines, "Run 'askdb seed' to create and populate the sample schema.")

		return strings.Join(lines, "\n")
	}

	lines = append(lines, "Tables found in the database:")
	lines = append(lines, f.formatTableCounts(report.Tables)...)

	if len(report.EmptyTables) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Warning: %d empty table(s): %s",
			len(report.EmptyTables), strings.Join(report.EmptyTables, ", ")))
	}

	return strings.Join(lines, "\n")
}

// FormatSeedCounts renders the per-table summary printed after seeding
func (f *Formatter) FormatSeedCounts(counts []store.TableCount) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Seeded %d tables:", len(counts)))
	lines = append(lines, f.formatTableCounts(counts)...)

	return strings.Join(lines, "\n")
}

// formatTableCounts renders aligned "name  rows" lines
func (f *Formatter) formatTableCounts(counts []store.TableCount) []string {
	nameWidth := 0

	for _, tc := range counts {
		if width := utf8.RuneCountInString(tc.Table); width > nameWidth {
			nameWidth = width
		}
	}

	lines := make([]string, 0, len(counts))

	for _, tc := range counts {
		lines = append(lines, fmt.Sprintf("  %s  %s", pad(tc.Table, nameWidth), formatRowCount(tc.Rows)))
	}

	return lines
}

// formatRowCount pluralizes a row count
func formatRowCount(count int64) string {
	if count == 1 {
		return "1 row"
	}

	return fmt.Sprintf("%d rows", count)
}

// formatBytes renders a byte size with a human-friendly unit
func formatBytes(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// pad right-pads a string with spaces to the given display width
func pad(s string, width int) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}

	return s + strings.Repeat(" ", gap)
}

// columnWidths computes display widths for name and type columns
func columnWidths(columns []schema.Column) (int, int) {
	nameWidth, typeWidth := 0, 0

	for _, col := range columns {
		if width := utf8.RuneCountInString(col.Name); width > nameWidth {
			nameWidth = width
		}

		if width := utf8.RuneCountInString(col.Type); width > typeWidth {
			typeWidth = width
		}
	}

	return nameWidth, typeWidth
}
