// Package prompt renders a schema snapshot and a user question into the
// instruction document handed to the language model. Rendering is
// deterministic: the same snapshot and question always produce
// byte-identical output, which keeps any prompt-level caching by the agent
// layer effective.
package prompt

import (
	"fmt"
	"strings"

	"github.com/askdb-io/askdb/internal/schema"
	"github.com/askdb-io/askdb/internal/store"
)

// queryRequirements steers the model toward SQL that behaves well against
// SQLite: joins guarded with DISTINCT, case-insensitive matching, bounded
// result sizes.
const queryRequirements = `# Query Requirements:
1. ALWAYS use DISTINCT when performing JOINs to avoid duplicate rows
2. Use LOWER() function for case-insensitive string comparisons
3. Use LIKE with wildcards (%) for partial string matching
4. Format dates consistently using strftime() function
5. When appropriate, include GROUP BY for aggregation
6. Use meaningful column aliases for better readability
7. Convert raw data into insights when appropriate
8. Limit result sets to a reasonable size (max 100 rows)
9. Add proper error handling for empty result sets`

const responseFormat = `# Response Format:
1. A brief explanation of how you're approaching the question
2. The SQL query (clearly formatted and with comments)
3. The results in a clean, readable format (use markdown tables for structured data)
4. A plain language explanation of what the results mean
5. (If applicable) Data quality issues identified in the results
6. (If applicable) Recommendations based on the data`

const closing = `Respond with the information requested using the format above. Be thorough but concise.
Explain medical terminology and SQL concepts in simple terms that non-technical users can understand.`

// Compose builds the full prompt: the schema section, the fixed guidance
// block, and the normalized question as the literal tail.
func Compose(snapshot *schema.Snapshot, question string) string {
	var b strings.Builder

	writeSchema(&b, snapshot)

	b.WriteString(queryRequirements)
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	b.WriteString("\n\n")
	b.WriteString(closing)
	b.WriteString("\n\nUser Query: ")
	b.WriteString(question)

	return b.String()
}

// writeSchema renders one section per table in snapshot order
func writeSchema(b *strings.Builder, snapshot *schema.Snapshot) {
	b.WriteString("# Database Schema\n\n")

	for _, table := range snapshot.Tables {
		fmt.Fprintf(b, "## Table: %s (%d rows)\n", table.Name, table.RowCount)

		b.WriteString("### Columns:\n")

		for _, col := range table.Columns {
			writeColumn(b, col)
		}

		if len(table.ForeignKeys) > 0 {
			b.WriteString("### Relationships:\n")

			for _, fk := range table.ForeignKeys {
				fmt.Fprintf(b, "- %s → %s.%s\n", fk.Column, fk.RefTable, fk.RefColumn)
			}
		}

		if len(table.Samples) > 0 {
			b.WriteString("### Sample Data:\n```\n")

			for _, row := range table.Samples {
				b.WriteString(formatRow(row))
				b.WriteString("\n")
			}

			b.WriteString("```\n")
		}

		b.WriteString("\n")
	}
}

// writeColumn renders one column definition line with its annotations
func writeColumn(b *strings.Builder, col schema.Column) {
	fmt.Fprintf(b, "- %s: %s", col.Name, col.Type)

	if col.PrimaryKey {
		b.WriteString(" (PK)")
	}

	if col.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}

	if col.Default != nil {
		fmt.Fprintf(b, " DEFAULT %s", *col.Default)
	}

	b.WriteString("\n")
}

// formatRow renders a sample row as ordered column/value pairs
func formatRow(row store.Row) string {
	var b strings.Builder

	b.WriteString("{")

	for i, field := range row {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s: %s", field.Column, store.FormatValue(field.Value))
	}

	b.WriteString("}")

	return b.String()
}
