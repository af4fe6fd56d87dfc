package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/formatter"
	"github.com/askdb-io/askdb/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show tables, columns, and relationships",
	Long: `Introspect the database and print every table with its columns, primary
keys, nullability, defaults, and foreign-key relationships, plus row counts.
This is the same snapshot the ask command sends to the model.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	st, err := openStore(appConfig, false)
	if err != nil {
		return err
	}
	defer st.Close()

	return runSchemaWithSource(cmd.Context(), st, appConfig.Cache.SampleRows)
}

// runSchemaWithSource introspects the schema and prints the rendered snapshot
func runSchemaWithSource(ctx context.Context, source schema.Introspector, sampleRows int) error {
	snap, err := schema.NewBuilder(source, sampleRows).Build(ctx)
	if err != nil {
		return err
	}

	fmt.Println(formatter.NewFormatter().FormatSnapshot(snap))

	return nil
}
