package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/config"
	"github.com/askdb-io/askdb/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display database statistics",
	Long: `Show statistics about the practice database: file size, table and row
totals, per-table row counts, and the configured cache sizes.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	st, err := openStore(appConfig, false)
	if err != nil {
		return err
	}
	defer st.Close()

	return runStatsWithStore(cmd.Context(), st, appConfig)
}

// runStatsWithStore collects and prints database figures
func runStatsWithStore(ctx context.Context, st *store.Store, cfg *config.Config) error {
	report, err := st.Check(ctx)
	if err != nil {
		return err
	}

	var totalRows int64
	for _, table := range report.Tables {
		totalRows += table.Rows
	}

	fmt.Printf("Database Statistics\n")
	fmt.Printf("===================\n\n")

	fmt.Printf("File: %s\n", report.Path)
	fmt.Printf("Size: %.2f MB\n", float64(report.FileSizeBytes)/(1024*1024))
	fmt.Printf("Tables: %d\n", len(report.Tables))
	fmt.Printf("Total Rows: %d\n", totalRows)

	if len(report.Tables) > 0 {
		fmt.Printf("\nRows by Table:\n")

		// Sort tables by row count (descending)
		sorted := make([]store.TableCount, len(report.Tables))
		copy(sorted, report.Tables)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Rows > sorted[j].Rows
		})

		for _, table := range sorted {
			fmt.Printf("  %-22s %4d rows\n", table.Table, table.Rows)
		}
	}

	fmt.Printf("\nConfigured Caches:\n")
	fmt.Printf("  Schema snapshots: %d\n", cfg.Cache.SchemaCapacity)
	fmt.Printf("  Query results: %d\n", cfg.Cache.ResultCapacity)

	return nil
}
