package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/formatter"
	"github.com/askdb-io/askdb/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and table health",
	Long: `Verify that the database file exists, measure how long a connection check
takes, and list every table with its row count. Empty tables are called out,
since they usually mean the seed step was skipped.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	st, err := openStore(appConfig, false)
	if err != nil {
		return err
	}
	defer st.Close()

	return runDoctorWithStore(cmd.Context(), st)
}

// runDoctorWithStore runs the health check and prints the report
func runDoctorWithStore(ctx context.Context, st *store.Store) error {
	report, err := st.Check(ctx)
	if err != nil {
		return err
	}

	fmt.Println(formatter.NewFormatter().FormatCheckReport(report))

	return nil
}
