package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/errors"
	"github.com/askdb-io/askdb/internal/formatter"
	"github.com/askdb-io/askdb/internal/store"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and populate the sample practice database",
	Long: `Create the database file and load the demo practice-management schema:
bank statements, profit and loss reports, purchase orders and their items,
the supply catalog, equity ownership, payor contracts, and contract
procedures. Prints per-table row counts after loading.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false,
		"Replace the database file if it already exists")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := appConfig

	if _, err := os.Stat(cfg.Database.Path); err == nil {
		if !seedForce {
			return errors.Newf(errors.ErrTypeValidation,
				"database %s already exists (use --force to overwrite)", cfg.Database.Path)
		}

		if err := os.Remove(cfg.Database.Path); err != nil {
			return errors.Wrapf(err, errors.ErrTypeFileSystem,
				"failed to remove existing database %s", cfg.Database.Path)
		}
	}

	st, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer st.Close()

	return runSeedWithStore(cmd.Context(), st)
}

// runSeedWithStore loads the sample schema and reports row counts
func runSeedWithStore(ctx context.Context, st *store.Store) error {
	counts, err := st.Seed(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Database created at %s\n\n", st.Path())
	fmt.Println(formatter.NewFormatter().FormatSeedCounts(counts))

	return nil
}
