package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/cache"
	"github.com/askdb-io/askdb/internal/errors"
	"github.com/askdb-io/askdb/internal/formatter"
	"github.com/askdb-io/askdb/internal/store"
)

var sqlNoCache bool

var sqlCmd = &cobra.Command{
	Use:   "sql [statement]",
	Short: "Run a read-only SQL statement",
	Long: `Execute a SELECT statement directly and print the rows as a markdown
table. Anything that is not a plain read (INSERT, UPDATE, DDL, PRAGMA
writes) is rejected before it reaches the database.

Without a statement, sql starts an interactive session. Results are cached
for the session, so repeating a statement does not hit the database again.`,
	Example: `  askdb sql "SELECT vendor, total_amount FROM purchase_orders"
  askdb sql "SELECT name, ownership_percent FROM equity_ownership ORDER BY ownership_percent DESC"
  askdb sql --no-cache "SELECT COUNT(*) FROM bank_statements"
  askdb sql`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlNoCache, "no-cache", false,
		"Execute directly instead of reusing cached results")

	rootCmd.AddCommand(sqlCmd)
}

func runSQL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(appConfig, false)
	if err != nil {
		return err
	}
	defer st.Close()

	results := cache.NewResultCache(appConfig.Cache.ResultCapacity)

	if len(args) == 0 {
		return runSQLInteractive(ctx, os.Stdin, st, results)
	}

	return runSQLStatement(ctx, st, results, args[0])
}

// runSQLStatement executes one statement and prints the result table
func runSQLStatement(ctx context.Context, st *store.Store, results *cache.ResultCache, statement string) error {
	rs, err := executeSelect(ctx, st, results, statement)
	if err != nil {
		return err
	}

	fmt.Println(formatter.NewFormatter().FormatResultSet(rs))

	return nil
}

// runSQLInteractive reads statements until EOF or an exit word. The result
// cache lives for the whole session, so repeated statements are free.
func runSQLInteractive(ctx context.Context, in io.Reader, st *store.Store, results *cache.ResultCache) error {
	fmt.Println(`Enter read-only SQL statements. Type "exit" to quit.`)

	format := formatter.NewFormatter()
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print("sql> ")

		if !scanner.Scan() {
			fmt.Println()
			break
		}

		statement := strings.TrimSpace(scanner.Text())
		if statement == "" {
			continue
		}

		if statement == "exit" || statement == "quit" {
			break
		}

		rs, err := executeSelect(ctx, st, results, statement)
		if err != nil {
			fmt.Printf("Error: %s\n\n", errors.GetMessage(err))
			continue
		}

		fmt.Println(format.FormatResultSet(rs))
		fmt.Println()
	}

	return scanner.Err()
}

// executeSelect routes a statement through the result cache unless --no-cache
// asked for a direct run
func executeSelect(ctx context.Context, st *store.Store, results *cache.ResultCache, statement string) (*store.ResultSet, error) {
	if sqlNoCache {
		return st.RunSelect(ctx, statement)
	}

	return results.GetOrRun(ctx, statement, func(ctx context.Context) (*store.ResultSet, error) {
		return st.RunSelect(ctx, statement)
	})
}
