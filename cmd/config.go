package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the active configuration after applying defaults, the config file,
ASKDB_* environment variables, and command-line flags, in that order.
Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	return runConfigWith(appConfig)
}

// runConfigWith prints the resolved configuration with secrets masked
func runConfigWith(cfg *config.Config) error {
	fmt.Println("====================")
	fmt.Println("Active Configuration:")

	fmt.Println("\nDatabase:")
	fmt.Printf("  Path: %s\n", cfg.Database.Path)
	fmt.Printf("  Max Connections: %d\n", cfg.Database.MaxConnections)
	fmt.Printf("  Max Idle Connections: %d\n", cfg.Database.MaxIdleConns)
	fmt.Printf("  Connection Max Lifetime: %s\n", cfg.Database.ConnMaxLifetime)
	fmt.Printf("  Query Timeout: %s\n", cfg.Database.QueryTimeout)

	fmt.Println("\nAgent:")
	fmt.Printf("  Provider: %s\n", cfg.Agent.Provider)
	fmt.Printf("  Model: %s\n", orProviderDefault(cfg.Agent.Model))
	fmt.Printf("  API Key: %s\n", maskSecret(cfg.Agent.APIKey))
	fmt.Printf("  Base URL: %s\n", orProviderDefault(cfg.Agent.BaseURL))
	fmt.Printf("  Timeout: %ds\n", cfg.Agent.TimeoutSeconds)

	fmt.Println("\nCache:")
	fmt.Printf("  Schema Capacity: %d\n", cfg.Cache.SchemaCapacity)
	fmt.Printf("  Result Capacity: %d\n", cfg.Cache.ResultCapacity)
	fmt.Printf("  Sample Rows: %d\n", cfg.Cache.SampleRows)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level: %s\n", cfg.Logging.Level)
	fmt.Printf("  Format: %s\n", cfg.Logging.Format)

	if cfg.Logging.File != "" {
		fmt.Printf("  File: %s\n", cfg.Logging.File)
	}

	return nil
}

// maskSecret hides all but the last four characters of a secret
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}

	if len(secret) <= 4 {
		return "****"
	}

	return "****" + secret[len(secret)-4:]
}

// orProviderDefault marks empty optional agent settings
func orProviderDefault(value string) string {
	if value == "" {
		return "(provider default)"
	}

	return value
}
