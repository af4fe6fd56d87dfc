package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/config"
	"github.com/askdb-io/askdb/internal/errors"
	"github.com/askdb-io/askdb/internal/llm"
	"github.com/askdb-io/askdb/internal/logging"
	"github.com/askdb-io/askdb/internal/store"
)

var (
	rootConfigPath string
	rootDBPath     string
	rootLogLevel   string
	rootLogFormat  string
)

// appConfig is resolved by initApp before any command body runs
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "askdb",
	Short: "Ask a practice-management database questions in plain English",
	Long: `askdb answers natural-language questions about a practice-management
SQLite database. Each question is sent to a language-model provider together
with a live snapshot of the database schema, and the SQL the model writes
back is tidied up before the answer is shown: DISTINCT on joined queries,
case-insensitive partial matching on text comparisons, LIMIT on unbounded
scans. Answers that look empty or truncated get a data-quality note.

It can also run read-only SQL directly, render the schema, seed a demo
database, and check connection health.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

func Execute() error {
	ctx := context.Background()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "",
		"Config file path (default ~/.config/askdb/config.json)")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "",
		"SQLite database file path")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "",
		"Log format: text or json")
}

// initApp resolves configuration and initializes logging for every command.
// Flags beat environment variables, which beat the config file.
func initApp(_ *cobra.Command, _ []string) error {
	if rootConfigPath != "" {
		os.Setenv("ASKDB_CONFIG", rootConfigPath)
	}

	cfg, err := config.LoadWithOverrides(map[string]interface{}{
		"db":         rootDBPath,
		"log-level":  rootLogLevel,
		"log-format": rootLogFormat,
		"provider":   askProvider,
		"model":      askModel,
		"timeout":    askTimeout,
	})
	if err != nil {
		logging.SetupFallbackLogger()
		logging.ErrorWithErr("configuration load failed", err)

		return errors.Wrap(err, errors.ErrTypeConfig, "failed to load configuration")
	}

	cfg.ExpandAllPaths()

	if err := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return errors.Wrap(err, errors.ErrTypeConfig, "failed to initialize logging")
	}

	appConfig = cfg

	return nil
}

// openStore opens the configured database with pool settings from
// configuration. Only the seeding path sets createIfMissing.
func openStore(cfg *config.Config, createIfMissing bool) (*store.Store, error) {
	opts := store.DefaultOptions()
	opts.MaxConnections = cfg.Database.MaxConnections
	opts.MaxIdleConns = cfg.Database.MaxIdleConns
	opts.CreateIfMissing = createIfMissing

	// Both durations are validated at load time
	if d, err := time.ParseDuration(cfg.Database.ConnMaxLifetime); err == nil {
		opts.ConnMaxLifetime = d
	}

	if d, err := time.ParseDuration(cfg.Database.QueryTimeout); err == nil {
		opts.QueryTimeout = d
	}

	return store.Open(cfg.Database.Path, opts)
}

// buildAgent constructs the language-model client from configuration
func buildAgent(cfg *config.Config) (llm.Agent, error) {
	agent, err := llm.NewAgent(llm.Config{
		Provider: cfg.Agent.Provider,
		Model:    cfg.Agent.Model,
		APIKey:   cfg.Agent.APIKey,
		BaseURL:  cfg.Agent.BaseURL,
		Timeout:  cfg.AgentTimeout(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeConfig, "failed to configure model provider")
	}

	return agent, nil
}
