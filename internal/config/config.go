package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `json:"database" envPrefix:"ASKDB_"`
	Agent    AgentConfig    `json:"agent"    envPrefix:"ASKDB_"`
	Cache    CacheConfig    `json:"cache"    envPrefix:"ASKDB_"`
	Logging  LoggingConfig  `json:"logging"  envPrefix:"ASKDB_"`
}

// DatabaseConfig represents the SQLite database configuration
type DatabaseConfig struct {
	Path            string `json:"path"               env:"DATABASE_PATH"       envDefault:"medical_practice.db"`
	MaxConnections  int    `json:"max_connections"    env:"DB_MAX_CONNECTIONS"  envDefault:"4"`
	MaxIdleConns    int    `json:"max_idle_conns"     env:"DB_MAX_IDLE_CONNS"   envDefault:"2"`
	ConnMaxLifetime string `json:"conn_max_lifetime"  env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	QueryTimeout    string `json:"query_timeout"      env:"DB_QUERY_TIMEOUT"    envDefault:"30s"`
}

// AgentConfig represents the natural-language agent configuration
type AgentConfig struct {
	Provider       string `json:"provider"        env:"AGENT_PROVIDER"        envDefault:"openai"` // openai, anthropic, ollama
	Model          string `json:"model"           env:"AGENT_MODEL"`
	APIKey         string `json:"api_key"         env:"AGENT_API_KEY"`
	BaseURL        string `json:"base_url"        env:"AGENT_BASE_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"AGENT_TIMEOUT_SECONDS" envDefault:"60"`
}

// CacheConfig represents the in-process cache configuration
type CacheConfig struct {
	SchemaCapacity int `json:"schema_capacity" env:"CACHE_SCHEMA_CAPACITY" envDefault:"32"`
	ResultCapacity int `json:"result_capacity" env:"CACHE_RESULT_CAPACITY" envDefault:"100"`
	SampleRows     int `json:"sample_rows"     env:"CACHE_SAMPLE_ROWS"     envDefault:"3"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"` // text, json
	File   string `json:"file"   env:"LOG_FILE"`                     // empty logs to stderr
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration with optional command-line flag overrides.
// Precedence, lowest to highest: struct defaults, config file, environment, flags.
func LoadWithOverrides(flagOverrides map[string]interface{}) (*Config, error) {
	config := &Config{}

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadConfigFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{
		Prefix: "ASKDB_",
	}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if flagOverrides != nil {
		applyFlagOverrides(config, flagOverrides)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadConfigFromFile loads configuration from a JSON file
func loadConfigFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// applyFlagOverrides applies command-line flag overrides to configuration
func applyFlagOverrides(config *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "db":
			if str, ok := value.(string); ok && str != "" {
				config.Database.Path = str
			}
		case "log-level":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Level = str
			}
		case "log-format":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Format = str
			}
		case "provider":
			if str, ok := value.(string); ok && str != "" {
				config.Agent.Provider = str
			}
		case "model":
			if str, ok := value.(string); ok && str != "" {
				config.Agent.Model = str
			}
		case "timeout":
			if n, ok := value.(int); ok && n > 0 {
				config.Agent.TimeoutSeconds = n
			}
		}
	}
}

// mergeConfigs merges source configuration into target configuration
func mergeConfigs(target, source *Config) {
	var mergeValues func(t, s reflect.Value)
	mergeValues = func(t, s reflect.Value) {
		if t.Kind() != s.Kind() {
			return
		}

		if t.Kind() == reflect.Struct {
			for i := 0; i < s.NumField(); i++ {
				mergeValues(t.Field(i), s.Field(i))
			}
		} else if !s.IsZero() {
			t.Set(s)
		}
	}

	mergeValues(reflect.ValueOf(target).Elem(), reflect.ValueOf(source).Elem())
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf(
			"invalid log level: %s (must be debug, info, warn, or error)",
			config.Logging.Level,
		)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", config.Logging.Format)
	}

	validProviders := map[string]bool{
		"openai": true, "anthropic": true, "ollama": true,
	}
	if !validProviders[strings.ToLower(config.Agent.Provider)] {
		return fmt.Errorf(
			"invalid agent provider: %s (must be openai, anthropic, or ollama)",
			config.Agent.Provider,
		)
	}

	if _, err := time.ParseDuration(config.Database.QueryTimeout); err != nil {
		return fmt.Errorf("invalid database query timeout: %s", config.Database.QueryTimeout)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %s", config.Database.ConnMaxLifetime)
	}

	if config.Agent.TimeoutSeconds <= 0 {
		return fmt.Errorf("agent timeout must be positive: %d", config.Agent.TimeoutSeconds)
	}

	if config.Cache.SchemaCapacity <= 0 {
		return fmt.Errorf("schema cache capacity must be positive: %d", config.Cache.SchemaCapacity)
	}

	if config.Cache.ResultCapacity <= 0 {
		return fmt.Errorf("result cache capacity must be positive: %d", config.Cache.ResultCapacity)
	}

	if config.Cache.SampleRows < 0 {
		return fmt.Errorf("sample rows must not be negative: %d", config.Cache.SampleRows)
	}

	return nil
}

// AgentTimeout returns the agent timeout as a duration
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.Agent.TimeoutSeconds) * time.Second
}

// Save saves configuration to file
func Save(config *Config) error {
	configPath := getConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	if configPath := os.Getenv("ASKDB_CONFIG"); configPath != "" {
		return expandPath(configPath)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(homeDir, ".config", "askdb", "config.json")
}

// expandPath expands ~ to home directory in file paths
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ExpandAllPaths expands all paths in the configuration
func (c *Config) ExpandAllPaths() {
	c.Database.Path = expandPath(c.Database.Path)
	c.Logging.File = expandPath(c.Logging.File)
}

// GetConfigDir returns the configuration directory
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/askdb"
	}

	return filepath.Join(homeDir, ".config", "askdb")
}
