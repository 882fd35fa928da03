package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/modelmerge/pkg/constants"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/owners"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reconciliation configuration
	Owners     []string
	Policy     string
	Analyze    bool
	Provenance bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.modelmerge.yaml or ./.modelmerge.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("policy", string(grouping.DefaultPolicy))
	viper.SetDefault("analyze", false)
	viper.SetDefault("provenance", false)

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Reconciliation configuration
		Owners:     ownerEntries(viper.Get("owners")),
		Policy:     viper.GetString("policy"),
		Analyze:    viper.GetBool("analyze"),
		Provenance: viper.GetBool("provenance"),

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ReadConfigFile merges settings from an explicitly named config file.
// Keys for which changed reports true were set on the command line and are
// left alone.
func (c *Config) ReadConfigFile(path string, changed func(name string) bool) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError("config", "failed to read "+path, err)
	}
	c.ConfigFile = v.ConfigFileUsed()

	if !changed("owners") && v.IsSet("owners") {
		c.Owners = ownerEntries(v.Get("owners"))
	}
	if !changed("policy") && v.IsSet("policy") {
		c.Policy = v.GetString("policy")
	}
	if !changed("format") && v.IsSet("format") {
		c.Format = v.GetString("format")
	}
	if !changed("verbose") && v.IsSet("verbose") {
		c.Verbose = v.GetBool("verbose")
	}
	if !changed("quiet") && v.IsSet("quiet") {
		c.Quiet = v.GetBool("quiet")
	}
	if !changed("no-color") && v.IsSet("no-color") {
		c.NoColor = v.GetBool("no-color")
	}
	if v.IsSet("analyze") {
		c.Analyze = v.GetBool("analyze")
	}
	if v.IsSet("provenance") {
		c.Provenance = v.GetBool("provenance")
	}
	return nil
}

// OwnerSet validates the configured owner tokens. An empty list yields the
// built-in default set.
func (c *Config) OwnerSet() (owners.Set, error) {
	if len(c.Owners) == 0 {
		return owners.Default(), nil
	}
	return owners.Parse(c.Owners)
}

// ownerEntries accepts owners either as a YAML list or as a single
// comma-separated string (the usual shape in environment variables).
func ownerEntries(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
