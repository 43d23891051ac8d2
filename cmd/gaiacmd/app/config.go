package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
)

// EnvPrefix prefixes the environment variables read for service settings,
// e.g. GAIACMD_TAP_URL.
const EnvPrefix = "GAIACMD"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Remote services
	TAPURL       string
	Table        string
	RowLimit     int
	SesameURL    string
	IsochroneURL string
	IsochroneDir string
	HTTPTimeout  time.Duration

	// Logging configuration. LogLevel is the --log-level flag and
	// EnvLogLevel the LOG_LEVEL variable; see determineLogLevel.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.gaiacmd.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// LoadConfigFile is LoadConfig with an explicit config file, as given by
// --config. Unlike the default location, the file must exist and parse.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, explicitFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("tap_url", constants.DefaultTAPURL)
	v.SetDefault("table", constants.DefaultGaiaTable)
	v.SetDefault("row_limit", constants.DefaultRowLimit)
	v.SetDefault("sesame_url", constants.DefaultSesameURL)
	v.SetDefault("isochrone_url", constants.DefaultIsochroneBaseURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)

	configFile := explicitFile
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", "cannot read "+configFile+": "+err.Error(), err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".gaiacmd")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		TAPURL:       v.GetString("tap_url"),
		Table:        v.GetString("table"),
		RowLimit:     v.GetInt("row_limit"),
		SesameURL:    v.GetString("sesame_url"),
		IsochroneURL: v.GetString("isochrone_url"),
		IsochroneDir: v.GetString("isochrone_dir"),
		HTTPTimeout:  v.GetDuration("http_timeout"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values take
// precedence over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded last and does not override, so .env wins on conflicts.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
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
