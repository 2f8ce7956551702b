package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Provider names accepted by update.provider.
const (
	ProviderYahoo     = "yahoo"
	ProviderFivePaisa = "fivepaisa"
)

type Config struct {
	// Environment selects secret resolution: "prod" pulls brokerage and
	// database secrets from the AWS SSM parameter store, anything else
	// uses the values in the config file / environment as-is.
	Environment string `mapstructure:"environment"`

	Update    UpdateConfig    `mapstructure:"update"`
	Yahoo     YahooConfig     `mapstructure:"yahoo"`
	FivePaisa FivePaisaConfig `mapstructure:"fivepaisa"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// UpdateConfig drives the per-symbol update run.
type UpdateConfig struct {
	Symbols  []string `mapstructure:"symbols"`
	Provider string   `mapstructure:"provider"`
	SaveDir  string   `mapstructure:"save_dir"`
	ReadDir  string   `mapstructure:"read_dir"`
	Interval string   `mapstructure:"interval"`

	// Start overrides the computed update window ("YYYY-MM-DD"). Empty
	// means: continue from the last stored bar, or DefaultStart when no
	// local data exists.
	Start        string `mapstructure:"start"`
	DefaultStart string `mapstructure:"default_start"`

	// ContinueOnError keeps the batch going past a failing symbol and
	// reports all failures at the end. Off by default: the first failure
	// aborts the run.
	ContinueOnError bool `mapstructure:"continue_on_error"`
}

type YahooConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load reads configuration from config.yaml, environment variables and the
// given CLI flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path := flagValue(flags, "config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // config.yaml
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Support environment variables with dot notation (e.g., UPDATE_SAVE_DIR)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// The config file is optional when flags and env provide everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	cfg.resolveSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func flagValue(flags *pflag.FlagSet, name string) string {
	if flags == nil {
		return ""
	}
	f := flags.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// bindFlags maps CLI flag names onto config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"update.symbols":           "symbols",
		"update.provider":          "provider",
		"update.save_dir":          "save-dir",
		"update.read_dir":          "read-dir",
		"update.interval":          "interval",
		"update.start":             "start",
		"update.continue_on_error": "continue-on-error",
		"fivepaisa.totp":           "totp",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if len(c.Update.Symbols) == 0 {
		return fmt.Errorf("update.symbols must list at least one symbol")
	}
	if c.Update.SaveDir == "" {
		return fmt.Errorf("update.save_dir is required")
	}
	switch c.Update.Provider {
	case ProviderYahoo:
	case ProviderFivePaisa:
		if c.FivePaisa.ClientCode == "" || c.FivePaisa.UserKey == "" {
			return fmt.Errorf("fivepaisa.client_code and fivepaisa.user_key are required for provider %q", ProviderFivePaisa)
		}
		if c.FivePaisa.ScripMapFile == "" {
			return fmt.Errorf("fivepaisa.scrip_map_file is required for provider %q", ProviderFivePaisa)
		}
	default:
		return fmt.Errorf("update.provider must be %q or %q, got %q",
			ProviderYahoo, ProviderFivePaisa, c.Update.Provider)
	}
	if _, err := c.Update.StartTime(); err != nil {
		return err
	}
	if _, err := c.Update.DefaultStartTime(); err != nil {
		return err
	}
	if c.Database.Driver != "" &&
		c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("database.driver must be %q or %q, got %q",
			DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	return nil
}

// StartTime parses the explicit window start override; zero when unset.
func (u UpdateConfig) StartTime() (time.Time, error) {
	return parseDate("update.start", u.Start)
}

// DefaultStartTime parses the fallback start for symbols with no local data.
func (u UpdateConfig) DefaultStartTime() (time.Time, error) {
	return parseDate("update.default_start", u.DefaultStart)
}

func parseDate(key, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q, want YYYY-MM-DD", key, value)
	}
	return ts, nil
}
