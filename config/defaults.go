package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultYahooBaseURL     = "https://query1.finance.yahoo.com"
	DefaultFivePaisaBaseURL = "https://openapi.5paisa.com"
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultProvider         = ProviderYahoo
	DefaultInterval         = "1d"
	DefaultSaveDir          = "data/equities"
	DefaultStartDate        = "2019-01-01"
	DefaultSQLitePath       = "data/nsefetch.db"
	DefaultLogLevel         = "info"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "disable"
)

func (c *Config) applyDefaults() {
	if c.Update.Provider == "" {
		c.Update.Provider = DefaultProvider
	}
	if c.Update.Interval == "" {
		c.Update.Interval = DefaultInterval
	}
	if c.Update.SaveDir == "" {
		c.Update.SaveDir = DefaultSaveDir
	}
	if c.Update.ReadDir == "" {
		c.Update.ReadDir = c.Update.SaveDir
	}
	// The brokerage API needs an explicit window; Yahoo treats an unset
	// start as "full available history", so no default there.
	if c.Update.DefaultStart == "" && c.Update.Provider == ProviderFivePaisa {
		c.Update.DefaultStart = DefaultStartDate
	}

	if c.Yahoo.BaseURL == "" {
		c.Yahoo.BaseURL = DefaultYahooBaseURL
	}
	if c.Yahoo.Timeout == 0 {
		c.Yahoo.Timeout = DefaultHTTPTimeout
	}

	if c.FivePaisa.BaseURL == "" {
		c.FivePaisa.BaseURL = DefaultFivePaisaBaseURL
	}
	if c.FivePaisa.Timeout == 0 {
		c.FivePaisa.Timeout = DefaultHTTPTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Database.Driver == DriverSQLite && c.Database.SQLitePath == "" {
		c.Database.SQLitePath = DefaultSQLitePath
	}
	if c.Database.Driver == DriverPostgres {
		if c.Database.Postgres.Port == 0 {
			c.Database.Postgres.Port = DefaultDBPort
		}
		if c.Database.Postgres.SSLMode == "" {
			c.Database.Postgres.SSLMode = DefaultDBSSLMode
		}
	}
}
