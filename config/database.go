package config

import "fmt"

// Database drivers for the optional mirror.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig configures the optional database mirror of the CSV store.
// An empty Driver disables it.
type DatabaseConfig struct {
	Driver     string         `mapstructure:"driver"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
}

// Enabled reports whether a mirror backend is configured.
func (c DatabaseConfig) Enabled() bool { return c.Driver != "" }

// PostgresConfig defines the configuration for connecting to a PostgreSQL
// database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	// CreateDB bootstraps the database on startup if it doesn't exist.
	CreateDB bool `mapstructure:"create_db"`
}

// DSN builds the connection string for the configured database.
func (cfg PostgresConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}
	return dsn
}

// AdminDSN builds a connection string against the default 'postgres'
// database, used to create the target database before it exists.
func (cfg PostgresConfig) AdminDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.SSLMode,
	)
}
