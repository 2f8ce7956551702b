package database

import (
	"context"
	"fmt"

	"nsefetch/config"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Client is the optional database mirror of the CSV store.
type Client struct {
	DB *gorm.DB
}

// Open connects to the configured backend and runs migrations. The sqlite
// backend needs nothing but a file path; postgres optionally bootstraps the
// database first.
func Open(cfg config.DatabaseConfig) (*Client, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.DriverPostgres:
		if cfg.Postgres.CreateDB {
			if err := CreateDatabase(cfg.Postgres); err != nil {
				return nil, fmt.Errorf("create database: %w", err)
			}
		}
		dialector = postgres.Open(cfg.Postgres.DSN())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	client := &Client{DB: db}
	if err := client.AutoMigrateBarRecord(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

func (c *Client) AutoMigrateBarRecord() error {
	if err := c.DB.AutoMigrate(&BarRecord{}); err != nil {
		return fmt.Errorf("auto-migrate price_bars: %w", err)
	}
	return nil
}

func (c *Client) IsHealthy(ctx context.Context) bool {
	db, err := c.DB.DB()
	if err != nil {
		return false
	}
	return db.PingContext(ctx) == nil
}

func (c *Client) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
