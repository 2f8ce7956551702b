package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"nsefetch/config"
	"nsefetch/internal/series"
	"nsefetch/internal/updater"
	"nsefetch/logger"
	"nsefetch/pkg/fivepaisa"
	"nsefetch/pkg/storage/csvstore"
	"nsefetch/pkg/storage/database"
	"nsefetch/pkg/yahoo"
)

func main() {
	pflag.String("config", "", "path to the config file (default: config.yaml in . or ./config)")
	pflag.StringSlice("symbols", nil, "symbols to update, e.g. TCS.NS,INFY.NS")
	pflag.String("provider", "", "price provider: yahoo or fivepaisa")
	pflag.String("save-dir", "", "directory CSV files are written to")
	pflag.String("read-dir", "", "directory existing CSV files are read from (defaults to save-dir)")
	pflag.String("interval", "", "bar interval, e.g. 1d or 15m")
	pflag.String("start", "", "explicit window start (YYYY-MM-DD), replaces incremental resume")
	pflag.Bool("continue-on-error", false, "keep updating remaining symbols after a failure")
	pflag.String("totp", "", "TOTP code for the 5paisa login")
	pflag.Parse()

	// viper config
	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	// run update
	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("update run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := newStore(cfg.Update)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return err
	}

	var mirror updater.Mirror
	if cfg.Database.Enabled() {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database mirror: %w", err)
		}
		defer db.Close()
		mirror = db
		log.Info("mirroring updates to database", zap.String("driver", cfg.Database.Driver))
	}

	startOverride, err := cfg.Update.StartTime()
	if err != nil {
		return err
	}
	defaultStart, err := cfg.Update.DefaultStartTime()
	if err != nil {
		return err
	}

	u := updater.New(updater.Options{
		Symbols:         cfg.Update.Symbols,
		DefaultStart:    defaultStart,
		StartOverride:   startOverride,
		Step:            updater.StepForInterval(cfg.Update.Interval),
		ContinueOnError: cfg.Update.ContinueOnError,
	}, fetcher, store, mirror, log)

	results, err := u.Run(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, r := range results {
		total += r.Fetched
	}
	log.Info("update complete",
		zap.Int("symbols", len(results)),
		zap.Int("bars_fetched", total),
	)
	return nil
}

// splitStore reads existing series from one directory and writes merged
// series to another, for runs where read_dir and save_dir differ.
type splitStore struct {
	read  *csvstore.Store
	write *csvstore.Store
}

func (s splitStore) Load(symbol string) (series.Series, error) {
	return s.read.Load(symbol)
}

func (s splitStore) Save(symbol string, sr series.Series) error {
	return s.write.Save(symbol, sr)
}

func newStore(cfg config.UpdateConfig) (updater.Store, error) {
	write, err := csvstore.New(cfg.SaveDir)
	if err != nil {
		return nil, err
	}
	if cfg.ReadDir == cfg.SaveDir {
		return write, nil
	}
	read, err := csvstore.New(cfg.ReadDir)
	if err != nil {
		return nil, err
	}
	return splitStore{read: read, write: write}, nil
}

func newFetcher(ctx context.Context, cfg *config.Config) (updater.Fetcher, error) {
	switch cfg.Update.Provider {
	case config.ProviderYahoo:
		return yahoo.NewClient(cfg.Yahoo.BaseURL, cfg.Update.Interval, cfg.Yahoo.Timeout), nil

	case config.ProviderFivePaisa:
		client := fivepaisa.NewClient(cfg.FivePaisa.BaseURL, cfg.Update.Interval,
			cfg.FivePaisa.Timeout, fivepaisa.Credentials{
				AppName:       cfg.FivePaisa.AppName,
				AppSource:     cfg.FivePaisa.AppSource,
				UserID:        cfg.FivePaisa.UserID,
				Password:      cfg.FivePaisa.Password,
				UserKey:       cfg.FivePaisa.UserKey,
				EncryptionKey: cfg.FivePaisa.EncryptionKey,
				ClientCode:    cfg.FivePaisa.ClientCode,
				PIN:           cfg.FivePaisa.PIN,
			})
		if err := client.LoadScripMap(cfg.FivePaisa.ScripMapFile); err != nil {
			return nil, fmt.Errorf("load scrip map: %w", err)
		}
		if err := client.Login(ctx, cfg.FivePaisa.TOTP); err != nil {
			return nil, fmt.Errorf("fivepaisa login: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Update.Provider)
	}
}
