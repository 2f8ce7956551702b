package updater

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nsefetch/internal/series"
)

// Fetcher downloads bars for a symbol over a date window. Both providers
// satisfy it despite their different session models: the Yahoo client is
// stateless, the 5paisa client carries an authenticated session.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, symbol string, start, end time.Time) (series.Series, error)
}

// Store is the local per-symbol series store. Load reports absence as a
// nil series with no error.
type Store interface {
	Load(symbol string) (series.Series, error)
	Save(symbol string, s series.Series) error
}

// Mirror is an optional secondary sink that receives the full merged
// series after every update.
type Mirror interface {
	ReplaceBars(ctx context.Context, symbol string, s series.Series) error
}

// Options configures an update run.
type Options struct {
	Symbols []string

	// DefaultStart is the window start for symbols with no local data.
	// Zero requests the provider's full available history.
	DefaultStart time.Time

	// StartOverride, when set, replaces the computed window start for
	// every symbol.
	StartOverride time.Time

	// Step is the gap added to the last stored timestamp to begin the
	// next window: one day for daily series, one interval for intraday.
	Step time.Duration

	// ContinueOnError keeps going past a failing symbol instead of
	// aborting the batch.
	ContinueOnError bool
}

// Result reports the outcome of one symbol's update.
type Result struct {
	Symbol  string
	Fetched int
	Bars    int
	Err     error
}

// Updater runs the read-fetch-merge-write sequence for each symbol in
// order. Fully sequential: one symbol completes before the next begins.
type Updater struct {
	opts    Options
	fetcher Fetcher
	store   Store
	mirror  Mirror
	logger  *zap.Logger

	now func() time.Time
}

// New creates an Updater. mirror may be nil.
func New(opts Options, fetcher Fetcher, store Store, mirror Mirror, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		opts:    opts,
		fetcher: fetcher,
		store:   store,
		mirror:  mirror,
		logger:  logger,
		now:     time.Now,
	}
}

// Run updates every configured symbol and returns per-symbol results.
// The error is non-nil when any symbol failed; with ContinueOnError off
// the run stops at the first failure.
func (u *Updater) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(u.opts.Symbols))
	failed := 0

	for _, symbol := range u.opts.Symbols {
		res := u.updateSymbol(ctx, symbol)
		results = append(results, res)

		if res.Err != nil {
			failed++
			u.logger.Error("update failed",
				zap.String("symbol", symbol),
				zap.String("provider", u.fetcher.Name()),
				zap.Error(res.Err),
			)
			if !u.opts.ContinueOnError {
				return results, fmt.Errorf("update %s: %w", symbol, res.Err)
			}
			continue
		}

		u.logger.Info("updated symbol",
			zap.String("symbol", symbol),
			zap.Int("fetched", res.Fetched),
			zap.Int("total", res.Bars),
		)
	}

	if failed > 0 {
		return results, fmt.Errorf("%d of %d symbols failed", failed, len(results))
	}
	return results, nil
}

// updateSymbol runs the read, fetch, merge, write sequence for one symbol.
func (u *Updater) updateSymbol(ctx context.Context, symbol string) Result {
	res := Result{Symbol: symbol}

	existing, err := u.store.Load(symbol)
	if err != nil {
		res.Err = fmt.Errorf("load local series: %w", err)
		return res
	}

	start := u.opts.StartOverride
	if start.IsZero() {
		if last, ok := existing.LastTime(); ok {
			start = last.Add(u.opts.Step)
		} else {
			start = u.opts.DefaultStart
		}
	}
	end := u.now()

	u.logger.Info("fetching",
		zap.String("symbol", symbol),
		zap.String("provider", u.fetcher.Name()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	fetched, err := u.fetcher.Fetch(ctx, symbol, start, end)
	if err != nil {
		res.Err = fmt.Errorf("fetch from %s: %w", u.fetcher.Name(), err)
		return res
	}
	res.Fetched = len(fetched)

	merged := series.Merge(existing, fetched)
	res.Bars = len(merged)

	if err := u.store.Save(symbol, merged); err != nil {
		res.Err = fmt.Errorf("save local series: %w", err)
		return res
	}

	if u.mirror != nil {
		if err := u.mirror.ReplaceBars(ctx, symbol, merged); err != nil {
			res.Err = fmt.Errorf("mirror to database: %w", err)
			return res
		}
	}

	return res
}

// StepForInterval maps a provider interval token to the window step used
// after the last stored bar. Unknown tokens fall back to one day.
func StepForInterval(interval string) time.Duration {
	if interval == "1d" || interval == "" {
		return 24 * time.Hour
	}
	if d, err := time.ParseDuration(interval); err == nil {
		return d
	}
	return 24 * time.Hour
}
