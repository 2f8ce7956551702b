package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nsefetch/internal/series"
)

// ErrMalformed marks a local file that exists but cannot be parsed as a
// price series. It is distinct from the file being absent, which Load
// reports as a nil series with no error.
var ErrMalformed = errors.New("malformed price series file")

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

var header = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Store persists one CSV file per symbol under a base directory.
// The file layout is a header row {Date, Open, High, Low, Close, Volume}
// followed by one row per bar. Daily bars carry a date-only timestamp;
// intraday bars a full datetime. Save fully rewrites the file.
type Store struct {
	dir string
}

// New creates the base directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the deterministic file path for a symbol.
func (s *Store) Path(symbol string) string {
	return filepath.Join(s.dir, symbol+".csv")
}

// Load reads the stored series for a symbol. A missing file is not an
// error: it returns (nil, nil) to signal that no prior data exists.
// A file that exists but cannot be parsed returns an error wrapping
// ErrMalformed.
func (s *Store) Load(symbol string) (series.Series, error) {
	f, err := os.Open(s.Path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.Path(symbol), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.Path(symbol), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrMalformed, s.Path(symbol))
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.Path(symbol), err)
	}

	bars := make(series.Series, 0, len(records)-1)
	for i, row := range records[1:] {
		bar, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", ErrMalformed, s.Path(symbol), i+2, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Save writes the series for a symbol, replacing any prior file content.
func (s *Store) Save(symbol string, sr series.Series) error {
	f, err := os.Create(s.Path(symbol))
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path(symbol), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range sr {
		row := []string{
			formatTime(b.Time),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.Path(symbol), err)
	}
	return nil
}

func checkHeader(row []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("header has %d columns, want %d", len(row), len(header))
	}
	// Older files written by the intraday pipeline use "Datetime" as the
	// first column; accept both.
	if row[0] != "Date" && row[0] != "Datetime" {
		return fmt.Errorf("unexpected first column %q", row[0])
	}
	for i := 1; i < len(header); i++ {
		if row[i] != header[i] {
			return fmt.Errorf("unexpected column %q, want %q", row[i], header[i])
		}
	}
	return nil
}

func parseRow(row []string) (series.Bar, error) {
	if len(row) != len(header) {
		return series.Bar{}, fmt.Errorf("row has %d columns, want %d", len(row), len(header))
	}
	ts, err := parseTime(row[0])
	if err != nil {
		return series.Bar{}, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return series.Bar{}, fmt.Errorf("parse %s %q: %v", header[i+1], row[i+1], err)
		}
		vals[i] = v
	}
	return series.Bar{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(layoutDateTime, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(layoutDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q", s)
	}
	return ts, nil
}

func formatTime(t time.Time) string {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 {
		return u.Format(layoutDate)
	}
	return u.Format(layoutDateTime)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
