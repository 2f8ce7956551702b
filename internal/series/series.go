package series

import (
	"sort"
	"time"
)

// Bar represents a single OHLCV candlestick for one trading period.
type Bar struct {
	Time   time.Time // Start of the trading period (date for daily bars)
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is the price history of one symbol: bars sorted ascending by time
// with no duplicate timestamps. All operations in this package preserve
// that invariant.
type Series []Bar

// LastTime returns the timestamp of the most recent bar.
// The second return value is false when the series is empty.
func (s Series) LastTime() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[len(s)-1].Time, true
}

// Normalize sorts bars ascending by time and drops duplicate timestamps,
// keeping the later occurrence. Fetchers use it to turn raw provider rows
// into a valid Series.
func Normalize(bars []Bar) Series {
	if len(bars) == 0 {
		return nil
	}
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := make(Series, 0, len(sorted))
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Merge combines an existing series with freshly fetched bars into a single
// series covering the union of both ranges. On equal timestamps the incoming
// bar wins: remote data is authoritative for any period it covers.
// Both inputs must already satisfy the Series invariant.
func Merge(existing, incoming Series) Series {
	if len(existing) == 0 {
		return append(Series(nil), incoming...)
	}
	if len(incoming) == 0 {
		return append(Series(nil), existing...)
	}

	out := make(Series, 0, len(existing)+len(incoming))
	i, j := 0, 0
	for i < len(existing) && j < len(incoming) {
		switch {
		case existing[i].Time.Before(incoming[j].Time):
			out = append(out, existing[i])
			i++
		case incoming[j].Time.Before(existing[i].Time):
			out = append(out, incoming[j])
			j++
		default:
			// Same period on both sides: take the incoming bar.
			out = append(out, incoming[j])
			i++
			j++
		}
	}
	out = append(out, existing[i:]...)
	out = append(out, incoming[j:]...)
	return out
}
