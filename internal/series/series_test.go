package series

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return ts
}

func bars(t *testing.T, dates ...string) Series {
	t.Helper()
	out := make(Series, 0, len(dates))
	for i, d := range dates {
		p := float64(100 + i)
		out = append(out, Bar{
			Time: day(t, d), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1000,
		})
	}
	return out
}

// go test -v --run TestMergeDisjoint
func TestMergeDisjoint(t *testing.T) {
	existing := bars(t, "2024-01-01", "2024-01-02", "2024-01-03")
	incoming := bars(t, "2024-01-04", "2024-01-05")

	got := Merge(existing, incoming)

	if len(got) != len(existing)+len(incoming) {
		t.Fatalf("len = %d, want %d", len(got), len(existing)+len(incoming))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Time.Before(got[i].Time) {
			t.Errorf("bars not strictly ascending at index %d: %v >= %v",
				i, got[i-1].Time, got[i].Time)
		}
	}
}

// go test -v --run TestMergeFullOverlap
func TestMergeFullOverlap(t *testing.T) {
	existing := bars(t, "2024-01-01", "2024-01-02")
	incoming := Series{
		{Time: day(t, "2024-01-01"), Open: 500, High: 510, Low: 490, Close: 505, Volume: 9},
		{Time: day(t, "2024-01-02"), Open: 505, High: 515, Low: 495, Close: 510, Volume: 9},
	}

	got := Merge(existing, incoming)

	if len(got) != len(incoming) {
		t.Fatalf("len = %d, want %d", len(got), len(incoming))
	}
	for i := range got {
		if got[i] != incoming[i] {
			t.Errorf("bar %d = %+v, want incoming %+v", i, got[i], incoming[i])
		}
	}
}

// go test -v --run TestMergeEmpty
func TestMergeEmpty(t *testing.T) {
	s := bars(t, "2024-01-01", "2024-01-02")

	if got := Merge(nil, s); len(got) != len(s) {
		t.Errorf("Merge(nil, s) len = %d, want %d", len(got), len(s))
	}
	if got := Merge(s, nil); len(got) != len(s) {
		t.Errorf("Merge(s, nil) len = %d, want %d", len(got), len(s))
	}
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) len = %d, want 0", len(got))
	}
}

// go test -v --run TestMergePartialOverlapTakesNewBars
func TestMergePartialOverlapTakesNewBars(t *testing.T) {
	// Store covers 2024-01-01..2024-01-10, fetch returns 2024-01-08..2024-01-15.
	existing := bars(t,
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10",
	)
	var incoming Series
	for _, d := range []string{
		"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11",
		"2024-01-12", "2024-01-13", "2024-01-14", "2024-01-15",
	} {
		incoming = append(incoming, Bar{Time: day(t, d), Close: 999})
	}

	got := Merge(existing, incoming)

	if len(got) != 15 {
		t.Fatalf("len = %d, want 15", len(got))
	}
	if !got[0].Time.Equal(day(t, "2024-01-01")) || !got[14].Time.Equal(day(t, "2024-01-15")) {
		t.Fatalf("range = %v..%v, want 2024-01-01..2024-01-15", got[0].Time, got[14].Time)
	}
	// Overlapping dates must come from the new fetch, not the old store.
	for _, b := range got[7:] {
		if b.Close != 999 {
			t.Errorf("bar %v Close = %v, want incoming value 999", b.Time, b.Close)
		}
	}
	for _, b := range got[:7] {
		if b.Close == 999 {
			t.Errorf("bar %v unexpectedly replaced", b.Time)
		}
	}
}

// go test -v --run TestNormalize
func TestNormalize(t *testing.T) {
	raw := []Bar{
		{Time: day(t, "2024-01-03"), Close: 1},
		{Time: day(t, "2024-01-01"), Close: 2},
		{Time: day(t, "2024-01-03"), Close: 3}, // duplicate, later wins
		{Time: day(t, "2024-01-02"), Close: 4},
	}

	got := Normalize(raw)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].Time.Equal(day(t, "2024-01-01")) ||
		!got[1].Time.Equal(day(t, "2024-01-02")) ||
		!got[2].Time.Equal(day(t, "2024-01-03")) {
		t.Errorf("unexpected order: %v", got)
	}
	if got[2].Close != 3 {
		t.Errorf("duplicate resolution: Close = %v, want 3", got[2].Close)
	}

	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should be nil")
	}
}

// go test -v --run TestLastTime
func TestLastTime(t *testing.T) {
	if _, ok := (Series{}).LastTime(); ok {
		t.Error("empty series should report no last time")
	}

	s := bars(t, "2024-01-01", "2024-01-05")
	last, ok := s.LastTime()
	if !ok || !last.Equal(day(t, "2024-01-05")) {
		t.Errorf("LastTime = %v, %v; want 2024-01-05, true", last, ok)
	}
}
