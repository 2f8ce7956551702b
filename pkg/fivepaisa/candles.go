package fivepaisa

import (
	"time"

	"nsefetch/internal/series"
)

// parseCandles converts the positional candle rows from the history
// endpoint into bars. Rows that are short or carry unexpected types are
// skipped rather than failing the whole window.
func parseCandles(rows [][]any) []series.Bar {
	var out []series.Bar

	for _, row := range rows {
		if len(row) < 6 {
			continue // incomplete row
		}

		raw, ok := row[0].(string)
		if !ok {
			continue
		}
		ts, err := time.Parse(candleLayout, raw)
		if err != nil {
			continue
		}

		vals := make([]float64, 5)
		valid := true
		for i := 0; i < 5; i++ {
			v, ok := row[i+1].(float64)
			if !ok {
				valid = false
				break
			}
			vals[i] = v
		}
		if !valid {
			continue
		}

		out = append(out, series.Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return out
}
