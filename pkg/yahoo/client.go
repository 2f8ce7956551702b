package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"nsefetch/internal/series"
)

const (
	// DefaultBaseURL is the public Yahoo Finance chart endpoint host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests without a browser-like user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"
)

// Client fetches historical OHLCV bars from the Yahoo Finance chart API.
// It holds no session state; every call is an independent HTTP request.
type Client struct {
	baseURL    string
	interval   string
	httpClient *http.Client
}

// NewClient creates a Yahoo chart API client. interval is a Yahoo interval
// token such as "1d" or "1wk".
func NewClient(baseURL, interval string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		interval:   interval,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in progress output.
func (c *Client) Name() string { return "yahoo" }

// Fetch downloads bars for symbol covering [start, end]. A zero start
// requests the full available history; a zero end means now.
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time) (series.Series, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	var period1 int64
	if !start.IsZero() {
		period1 = start.Unix()
	}

	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=%s&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		c.interval,
		period1,
		end.Unix(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo error: status %d: %s", resp.StatusCode, body)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s: %s",
			chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo error: no data returned for %s", symbol)
	}

	return extractBars(&chart), nil
}

// extractBars converts a decoded chart response into a Series, skipping
// periods where Yahoo reports no trade.
func extractBars(chart *chartResponse) series.Series {
	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]series.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) ||
			i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		if quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil {
			continue // null bar (holiday, halt)
		}
		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, series.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}
	return series.Normalize(bars)
}
