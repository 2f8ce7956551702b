package fivepaisa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nsefetch/internal/series"
)

const (
	// DefaultBaseURL is the 5paisa open API host.
	DefaultBaseURL = "https://openapi.5paisa.com"

	// The history endpoint allows at most this many requests per minute;
	// the client sleeps out the remainder of the window once the budget
	// is spent.
	maxCallsPerMinute = 50

	// A single history request may span at most this many days. Longer
	// windows are split into consecutive batches.
	maxWindowDays = 175

	// Candle timestamps come back as exchange-local datetimes.
	candleLayout = "2006-01-02T15:04:05"

	loginPath = "/VendorsAPI/Service1.svc/TOTPLogin"
)

// Client downloads historical OHLCV bars from the 5paisa brokerage API.
// Unlike the Yahoo client it is stateful: Login must succeed before any
// Fetch, and a symbol-to-scrip-code map must be loaded so symbols can be
// resolved to the numeric codes the history endpoint expects.
type Client struct {
	baseURL    string
	interval   string
	exchange   string
	segment    string
	httpClient *http.Client
	creds      Credentials

	scrips      map[string]string
	accessToken string

	calls       int
	windowStart time.Time
}

// NewClient creates a 5paisa client. interval is a 5paisa interval token
// such as "1d" or "15m".
func NewClient(baseURL, interval string, timeout time.Duration, creds Credentials) *Client {
	return &Client{
		baseURL:    baseURL,
		interval:   interval,
		exchange:   "N", // NSE
		segment:    "C", // cash
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		scrips:     make(map[string]string),
	}
}

// Name identifies the provider in progress output.
func (c *Client) Name() string { return "fivepaisa" }

// Login opens a TOTP session. The code comes from the operator's
// authenticator app; generating it is outside this client's scope.
func (c *Client) Login(ctx context.Context, totp string) error {
	payload := loginRequest{
		Head: loginRequestHead{Key: c.creds.UserKey},
		Body: loginRequestBody{
			ClientCode: c.creds.ClientCode,
			TOTP:       totp,
			PIN:        c.creds.PIN,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fivepaisa error: status %d: %s", resp.StatusCode, body)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if login.Body.Status != 0 {
		return &APIError{Status: login.Body.Status, Message: login.Body.Message}
	}
	if login.Body.AccessToken == "" {
		return fmt.Errorf("fivepaisa error: login succeeded but no access token returned")
	}

	c.accessToken = login.Body.AccessToken
	return nil
}

// LoggedIn reports whether a session token is held.
func (c *Client) LoggedIn() bool { return c.accessToken != "" }

// Fetch downloads bars for symbol covering [start, end], splitting the
// window into batches of at most maxWindowDays and throttling to the API
// call budget. A zero end means now.
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time) (series.Series, error) {
	if !c.LoggedIn() {
		return nil, fmt.Errorf("fivepaisa: not logged in, call Login first")
	}
	scrip, err := c.scripCode(symbol)
	if err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		return nil, fmt.Errorf("fivepaisa: start date is required for %s", symbol)
	}

	var bars []series.Bar
	current := start
	for !current.After(end) {
		batchEnd := current.AddDate(0, 0, maxWindowDays)
		if batchEnd.After(end) {
			batchEnd = end
		}

		if err := c.throttle(ctx); err != nil {
			return nil, err
		}
		batch, err := c.fetchWindow(ctx, scrip, current, batchEnd)
		if err != nil {
			return nil, fmt.Errorf("fetch %s window %s..%s: %w",
				symbol, current.Format("2006-01-02"), batchEnd.Format("2006-01-02"), err)
		}
		bars = append(bars, batch...)

		current = batchEnd.AddDate(0, 0, 1)
	}

	return series.Normalize(bars), nil
}

// fetchWindow performs one history request.
func (c *Client) fetchWindow(ctx context.Context, scrip string, start, end time.Time) ([]series.Bar, error) {
	endpoint := fmt.Sprintf(
		"%s/V2/historical/%s/%s/%s/%s?from=%s&end=%s",
		c.baseURL,
		c.exchange,
		c.segment,
		scrip,
		c.interval,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fivepaisa error: status %d: %s", resp.StatusCode, body)
	}

	var history historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if history.Status != "success" {
		return nil, fmt.Errorf("fivepaisa error: %s: %s", history.Status, history.Message)
	}

	return parseCandles(history.Data.Candles), nil
}

// scripCode resolves a symbol through the loaded scrip map. Symbols carrying
// an exchange suffix ("TCS.NS") fall back to the bare ticker, matching how
// the map file is keyed.
func (c *Client) scripCode(symbol string) (string, error) {
	if code, ok := c.scrips[symbol]; ok {
		return code, nil
	}
	if base, _, found := strings.Cut(symbol, "."); found {
		if code, ok := c.scrips[base]; ok {
			return code, nil
		}
	}
	return "", fmt.Errorf("fivepaisa: no scrip code for symbol %q", symbol)
}

// throttle enforces the per-minute call budget. It blocks until the next
// call is allowed or the context is cancelled.
func (c *Client) throttle(ctx context.Context) error {
	if c.calls == 0 {
		c.windowStart = time.Now()
	}
	if c.calls >= maxCallsPerMinute {
		remaining := time.Minute - time.Since(c.windowStart)
		if remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(remaining):
			}
		}
		c.calls = 0
		c.windowStart = time.Now()
	}
	c.calls++
	return nil
}
