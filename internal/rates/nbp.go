// Package rates fetches current PLN exchange rates from the NBP
// (Narodowy Bank Polski) table A API. The core never talks to the
// network; callers feed the fetched table into the state through the
// SetRates action.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"wydatki/internal/cache"
	"wydatki/internal/core"
)

const tableAPath = "/api/exchangerates/tables/A?format=json"

// Result is a fetched rate table together with its provenance label,
// e.g. "NBP 2024-01-02".
type Result struct {
	Rates core.RateTable
	Label string
}

// Client fetches table A over HTTP and caches the result so frequent
// refresh requests do not hammer the API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.TTLCache[Result]
}

func NewClient(baseURL string, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		cache:      cache.NewTTLCache[Result](1, cacheTTL),
	}
}

type nbpTable struct {
	Table         string    `json:"table"`
	No            string    `json:"no"`
	EffectiveDate string    `json:"effectiveDate"`
	Rates         []nbpRate `json:"rates"`
}

type nbpRate struct {
	Currency string  `json:"currency"`
	Code     string  `json:"code"`
	Mid      float64 `json:"mid"`
}

// Fetch returns the current rate table for the closed currency set.
// Currencies the table does not mention keep rate 1, so a partial
// answer still produces a usable table.
func (c *Client) Fetch(ctx context.Context) (Result, error) {
	if cached, ok := c.cache.Get("tableA"); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tableAPath, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build NBP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch NBP table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch NBP table: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read NBP response: %w", err)
	}

	var tables []nbpTable
	if err := json.Unmarshal(body, &tables); err != nil {
		return Result{}, fmt.Errorf("decode NBP response: %w", err)
	}
	if len(tables) == 0 {
		return Result{}, fmt.Errorf("decode NBP response: empty table list")
	}

	table := tables[0]
	result := Result{
		Rates: core.DefaultRates(),
		Label: "NBP " + table.EffectiveDate,
	}
	for _, r := range table.Rates {
		code, err := core.ParseCurrency(r.Code)
		if err != nil || r.Mid <= 0 {
			continue
		}
		result.Rates[code] = r.Mid
	}
	result.Rates[core.PLN] = 1

	slog.InfoContext(ctx, "Fetched NBP rates",
		"effective_date", table.EffectiveDate,
		"eur", result.Rates[core.EUR],
		"usd", result.Rates[core.USD])

	c.cache.Set("tableA", result)
	return result, nil
}
