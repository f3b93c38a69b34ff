package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"BetaLens/internal/model"
)

// HistoryAPIFetcher implements Fetcher against a self-hosted price-history
// REST API. Used when a deployment fronts its own data service instead of
// hitting Yahoo directly.
type HistoryAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHistoryAPIFetcher creates a new fetcher with optional proxy support.
func NewHistoryAPIFetcher(baseURL, apiKey, proxyURL string) *HistoryAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HistoryAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HistoryAPIFetcher) Name() string { return "history-api" }

// historyBar is the expected JSON shape from the history API.
type historyBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *HistoryAPIFetcher) FetchDailyCloses(ctx context.Context, ticker string, years int) (model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/api/v1/history/daily?symbol=%s&years=%d",
		f.BaseURL, url.QueryEscape(ticker), years)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, fmt.Errorf("fetch history: status %d, body: %s", resp.StatusCode, string(body))
	}

	var bars []historyBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode history: %w", err)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		day := time.Unix(b.Timestamp, 0).UTC()
		points = append(points, model.PricePoint{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close: b.Close,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return model.PriceSeries{Ticker: ticker, Points: points, FetchedAt: time.Now()}, nil
}
