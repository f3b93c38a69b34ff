package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"BetaLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Closes map[string][]float64 // per-ticker close paths
	Errs   map[string]error     // per-ticker forced failures
	Start  time.Time            // first trading day; zero means 2024-01-01
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, ticker string, _ int) (model.PriceSeries, error) {
	if err := m.Errs[ticker]; err != nil {
		return model.PriceSeries{}, err
	}
	closes, ok := m.Closes[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("mock: no data for %s", ticker)
	}

	start := m.Start
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	points := make([]model.PricePoint, 0, len(closes))
	day := start
	for _, c := range closes {
		// advance to the next weekday so mock series look like trading days
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		points = append(points, model.PricePoint{Date: day, Close: c})
		day = day.AddDate(0, 0, 1)
	}
	return model.PriceSeries{Ticker: ticker, Points: points, FetchedAt: time.Now()}, nil
}

// FetchFailure records a ticker whose price history could not be
// downloaded. Download failures are isolated per ticker, like analysis
// failures: the run proceeds with whatever data arrived.
type FetchFailure struct {
	Ticker string
	Err    error
}

// Collector fetches price history for a batch of tickers plus the
// benchmark through a Fetcher.
type Collector struct {
	Fetcher     Fetcher
	MaxParallel int
	log         zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, maxParallel int, logger zerolog.Logger) *Collector {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Collector{
		Fetcher:     fetcher,
		MaxParallel: maxParallel,
		log:         logger.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// CollectAll fetches the benchmark and every requested ticker over the
// given window. Ticker fetches run on a bounded worker group; per-ticker
// failures are returned alongside the successes. A benchmark failure is
// fatal because nothing can be regressed without it.
func (c *Collector) CollectAll(ctx context.Context, tickers []string, benchmark string, years int) (model.PriceSeries, []model.PriceSeries, []FetchFailure, error) {
	bench, err := c.Fetcher.FetchDailyCloses(ctx, benchmark, years)
	if err != nil {
		return model.PriceSeries{}, nil, nil, fmt.Errorf("fetch benchmark %s: %w", benchmark, err)
	}

	perSeries := make([]model.PriceSeries, len(tickers))
	perErr := make([]error, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.MaxParallel)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perSeries[i], perErr[i] = c.Fetcher.FetchDailyCloses(gctx, ticker, years)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PriceSeries{}, nil, nil, err
	}

	var series []model.PriceSeries
	var failures []FetchFailure
	for i, ticker := range tickers {
		if perErr[i] != nil {
			c.log.Warn().Str("ticker", ticker).Err(perErr[i]).Msg("price history fetch failed")
			failures = append(failures, FetchFailure{Ticker: ticker, Err: perErr[i]})
			continue
		}
		series = append(series, perSeries[i])
	}

	c.log.Info().
		Int("fetched", len(series)).
		Int("failed", len(failures)).
		Int("window_years", years).
		Msg("price history collected")

	return bench, series, failures, nil
}
