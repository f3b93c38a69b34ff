package collector

import (
	"context"

	"BetaLens/internal/model"
)

// Fetcher defines the interface to an external market-data provider. The
// engine never fetches, caches, or persists prices itself; that is the
// provider's job.
type Fetcher interface {
	// FetchDailyCloses returns the daily closing-price series for one
	// ticker covering the last `years` calendar years (1-10), oldest
	// first, dates strictly increasing.
	FetchDailyCloses(ctx context.Context, ticker string, years int) (model.PriceSeries, error)
	Name() string
}
