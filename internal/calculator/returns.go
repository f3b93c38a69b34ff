package calculator

import (
	"fmt"
	"math"

	"BetaLens/internal/model"
)

const dayKeyFormat = "2006-01-02"

// BuildReturns converts a price series into a daily fractional return
// series: r[t] = (close[t] - close[t-1]) / close[t-1]. The result has
// exactly len(prices)-1 points. Requires at least 2 price points; a zero
// or negative prior close is rejected with ErrNonFiniteInput rather than
// propagated into the regression.
func BuildReturns(prices model.PriceSeries) (model.ReturnSeries, error) {
	if len(prices.Points) < 2 {
		return model.ReturnSeries{}, fmt.Errorf("%w: %s has %d price points, need at least 2",
			ErrInsufficientData, prices.Ticker, len(prices.Points))
	}

	points := make([]model.ReturnPoint, 0, len(prices.Points)-1)
	for i := 1; i < len(prices.Points); i++ {
		prev := prices.Points[i-1]
		cur := prices.Points[i]
		if prev.Close <= 0 || cur.Close <= 0 {
			return model.ReturnSeries{}, fmt.Errorf("%w: %s has non-positive close on %s",
				ErrNonFiniteInput, prices.Ticker, prev.Date.Format(dayKeyFormat))
		}
		r := (cur.Close - prev.Close) / prev.Close
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return model.ReturnSeries{}, fmt.Errorf("%w: %s return on %s is not finite",
				ErrNonFiniteInput, prices.Ticker, cur.Date.Format(dayKeyFormat))
		}
		points = append(points, model.ReturnPoint{Date: cur.Date, Return: r})
	}

	return model.ReturnSeries{Ticker: prices.Ticker, Points: points}, nil
}

// AlignPrices inner-joins the given price series on calendar date, keeping
// only dates present in every series. Trading calendars differ across
// exchanges and data sources, so the join happens explicitly once per run
// instead of relying on positional indexing. Input order and per-series
// date order are preserved; inputs are not modified.
func AlignPrices(series []model.PriceSeries) []model.PriceSeries {
	if len(series) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, s := range series {
		for _, p := range s.Points {
			counts[p.Date.Format(dayKeyFormat)]++
		}
	}

	aligned := make([]model.PriceSeries, len(series))
	for i, s := range series {
		kept := make([]model.PricePoint, 0, len(s.Points))
		for _, p := range s.Points {
			if counts[p.Date.Format(dayKeyFormat)] == len(series) {
				kept = append(kept, p)
			}
		}
		aligned[i] = model.PriceSeries{Ticker: s.Ticker, Points: kept, FetchedAt: s.FetchedAt}
	}
	return aligned
}

// sameDates reports whether two return series cover the identical ordered
// date set.
func sameDates(a, b model.ReturnSeries) bool {
	if len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i].Date.Format(dayKeyFormat) != b.Points[i].Date.Format(dayKeyFormat) {
			return false
		}
	}
	return true
}
