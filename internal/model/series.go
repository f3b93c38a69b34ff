package model

import "time"

// PricePoint is a single daily closing price observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds daily closing prices for one ticker, oldest first,
// dates strictly increasing with no duplicates. The engine only reads it.
type PriceSeries struct {
	Ticker    string
	Points    []PricePoint
	FetchedAt time.Time
}

// ReturnPoint is a single daily fractional return observation.
type ReturnPoint struct {
	Date   time.Time
	Return float64
}

// ReturnSeries holds daily fractional returns derived from a PriceSeries.
// Its length is one less than the source series: the first date has no
// prior price to diff against.
type ReturnSeries struct {
	Ticker string
	Points []ReturnPoint
}

// Values returns the raw return values in date order.
func (s ReturnSeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Return
	}
	return vals
}
