package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetaLens/internal/model"
)

// makeSeries builds a price series on consecutive weekdays starting at the
// given day.
func makeSeries(ticker string, start time.Time, closes ...float64) model.PriceSeries {
	points := make([]model.PricePoint, 0, len(closes))
	day := start
	for _, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		points = append(points, model.PricePoint{Date: day, Close: c})
		day = day.AddDate(0, 0, 1)
	}
	return model.PriceSeries{Ticker: ticker, Points: points}
}

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBuildReturns_ExactPercentageChange(t *testing.T) {
	prices := makeSeries("AAPL", monday, 100, 110, 99, 99)

	returns, err := BuildReturns(prices)
	require.NoError(t, err)
	require.Len(t, returns.Points, 3, "N prices must produce N-1 returns")

	assert.InDelta(t, 0.10, returns.Points[0].Return, 1e-12)
	assert.InDelta(t, -0.10, returns.Points[1].Return, 1e-12)
	assert.InDelta(t, 0.0, returns.Points[2].Return, 1e-12)

	// return dates start at the second price date
	assert.Equal(t, prices.Points[1].Date, returns.Points[0].Date)
}

func TestBuildReturns_InsufficientData(t *testing.T) {
	_, err := BuildReturns(makeSeries("AAPL", monday, 100))
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = BuildReturns(model.PriceSeries{Ticker: "AAPL"})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestBuildReturns_NonFinitePrices(t *testing.T) {
	_, err := BuildReturns(makeSeries("BAD", monday, 100, 0, 105))
	require.ErrorIs(t, err, ErrNonFiniteInput)

	_, err = BuildReturns(makeSeries("BAD", monday, -5, 100))
	require.ErrorIs(t, err, ErrNonFiniteInput)
}

func TestAlignPrices_InnerJoinOnDate(t *testing.T) {
	full := makeSeries("FULL", monday, 1, 2, 3, 4, 5)
	gappy := makeSeries("GAPPY", monday, 10, 20, 30, 40, 50)
	// drop the middle observation to simulate an exchange holiday
	gappy.Points = append(gappy.Points[:2], gappy.Points[3:]...)

	aligned := AlignPrices([]model.PriceSeries{full, gappy})
	require.Len(t, aligned, 2)
	require.Len(t, aligned[0].Points, 4)
	require.Len(t, aligned[1].Points, 4)

	for i := range aligned[0].Points {
		assert.Equal(t, aligned[0].Points[i].Date, aligned[1].Points[i].Date)
	}
	// the full series lost exactly the date the gappy one was missing
	assert.Equal(t, []float64{1, 2, 4, 5}, closesOf(aligned[0]))
	assert.Equal(t, []float64{10, 20, 40, 50}, closesOf(aligned[1]))
}

func TestAlignPrices_NoCommonDates(t *testing.T) {
	a := makeSeries("A", monday, 1, 2)
	b := makeSeries("B", monday.AddDate(0, 6, 0), 1, 2)

	aligned := AlignPrices([]model.PriceSeries{a, b})
	require.Len(t, aligned, 2)
	assert.Empty(t, aligned[0].Points)
	assert.Empty(t, aligned[1].Points)
}

func TestAlignPrices_Empty(t *testing.T) {
	assert.Nil(t, AlignPrices(nil))
}

func closesOf(s model.PriceSeries) []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}
