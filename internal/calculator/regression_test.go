package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetaLens/internal/model"
)

// makeReturns builds a return series on consecutive weekdays.
func makeReturns(ticker string, start time.Time, values ...float64) model.ReturnSeries {
	points := make([]model.ReturnPoint, 0, len(values))
	day := start
	for _, v := range values {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		points = append(points, model.ReturnPoint{Date: day, Return: v})
		day = day.AddDate(0, 0, 1)
	}
	return model.ReturnSeries{Ticker: ticker, Points: points}
}

func scaled(s model.ReturnSeries, ticker string, k float64) model.ReturnSeries {
	out := model.ReturnSeries{Ticker: ticker, Points: make([]model.ReturnPoint, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = model.ReturnPoint{Date: p.Date, Return: k * p.Return}
	}
	return out
}

func TestEstimateBetaAlpha_IdenticalSeries(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.01, -0.02, 0.015, 0.003, -0.007)
	stock := scaled(bench, "SAME", 1)

	reg, err := EstimateBetaAlpha(stock, bench)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, reg.Beta, 1e-9)
	assert.InDelta(t, 0.0, reg.Alpha, 1e-9)
}

func TestEstimateBetaAlpha_ScalarMultiple(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.004, -0.012, 0.02, 0.001, -0.006, 0.009)

	for _, k := range []float64{0.5, 1.5, 2.5} {
		reg, err := EstimateBetaAlpha(scaled(bench, "SCALED", k), bench)
		require.NoError(t, err)
		assert.InDelta(t, k, reg.Beta, 1e-9, "beta of a %gx multiple", k)
		assert.InDelta(t, 0.0, reg.Alpha, 1e-9)
	}
}

func TestEstimateBetaAlpha_Deterministic(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.004, -0.012, 0.02, 0.001)
	stock := makeReturns("AAPL", monday, 0.006, -0.01, 0.025, -0.002)

	first, err := EstimateBetaAlpha(stock, bench)
	require.NoError(t, err)
	second, err := EstimateBetaAlpha(stock, bench)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical inputs must give bit-identical output")
}

func TestEstimateBetaAlpha_ConstantBenchmark(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.0004, 0.0004, 0.0004, 0.0004)
	stock := makeReturns("AAPL", monday, 0.01, -0.02, 0.015, 0.003)

	_, err := EstimateBetaAlpha(stock, bench)
	require.ErrorIs(t, err, ErrDegenerateRegression)
}

func TestEstimateBetaAlpha_MisalignedDates(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.01, -0.02, 0.015)
	stock := makeReturns("AAPL", monday.AddDate(0, 0, 7), 0.01, -0.02, 0.015)

	_, err := EstimateBetaAlpha(stock, bench)
	require.ErrorIs(t, err, ErrMisalignedSeries)

	short := makeReturns("AAPL", monday, 0.01, -0.02)
	_, err = EstimateBetaAlpha(short, bench)
	require.ErrorIs(t, err, ErrMisalignedSeries)
}

func TestEstimateBetaAlpha_TooShort(t *testing.T) {
	bench := makeReturns("^GSPC", monday, 0.01)
	stock := makeReturns("AAPL", monday, 0.02)

	_, err := EstimateBetaAlpha(stock, bench)
	require.ErrorIs(t, err, ErrInsufficientData)
}
