package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetaLens/internal/calculator"
	"BetaLens/internal/model"
)

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// pricesFromReturns builds a price path on consecutive weekdays that
// reproduces the given daily returns: p[t+1] = p[t] * (1 + r[t]).
func pricesFromReturns(ticker string, start time.Time, p0 float64, returns []float64) model.PriceSeries {
	closes := make([]float64, 0, len(returns)+1)
	closes = append(closes, p0)
	p := p0
	for _, r := range returns {
		p *= 1 + r
		closes = append(closes, p)
	}

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

func testParams() model.Parameters {
	return model.Parameters{
		BenchmarkTicker:    "^GSPC",
		WindowYears:        1,
		RiskFreeRate:       0.04,
		TradingDaysPerYear: 252,
	}
}

func TestAnalyze_EndToEndCAPM(t *testing.T) {
	// benchmark: mean daily return 0.10/252 (10%/yr at 252 days) with
	// zero-sum alternating noise so the variance is nonzero; stock moves
	// 1.5x the benchmark every day
	benchDaily := make([]float64, 252)
	stockDaily := make([]float64, 252)
	for i := range benchDaily {
		eps := 0.001
		if i%2 == 1 {
			eps = -0.001
		}
		benchDaily[i] = 0.10/252 + eps
		stockDaily[i] = 1.5 * benchDaily[i]
	}

	bench := pricesFromReturns("^GSPC", monday, 5000, benchDaily)
	stock := pricesFromReturns("GROWTH", monday, 100, stockDaily)

	engine := NewEngine(testParams(), 2, zerolog.Nop())
	result, err := engine.Analyze(context.Background(), bench, []model.PriceSeries{stock})
	require.NoError(t, err)
	require.Len(t, result.Metrics, 1)
	require.Empty(t, result.Failures)

	m := result.Metrics[0]
	assert.Equal(t, "GROWTH", m.Ticker)
	assert.InDelta(t, 1.5, m.Beta, 1e-9)
	assert.InDelta(t, 0.0, m.Alpha, 1e-9)
	assert.InDelta(t, 0.10, result.BenchmarkReturn, 1e-9)
	// E(r) = 0.04 + 1.5 * (0.10 - 0.04) = 0.13
	assert.InDelta(t, 0.13, m.ExpectedReturn, 1e-9)
	assert.Equal(t, model.RiskAggressive, m.RiskCategory)

	assert.Equal(t, 1, result.Summary.StockCount)
	assert.InDelta(t, 1.5, result.Summary.AverageBeta, 1e-9)
	assert.Equal(t, 1, result.Summary.CategoryDistribution[model.RiskAggressive])
}

func TestAnalyze_FailureIsolation(t *testing.T) {
	benchDaily := []float64{0.01, -0.02, 0.015, 0.003, -0.007, 0.011, 0.002}
	bench := pricesFromReturns("^GSPC", monday, 5000, benchDaily)

	good := pricesFromReturns("GOOD", monday, 100, []float64{0.02, -0.04, 0.03, 0.006, -0.014, 0.022, 0.004})
	tooShort := model.PriceSeries{Ticker: "SHORT", Points: bench.Points[:1]}
	badPrice := model.PriceSeries{Ticker: "BADPX", Points: []model.PricePoint{
		{Date: bench.Points[0].Date, Close: 10},
		{Date: bench.Points[1].Date, Close: 0},
		{Date: bench.Points[2].Date, Close: 11},
	}}

	engine := NewEngine(testParams(), 2, zerolog.Nop())
	result, err := engine.Analyze(context.Background(), bench,
		[]model.PriceSeries{good, tooShort, badPrice})
	require.NoError(t, err, "per-ticker failures must not abort the batch")

	require.Len(t, result.Metrics, 1)
	assert.Equal(t, "GOOD", result.Metrics[0].Ticker)
	assert.InDelta(t, 2.0, result.Metrics[0].Beta, 1e-9)

	require.Len(t, result.Failures, 2)
	byTicker := map[string]error{}
	for _, f := range result.Failures {
		byTicker[f.Ticker] = f.Err
	}
	assert.ErrorIs(t, byTicker["SHORT"], calculator.ErrInsufficientData)
	assert.ErrorIs(t, byTicker["BADPX"], calculator.ErrNonFiniteInput)

	// the aggregator only sees the successes
	assert.Equal(t, 1, result.Summary.StockCount)
}

func TestAnalyze_SparseTickerDoesNotShrinkOthers(t *testing.T) {
	benchDaily := []float64{0.01, -0.02, 0.015, 0.003, -0.007}
	bench := pricesFromReturns("^GSPC", monday, 5000, benchDaily)
	full := pricesFromReturns("FULL", monday, 100, benchDaily)

	// one ticker with a single overlapping date must fail alone
	sparse := model.PriceSeries{Ticker: "SPARSE", Points: bench.Points[2:3]}

	engine := NewEngine(testParams(), 1, zerolog.Nop())
	result, err := engine.Analyze(context.Background(), bench, []model.PriceSeries{full, sparse})
	require.NoError(t, err)

	require.Len(t, result.Metrics, 1)
	assert.Equal(t, "FULL", result.Metrics[0].Ticker)
	assert.InDelta(t, 1.0, result.Metrics[0].Beta, 1e-9, "full ticker keeps its whole window")

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "SPARSE", result.Failures[0].Ticker)
	assert.ErrorIs(t, result.Failures[0].Err, calculator.ErrInsufficientData)
}

func TestAnalyze_DegenerateBenchmark(t *testing.T) {
	// constant closes -> zero-variance benchmark returns; every ticker
	// fails uniformly, never a silent beta default
	bench := pricesFromReturns("^GSPC", monday, 5000, []float64{0, 0, 0, 0})
	stock := pricesFromReturns("AAPL", monday, 100, []float64{0.01, -0.02, 0.015, 0.003})

	engine := NewEngine(testParams(), 1, zerolog.Nop())
	result, err := engine.Analyze(context.Background(), bench, []model.PriceSeries{stock})
	require.NoError(t, err)

	assert.Empty(t, result.Metrics)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0].Err, calculator.ErrDegenerateRegression)
	assert.Equal(t, 0, result.Summary.StockCount)
}

func TestAnalyze_EmptySelection(t *testing.T) {
	bench := pricesFromReturns("^GSPC", monday, 5000, []float64{0.01, -0.02, 0.015})

	engine := NewEngine(testParams(), 1, zerolog.Nop())
	result, err := engine.Analyze(context.Background(), bench, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Metrics)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 0, result.Summary.StockCount)
}

func TestAnalyze_BenchmarkTooShort(t *testing.T) {
	bench := model.PriceSeries{Ticker: "^GSPC", Points: []model.PricePoint{{Date: monday, Close: 5000}}}
	stock := pricesFromReturns("AAPL", monday, 100, []float64{0.01, -0.02})

	engine := NewEngine(testParams(), 1, zerolog.Nop())
	_, err := engine.Analyze(context.Background(), bench, []model.PriceSeries{stock})
	require.ErrorIs(t, err, calculator.ErrInsufficientData)
}

func TestAnalyze_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bench := pricesFromReturns("^GSPC", monday, 5000, []float64{0.01, -0.02, 0.015})
	stock := pricesFromReturns("AAPL", monday, 100, []float64{0.01, -0.02, 0.015})

	engine := NewEngine(testParams(), 1, zerolog.Nop())
	_, err := engine.Analyze(ctx, bench, []model.PriceSeries{stock})
	require.ErrorIs(t, err, context.Canceled)
}
