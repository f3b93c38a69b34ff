package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"BetaLens/internal/calculator"
	"BetaLens/internal/model"
	"BetaLens/internal/portfolio"
	"BetaLens/internal/risk"
)

// Failure records why one ticker could not be analyzed. One bad ticker
// never aborts the rest of the batch.
type Failure struct {
	Ticker string
	Err    error
}

// Result is the immutable snapshot produced by one analysis run.
type Result struct {
	Params          model.Parameters
	GeneratedAt     time.Time
	BenchmarkReturn float64 // annualized mean daily return of the benchmark
	Metrics         []model.StockMetrics
	Failures        []Failure
	Summary         model.PortfolioSummary
}

// Engine runs the full price -> returns -> regression -> projection ->
// classification pipeline for a batch of tickers against one benchmark.
type Engine struct {
	params      model.Parameters
	maxParallel int
	log         zerolog.Logger
}

// NewEngine creates an Engine for one parameter set.
func NewEngine(params model.Parameters, maxParallel int, logger zerolog.Logger) *Engine {
	if params.TradingDaysPerYear <= 0 {
		params.TradingDaysPerYear = model.DefaultTradingDays
	}
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Engine{
		params:      params,
		maxParallel: maxParallel,
		log:         logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze computes per-stock metrics plus the portfolio summary. Each
// stock is inner-joined with the benchmark on calendar date before its
// returns are derived, so a ticker with data gaps only shrinks its own
// regression window, never another ticker's. Per-stock work is
// independent and runs on a bounded worker group; cancellation is checked
// between per-stock computations, never inside a regression. A benchmark
// that cannot produce a return series fails the whole run, since nothing
// can be regressed without it.
func (e *Engine) Analyze(ctx context.Context, benchmark model.PriceSeries, stocks []model.PriceSeries) (*Result, error) {
	// The benchmark's own annualized return comes from its full window,
	// not any per-stock join, so every security is projected against the
	// same market rate.
	benchReturns, err := calculator.BuildReturns(benchmark)
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", benchmark.Ticker, err)
	}
	benchAnnual := calculator.AnnualizedMeanReturn(benchReturns, e.params.TradingDaysPerYear)

	perStock := make([]model.StockMetrics, len(stocks))
	perErr := make([]error, len(stocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, prices := range stocks {
		i, prices := i, prices
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perStock[i], perErr[i] = e.analyzeOne(prices, benchmark, benchAnnual)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Params:          e.params,
		GeneratedAt:     time.Now(),
		BenchmarkReturn: benchAnnual,
	}
	for i, prices := range stocks {
		if perErr[i] != nil {
			e.log.Warn().Str("ticker", prices.Ticker).Err(perErr[i]).Msg("ticker analysis failed")
			result.Failures = append(result.Failures, Failure{Ticker: prices.Ticker, Err: perErr[i]})
			continue
		}
		result.Metrics = append(result.Metrics, perStock[i])
	}
	result.Summary = portfolio.Summarize(result.Metrics)

	e.log.Info().
		Int("analyzed", len(result.Metrics)).
		Int("failed", len(result.Failures)).
		Float64("benchmark_return", benchAnnual).
		Msg("analysis run complete")

	return result, nil
}

func (e *Engine) analyzeOne(prices, benchmark model.PriceSeries, benchAnnual float64) (model.StockMetrics, error) {
	pair := calculator.AlignPrices([]model.PriceSeries{prices, benchmark})

	stockReturns, err := calculator.BuildReturns(pair[0])
	if err != nil {
		return model.StockMetrics{}, err
	}
	benchReturns, err := calculator.BuildReturns(pair[1])
	if err != nil {
		return model.StockMetrics{}, err
	}

	reg, err := calculator.EstimateBetaAlpha(stockReturns, benchReturns)
	if err != nil {
		return model.StockMetrics{}, err
	}
	return model.StockMetrics{
		Ticker:         prices.Ticker,
		Beta:           reg.Beta,
		Alpha:          reg.Alpha,
		ExpectedReturn: calculator.ExpectedReturn(e.params.RiskFreeRate, reg.Beta, benchAnnual),
		RiskCategory:   risk.Classify(reg.Beta),
	}, nil
}
