package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"BetaLens/internal/model"
)

// EstimateBetaAlpha runs a single-variable OLS regression of the stock's
// daily returns on the benchmark's daily returns:
//
//	beta  = Cov(stock, benchmark) / Var(benchmark)
//	alpha = mean(stock) - beta * mean(benchmark)
//
// Covariance and variance use the unbiased N-1 divisor throughout (gonum's
// default); the divisor cancels in the beta ratio. The two series must
// cover the identical date set — the engine aligns them once per run, so a
// mismatch here means the caller skipped the join. A zero-variance
// benchmark makes beta undefined and fails with ErrDegenerateRegression
// instead of producing Inf or NaN.
func EstimateBetaAlpha(stock, benchmark model.ReturnSeries) (model.RegressionResult, error) {
	if !sameDates(stock, benchmark) {
		return model.RegressionResult{}, fmt.Errorf("%w: %s has %d returns, benchmark %s has %d",
			ErrMisalignedSeries, stock.Ticker, len(stock.Points), benchmark.Ticker, len(benchmark.Points))
	}
	if len(stock.Points) < 2 {
		return model.RegressionResult{}, fmt.Errorf("%w: %s has %d aligned returns, need at least 2",
			ErrInsufficientData, stock.Ticker, len(stock.Points))
	}

	sv := stock.Values()
	bv := benchmark.Values()

	varB := stat.Variance(bv, nil)
	if varB == 0 {
		return model.RegressionResult{}, fmt.Errorf("%w: benchmark %s is constant over the window",
			ErrDegenerateRegression, benchmark.Ticker)
	}

	beta := stat.Covariance(sv, bv, nil) / varB
	alpha := stat.Mean(sv, nil) - beta*stat.Mean(bv, nil)

	return model.RegressionResult{Beta: beta, Alpha: alpha}, nil
}
