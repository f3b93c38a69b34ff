package calculator

import (
	"gonum.org/v1/gonum/stat"

	"BetaLens/internal/model"
)

// AnnualizedMeanReturn scales the mean daily return to an annual rate.
// Every security and the benchmark must use the same tradingDays factor so
// beta (dimensionless) and expected return (annualized) stay consistent.
func AnnualizedMeanReturn(returns model.ReturnSeries, tradingDays int) float64 {
	if len(returns.Points) == 0 {
		return 0
	}
	return stat.Mean(returns.Values(), nil) * float64(tradingDays)
}

// ExpectedReturn applies the CAPM formula:
//
//	E(r) = rf + beta * (rm - rf)
//
// where rm is the benchmark's annualized mean daily return.
func ExpectedReturn(riskFreeRate, beta, benchmarkReturn float64) float64 {
	return riskFreeRate + beta*(benchmarkReturn-riskFreeRate)
}
