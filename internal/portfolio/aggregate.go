package portfolio

import "BetaLens/internal/model"

// Summarize folds per-stock metrics into portfolio-level aggregates:
// arithmetic mean of beta, arithmetic mean of expected return, and a
// count per risk category. It holds no state across calls and is
// order-independent. An empty input is a legitimate transient state
// (nothing selected yet) and yields a zero summary, not an error.
func Summarize(metrics []model.StockMetrics) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		StockCount:           len(metrics),
		CategoryDistribution: make(map[model.RiskCategory]int),
	}
	if len(metrics) == 0 {
		return summary
	}

	var betaSum, returnSum float64
	for _, m := range metrics {
		betaSum += m.Beta
		returnSum += m.ExpectedReturn
		summary.CategoryDistribution[m.RiskCategory]++
	}
	summary.AverageBeta = betaSum / float64(len(metrics))
	summary.AverageExpectedReturn = returnSum / float64(len(metrics))
	return summary
}
