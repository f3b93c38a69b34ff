package report

import (
	"fmt"
	"strings"

	"BetaLens/internal/analyzer"
)

// FormatRun renders one analysis run as a plain-text report. Rendering is
// the only formatting the repo does; the engine itself emits raw values.
func FormatRun(result *analyzer.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("CAPM analysis | %s | benchmark %s | window %dy\n",
		result.GeneratedAt.Format("2006-01-02 15:04"),
		result.Params.BenchmarkTicker, result.Params.WindowYears))
	b.WriteString(fmt.Sprintf("risk-free rate %.2f%% | benchmark return %.2f%%/yr\n\n",
		result.Params.RiskFreeRate*100, result.BenchmarkReturn*100))

	b.WriteString(fmt.Sprintf("%-8s %8s %10s %10s  %s\n", "TICKER", "BETA", "ALPHA", "EXP.RET", "RISK"))
	for _, m := range result.Metrics {
		b.WriteString(fmt.Sprintf("%-8s %8.3f %10.5f %9.2f%%  %s\n",
			m.Ticker, m.Beta, m.Alpha, m.ExpectedReturn*100, m.RiskCategory))
	}
	if len(result.Metrics) == 0 {
		b.WriteString("  (no securities analyzed)\n")
	}

	b.WriteString("\nPortfolio summary:\n")
	b.WriteString(fmt.Sprintf("  stocks: %d | avg beta: %.3f | avg expected return: %.2f%%\n",
		result.Summary.StockCount, result.Summary.AverageBeta,
		result.Summary.AverageExpectedReturn*100))
	if len(result.Summary.CategoryDistribution) > 0 {
		b.WriteString("  categories:")
		for cat, n := range result.Summary.CategoryDistribution {
			b.WriteString(fmt.Sprintf(" %s=%d", cat, n))
		}
		b.WriteString("\n")
	}

	if len(result.Failures) > 0 {
		b.WriteString("\nFailed tickers:\n")
		for _, f := range result.Failures {
			b.WriteString(fmt.Sprintf("  %s: %v\n", f.Ticker, f.Err))
		}
	}

	return b.String()
}
