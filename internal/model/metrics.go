package model

// DefaultTradingDays is the annualization factor for daily returns.
const DefaultTradingDays = 252

// Parameters is the immutable configuration for one analysis run.
type Parameters struct {
	BenchmarkTicker    string  `json:"benchmark_ticker"`
	WindowYears        int     `json:"window_years"`
	RiskFreeRate       float64 `json:"risk_free_rate"`
	TradingDaysPerYear int     `json:"trading_days_per_year"`
}

// RegressionResult holds the OLS slope and intercept of a stock's daily
// returns regressed on the benchmark's daily returns.
type RegressionResult struct {
	Beta  float64 `json:"beta"`
	Alpha float64 `json:"alpha"`
}

// RiskCategory labels a beta band.
type RiskCategory string

const (
	RiskInverse          RiskCategory = "Inverse/Counter-cyclical"
	RiskHighlyDefensive  RiskCategory = "Highly Defensive"
	RiskDefensive        RiskCategory = "Defensive"
	RiskMarketAverage    RiskCategory = "Market Average"
	RiskAggressive       RiskCategory = "Aggressive"
	RiskHighlyAggressive RiskCategory = "Highly Aggressive"
)

// StockMetrics is the per-security output of an analysis run. It is created
// once regression and classification complete and never mutated afterward.
type StockMetrics struct {
	Ticker         string       `json:"ticker"`
	Beta           float64      `json:"beta"`
	Alpha          float64      `json:"alpha"`
	ExpectedReturn float64      `json:"expected_return"`
	RiskCategory   RiskCategory `json:"risk_category"`
}

// PortfolioSummary aggregates the successfully analyzed securities of one
// run. It is recomputed whenever the ticker set or parameters change.
type PortfolioSummary struct {
	StockCount            int                  `json:"stock_count"`
	AverageBeta           float64              `json:"average_beta"`
	AverageExpectedReturn float64              `json:"average_expected_return"`
	CategoryDistribution  map[RiskCategory]int `json:"category_distribution"`
}
