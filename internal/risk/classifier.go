package risk

import (
	"math"

	"BetaLens/internal/model"
)

// MarketBetaTolerance is the half-width of the band around beta = 1.0 that
// counts as moving with the market. It is checked before the ordered bands.
const MarketBetaTolerance = 0.02

// Band maps the betas below Upper (exclusive, or inclusive when Inclusive
// is set) to a category. Bands are scanned lowest to highest, so together
// with DefaultCategory they cover every finite beta exactly once.
type Band struct {
	Upper     float64
	Inclusive bool
	Category  model.RiskCategory
}

// Bands defines the 6-level risk mapping.
var Bands = []Band{
	{Upper: 0, Category: model.RiskInverse},
	{Upper: 0.5, Category: model.RiskHighlyDefensive},
	{Upper: 1.0, Category: model.RiskDefensive},
	{Upper: 1.5, Inclusive: true, Category: model.RiskAggressive},
}

// DefaultCategory is the label for betas above the highest band.
var DefaultCategory = model.RiskHighlyAggressive

// Classify maps a beta value to its risk category. It is a pure total
// function over finite floats; an undefined beta must never reach it —
// callers check for a degenerate regression first.
func Classify(beta float64) model.RiskCategory {
	if math.Abs(beta-1.0) <= MarketBetaTolerance {
		return model.RiskMarketAverage
	}
	for _, b := range Bands {
		if beta < b.Upper || (b.Inclusive && beta == b.Upper) {
			return b.Category
		}
	}
	return DefaultCategory
}
