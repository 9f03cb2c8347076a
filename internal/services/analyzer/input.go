// Package analyzer produces structured investment analyses. It contains
// the deterministic rule cascade, adapters for the statistical and
// generative analyzers, and the orchestrating service that selects
// between them and enforces fallback.
package analyzer

import (
	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

// Input bundles everything a single analysis run reads. It is assembled
// once by the service and shared read-only by whichever analyzer runs.
type Input struct {
	Symbol       string
	Series       *domain.Series
	Quote        *domain.Quote
	Fundamentals domain.Fundamentals
	News         domain.NewsSentiment
	Sector       domain.SectorLinkage
	Concepts     domain.ConceptDistribution
	Indicators   indicators.Set
}

// CurrentPrice is the latest close.
func (in Input) CurrentPrice() float64 {
	price, _ := in.Series.Last().Close.Float64()
	return price
}

// ChangePercent is the day-over-day close change in percent, zero when
// the series has fewer than two bars.
func (in Input) ChangePercent() float64 {
	prev, ok := in.Series.Prev()
	if !ok || prev.Close.IsZero() {
		return 0
	}
	prevClose, _ := prev.Close.Float64()
	return (in.CurrentPrice() - prevClose) / prevClose * 100
}

// CompanyName prefers the quote's name, then fundamentals, then the
// bare symbol.
func (in Input) CompanyName() string {
	if in.Quote != nil && in.Quote.Name != "" {
		return in.Quote.Name
	}
	return in.Fundamentals.CompanyName(in.Symbol)
}

// LatestVolume is the most recent bar's volume.
func (in Input) LatestVolume() int64 {
	return in.Series.Last().Volume
}
