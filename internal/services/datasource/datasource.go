// Package datasource defines the market-data capability the analyzer
// consumes and ships a fixture-backed implementation for simulation and
// tests. Production adapters live outside this module; retry and backoff
// policy is theirs, not the analyzer's.
package datasource

import (
	"context"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// DataSource provides everything an analysis run reads. The historical
// series and the current quote are the mandatory inputs for an analysis;
// the remaining calls are optional enrichments and may return zero
// values. A nil result without an error means the provider has nothing
// for the symbol.
type DataSource interface {
	GetHistoricalSeries(ctx context.Context, symbol string) (*domain.Series, error)
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetFundamentals(ctx context.Context, symbol string) (domain.Fundamentals, error)
	GetNewsSentiment(ctx context.Context, symbol string) (domain.NewsSentiment, error)
	GetSectorLinkage(ctx context.Context, symbol string) (domain.SectorLinkage, error)
	GetConceptDistribution(ctx context.Context, symbol string) (domain.ConceptDistribution, error)
	// GetPriceHistory returns history trimmed to the requested range
	// ("1m", "3m", "6m", "1y") for time-series analysis.
	GetPriceHistory(ctx context.Context, symbol, interval, rng string) (*domain.Series, error)
}
