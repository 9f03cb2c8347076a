package promptbuilder

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

func testSeries(t *testing.T, n int) *domain.Series {
	t.Helper()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, n)
	for i := range candles {
		d := decimal.NewFromFloat(100 + float64(i))
		candles[i] = domain.Candle{
			Date: start.AddDate(0, 0, i),
			Open: d, High: d, Low: d, Close: d,
			Volume: 5000,
		}
	}
	s, err := domain.NewSeries(candles)
	require.NoError(t, err)
	return s
}

func fullContext(t *testing.T) Context {
	return Context{
		Symbol: "TEST",
		Quote: &domain.Quote{
			Symbol: "TEST", Name: "Test Industries",
			Price:         decimal.NewFromFloat(114.5),
			ChangePercent: decimal.NewFromFloat(0.44),
		},
		Series:       testSeries(t, 15),
		Fundamentals: domain.Fundamentals{"PERatio": "22.4", "EPS": "5.11", "Ignored": "1"},
		News: domain.NewsSentiment{
			Feed: []domain.Article{
				{Title: "Earnings beat", SentimentScore: 0.45},
			},
			PolicyResonance: domain.PolicyResonance{
				Coefficient: 0.62,
				Policies:    []domain.Policy{{Title: "Incentive program", Date: "2026-02-01", Relevance: 0.8}},
			},
		},
		Sector: domain.SectorLinkage{
			SectorName: "Industrials", Correlation: 0.74, DrivingForce: 0.55,
			RankInSector: 3, TotalInSector: 48,
		},
		Concepts: domain.ConceptDistribution{
			OverallStrength: 0.58,
			Leading:         []domain.Concept{{Name: "Automation", Strength: 0.7, Rank: 2, Total: 35}},
		},
		Indicators: indicators.Set{
			SMA20: 107, SMA50: 104, SMA200: 100,
			PriceVsSMA200: 0.14,
			BBUpper:       118, BBMiddle: 110, BBLower: 102,
			BBWidth: 0.145, BBPosition: 0.78,
			RSI: 68, Volatility: 1.2, MACD: 0.9,
		},
	}
}

func TestBuildAnalysisPromptContainsEverySection(t *testing.T) {
	prompt := NewBuilder().BuildAnalysisPrompt(fullContext(t))

	for _, want := range []string{
		"Symbol: TEST",
		"Name: Test Industries",
		"Current price: 114.50",
		"Recent price history:",
		"Bollinger bands:",
		"200-day moving average: 100.00, price is 14.00% above it",
		"Fundamentals:",
		"- PERatio: 22.4",
		"News sentiment:",
		"- title: Earnings beat",
		"Policy resonance:",
		"- coefficient: 0.62",
		"Sector linkage:",
		"- sector rank: 3/48",
		"Concept distribution:",
		"* Automation",
		`"keyPoints"`,
		"Return only the JSON object.",
	} {
		assert.Contains(t, prompt, want)
	}
	// whitelisted metrics only
	assert.NotContains(t, prompt, "Ignored")
}

func TestBuildAnalysisPromptLimitsRecentBars(t *testing.T) {
	ctx := fullContext(t)
	ctx.Series = testSeries(t, 40)

	prompt := NewBuilder().BuildAnalysisPrompt(ctx)
	assert.Equal(t, 10, strings.Count(prompt, "open "))
	// the oldest shown bar is 10 from the end
	assert.NotContains(t, prompt, "2026-03-02:")
}

func TestBuildAnalysisPromptOmitsMissingSections(t *testing.T) {
	ctx := Context{
		Symbol:     "BARE",
		Series:     testSeries(t, 5),
		Indicators: indicators.Set{SMA20: 102, RSI: 50},
	}
	ctx.Indicators.SMA50 = math.NaN()
	ctx.Indicators.SMA200 = math.NaN()
	ctx.Indicators.PriceVsSMA200 = math.NaN()
	ctx.Indicators.BBUpper = math.NaN()
	ctx.Indicators.BBMiddle = math.NaN()
	ctx.Indicators.BBLower = math.NaN()
	ctx.Indicators.BBWidth = math.NaN()
	ctx.Indicators.BBPosition = math.NaN()
	ctx.Indicators.Volatility = math.NaN()
	ctx.Indicators.MACD = math.NaN()

	prompt := NewBuilder().BuildAnalysisPrompt(ctx)

	assert.NotContains(t, prompt, "Fundamentals:")
	assert.NotContains(t, prompt, "Policy resonance:")
	assert.NotContains(t, prompt, "Sector linkage:")
	assert.NotContains(t, prompt, "Concept distribution:")
	assert.NotContains(t, prompt, "Bollinger bands:")
	assert.NotContains(t, prompt, "200-day moving average:")
	assert.NotContains(t, prompt, "SMA50")
	assert.Contains(t, prompt, "- no relevant news")
	assert.Contains(t, prompt, "- SMA20: 102.00")
	assert.Contains(t, prompt, "- RSI: 50.00")
}

func TestBuildAnalysisPromptCapsNewsItems(t *testing.T) {
	ctx := fullContext(t)
	ctx.News.Feed = nil
	for i := 0; i < 8; i++ {
		ctx.News.Feed = append(ctx.News.Feed, domain.Article{Title: "Story", SentimentScore: 0.1})
	}

	prompt := NewBuilder().BuildAnalysisPrompt(ctx)
	assert.Equal(t, 5, strings.Count(prompt, "- title: Story"))
}

func TestBuildTimeSeriesPrompt(t *testing.T) {
	ctx := fullContext(t)
	prompt := NewBuilder().BuildTimeSeriesPrompt("TEST", ctx.Series, ctx.Indicators)

	assert.Contains(t, prompt, "short-term outlook for TEST")
	assert.Contains(t, prompt, "Recent price history:")
	assert.Contains(t, prompt, `"trend": "bullish" or "bearish"`)
	assert.NotContains(t, prompt, "Fundamentals:")
}
