// Package promptbuilder formats market data, technical indicators and
// auxiliary features into prompts for the generative-text analyzer.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

// SystemPrompt frames the model as an equity analyst. The required output
// shape is restated in the user prompt next to the data.
const SystemPrompt = `You are a professional equity analyst. You analyze stock data and provide investment advice. You always respond with a single valid JSON object and nothing else.`

const recentBars = 10
const maxNewsItems = 5

// Context carries everything one analysis prompt is built from.
type Context struct {
	Symbol       string
	Quote        *domain.Quote
	Series       *domain.Series
	Fundamentals domain.Fundamentals
	News         domain.NewsSentiment
	Sector       domain.SectorLinkage
	Concepts     domain.ConceptDistribution
	Indicators   indicators.Set
}

// Builder constructs prompts for the LLM.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// fundamentalMetrics is the whitelist of metrics worth showing the model,
// in presentation order.
var fundamentalMetrics = []string{
	"PERatio", "PBRatio", "DividendYield", "MarketCapitalization",
	"EPS", "ROE", "ROA", "DebtToEquity",
}

// BuildAnalysisPrompt renders the full analysis prompt: quote header,
// recent bars, indicators with plain-language descriptions, fundamentals,
// news, policy resonance, sector linkage and concept distribution, then
// the required JSON shape.
func (b *Builder) BuildAnalysisPrompt(ctx Context) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following stock data and provide professional investment advice.\n\n")

	sb.WriteString(fmt.Sprintf("Symbol: %s\n", ctx.Symbol))
	if ctx.Quote != nil {
		if ctx.Quote.Name != "" {
			sb.WriteString(fmt.Sprintf("Name: %s\n", ctx.Quote.Name))
		}
		sb.WriteString(fmt.Sprintf("Current price: %s\n", ctx.Quote.Price.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("Change: %s%%\n", ctx.Quote.ChangePercent.StringFixed(2)))
	}
	sb.WriteString("\n")

	b.writeRecentBars(&sb, ctx.Series)
	b.writeIndicators(&sb, ctx.Indicators)
	b.writeFundamentals(&sb, ctx.Fundamentals)
	b.writeNews(&sb, ctx.News)
	b.writePolicyResonance(&sb, ctx.News.PolicyResonance)
	b.writeSector(&sb, ctx.Sector)
	b.writeConcepts(&sb, ctx.Concepts)

	sb.WriteString(`Analysis framework:
1. The 200-day moving average separates long-term bull and bear phases; price above it is bullish, below it bearish.
2. Bollinger bands flag short-term overbought (near the upper band) and oversold (near the lower band) states; contracting bands often precede a breakout.
3. Follow the trend; avoid positioning against it.
4. Policy resonance measures how strongly the stock is tied to recent policy.
5. Sector linkage and concept strength show whether the stock leads or follows its group.

`)

	sb.WriteString(`Respond with a JSON object with exactly these fields:
1. "summary": brief summary of the stock's condition, covering its position versus the 200-day average and the Bollinger bands, plus policy resonance, sector standing and concept strength where available
2. "sentiment": one of "positive", "neutral", "negative"
3. "keyPoints": array of at least 7 key analysis points (strings), covering the Bollinger bands, the 200-day average, policy resonance, sector linkage and concept distribution
4. "recommendation": investment advice following a trend-following approach, weighing policy resonance, sector standing and concept strength
5. "riskLevel": one of "low", "medium", "high"

Return only the JSON object.
`)

	return sb.String()
}

// BuildTimeSeriesPrompt renders a compact prompt asking for a qualitative
// outlook on short-range price history.
func (b *Builder) BuildTimeSeriesPrompt(symbol string, series *domain.Series, set indicators.Set) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Assess the short-term outlook for %s from its recent price history.\n\n", symbol))
	b.writeRecentBars(&sb, series)
	b.writeIndicators(&sb, set)

	sb.WriteString(`Respond with a JSON object with exactly these fields:
1. "trend": "bullish" or "bearish"
2. "strength": "strong" or "weak"
3. "summary": one or two sentences on the expected move

Return only the JSON object.
`)

	return sb.String()
}

func (b *Builder) writeRecentBars(sb *strings.Builder, series *domain.Series) {
	sb.WriteString("Recent price history:\n")
	if series == nil || series.Len() == 0 {
		sb.WriteString("- no data\n\n")
		return
	}
	candles := series.Candles()
	start := len(candles) - recentBars
	if start < 0 {
		start = 0
	}
	for _, c := range candles[start:] {
		sb.WriteString(fmt.Sprintf("- %s: open %s, close %s, high %s, low %s, volume %d\n",
			c.Date.Format("2006-01-02"),
			c.Open.StringFixed(2), c.Close.StringFixed(2),
			c.High.StringFixed(2), c.Low.StringFixed(2), c.Volume))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeIndicators(sb *strings.Builder, set indicators.Set) {
	sb.WriteString("Technical indicators:\n")

	if indicators.Defined(set.BBUpper) && indicators.Defined(set.BBLower) {
		sb.WriteString(fmt.Sprintf(
			"- Bollinger bands: upper=%.2f, middle=%.2f, lower=%.2f, width=%.2f, position=%.2f (0-1, closer to 1 means closer to the upper band)\n",
			set.BBUpper, set.BBMiddle, set.BBLower, set.BBWidth, set.BBPosition))
	}
	if indicators.Defined(set.SMA200) {
		side := "above"
		if set.PriceVsSMA200 < 0 {
			side = "below"
		}
		sb.WriteString(fmt.Sprintf(
			"- 200-day moving average: %.2f, price is %.2f%% %s it\n",
			set.SMA200, set.PriceVsSMA200*100, side))
	}

	for _, row := range []struct {
		name  string
		value float64
	}{
		{"SMA20", set.SMA20},
		{"SMA50", set.SMA50},
		{"RSI", set.RSI},
		{"Volatility", set.Volatility},
		{"MACD", set.MACD},
	} {
		if indicators.Defined(row.value) {
			sb.WriteString(fmt.Sprintf("- %s: %.2f\n", row.name, row.value))
		}
	}
	sb.WriteString("\n")
}

func (b *Builder) writeFundamentals(sb *strings.Builder, f domain.Fundamentals) {
	if len(f) == 0 {
		return
	}
	sb.WriteString("Fundamentals:\n")
	for _, metric := range fundamentalMetrics {
		if v, ok := f[metric]; ok && v != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", metric, v))
		}
	}
	sb.WriteString("\n")
}

func (b *Builder) writeNews(sb *strings.Builder, news domain.NewsSentiment) {
	sb.WriteString("News sentiment:\n")
	if len(news.Feed) == 0 {
		sb.WriteString("- no relevant news\n\n")
		return
	}
	limit := len(news.Feed)
	if limit > maxNewsItems {
		limit = maxNewsItems
	}
	for _, a := range news.Feed[:limit] {
		sb.WriteString(fmt.Sprintf("- title: %s\n  sentiment score: %.2f\n", a.Title, a.SentimentScore))
	}
	sb.WriteString("\n")
}

func (b *Builder) writePolicyResonance(sb *strings.Builder, pr domain.PolicyResonance) {
	if pr.Coefficient <= 0 {
		return
	}
	sb.WriteString("Policy resonance:\n")
	sb.WriteString(fmt.Sprintf("- coefficient: %.2f (0-1, higher means stronger ties to recent policy)\n", pr.Coefficient))
	for _, p := range pr.Policies {
		sb.WriteString(fmt.Sprintf("- related policy: %s (%s), relevance %.2f\n", p.Title, p.Date, p.Relevance))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeSector(sb *strings.Builder, sector domain.SectorLinkage) {
	if !sector.Present() {
		return
	}
	sb.WriteString("Sector linkage:\n")
	sb.WriteString(fmt.Sprintf("- sector: %s\n", sector.SectorName))
	sb.WriteString(fmt.Sprintf("- driving force: %.2f (0-1, higher means the stock pulls the sector)\n", sector.DrivingForce))
	sb.WriteString(fmt.Sprintf("- correlation: %.2f (0-1, higher means tighter co-movement with the sector)\n", sector.Correlation))
	if sector.RankInSector > 0 && sector.TotalInSector > 0 {
		sb.WriteString(fmt.Sprintf("- sector rank: %d/%d\n", sector.RankInSector, sector.TotalInSector))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeConcepts(sb *strings.Builder, dist domain.ConceptDistribution) {
	if !dist.Present() {
		return
	}
	sb.WriteString("Concept distribution:\n")
	sb.WriteString(fmt.Sprintf("- overall strength: %.2f (0-1, higher means the stock's themes are stronger)\n", dist.OverallStrength))
	if len(dist.Leading) > 0 {
		sb.WriteString("- leading concepts:\n")
		for i, c := range dist.Leading {
			if i == 3 {
				break
			}
			sb.WriteString(fmt.Sprintf("  * %s - strength %.2f, rank %d/%d\n", c.Name, c.Strength, c.Rank, c.Total))
		}
	}
	if len(dist.Lagging) > 0 {
		sb.WriteString("- lagging concepts:\n")
		for i, c := range dist.Lagging {
			if i == 2 {
				break
			}
			sb.WriteString(fmt.Sprintf("  * %s - strength %.2f, rank %d/%d\n", c.Name, c.Strength, c.Rank, c.Total))
		}
	}
	sb.WriteString("\n")
}
