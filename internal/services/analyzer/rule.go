package analyzer

import (
	"fmt"
	"strings"

	"github.com/blackstar403/ai-stock-assistant/config"
	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

// RuleAnalyzer is the deterministic tier. Given the same Input and
// thresholds it always produces the same Analysis, which makes it the
// safe landing spot when the statistical or generative tiers fail.
type RuleAnalyzer struct {
	th config.Thresholds
}

func NewRuleAnalyzer(th config.Thresholds) *RuleAnalyzer {
	return &RuleAnalyzer{th: th}
}

// Analyze runs the full cascade: sentiment classification, ordered key
// points, risk assessment and the recommendation matrix. Branches that
// read an undefined indicator are skipped rather than faulted on.
func (r *RuleAnalyzer) Analyze(in Input) *domain.Analysis {
	sentiment := r.classifySentiment(in)
	risk := r.assessRisk(in)
	points := r.keyPoints(in)
	rec := r.recommend(in)
	summary := r.summarize(in, sentiment, risk)

	return &domain.Analysis{
		Summary:        summary,
		Sentiment:      sentiment,
		KeyPoints:      points,
		Recommendation: rec,
		RiskLevel:      risk,
		AnalysisType:   domain.ModeRule,
	}
}

// classifySentiment starts from the daily change and lets aggregate
// news sentiment override the price signal when it disagrees.
func (r *RuleAnalyzer) classifySentiment(in Input) domain.Sentiment {
	change := in.ChangePercent()

	sentiment := domain.SentimentNeutral
	switch {
	case change > r.th.DailyChangePositive:
		sentiment = domain.SentimentPositive
	case change < r.th.DailyChangeNegative:
		sentiment = domain.SentimentNegative
	}

	if score, ok := in.News.MeanScore(); ok {
		switch {
		case score > r.th.NewsScorePositive:
			sentiment = domain.SentimentPositive
		case score < r.th.NewsScoreNegative:
			sentiment = domain.SentimentNegative
		}
	}

	return sentiment
}

// keyPoints emits observations in a fixed order so that two runs over
// the same data produce byte-identical output.
func (r *RuleAnalyzer) keyPoints(in Input) []string {
	ind := in.Indicators
	var points []string

	if indicators.Defined(ind.PriceVsSMA200) {
		if ind.PriceVsSMA200 > 0 {
			points = append(points, fmt.Sprintf("Price is %.1f%% above the 200-day moving average, long-term trend is up", ind.PriceVsSMA200*100))
		} else {
			points = append(points, fmt.Sprintf("Price is %.1f%% below the 200-day moving average, long-term trend is down", -ind.PriceVsSMA200*100))
		}
	}

	if indicators.Defined(ind.BBPosition) {
		switch {
		case ind.BBPosition > r.th.BBPositionHigh:
			points = append(points, "Price is pressing the upper Bollinger band, watch for a pullback")
		case ind.BBPosition < r.th.BBPositionLow:
			points = append(points, "Price is near the lower Bollinger band, a rebound may be forming")
		}
	}

	if indicators.Defined(ind.BBWidth) {
		switch {
		case ind.BBWidth > r.th.BBWidthHigh:
			points = append(points, "Bollinger bands are wide, volatility is elevated")
		case ind.BBWidth < r.th.BBWidthLow:
			points = append(points, "Bollinger bands are tight, a breakout move may follow")
		}
	}

	if indicators.Defined(ind.SMA50) {
		price := in.CurrentPrice()
		if price > ind.SMA50 {
			points = append(points, "Price is holding above the 50-day moving average")
		} else {
			points = append(points, "Price has slipped below the 50-day moving average")
		}
	}

	if indicators.Defined(ind.RSI) {
		switch {
		case ind.RSI > r.th.RSIOverbought:
			points = append(points, fmt.Sprintf("RSI at %.1f signals overbought conditions", ind.RSI))
		case ind.RSI < r.th.RSIOversold:
			points = append(points, fmt.Sprintf("RSI at %.1f signals oversold conditions", ind.RSI))
		default:
			points = append(points, fmt.Sprintf("RSI at %.1f sits in neutral territory", ind.RSI))
		}
	}

	points = append(points, r.sectorPoints(in)...)
	points = append(points, r.conceptPoints(in)...)
	points = append(points, r.policyPoints(in)...)
	points = append(points, r.valuationPoints(in)...)

	return points
}

func (r *RuleAnalyzer) sectorPoints(in Input) []string {
	sec := in.Sector
	if !sec.Present() {
		return nil
	}

	var points []string
	switch {
	case sec.DrivingForce > r.th.DrivingForceLeader:
		points = append(points, fmt.Sprintf("The stock is a driving force in the %s sector (%.2f), it tends to lead sector moves", sec.SectorName, sec.DrivingForce))
		if sec.RankInSector > 0 && sec.RankInSector <= 3 && sec.TotalInSector > 0 {
			points = append(points, fmt.Sprintf("Ranked %d of %d in the %s sector, among the front runners", sec.RankInSector, sec.TotalInSector, sec.SectorName))
		}
	case sec.DrivingForce > r.th.DrivingForceContributor:
		points = append(points, fmt.Sprintf("The stock meaningfully contributes to moves in the %s sector (%.2f)", sec.SectorName, sec.DrivingForce))
	default:
		points = append(points, fmt.Sprintf("Its pull on the %s sector is weak (%.2f), it mostly follows the sector's overall move", sec.SectorName, sec.DrivingForce))
	}

	switch {
	case sec.Correlation > r.th.CorrelationStrong:
		points = append(points, fmt.Sprintf("Strongly correlated with the %s sector (%.2f), sector-wide swings will carry it along", sec.SectorName, sec.Correlation))
	case sec.Correlation > r.th.CorrelationModerate:
		points = append(points, fmt.Sprintf("Moderately correlated with the %s sector (%.2f)", sec.SectorName, sec.Correlation))
	default:
		points = append(points, fmt.Sprintf("Weakly tied to the %s sector, it trades mostly on its own story", sec.SectorName))
	}
	return points
}

func (r *RuleAnalyzer) conceptPoints(in Input) []string {
	con := in.Concepts
	if !con.Present() {
		return nil
	}

	switch {
	case con.OverallStrength > r.th.ConceptStrong:
		names := conceptNames(con.Leading, 2)
		if len(names) > 0 {
			return []string{fmt.Sprintf("Hot themes are strong, with %s leading", strings.Join(names, ", "))}
		}
		return []string{"The themes around the stock are running hot"}
	case con.OverallStrength > r.th.ConceptModerate:
		return []string{"Theme strength around the stock is moderate"}
	default:
		names := conceptNames(con.Lagging, 2)
		if len(names) > 0 {
			return []string{fmt.Sprintf("Theme momentum is fading, with %s lagging", strings.Join(names, ", "))}
		}
		return []string{"Theme momentum is fading, thematic support is weak"}
	}
}

func (r *RuleAnalyzer) policyPoints(in Input) []string {
	res := in.News.PolicyResonance
	var points []string
	switch {
	case res.Coefficient > r.th.PolicyHigh:
		points = append(points, "Policy resonance is high, recent policy moves directly touch this name")
	case res.Coefficient > r.th.PolicyModerate:
		points = append(points, "Policy tailwinds are moderate")
	case res.Coefficient > 0:
		points = append(points, "Policy relevance is low, macro policy is not a driver here")
	}
	if len(points) > 0 {
		for i, p := range res.Policies {
			if i == 2 {
				break
			}
			points = append(points, fmt.Sprintf("Relevant policy: %s", p.Title))
		}
	}
	return points
}

func (r *RuleAnalyzer) valuationPoints(in Input) []string {
	var points []string
	if pe, ok := in.Fundamentals.Float("PERatio"); ok && pe > 0 {
		switch {
		case pe < r.th.PELow:
			points = append(points, fmt.Sprintf("P/E of %.1f is on the cheap side", pe))
		case pe > r.th.PEHigh:
			points = append(points, fmt.Sprintf("P/E of %.1f is rich, the market is pricing in a lot of growth", pe))
		default:
			points = append(points, fmt.Sprintf("P/E of %.1f is in a fair range", pe))
		}
	}
	if div, ok := in.Fundamentals.Float("DividendYield"); ok && div > 0 {
		points = append(points, fmt.Sprintf("Dividend yield of %.2f%% adds an income cushion", div*100))
	}
	return points
}

// assessRisk starts from realized volatility, then lets policy and
// sector context nudge the level. The order is fixed: volatility base,
// policy adjustment, sector adjustment.
func (r *RuleAnalyzer) assessRisk(in Input) domain.RiskLevel {
	risk := domain.RiskMedium

	price := in.CurrentPrice()
	if indicators.Defined(in.Indicators.Volatility) && price > 0 {
		volPct := in.Indicators.Volatility / price * 100
		switch {
		case volPct > r.th.VolatilityHighPct:
			risk = domain.RiskHigh
		case volPct < r.th.VolatilityLowPct:
			risk = domain.RiskLow
		}
	}

	// Strong policy resonance damps extremes toward medium: bullish
	// trend caps high risk, bearish trend lifts low risk.
	if in.News.PolicyResonance.Coefficient > r.th.PolicyBullish && indicators.Defined(in.Indicators.PriceVsSMA200) {
		if in.Indicators.PriceVsSMA200 > 0 && risk == domain.RiskHigh {
			risk = domain.RiskMedium
		}
		if in.Indicators.PriceVsSMA200 <= 0 && risk == domain.RiskLow {
			risk = domain.RiskMedium
		}
	}

	sec := in.Sector
	if sec.Present() {
		if sec.DrivingForce > r.th.DrivingForceRisk && risk == domain.RiskLow {
			risk = domain.RiskMedium
		} else if sec.Correlation > r.th.CorrelationStrong && in.Concepts.OverallStrength < r.th.ConceptWeakRisk && risk == domain.RiskLow {
			risk = domain.RiskMedium
		}
	}

	return risk
}

// recommend walks the decision matrix: long-term trend first, then the
// short-term condition, refined by policy and sector context.
func (r *RuleAnalyzer) recommend(in Input) string {
	ind := in.Indicators

	uptrend := indicators.Defined(ind.PriceVsSMA200) && ind.PriceVsSMA200 > 0
	overbought := ind.BBPosition > r.th.OverboughtBBPosition && ind.RSI > r.th.RSIOverbought
	oversold := ind.BBPosition < r.th.OversoldBBPosition && ind.RSI < r.th.RSIOversold
	tightBands := ind.BBWidth < r.th.BBWidthLow

	policyBullish := in.News.PolicyResonance.Coefficient > r.th.PolicyBullish
	sectorBullish := in.Sector.DrivingForce > r.th.DrivingForceBullish ||
		(in.Sector.Correlation > r.th.CorrelationBullish && in.Concepts.OverallStrength > r.th.ConceptBullish)

	if uptrend {
		switch {
		case overbought:
			switch {
			case policyBullish && sectorBullish:
				return "Hold and watch. The long-term trend is up and the stock looks short-term overbought, but strong policy resonance and sector standing argue for holding with a profit target."
			case policyBullish:
				return "Hold and watch. The long-term trend is up and the stock looks short-term overbought, but policy resonance is strong; keep the position with a profit target."
			case sectorBullish:
				return "Hold and watch. The long-term trend is up and the stock looks short-term overbought, but its pull on the sector argues for holding with a profit target."
			default:
				return "Hold and watch. The long-term trend is up but the stock looks short-term overbought; consider trimming the position or setting a profit target."
			}
		case oversold:
			switch {
			case policyBullish && sectorBullish:
				return "Buy with conviction. The uptrend is intact, the stock is short-term oversold, and both policy resonance and sector standing line up; this is an attractive entry."
			case policyBullish:
				return "Buy with conviction. The uptrend is intact, the stock is short-term oversold, and policy resonance is strong; this is a good entry point."
			case sectorBullish:
				return "Buy the dip. The long-term trend is up, the stock is short-term oversold, and its sector standing is strong; staged entries look attractive."
			default:
				return "Consider buying. The long-term trend is up and the short-term oversold reading offers a better entry point."
			}
		case tightBands:
			if in.Sector.DrivingForce > r.th.DrivingForceLeader {
				return "Position ahead of a move. Bands are tight within an uptrend and the stock leads its sector, which usually resolves upward."
			}
			return "Watch closely. Bands are tight within an uptrend; a directional move is likely, wait for the breakout to confirm."
		default:
			switch {
			case policyBullish && sectorBullish:
				return "Buy or add. The uptrend is intact and both policy and sector currents run in the stock's favor."
			case policyBullish:
				return "Hold or add. The uptrend is intact and policy resonance runs in the stock's favor; follow the trend."
			case sectorBullish:
				return "Hold or add lightly. The uptrend is intact and the stock holds a strong place in its sector; follow the trend."
			default:
				return "Hold. The long-term trend is up and no short-term extreme demands action."
			}
		}
	}

	switch {
	case overbought:
		if in.Sector.DrivingForce > r.th.DrivingForceLeader {
			return "Hold with caution. The long-term trend is down but the bounce is strong and the stock leads its sector; it may carve out its own path."
		}
		return "Consider selling. The long-term trend is down and the short-term bounce is overbought; the rally is likely to fade."
	case oversold:
		switch {
		case policyBullish && sectorBullish:
			return "Watch or test the waters. The downtrend is oversold while policy resonance and sector standing are both strong; small starter positions only."
		case policyBullish:
			return "Watch for a turn. The downtrend is oversold and policy support is building; wait for price to reclaim the moving averages before buying."
		case sectorBullish:
			return "Watch or nibble. The downtrend is oversold but the stock holds some standing in its sector; only small starter positions make sense."
		default:
			return "Avoid catching the knife. The stock is oversold within a downtrend; wait for stabilization before stepping in."
		}
	case tightBands:
		if in.Sector.DrivingForce > r.th.DrivingForceLeader {
			return "Watch closely. Bands are tight and the stock leads its sector; despite the downtrend, an independent move is possible."
		}
		return "Stay on the sidelines. Bands are tight within a downtrend; the next move could go either way, let the market show its hand."
	default:
		switch {
		case policyBullish && sectorBullish:
			return "Watch list only. The trend is down, but policy resonance and sector standing may be laying the groundwork for a turn."
		case policyBullish:
			return "Watch list only. The trend is down, but policy resonance is building; hold off until a trend-change signal appears."
		case sectorBullish:
			return "Watch list only. The trend is down, but the stock's sector standing warrants waiting for the group to turn."
		default:
			return "Wait. The long-term trend is down; there is no edge in buying until the trend improves."
		}
	}
}

// summarize renders the one-paragraph overview used as the Analysis
// summary: price and day change, the sentiment read, trend direction,
// Bollinger position, sector and concept notes when the providers
// returned them, the policy coefficient when nonzero, and the risk
// tier. Sentence fragments for undefined indicators are left out.
func (r *RuleAnalyzer) summarize(in Input, sentiment domain.Sentiment, risk domain.RiskLevel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s is trading at %.2f, %+.2f%% versus the previous session.",
		in.CompanyName(), in.CurrentPrice(), in.ChangePercent())

	switch sentiment {
	case domain.SentimentPositive:
		b.WriteString(" Technicals and market mood read constructive.")
	case domain.SentimentNegative:
		b.WriteString(" Technicals and market mood read cautious.")
	default:
		b.WriteString(" Technicals and market mood read neutral.")
	}

	ind := in.Indicators
	if indicators.Defined(ind.PriceVsSMA200) {
		if ind.PriceVsSMA200 > 0 {
			b.WriteString(" The long-term trend is up against the 200-day moving average.")
		} else {
			b.WriteString(" The long-term trend is down against the 200-day moving average.")
		}
	}

	if indicators.Defined(ind.BBPosition) {
		fmt.Fprintf(&b, " The price sits at %.2f of the Bollinger band range, where 1 marks the upper band.", ind.BBPosition)
	}

	if sec := in.Sector; sec.Present() {
		switch {
		case sec.DrivingForce > r.th.DrivingForceLeader:
			fmt.Fprintf(&b, " It leads the %s sector with a driving force of %.2f.", sec.SectorName, sec.DrivingForce)
		case sec.DrivingForce > r.th.DrivingForceContributor:
			fmt.Fprintf(&b, " It carries meaningful weight in the %s sector (%.2f).", sec.SectorName, sec.DrivingForce)
		default:
			fmt.Fprintf(&b, " It mostly follows the %s sector (driving force %.2f).", sec.SectorName, sec.DrivingForce)
		}
	}

	if con := in.Concepts; con.Present() {
		if con.OverallStrength > r.th.ConceptBullish {
			fmt.Fprintf(&b, " The themes around it are running strong (%.2f).", con.OverallStrength)
		} else {
			fmt.Fprintf(&b, " The themes around it are on the weak side (%.2f).", con.OverallStrength)
		}
	}

	if res := in.News.PolicyResonance; res.Coefficient > 0 {
		fmt.Fprintf(&b, " The policy-resonance coefficient stands at %.2f", res.Coefficient)
		switch {
		case res.Coefficient > r.th.PolicyHigh:
			b.WriteString(", tightly linked to recent policy moves.")
		case res.Coefficient > r.th.PolicyModerate:
			b.WriteString(", with some connection to recent policy moves.")
		default:
			b.WriteString(", with little connection to recent policy moves.")
		}
	}

	fmt.Fprintf(&b, " Overall risk is assessed as %s.", risk)

	return b.String()
}

func conceptNames(concepts []domain.Concept, max int) []string {
	var names []string
	for _, c := range concepts {
		if len(names) == max {
			break
		}
		names = append(names, c.Name)
	}
	return names
}
