package domain

// TrendUp and TrendDown are the trend classes the statistical model emits.
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Prediction is the output of the statistical model for one symbol:
// class labels plus the confidence the model assigned to each of them.
type Prediction struct {
	Trend               string
	Risk                RiskLevel
	Sentiment           Sentiment
	TrendConfidence     float64
	RiskConfidence      float64
	SentimentConfidence float64
}
