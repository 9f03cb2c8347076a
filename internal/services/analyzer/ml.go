package analyzer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

// Predictor is the statistical tier. Implemented by mlmodel.Model in
// production and by stubs in tests.
type Predictor interface {
	Features() []string
	Predict(ctx context.Context, features []float64) (domain.Prediction, error)
}

// MLAnalyzer turns a Prediction into a full Analysis with wording that
// makes the statistical origin explicit to the reader.
type MLAnalyzer struct {
	predictor Predictor
}

func NewMLAnalyzer(p Predictor) *MLAnalyzer {
	return &MLAnalyzer{predictor: p}
}

// Analyze builds the model's feature vector from Input, runs the
// prediction and renders it. Returns an error when no model is loaded
// or inference fails; the caller decides what to fall back to.
func (m *MLAnalyzer) Analyze(ctx context.Context, in Input) (*domain.Analysis, error) {
	if m.predictor == nil {
		return nil, errors.Wrap(domain.ErrAnalyzerUnavailable, "no model loaded")
	}

	features := m.featureVector(in)
	pred, err := m.predictor.Predict(ctx, features)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrAnalyzerUnavailable, "model inference: %v", err)
	}

	return m.render(in, pred), nil
}

// featureVector resolves each feature the model was trained on by
// name. Unknown names and undefined indicators contribute zero, so a
// model trained with a wider feature set still runs on partial data.
func (m *MLAnalyzer) featureVector(in Input) []float64 {
	ind := in.Indicators
	features := make([]float64, 0, len(m.predictor.Features()))
	for _, name := range m.predictor.Features() {
		var v float64
		switch name {
		case "price":
			v = in.CurrentPrice()
		case "change_percent":
			v = in.ChangePercent()
		case "volume":
			v = float64(in.LatestVolume())
		case "sma_20":
			v = ind.SMA20
		case "sma_50":
			v = ind.SMA50
		case "sma_200":
			v = ind.SMA200
		case "price_vs_sma200":
			v = ind.PriceVsSMA200
		case "bb_position":
			v = ind.BBPosition
		case "bb_width":
			v = ind.BBWidth
		case "rsi":
			v = ind.RSI
		case "volatility":
			v = ind.Volatility
		case "macd":
			v = ind.MACD
		case "news_score":
			if score, ok := in.News.MeanScore(); ok {
				v = score
			}
		case "policy_resonance":
			v = in.News.PolicyResonance.Coefficient
		case "sector_correlation":
			v = in.Sector.Correlation
		case "sector_driving_force":
			v = in.Sector.DrivingForce
		case "concept_strength":
			v = in.Concepts.OverallStrength
		}
		if !indicators.Defined(v) {
			v = 0
		}
		features = append(features, v)
	}
	return features
}

func (m *MLAnalyzer) render(in Input, pred domain.Prediction) *domain.Analysis {
	sentiment := pred.Sentiment
	risk := pred.Risk

	points := []string{
		fmt.Sprintf("The model puts a %.0f%% probability on the price rising", trendUpProbability(pred)*100),
		fmt.Sprintf("Model-assessed risk level is %s (confidence %.0f%%)", risk, pred.RiskConfidence*100),
		fmt.Sprintf("Model-assessed sentiment is %s (confidence %.0f%%)", sentiment, pred.SentimentConfidence*100),
	}

	var rec string
	switch {
	case pred.Trend == domain.TrendUp && sentiment == domain.SentimentPositive:
		rec = "The model leans bullish on both price and sentiment; holding or adding on dips is consistent with its read."
	case pred.Trend == domain.TrendDown && sentiment == domain.SentimentNegative:
		rec = "The model leans bearish on both price and sentiment; reducing exposure is consistent with its read."
	default:
		rec = "The model's price and sentiment signals disagree; treat this as a neutral reading and wait for confirmation."
	}

	summary := fmt.Sprintf(
		"%s is trading at %.2f, %+.2f%% versus the previous session. A statistical model trained on price and context features expects the short-term trend to point %s with %.0f%% confidence. Overall risk is assessed as %s.",
		in.CompanyName(), in.CurrentPrice(), in.ChangePercent(),
		pred.Trend, pred.TrendConfidence*100, risk)

	return &domain.Analysis{
		Summary:        summary,
		Sentiment:      sentiment,
		KeyPoints:      points,
		Recommendation: rec,
		RiskLevel:      risk,
		AnalysisType:   domain.ModeML,
	}
}

// trendUpProbability reads the confidence as the probability of the
// predicted class and flips it when the predicted class is down.
func trendUpProbability(pred domain.Prediction) float64 {
	if pred.Trend == domain.TrendUp {
		return pred.TrendConfidence
	}
	return 1 - pred.TrendConfidence
}
