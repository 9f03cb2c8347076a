package analyzer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// recordingPredictor captures the feature vector it was given.
type recordingPredictor struct {
	features []string
	got      []float64
}

func (r *recordingPredictor) Features() []string { return r.features }

func (r *recordingPredictor) Predict(ctx context.Context, features []float64) (domain.Prediction, error) {
	r.got = features
	return domain.Prediction{
		Trend: domain.TrendDown, Risk: domain.RiskLow, Sentiment: domain.SentimentNeutral,
		TrendConfidence: 0.7, RiskConfidence: 0.6, SentimentConfidence: 0.5,
	}, nil
}

func TestMLFeatureVectorFollowsModelOrder(t *testing.T) {
	predictor := &recordingPredictor{features: []string{"rsi", "price", "macd", "sector_correlation"}}

	in := uptrendInput(t)
	in.Sector = domain.SectorLinkage{SectorName: "Banks", Correlation: 0.66}

	_, err := NewMLAnalyzer(predictor).Analyze(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, predictor.got, 4)
	assert.Equal(t, 55.0, predictor.got[0])
	assert.Equal(t, 105.0, predictor.got[1])
	assert.Equal(t, 0.4, predictor.got[2])
	assert.Equal(t, 0.66, predictor.got[3])
}

func TestMLFeatureVectorZeroFillsUnknownAndUndefined(t *testing.T) {
	predictor := &recordingPredictor{features: []string{"sma_200", "shoe_size"}}

	in := uptrendInput(t)
	in.Indicators.SMA200 = math.NaN()

	_, err := NewMLAnalyzer(predictor).Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, predictor.got)
}

func TestMLAnalyzeWithoutPredictorIsUnavailable(t *testing.T) {
	_, err := NewMLAnalyzer(nil).Analyze(context.Background(), uptrendInput(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAnalyzerUnavailable)
}

func TestMLRenderWordsTheDownCase(t *testing.T) {
	predictor := &recordingPredictor{features: []string{"rsi"}}

	analysis, err := NewMLAnalyzer(predictor).Analyze(context.Background(), uptrendInput(t))
	require.NoError(t, err)

	assert.Equal(t, domain.ModeML, analysis.AnalysisType)
	// 70% confidence on "down" means a 30% probability of rising
	assert.Contains(t, analysis.KeyPoints[0], "30% probability")
	assert.Contains(t, analysis.Summary, "point down")
	require.NoError(t, analysis.Validate())
}
