package mlmodel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// testBundle has two features and deliberately simple heads: the trend
// head is a single-row binary classifier, risk and sentiment are
// multinomial with one dominant coefficient each.
const testBundle = `{
	"features": ["rsi", "macd"],
	"scaler": {"mean": [50, 0], "scale": [10, 1]},
	"trend_model": {
		"coef": [[2, 0]],
		"intercept": [0],
		"classes": ["down", "up"]
	},
	"risk_model": {
		"coef": [[0, -3], [0, 0], [0, 3]],
		"intercept": [0, 0, 0],
		"classes": ["low", "medium", "high"]
	},
	"sentiment_model": {
		"coef": [[-3, 0], [0, 0], [3, 0]],
		"intercept": [0, 0, 0],
		"classes": ["negative", "neutral", "positive"]
	}
}`

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidBundle(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)
	assert.Equal(t, []string{"rsi", "macd"}, m.Features())
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedBundles(t *testing.T) {
	cases := map[string]string{
		"not json":    "not a model",
		"no features": `{"features": []}`,
		"scaler mismatch": `{
			"features": ["a", "b"],
			"scaler": {"mean": [0], "scale": [1]}
		}`,
		"coef row shape": `{
			"features": ["a", "b"],
			"scaler": {"mean": [0, 0], "scale": [1, 1]},
			"trend_model": {"coef": [[1]], "intercept": [0], "classes": ["down", "up"]},
			"risk_model": {"coef": [[1, 0]], "intercept": [0], "classes": ["low", "high"]},
			"sentiment_model": {"coef": [[1, 0]], "intercept": [0], "classes": ["negative", "positive"]}
		}`,
		"single class": `{
			"features": ["a"],
			"scaler": {"mean": [0], "scale": [1]},
			"trend_model": {"coef": [[1]], "intercept": [0], "classes": ["up"]},
			"risk_model": {"coef": [[1]], "intercept": [0], "classes": ["low", "high"]},
			"sentiment_model": {"coef": [[1]], "intercept": [0], "classes": ["negative", "positive"]}
		}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeBundle(t, content))
			assert.Error(t, err)
		})
	}
}

func TestPredictHighRSIAndMACD(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	// rsi 70 standardizes to +2, macd 2 stays 2
	pred, err := m.Predict(context.Background(), []float64{70, 2})
	require.NoError(t, err)

	assert.Equal(t, domain.TrendUp, pred.Trend)
	assert.Equal(t, domain.RiskHigh, pred.Risk)
	assert.Equal(t, domain.SentimentPositive, pred.Sentiment)
	assert.Greater(t, pred.TrendConfidence, 0.5)
	assert.Greater(t, pred.RiskConfidence, 0.5)
	assert.Greater(t, pred.SentimentConfidence, 0.5)
}

func TestPredictLowRSIAndMACD(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	pred, err := m.Predict(context.Background(), []float64{30, -2})
	require.NoError(t, err)

	assert.Equal(t, domain.TrendDown, pred.Trend)
	assert.Equal(t, domain.RiskLow, pred.Risk)
	assert.Equal(t, domain.SentimentNegative, pred.Sentiment)
}

func TestPredictRejectsWrongVectorLength(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), []float64{70})
	assert.Error(t, err)
}

func TestPredictHonorsContextCancellation(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Predict(ctx, []float64{70, 2})
	assert.Error(t, err)
}

func TestPredictIsDeterministic(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	first, err := m.Predict(context.Background(), []float64{55, 0.5})
	require.NoError(t, err)
	second, err := m.Predict(context.Background(), []float64{55, 0.5})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredictSeriesExtrapolatesLinearTrend(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	closes := []float64{100, 102, 104, 106, 108}
	out, err := m.PredictSeries(closes, 3)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.InDelta(t, 110, out[0], 1e-9)
	assert.InDelta(t, 112, out[1], 1e-9)
	assert.InDelta(t, 114, out[2], 1e-9)
}

func TestPredictSeriesRejectsDegenerateInput(t *testing.T) {
	m, err := Load(writeBundle(t, testBundle))
	require.NoError(t, err)

	_, err = m.PredictSeries([]float64{100}, 3)
	assert.Error(t, err)

	_, err = m.PredictSeries([]float64{100, 101}, 0)
	assert.Error(t, err)
}
