// Package mlmodel loads and evaluates the pre-trained statistical model
// bundle: a feature scaler plus three linear classification heads for
// trend, risk and sentiment. Training happens offline; this package only
// scores feature vectors against the exported coefficients.
package mlmodel

import (
	"context"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// head is one multinomial logistic classification head.
type head struct {
	// Coef holds one coefficient row per class. Binary heads may export
	// a single row; the complementary class is derived from it.
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
	Classes   []string    `json:"classes"`
}

type bundle struct {
	Features []string `json:"features"`
	Scaler   struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Trend     head `json:"trend_model"`
	Risk      head `json:"risk_model"`
	Sentiment head `json:"sentiment_model"`
}

// Model is a loaded model bundle ready to score feature vectors.
type Model struct {
	b bundle
}

// Load reads a model bundle from disk and validates its shape. A missing
// or malformed artifact is an error; callers treat it as the model being
// unavailable rather than a fault.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read model bundle")
	}

	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.Wrap(err, "parse model bundle")
	}

	if len(b.Features) == 0 {
		return nil, errors.New("model bundle declares no features")
	}
	if len(b.Scaler.Mean) != len(b.Features) || len(b.Scaler.Scale) != len(b.Features) {
		return nil, errors.Errorf("scaler shape mismatch: %d features, %d/%d scaler entries",
			len(b.Features), len(b.Scaler.Mean), len(b.Scaler.Scale))
	}
	for _, h := range []struct {
		name string
		h    head
	}{{"trend", b.Trend}, {"risk", b.Risk}, {"sentiment", b.Sentiment}} {
		if err := validateHead(h.h, len(b.Features)); err != nil {
			return nil, errors.Wrapf(err, "%s head", h.name)
		}
	}

	return &Model{b: b}, nil
}

func validateHead(h head, features int) error {
	if len(h.Classes) < 2 {
		return errors.Errorf("need at least 2 classes, got %d", len(h.Classes))
	}
	if len(h.Coef) == 0 {
		return errors.New("no coefficients")
	}
	if len(h.Coef) != len(h.Classes) && !(len(h.Classes) == 2 && len(h.Coef) == 1) {
		return errors.Errorf("coefficient rows (%d) do not match classes (%d)", len(h.Coef), len(h.Classes))
	}
	if len(h.Intercept) != len(h.Coef) {
		return errors.Errorf("intercepts (%d) do not match coefficient rows (%d)", len(h.Intercept), len(h.Coef))
	}
	for i, row := range h.Coef {
		if len(row) != features {
			return errors.Errorf("coefficient row %d has %d entries, want %d", i, len(row), features)
		}
	}
	return nil
}

// Features returns the feature names in the order Predict expects them.
func (m *Model) Features() []string {
	return m.b.Features
}

// Predict standardizes the feature vector and evaluates each head.
func (m *Model) Predict(ctx context.Context, features []float64) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	if len(features) != len(m.b.Features) {
		return domain.Prediction{}, errors.Errorf("feature vector has %d entries, model expects %d",
			len(features), len(m.b.Features))
	}

	scaled := make([]float64, len(features))
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		scale := m.b.Scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		scaled[i] = (v - m.b.Scaler.Mean[i]) / scale
	}

	trendClass, trendConf := m.b.Trend.classify(scaled)
	riskClass, riskConf := m.b.Risk.classify(scaled)
	sentimentClass, sentimentConf := m.b.Sentiment.classify(scaled)

	if trendClass != domain.TrendUp && trendClass != domain.TrendDown {
		return domain.Prediction{}, errors.Errorf("unknown trend class %q", trendClass)
	}
	risk, ok := domain.ParseRiskLevel(riskClass)
	if !ok {
		return domain.Prediction{}, errors.Errorf("unknown risk class %q", riskClass)
	}
	sentiment, ok := domain.ParseSentiment(sentimentClass)
	if !ok {
		return domain.Prediction{}, errors.Errorf("unknown sentiment class %q", sentimentClass)
	}

	return domain.Prediction{
		Trend:               trendClass,
		Risk:                risk,
		Sentiment:           sentiment,
		TrendConfidence:     trendConf,
		RiskConfidence:      riskConf,
		SentimentConfidence: sentimentConf,
	}, nil
}

// classify returns the winning class label and its probability.
func (h head) classify(x []float64) (string, float64) {
	var probs []float64
	if len(h.Classes) == 2 && len(h.Coef) == 1 {
		// binary head exported as a single row: sigmoid gives P(classes[1])
		p := sigmoid(dot(h.Coef[0], x) + h.Intercept[0])
		probs = []float64{1 - p, p}
	} else {
		scores := make([]float64, len(h.Coef))
		for i, row := range h.Coef {
			scores[i] = dot(row, x) + h.Intercept[i]
		}
		probs = softmax(scores)
	}

	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return h.Classes[best], probs[best]
}

// PredictSeries fits a least-squares line through the closes and
// extrapolates it the requested number of days forward.
func (m *Model) PredictSeries(closes []float64, days int) ([]float64, error) {
	if len(closes) < 2 {
		return nil, errors.Errorf("need at least 2 closes to project, got %d", len(closes))
	}
	if days <= 0 {
		return nil, errors.Errorf("days must be positive, got %d", days)
	}

	n := float64(len(closes))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, errors.New("degenerate series")
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	out := make([]float64, days)
	for d := 1; d <= days; d++ {
		out[d-1] = intercept + slope*(n-1+float64(d))
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	sum := 0.0
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
