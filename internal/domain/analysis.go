package domain

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Sentiment is the overall market tone of an analysis.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment validates a sentiment label.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(s), true
	default:
		return "", false
	}
}

// RiskLevel is the assessed risk tier of an analysis.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel validates a risk tier label.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	default:
		return "", false
	}
}

// Analysis is a structured investment analysis for one symbol. Field names
// form the wire contract and are case-sensitive.
type Analysis struct {
	Summary        string    `json:"summary"`
	Sentiment      Sentiment `json:"sentiment"`
	KeyPoints      []string  `json:"keyPoints"`
	Recommendation string    `json:"recommendation"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	AnalysisType   Mode      `json:"analysisType,omitempty"`
}

// Validate checks that every required field is present and every enum
// value is one of its allowed labels.
func (a *Analysis) Validate() error {
	if a.Summary == "" {
		return errors.New("summary is required")
	}
	if _, ok := ParseSentiment(string(a.Sentiment)); !ok {
		return errors.Errorf("invalid sentiment %q", a.Sentiment)
	}
	if len(a.KeyPoints) == 0 {
		return errors.New("keyPoints must not be empty")
	}
	for i, kp := range a.KeyPoints {
		if kp == "" {
			return errors.Errorf("keyPoints[%d] is empty", i)
		}
	}
	if a.Recommendation == "" {
		return errors.New("recommendation is required")
	}
	if _, ok := ParseRiskLevel(string(a.RiskLevel)); !ok {
		return errors.Errorf("invalid riskLevel %q", a.RiskLevel)
	}
	return nil
}

// NewAnalysisFromLLM builds a validated analysis from a raw model reply.
// The reply may be wrapped in markdown code fences; anything that is not a
// complete, well-typed analysis object is rejected.
func NewAnalysisFromLLM(raw string) (*Analysis, error) {
	payload := sanitizeLLMPayload(raw)

	if !json.Valid([]byte(payload)) {
		return nil, errors.New("invalid JSON structure")
	}

	var a Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, errors.Wrap(err, "JSON unmarshal error")
	}

	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "incomplete analysis")
	}

	return &a, nil
}

func sanitizeLLMPayload(raw string) string {
	payload := strings.TrimSpace(raw)
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")
	return strings.TrimSpace(payload)
}
