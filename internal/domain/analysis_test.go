package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"summary": "Steady uptrend with neutral momentum.",
	"sentiment": "positive",
	"keyPoints": ["Price is above the 200-day moving average"],
	"recommendation": "Hold.",
	"riskLevel": "medium"
}`

func TestNewAnalysisFromLLMParsesPlainJSON(t *testing.T) {
	a, err := NewAnalysisFromLLM(validPayload)
	require.NoError(t, err)

	assert.Equal(t, SentimentPositive, a.Sentiment)
	assert.Equal(t, RiskMedium, a.RiskLevel)
	assert.Len(t, a.KeyPoints, 1)
}

func TestNewAnalysisFromLLMStripsCodeFences(t *testing.T) {
	for _, wrapped := range []string{
		"```json\n" + validPayload + "\n```",
		"```\n" + validPayload + "\n```",
		"  " + validPayload + "  ",
	} {
		a, err := NewAnalysisFromLLM(wrapped)
		require.NoError(t, err)
		assert.Equal(t, SentimentPositive, a.Sentiment)
	}
}

func TestNewAnalysisFromLLMRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":          "the stock looks fine to me",
		"truncated":         validPayload[:40],
		"missing summary":   `{"sentiment":"positive","keyPoints":["x"],"recommendation":"Hold.","riskLevel":"low"}`,
		"bad sentiment":     `{"summary":"s","sentiment":"great","keyPoints":["x"],"recommendation":"Hold.","riskLevel":"low"}`,
		"bad risk":          `{"summary":"s","sentiment":"neutral","keyPoints":["x"],"recommendation":"Hold.","riskLevel":"extreme"}`,
		"empty key points":  `{"summary":"s","sentiment":"neutral","keyPoints":[],"recommendation":"Hold.","riskLevel":"low"}`,
		"blank key point":   `{"summary":"s","sentiment":"neutral","keyPoints":[""],"recommendation":"Hold.","riskLevel":"low"}`,
		"no recommendation": `{"summary":"s","sentiment":"neutral","keyPoints":["x"],"riskLevel":"low"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewAnalysisFromLLM(payload)
			assert.Error(t, err)
		})
	}
}

func TestParseSentiment(t *testing.T) {
	for _, valid := range []string{"positive", "neutral", "negative"} {
		s, ok := ParseSentiment(valid)
		assert.True(t, ok)
		assert.Equal(t, Sentiment(valid), s)
	}
	_, ok := ParseSentiment("Positive")
	assert.False(t, ok)
}

func TestParseRiskLevel(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high"} {
		r, ok := ParseRiskLevel(valid)
		assert.True(t, ok)
		assert.Equal(t, RiskLevel(valid), r)
	}
	_, ok := ParseRiskLevel("severe")
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"rule", "ml", "llm"} {
		m, ok := ParseMode(valid)
		assert.True(t, ok)
		assert.Equal(t, Mode(valid), m)
	}
	_, ok := ParseMode("auto")
	assert.False(t, ok)
}
