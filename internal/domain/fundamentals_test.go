package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFundamentalsFloat(t *testing.T) {
	f := Fundamentals{
		"PERatio":       "28.5",
		"DividendYield": "N/A",
		"EPS":           "",
		"ROE":           "not-a-number",
	}

	v, ok := f.Float("PERatio")
	assert.True(t, ok)
	assert.Equal(t, 28.5, v)

	for _, metric := range []string{"DividendYield", "EPS", "ROE", "Missing"} {
		_, ok := f.Float(metric)
		assert.False(t, ok, metric)
	}
}

func TestFundamentalsCompanyName(t *testing.T) {
	assert.Equal(t, "Apple Inc", Fundamentals{"Name": "Apple Inc"}.CompanyName("AAPL"))
	assert.Equal(t, "AAPL", Fundamentals{}.CompanyName("AAPL"))
	assert.Equal(t, "AAPL", Fundamentals{"Name": ""}.CompanyName("AAPL"))
}

func TestNewsSentimentMeanScore(t *testing.T) {
	_, ok := NewsSentiment{}.MeanScore()
	assert.False(t, ok)

	news := NewsSentiment{Feed: []Article{
		{SentimentScore: 0.4},
		{SentimentScore: -0.2},
		{SentimentScore: 0.1},
	}}
	score, ok := news.MeanScore()
	assert.True(t, ok)
	assert.InDelta(t, 0.1, score, 1e-9)
}
