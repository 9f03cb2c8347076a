package domain

import "time"

// Article is a single scored news item.
type Article struct {
	Title          string
	URL            string
	Time           time.Time
	SentimentScore float64
}

// Policy is a policy news item matched to a symbol.
type Policy struct {
	Title     string
	Date      string
	Relevance float64
}

// PolicyResonance describes how strongly a symbol relates to recent
// policy news. Coefficient is normalized to [0,1].
type PolicyResonance struct {
	Coefficient float64
	Policies    []Policy
}

// NewsSentiment is the scored news feed for a symbol, possibly empty.
type NewsSentiment struct {
	Feed            []Article
	PolicyResonance PolicyResonance
}

// MeanScore returns the average sentiment score across the feed and
// false when the feed is empty.
func (n NewsSentiment) MeanScore() (float64, bool) {
	if len(n.Feed) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, a := range n.Feed {
		sum += a.SentimentScore
	}
	return sum / float64(len(n.Feed)), true
}
