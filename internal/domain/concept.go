package domain

// Concept is one thematic grouping a symbol belongs to.
type Concept struct {
	Name     string
	Strength float64
	Rank     int
	Total    int
}

// ConceptDistribution aggregates the strength of the thematic groupings a
// symbol belongs to. OverallStrength is normalized to [0,1].
type ConceptDistribution struct {
	OverallStrength float64
	Leading         []Concept
	Lagging         []Concept
}

// Present reports whether the provider returned concept data at all.
func (c ConceptDistribution) Present() bool {
	return c.OverallStrength != 0 || len(c.Leading) > 0 || len(c.Lagging) > 0
}
