package domain

// SectorLinkage describes how a symbol moves with and drives its sector.
// Correlation and DrivingForce are normalized to [0,1].
type SectorLinkage struct {
	SectorName    string
	Correlation   float64
	DrivingForce  float64
	RankInSector  int
	TotalInSector int
}

// Present reports whether the provider returned sector data at all.
func (s SectorLinkage) Present() bool {
	return s.SectorName != ""
}
