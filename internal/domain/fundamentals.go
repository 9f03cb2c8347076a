package domain

import "strconv"

// Fundamentals is a sparse mapping of named financial metrics. Providers
// report metrics as strings ("N/A", "0.0345", ...), so values stay raw and
// callers parse what they need.
type Fundamentals map[string]string

// Float parses a metric as float64. Missing, empty and "N/A" values
// report false.
func (f Fundamentals) Float(metric string) (float64, bool) {
	raw, ok := f[metric]
	if !ok || raw == "" || raw == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CompanyName returns the reported company name, falling back to the
// symbol when fundamentals carry none.
func (f Fundamentals) CompanyName(symbol string) string {
	if name, ok := f["Name"]; ok && name != "" {
		return name
	}
	return symbol
}
