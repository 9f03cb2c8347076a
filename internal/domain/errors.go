package domain

import "github.com/pkg/errors"

var (
	// ErrUnavailable means no analysis can be produced for the request:
	// mandatory market data is missing or the caller gave up waiting.
	ErrUnavailable = errors.New("analysis unavailable")

	// ErrAnalyzerUnavailable means the selected analyzer cannot produce a
	// result and the caller should fall back to the rule cascade.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
)
