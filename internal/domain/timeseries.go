package domain

// PricePoint is a projected price for a trading day in the near future.
type PricePoint struct {
	Day            int     `json:"day"`
	PredictedPrice float64 `json:"predicted_price"`
}

// TimeSeriesPrediction projects prices forward and names the levels that
// are expected to contain the move.
type TimeSeriesPrediction struct {
	PriceTrend       []PricePoint `json:"price_trend"`
	SupportLevels    []float64    `json:"support_levels"`
	ResistanceLevels []float64    `json:"resistance_levels"`
}

// TimeSeriesIndicators are the short-window indicators reported alongside
// a time-series analysis.
type TimeSeriesIndicators struct {
	MA5       float64 `json:"ma5"`
	MA10      float64 `json:"ma10"`
	MA20      float64 `json:"ma20"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// TimeSeriesOutlook is the qualitative read of the series.
type TimeSeriesOutlook struct {
	Trend    string `json:"trend"`    // bullish or bearish
	Strength string `json:"strength"` // strong or weak
	Summary  string `json:"summary"`
}

// TimeSeriesAnalysis is the result of analyzing intraday or short-range
// price history for a symbol.
type TimeSeriesAnalysis struct {
	Prediction TimeSeriesPrediction `json:"prediction"`
	Indicators TimeSeriesIndicators `json:"indicators"`
	Outlook    TimeSeriesOutlook    `json:"analysis"`
}
