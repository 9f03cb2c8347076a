package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Candle is a single OHLCV bar.
type Candle struct {
	// Date is the trading day the bar covers.
	Date time.Time
	// Open is the opening price.
	Open decimal.Decimal
	// High is the highest price of the period.
	High decimal.Decimal
	// Low is the lowest price of the period.
	Low decimal.Decimal
	// Close is the closing price.
	Close decimal.Decimal
	// Volume is the traded volume.
	Volume int64
}

// Series is a chronologically ordered OHLCV history with unique dates.
// The order is fixed at construction time and never changes afterwards.
type Series struct {
	candles []Candle
}

// NewSeries validates that candles are strictly ascending by date and
// builds an immutable series from them.
func NewSeries(candles []Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, errors.New("series requires at least one candle")
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Date.After(candles[i-1].Date) {
			return nil, errors.Errorf("candles out of order at index %d: %s does not follow %s",
				i, candles[i].Date.Format("2006-01-02"), candles[i-1].Date.Format("2006-01-02"))
		}
	}
	owned := make([]Candle, len(candles))
	copy(owned, candles)
	return &Series{candles: owned}, nil
}

// Len returns the number of candles in the series.
func (s *Series) Len() int {
	return len(s.candles)
}

// Candles returns the ordered bars. Callers must not mutate the slice.
func (s *Series) Candles() []Candle {
	return s.candles
}

// Last returns the most recent candle.
func (s *Series) Last() Candle {
	return s.candles[len(s.candles)-1]
}

// Prev returns the candle before the most recent one and false when the
// series is too short to have one.
func (s *Series) Prev() (Candle, bool) {
	if len(s.candles) < 2 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-2], true
}

// Closes returns the closing prices as float64 values in series order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i], _ = c.Close.Float64()
	}
	return out
}

// Highs returns the high prices as float64 values in series order.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i], _ = c.High.Float64()
	}
	return out
}

// Lows returns the low prices as float64 values in series order.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i], _ = c.Low.Float64()
	}
	return out
}

// Tail returns a new series containing at most n trailing candles.
// The receiver is left untouched.
func (s *Series) Tail(n int) *Series {
	if n <= 0 || n >= len(s.candles) {
		return s
	}
	tail := make([]Candle, n)
	copy(tail, s.candles[len(s.candles)-n:])
	return &Series{candles: tail}
}
