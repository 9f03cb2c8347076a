package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bar(n int, close float64) Candle {
	d := decimal.NewFromFloat(close)
	return Candle{Date: day(n), Open: d, High: d, Low: d, Close: d, Volume: 1000}
}

func TestNewSeriesRejectsEmptyInput(t *testing.T) {
	_, err := NewSeries(nil)
	require.Error(t, err)
}

func TestNewSeriesRejectsOutOfOrderDates(t *testing.T) {
	_, err := NewSeries([]Candle{bar(1, 10), bar(0, 11)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestNewSeriesRejectsDuplicateDates(t *testing.T) {
	_, err := NewSeries([]Candle{bar(0, 10), bar(0, 11)})
	require.Error(t, err)
}

func TestSeriesAccessors(t *testing.T) {
	s, err := NewSeries([]Candle{bar(0, 10), bar(1, 11), bar(2, 12)})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, day(2), s.Last().Date)

	prev, ok := s.Prev()
	require.True(t, ok)
	assert.Equal(t, day(1), prev.Date)

	assert.Equal(t, []float64{10, 11, 12}, s.Closes())
}

func TestSeriesPrevOnSingleBar(t *testing.T) {
	s, err := NewSeries([]Candle{bar(0, 10)})
	require.NoError(t, err)

	_, ok := s.Prev()
	assert.False(t, ok)
}

func TestSeriesTail(t *testing.T) {
	s, err := NewSeries([]Candle{bar(0, 10), bar(1, 11), bar(2, 12)})
	require.NoError(t, err)

	tail := s.Tail(2)
	assert.Equal(t, []float64{11, 12}, tail.Closes())
	// original is untouched
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, 3, s.Tail(10).Len())
	assert.Equal(t, 3, s.Tail(0).Len())
}

func TestNewSeriesCopiesInput(t *testing.T) {
	input := []Candle{bar(0, 10), bar(1, 11)}
	s, err := NewSeries(input)
	require.NoError(t, err)

	input[0].Close = decimal.NewFromInt(999)
	assert.Equal(t, []float64{10, 11}, s.Closes())
}
