// Package indicators computes the named technical indicators the
// analyzers read: moving averages, Bollinger bands, RSI, volatility and
// MACD. Indicators whose window exceeds the available history are marked
// undefined (NaN) instead of failing the whole computation.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// Set holds one value per named indicator. An undefined value is NaN;
// use Defined before branching on one.
type Set struct {
	SMA20  float64
	SMA50  float64
	SMA200 float64

	// PriceVsSMA200 is close/SMA200 - 1. Positive means the price sits
	// above the 200-day average.
	PriceVsSMA200 float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64
	// BBWidth is (upper-lower)/middle.
	BBWidth float64
	// BBPosition is (close-lower)/(upper-lower) clamped to [0,1].
	BBPosition float64

	RSI float64

	// Volatility is the standard deviation of the close over the
	// volatility window.
	Volatility float64

	// MACD is EMA(12) - EMA(26).
	MACD float64
}

// Defined reports whether an indicator value is usable.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Calculator computes a Set from a price series. The Bollinger window and
// deviation multiplier are fixed at construction.
type Calculator struct {
	bbWindow         int
	bbStdDev         float64
	rsiPeriod        int
	volatilityWindow int
}

// NewCalculator builds a calculator with the given windows.
func NewCalculator(bbWindow int, bbStdDev float64, rsiPeriod, volatilityWindow int) *Calculator {
	return &Calculator{
		bbWindow:         bbWindow,
		bbStdDev:         bbStdDev,
		rsiPeriod:        rsiPeriod,
		volatilityWindow: volatilityWindow,
	}
}

// Compute derives every indicator from the series in one pass over the
// closing prices. The result is a value object; it is never mutated after
// this call.
func (c *Calculator) Compute(series *domain.Series) Set {
	closes := series.Closes()
	current := closes[len(closes)-1]

	set := Set{
		SMA20:  SMALast(closes, 20),
		SMA50:  SMALast(closes, 50),
		SMA200: SMALast(closes, 200),
		RSI:    RSILast(closes, c.rsiPeriod),
		MACD:   MACDLast(closes),
	}

	set.PriceVsSMA200 = math.NaN()
	if Defined(set.SMA200) && set.SMA200 != 0 {
		set.PriceVsSMA200 = current/set.SMA200 - 1
	}

	set.BBMiddle = SMALast(closes, c.bbWindow)
	sd := StdDevLast(closes, c.bbWindow)
	set.BBUpper = set.BBMiddle + c.bbStdDev*sd
	set.BBLower = set.BBMiddle - c.bbStdDev*sd

	set.BBWidth = math.NaN()
	if Defined(set.BBMiddle) && set.BBMiddle != 0 {
		set.BBWidth = (set.BBUpper - set.BBLower) / set.BBMiddle
	}

	set.BBPosition = math.NaN()
	if band := set.BBUpper - set.BBLower; Defined(band) && band > 0 {
		set.BBPosition = clamp01((current - set.BBLower) / band)
	}

	set.Volatility = StdDevLast(closes, c.volatilityWindow)

	return set
}

// SMALast returns the simple moving average over the trailing period, or
// NaN when the series is shorter than the window.
func SMALast(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return math.NaN()
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(closes)))
	if len(out) == 0 {
		return math.NaN()
	}
	return out[len(out)-1]
}

// MACDLast returns EMA(12) - EMA(26) for the latest bar, or NaN when the
// series has fewer than 26 closes.
func MACDLast(closes []float64) float64 {
	if len(closes) < 26 {
		return math.NaN()
	}
	macd := trend.NewMacd[float64]()
	macdChan, signalChan := macd.Compute(helper.SliceToChan(closes))
	// drain signal channel to prevent blocking
	go func() {
		for range signalChan {
		}
	}()
	out := helper.ChanToSlice(macdChan)
	if len(out) == 0 {
		return math.NaN()
	}
	return out[len(out)-1]
}

// MACDWithSignalLast returns the latest MACD line, its 9-period signal
// line and the histogram between them.
func MACDWithSignalLast(closes []float64) (macdLine, signal, histogram float64) {
	if len(closes) < 26 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	macd := trend.NewMacd[float64]()
	macdChan, signalChan := macd.Compute(helper.SliceToChan(closes))
	macdVals := make(chan []float64, 1)
	go func() {
		macdVals <- helper.ChanToSlice(macdChan)
	}()
	signalOut := helper.ChanToSlice(signalChan)
	macdOut := <-macdVals

	if len(macdOut) == 0 || len(signalOut) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	macdLine = macdOut[len(macdOut)-1]
	signal = signalOut[len(signalOut)-1]
	return macdLine, signal, macdLine - signal
}

// RSILast returns the relative strength index over the trailing period.
// Average gain and loss are plain means of the period deltas; when the
// window has no losses the index saturates at exactly 100.
func RSILast(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// StdDevLast returns the population standard deviation over the trailing
// period, or NaN when the series is shorter than the window.
func StdDevLast(vals []float64, period int) float64 {
	m := SMALast(vals, period)
	if !Defined(m) {
		return math.NaN()
	}
	s := 0.0
	for i := len(vals) - period; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(period))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
