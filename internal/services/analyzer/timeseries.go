package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
)

const (
	projectionDays = 5
	levelWindow    = 10
)

// AnalyzeTimeSeries produces a short-horizon projection with support
// and resistance levels for the symbol. The rule projection is always
// computed; the ml and llm modes replace parts of it and fall back to
// the rule result on failure.
func (s *Service) AnalyzeTimeSeries(ctx context.Context, symbol, interval, rng, mode string) (*domain.TimeSeriesAnalysis, error) {
	parsed := s.resolveMode(mode)

	log := s.logger.With(
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.String("range", rng),
		zap.String("mode", string(parsed)),
	)

	series, err := s.source.GetPriceHistory(ctx, symbol, interval, rng)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUnavailable, "price history for %s: %v", symbol, err)
	}
	if series == nil || series.Len() == 0 {
		return nil, errors.Wrapf(domain.ErrUnavailable, "no price history for %s", symbol)
	}

	closes := series.Closes()
	result := &domain.TimeSeriesAnalysis{
		Prediction: projectTrend(series),
		Indicators: shortWindowIndicators(closes),
	}
	result.Outlook = s.ruleOutlook(symbol, closes, result.Indicators)

	switch parsed {
	case domain.ModeML:
		if err := s.mlProjection(ctx, closes, result); err != nil {
			log.Warn("ml projection failed, keeping rule projection", zap.Error(err))
		}
	case domain.ModeLLM:
		if err := s.llmOutlook(ctx, symbol, series, result); err != nil {
			log.Warn("llm outlook failed, keeping rule outlook", zap.Error(err))
		}
	}

	return result, nil
}

// projectTrend extends the series by projectionDays using the mean
// change over the last five closes. Support comes from the lowest low
// and resistance from the highest high of the recent bars.
func projectTrend(series *domain.Series) domain.TimeSeriesPrediction {
	closes := series.Closes()
	last := closes[len(closes)-1]

	window := closes
	if len(window) > projectionDays {
		window = window[len(window)-projectionDays:]
	}
	var avgChange float64
	if len(window) > 1 {
		avgChange = (window[len(window)-1] - window[0]) / float64(len(window)-1)
	}

	trend := make([]domain.PricePoint, 0, projectionDays)
	price := last
	for day := 1; day <= projectionDays; day++ {
		price += avgChange
		trend = append(trend, domain.PricePoint{Day: day, PredictedPrice: round2(price)})
	}

	low, high := rangeExtremes(series.Lows(), series.Highs(), levelWindow)
	return domain.TimeSeriesPrediction{
		PriceTrend:       trend,
		SupportLevels:    []float64{round2(low), round2(low * 0.98)},
		ResistanceLevels: []float64{round2(high), round2(high * 1.02)},
	}
}

func shortWindowIndicators(closes []float64) domain.TimeSeriesIndicators {
	macd, signal, histogram := indicators.MACDWithSignalLast(closes)
	return domain.TimeSeriesIndicators{
		MA5:       indicators.SMALast(closes, 5),
		MA10:      indicators.SMALast(closes, 10),
		MA20:      indicators.SMALast(closes, 20),
		MACD:      macd,
		Signal:    signal,
		Histogram: histogram,
	}
}

func (s *Service) ruleOutlook(symbol string, closes []float64, ind domain.TimeSeriesIndicators) domain.TimeSeriesOutlook {
	rsi := indicators.RSILast(closes, s.cfg.Indicators.RSIPeriod)

	trend := "bearish"
	if rsi > 50 {
		trend = "bullish"
	}
	strength := "weak"
	if math.Abs(rsi-50) > 15 {
		strength = "strong"
	}
	if !indicators.Defined(rsi) {
		// Too little history for RSI; fall back to the MACD histogram.
		trend = "bearish"
		if ind.Histogram > 0 {
			trend = "bullish"
		}
		strength = "weak"
	}

	summary := fmt.Sprintf("%s shows a %s %s bias over the recent window", symbol, strength, trend)
	return domain.TimeSeriesOutlook{Trend: trend, Strength: strength, Summary: summary}
}

func (s *Service) mlProjection(ctx context.Context, closes []float64, result *domain.TimeSeriesAnalysis) error {
	type seriesPredictor interface {
		PredictSeries(closes []float64, days int) ([]float64, error)
	}
	sp, ok := s.ml.predictor.(seriesPredictor)
	if !ok || s.ml.predictor == nil {
		return errors.Wrap(domain.ErrAnalyzerUnavailable, "no series model loaded")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(domain.ErrAnalyzerUnavailable, err.Error())
	}

	projected, err := sp.PredictSeries(closes, projectionDays)
	if err != nil {
		return errors.Wrapf(domain.ErrAnalyzerUnavailable, "series projection: %v", err)
	}

	trend := make([]domain.PricePoint, 0, len(projected))
	for i, price := range projected {
		trend = append(trend, domain.PricePoint{Day: i + 1, PredictedPrice: round2(price)})
	}
	result.Prediction.PriceTrend = trend
	return nil
}

func (s *Service) llmOutlook(ctx context.Context, symbol string, series *domain.Series, result *domain.TimeSeriesAnalysis) error {
	if s.llm.client == nil {
		return errors.Wrap(domain.ErrAnalyzerUnavailable, "no llm configured")
	}

	set := s.calc.Compute(series)
	prompt := s.llm.prompts.BuildTimeSeriesPrompt(symbol, series, set)

	raw, err := s.llm.client.Complete(ctx, promptOutlookSystem, prompt)
	if err != nil {
		return errors.Wrapf(domain.ErrAnalyzerUnavailable, "llm call: %v", err)
	}

	var outlook domain.TimeSeriesOutlook
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &outlook); err != nil {
		return errors.Wrapf(domain.ErrAnalyzerUnavailable, "llm response: %v", err)
	}
	if outlook.Trend == "" || outlook.Summary == "" {
		return errors.Wrap(domain.ErrAnalyzerUnavailable, "llm response incomplete")
	}

	result.Outlook = outlook
	return nil
}

const promptOutlookSystem = "You are a market technician. Answer with a single JSON object and nothing else."

func rangeExtremes(lows, highs []float64, window int) (low, high float64) {
	if len(lows) > window {
		lows = lows[len(lows)-window:]
		highs = highs[len(highs)-window:]
	}
	low, high = lows[0], highs[0]
	for i := 1; i < len(lows); i++ {
		if lows[i] < low {
			low = lows[i]
		}
		if highs[i] > high {
			high = highs[i]
		}
	}
	return low, high
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
