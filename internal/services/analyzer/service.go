package analyzer

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blackstar403/ai-stock-assistant/config"
	"github.com/blackstar403/ai-stock-assistant/internal/clients"
	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/datasource"
	"github.com/blackstar403/ai-stock-assistant/internal/services/indicators"
	"github.com/blackstar403/ai-stock-assistant/internal/services/promptbuilder"
)

// Service orchestrates an analysis run: it gathers data, computes
// indicators once, dispatches to the requested analyzer tier and falls
// back to the rule tier when the statistical or generative tier fails.
type Service struct {
	logger *zap.Logger
	cfg    *config.Config
	source datasource.DataSource
	rule   *RuleAnalyzer
	ml     *MLAnalyzer
	llm    *LLMAnalyzer
	calc   *indicators.Calculator
}

// NewService wires the analyzers. predictor and llmClient may be nil;
// the corresponding modes then fall back to rule-based analysis.
func NewService(logger *zap.Logger, cfg *config.Config, source datasource.DataSource, predictor Predictor, llmClient clients.LLMClient) *Service {
	return &Service{
		logger: logger,
		cfg:    cfg,
		source: source,
		rule:   NewRuleAnalyzer(cfg.Thresholds),
		ml:     NewMLAnalyzer(predictor),
		llm:    NewLLMAnalyzer(llmClient, promptbuilder.NewBuilder()),
		calc: indicators.NewCalculator(
			cfg.Indicators.BollingerWindow,
			cfg.Indicators.BollingerStdDev,
			cfg.Indicators.RSIPeriod,
			cfg.Indicators.VolatilityWindow,
		),
	}
}

// Analyze produces an Analysis for the symbol using the requested mode.
// An empty or unknown mode quietly uses the configured default.
func (s *Service) Analyze(ctx context.Context, symbol, mode string) (*domain.Analysis, error) {
	parsed := s.resolveMode(mode)

	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("symbol", symbol),
		zap.String("mode", string(parsed)),
	)

	in, err := s.gather(ctx, symbol, log)
	if err != nil {
		return nil, err
	}

	switch parsed {
	case domain.ModeML:
		analysis, err := s.ml.Analyze(ctx, *in)
		if err == nil {
			log.Info("analysis complete", zap.String("type", string(analysis.AnalysisType)))
			return analysis, nil
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(domain.ErrUnavailable, ctx.Err().Error())
		}
		log.Warn("ml analyzer failed, falling back to rules", zap.Error(err))
	case domain.ModeLLM:
		analysis, err := s.llm.Analyze(ctx, *in)
		if err == nil {
			log.Info("analysis complete", zap.String("type", string(analysis.AnalysisType)))
			return analysis, nil
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(domain.ErrUnavailable, ctx.Err().Error())
		}
		log.Warn("llm analyzer failed, falling back to rules", zap.Error(err))
	}

	analysis := s.rule.Analyze(*in)
	log.Info("analysis complete", zap.String("type", string(analysis.AnalysisType)))
	return analysis, nil
}

// resolveMode maps empty and unknown mode strings to the configured
// default instead of faulting; callers asking for nonsense still get an
// answer.
func (s *Service) resolveMode(mode string) domain.Mode {
	if parsed, ok := domain.ParseMode(mode); ok {
		return parsed
	}
	if parsed, ok := domain.ParseMode(s.cfg.DefaultMode); ok {
		if mode != "" {
			s.logger.Warn("unknown analysis mode, using default",
				zap.String("requested", mode),
				zap.String("default", s.cfg.DefaultMode))
		}
		return parsed
	}
	return domain.ModeRule
}

// gather fetches everything an analysis reads. Historical prices and
// the current quote are mandatory and are fetched first; every other
// input degrades to its zero value with a warning so a flaky enrichment
// provider cannot sink the run.
func (s *Service) gather(ctx context.Context, symbol string, log *zap.Logger) (*Input, error) {
	series, err := s.source.GetHistoricalSeries(ctx, symbol)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUnavailable, "historical prices for %s: %v", symbol, err)
	}
	if series == nil || series.Len() == 0 {
		return nil, errors.Wrapf(domain.ErrUnavailable, "no historical prices for %s", symbol)
	}

	quote, err := s.source.GetQuote(ctx, symbol)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUnavailable, "quote for %s: %v", symbol, err)
	}
	if quote == nil {
		return nil, errors.Wrapf(domain.ErrUnavailable, "no quote for %s", symbol)
	}

	in := &Input{Symbol: symbol, Series: series, Quote: quote}

	if fundamentals, err := s.source.GetFundamentals(ctx, symbol); err != nil {
		log.Warn("fundamentals unavailable", zap.Error(err))
	} else {
		in.Fundamentals = fundamentals
	}

	if news, err := s.source.GetNewsSentiment(ctx, symbol); err != nil {
		log.Warn("news sentiment unavailable", zap.Error(err))
	} else {
		in.News = news
	}

	if sector, err := s.source.GetSectorLinkage(ctx, symbol); err != nil {
		log.Warn("sector linkage unavailable", zap.Error(err))
	} else {
		in.Sector = sector
	}

	if concepts, err := s.source.GetConceptDistribution(ctx, symbol); err != nil {
		log.Warn("concept distribution unavailable", zap.Error(err))
	} else {
		in.Concepts = concepts
	}

	in.Indicators = s.calc.Compute(series)

	return in, nil
}
