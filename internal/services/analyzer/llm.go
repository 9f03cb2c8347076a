package analyzer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/blackstar403/ai-stock-assistant/internal/clients"
	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/promptbuilder"
)

// LLMAnalyzer is the generative tier. It renders the gathered context
// into a prompt, calls a chat-completion endpoint and parses the JSON
// the model returns. Any failure along that path surfaces as
// ErrAnalyzerUnavailable so the caller can fall back.
type LLMAnalyzer struct {
	client  clients.LLMClient
	prompts *promptbuilder.Builder
}

func NewLLMAnalyzer(client clients.LLMClient, prompts *promptbuilder.Builder) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, prompts: prompts}
}

func (l *LLMAnalyzer) Analyze(ctx context.Context, in Input) (*domain.Analysis, error) {
	if l.client == nil {
		return nil, errors.Wrap(domain.ErrAnalyzerUnavailable, "no llm configured")
	}

	prompt := l.prompts.BuildAnalysisPrompt(promptbuilder.Context{
		Symbol:       in.Symbol,
		Quote:        in.Quote,
		Series:       in.Series,
		Fundamentals: in.Fundamentals,
		News:         in.News,
		Sector:       in.Sector,
		Concepts:     in.Concepts,
		Indicators:   in.Indicators,
	})

	raw, err := l.client.Complete(ctx, promptbuilder.SystemPrompt, prompt)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrAnalyzerUnavailable, "llm call: %v", err)
	}

	analysis, err := domain.NewAnalysisFromLLM(raw)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrAnalyzerUnavailable, "llm response: %v", err)
	}
	analysis.AnalysisType = domain.ModeLLM

	return analysis, nil
}
