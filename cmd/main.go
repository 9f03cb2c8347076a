// Command assistant analyzes a stock symbol and prints the resulting
// analysis as JSON. It reads fixtures from the configured directory,
// loads the statistical model bundle when present and talks to an
// OpenAI-compatible endpoint when a key is supplied.
//
// Usage:
//
//	assistant --symbol AAPL
//	assistant --symbol AAPL --mode llm --config config.yaml
//	assistant --symbol AAPL --timeseries --range 3m
//
// Optional environment variables:
//
//	OPENAI_API_KEY enables the llm mode
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blackstar403/ai-stock-assistant/config"
	"github.com/blackstar403/ai-stock-assistant/internal/clients"
	"github.com/blackstar403/ai-stock-assistant/internal/domain"
	"github.com/blackstar403/ai-stock-assistant/internal/services/analyzer"
	"github.com/blackstar403/ai-stock-assistant/internal/services/datasource"
	"github.com/blackstar403/ai-stock-assistant/internal/services/mlmodel"
)

func main() {
	symbol := flag.String("symbol", "", "stock symbol to analyze")
	mode := flag.String("mode", "", "analysis mode: rule, ml or llm (default from config)")
	timeseries := flag.Bool("timeseries", false, "run a short-horizon time-series analysis instead")
	interval := flag.String("interval", "daily", "price history interval for --timeseries")
	rng := flag.String("range", "1m", "price history range for --timeseries: 1m, 3m, 6m or 1y")

	// config.Get parses the flag set, so every flag registers first.
	_ = godotenv.Load()
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}
	if *symbol == "" {
		log.Fatal("--symbol is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	source := datasource.NewSimulateSource(cfg.FixtureDir)

	var predictor analyzer.Predictor
	if model, err := mlmodel.Load(cfg.ModelPath); err != nil {
		logger.Warn("statistical model unavailable, ml mode will fall back to rules", zap.Error(err))
	} else {
		predictor = model
	}

	var llmClient clients.LLMClient
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		llmClient = clients.NewOpenAICompatibleClient(
			cfg.LLM.APIURL, apiKey, cfg.LLM.Model,
			cfg.LLM.MaxTokens, cfg.LLM.Temperature, cfg.LLM.Timeout)
	} else {
		logger.Warn("OPENAI_API_KEY not set, llm mode will fall back to rules")
	}

	service := analyzer.NewService(logger, cfg, source, predictor, llmClient)

	ctx := context.Background()
	var result any
	if *timeseries {
		result, err = service.AnalyzeTimeSeries(ctx, *symbol, *interval, *rng, *mode)
	} else {
		result, err = service.Analyze(ctx, *symbol, *mode)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			logger.Error("analysis unavailable", zap.Error(err))
			os.Exit(1)
		}
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
