package config

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Thresholds gathers every cutoff the rule cascade compares against.
// Keeping them in one table makes the cascade testable and tunable
// without touching branch logic.
type Thresholds struct {
	// Day-over-day percent change bounds for the price-based sentiment.
	DailyChangePositive float64 `yaml:"daily_change_positive"`
	DailyChangeNegative float64 `yaml:"daily_change_negative"`

	// Mean news score bounds for the sentiment override.
	NewsScorePositive float64 `yaml:"news_score_positive"`
	NewsScoreNegative float64 `yaml:"news_score_negative"`

	// Bollinger position extremes for key points.
	BBPositionHigh float64 `yaml:"bb_position_high"`
	BBPositionLow  float64 `yaml:"bb_position_low"`

	// Bollinger width extremes.
	BBWidthHigh float64 `yaml:"bb_width_high"`
	BBWidthLow  float64 `yaml:"bb_width_low"`

	// RSI zones.
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold"`

	// Bollinger position bounds for the recommendation table. These are
	// deliberately looser than the key-point extremes.
	OverboughtBBPosition float64 `yaml:"overbought_bb_position"`
	OversoldBBPosition   float64 `yaml:"oversold_bb_position"`

	// Sector driving-force tiers.
	DrivingForceLeader      float64 `yaml:"driving_force_leader"`
	DrivingForceContributor float64 `yaml:"driving_force_contributor"`
	DrivingForceRisk        float64 `yaml:"driving_force_risk"`
	DrivingForceBullish     float64 `yaml:"driving_force_bullish"`

	// Sector correlation tiers.
	CorrelationStrong   float64 `yaml:"correlation_strong"`
	CorrelationModerate float64 `yaml:"correlation_moderate"`
	CorrelationBullish  float64 `yaml:"correlation_bullish"`

	// Concept strength tiers.
	ConceptStrong   float64 `yaml:"concept_strong"`
	ConceptModerate float64 `yaml:"concept_moderate"`
	ConceptWeakRisk float64 `yaml:"concept_weak_risk"`
	ConceptBullish  float64 `yaml:"concept_bullish"`

	// Policy resonance tiers.
	PolicyHigh     float64 `yaml:"policy_high"`
	PolicyModerate float64 `yaml:"policy_moderate"`
	PolicyBullish  float64 `yaml:"policy_bullish"`

	// Valuation tiers.
	PELow  float64 `yaml:"pe_low"`
	PEHigh float64 `yaml:"pe_high"`

	// Volatility-to-price percent bounds for the base risk tier.
	VolatilityHighPct float64 `yaml:"volatility_high_pct"`
	VolatilityLowPct  float64 `yaml:"volatility_low_pct"`
}

// DefaultThresholds returns the cascade cutoffs the analyzer ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DailyChangePositive: 2.0,
		DailyChangeNegative: -2.0,

		NewsScorePositive: 0.2,
		NewsScoreNegative: -0.2,

		BBPositionHigh: 0.95,
		BBPositionLow:  0.05,

		BBWidthHigh: 0.2,
		BBWidthLow:  0.05,

		RSIOverbought: 70,
		RSIOversold:   30,

		OverboughtBBPosition: 0.9,
		OversoldBBPosition:   0.1,

		DrivingForceLeader:      0.7,
		DrivingForceContributor: 0.4,
		DrivingForceRisk:        0.6,
		DrivingForceBullish:     0.5,

		CorrelationStrong:   0.8,
		CorrelationModerate: 0.5,
		CorrelationBullish:  0.7,

		ConceptStrong:   0.7,
		ConceptModerate: 0.4,
		ConceptWeakRisk: 0.3,
		ConceptBullish:  0.6,

		PolicyHigh:     0.7,
		PolicyModerate: 0.3,
		PolicyBullish:  0.5,

		PELow:  15,
		PEHigh: 30,

		VolatilityHighPct: 3.0,
		VolatilityLowPct:  1.0,
	}
}

// Indicators configures the indicator calculator windows.
type Indicators struct {
	// BollingerWindow is the lookback for the Bollinger middle band and
	// standard deviation. Fixed at 20 bars by default.
	BollingerWindow  int     `yaml:"bollinger_window"`
	BollingerStdDev  float64 `yaml:"bollinger_stddev"`
	RSIPeriod        int     `yaml:"rsi_period"`
	VolatilityWindow int     `yaml:"volatility_window"`
}

// LLM configures the generative-text analyzer client.
type LLM struct {
	APIURL      string        `yaml:"api_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Config is the full application configuration.
type Config struct {
	// DefaultMode is substituted when a caller supplies no mode or an
	// unknown one. One of rule, ml, llm.
	DefaultMode string `yaml:"default_mode"`

	// ModelPath points at the statistical model bundle on disk.
	ModelPath string `yaml:"model_path"`

	// FixtureDir is where the simulate data source finds its per-symbol
	// fixture files.
	FixtureDir string `yaml:"fixture_dir"`

	Indicators Indicators `yaml:"indicators"`
	LLM        LLM        `yaml:"llm"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		DefaultMode: "rule",
		ModelPath:   "./models/stock_analysis_model.json",
		FixtureDir:  "./fixtures",
		Indicators: Indicators{
			BollingerWindow:  20,
			BollingerStdDev:  2,
			RSIPeriod:        14,
			VolatilityWindow: 20,
		},
		LLM: LLM{
			APIURL:      "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			MaxTokens:   1000,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		},
		Thresholds: DefaultThresholds(),
	}
}

// Validate rejects configurations the analyzer cannot run with.
func (c *Config) Validate() error {
	switch c.DefaultMode {
	case "rule", "ml", "llm":
	default:
		return errors.Errorf("invalid default_mode %q: must be rule, ml or llm", c.DefaultMode)
	}
	if c.Indicators.BollingerWindow < 2 {
		return errors.Errorf("indicators.bollinger_window must be at least 2, got %d", c.Indicators.BollingerWindow)
	}
	if c.Indicators.BollingerStdDev <= 0 {
		return errors.New("indicators.bollinger_stddev must be positive")
	}
	if c.Indicators.RSIPeriod < 1 {
		return errors.Errorf("indicators.rsi_period must be at least 1, got %d", c.Indicators.RSIPeriod)
	}
	if c.Indicators.VolatilityWindow < 2 {
		return errors.Errorf("indicators.volatility_window must be at least 2, got %d", c.Indicators.VolatilityWindow)
	}
	return nil
}

// Load reads a YAML config from path, fills in defaults for anything the
// file leaves out, and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	c := Default()
	if err := yaml.Unmarshal(f, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return c, nil
}

// Get resolves configuration from the --config flag, falling back to the
// built-in defaults when the flag is absent.
func Get() (*Config, error) {
	path := flag.String("config", "", "path to yaml config")
	flag.Parse()
	if *path != "" {
		return Load(*path)
	}
	return Default(), nil
}
