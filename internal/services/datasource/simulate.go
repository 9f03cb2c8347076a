package datasource

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/blackstar403/ai-stock-assistant/internal/domain"
)

// SimulateSource serves market data from on-disk fixtures: one CSV of
// daily candles per symbol plus an optional YAML sidecar with the quote,
// fundamentals, news and sector/concept features. It exists for local
// runs and tests; it never talks to the network.
type SimulateSource struct {
	dir string
}

// NewSimulateSource points a simulate source at a fixture directory.
func NewSimulateSource(dir string) *SimulateSource {
	return &SimulateSource{dir: dir}
}

type fixtureMeta struct {
	Quote struct {
		Name          string `yaml:"name"`
		Price         string `yaml:"price"`
		Change        string `yaml:"change"`
		ChangePercent string `yaml:"change_percent"`
	} `yaml:"quote"`
	Fundamentals map[string]string `yaml:"fundamentals"`
	News         struct {
		Feed []struct {
			Title string  `yaml:"title"`
			URL   string  `yaml:"url"`
			Time  string  `yaml:"time"`
			Score float64 `yaml:"score"`
		} `yaml:"feed"`
		PolicyResonance struct {
			Coefficient float64 `yaml:"coefficient"`
			Policies    []struct {
				Title     string  `yaml:"title"`
				Date      string  `yaml:"date"`
				Relevance float64 `yaml:"relevance"`
			} `yaml:"policies"`
		} `yaml:"policy_resonance"`
	} `yaml:"news"`
	Sector struct {
		Name          string  `yaml:"name"`
		Correlation   float64 `yaml:"correlation"`
		DrivingForce  float64 `yaml:"driving_force"`
		RankInSector  int     `yaml:"rank_in_sector"`
		TotalInSector int     `yaml:"total_in_sector"`
	} `yaml:"sector"`
	Concepts struct {
		OverallStrength float64          `yaml:"overall_strength"`
		Leading         []fixtureConcept `yaml:"leading"`
		Lagging         []fixtureConcept `yaml:"lagging"`
	} `yaml:"concepts"`
}

type fixtureConcept struct {
	Name     string  `yaml:"name"`
	Strength float64 `yaml:"strength"`
	Rank     int     `yaml:"rank"`
	Total    int     `yaml:"total"`
}

// GetHistoricalSeries loads {dir}/{symbol}.csv. A missing file means the
// source has no data for the symbol and reports (nil, nil).
func (s *SimulateSource) GetHistoricalSeries(ctx context.Context, symbol string) (*domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, symbol+".csv")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open candle fixture for %s", symbol)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read candle fixture for %s", symbol)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	// first row is the header: date,open,high,low,close,volume
	candles := make([]domain.Candle, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 6 {
			return nil, errors.Errorf("candle fixture %s row %d: want 6 columns, got %d", symbol, i+2, len(row))
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d date", symbol, i+2)
		}
		open, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d open", symbol, i+2)
		}
		high, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d high", symbol, i+2)
		}
		low, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d low", symbol, i+2)
		}
		closePrice, err := decimal.NewFromString(row[4])
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d close", symbol, i+2)
		}
		volume, err := strconv.ParseInt(row[5], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "candle fixture %s row %d volume", symbol, i+2)
		}
		candles = append(candles, domain.Candle{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	series, err := domain.NewSeries(candles)
	if err != nil {
		return nil, errors.Wrapf(err, "candle fixture %s", symbol)
	}
	return series, nil
}

// GetQuote derives the quote from the YAML sidecar, falling back to the
// last two closes when the sidecar has no quote section.
func (s *SimulateSource) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := s.loadMeta(symbol)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.Quote.Price != "" {
		price, err := decimal.NewFromString(meta.Quote.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "quote fixture %s price", symbol)
		}
		change, _ := decimal.NewFromString(meta.Quote.Change)
		changePct, _ := decimal.NewFromString(meta.Quote.ChangePercent)
		return &domain.Quote{
			Symbol:        symbol,
			Name:          meta.Quote.Name,
			Price:         price,
			Change:        change,
			ChangePercent: changePct,
		}, nil
	}

	series, err := s.GetHistoricalSeries(ctx, symbol)
	if err != nil || series == nil {
		return nil, err
	}
	last := series.Last()
	quote := &domain.Quote{Symbol: symbol, Price: last.Close}
	if prev, ok := series.Prev(); ok && !prev.Close.IsZero() {
		quote.Change = last.Close.Sub(prev.Close)
		quote.ChangePercent = quote.Change.Div(prev.Close).Mul(decimal.NewFromInt(100))
	}
	return quote, nil
}

func (s *SimulateSource) GetFundamentals(ctx context.Context, symbol string) (domain.Fundamentals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := s.loadMeta(symbol)
	if err != nil || meta == nil {
		return nil, err
	}
	return domain.Fundamentals(meta.Fundamentals), nil
}

func (s *SimulateSource) GetNewsSentiment(ctx context.Context, symbol string) (domain.NewsSentiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.NewsSentiment{}, err
	}
	meta, err := s.loadMeta(symbol)
	if err != nil || meta == nil {
		return domain.NewsSentiment{}, err
	}

	var news domain.NewsSentiment
	for _, item := range meta.News.Feed {
		ts, _ := time.Parse(time.RFC3339, item.Time)
		news.Feed = append(news.Feed, domain.Article{
			Title:          item.Title,
			URL:            item.URL,
			Time:           ts,
			SentimentScore: item.Score,
		})
	}
	news.PolicyResonance.Coefficient = meta.News.PolicyResonance.Coefficient
	for _, p := range meta.News.PolicyResonance.Policies {
		news.PolicyResonance.Policies = append(news.PolicyResonance.Policies, domain.Policy{
			Title:     p.Title,
			Date:      p.Date,
			Relevance: p.Relevance,
		})
	}
	return news, nil
}

func (s *SimulateSource) GetSectorLinkage(ctx context.Context, symbol string) (domain.SectorLinkage, error) {
	if err := ctx.Err(); err != nil {
		return domain.SectorLinkage{}, err
	}
	meta, err := s.loadMeta(symbol)
	if err != nil || meta == nil {
		return domain.SectorLinkage{}, err
	}
	return domain.SectorLinkage{
		SectorName:    meta.Sector.Name,
		Correlation:   meta.Sector.Correlation,
		DrivingForce:  meta.Sector.DrivingForce,
		RankInSector:  meta.Sector.RankInSector,
		TotalInSector: meta.Sector.TotalInSector,
	}, nil
}

func (s *SimulateSource) GetConceptDistribution(ctx context.Context, symbol string) (domain.ConceptDistribution, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConceptDistribution{}, err
	}
	meta, err := s.loadMeta(symbol)
	if err != nil || meta == nil {
		return domain.ConceptDistribution{}, err
	}
	dist := domain.ConceptDistribution{OverallStrength: meta.Concepts.OverallStrength}
	for _, c := range meta.Concepts.Leading {
		dist.Leading = append(dist.Leading, domain.Concept{Name: c.Name, Strength: c.Strength, Rank: c.Rank, Total: c.Total})
	}
	for _, c := range meta.Concepts.Lagging {
		dist.Lagging = append(dist.Lagging, domain.Concept{Name: c.Name, Strength: c.Strength, Rank: c.Rank, Total: c.Total})
	}
	return dist, nil
}

// GetPriceHistory trims the daily series to the requested range. Unknown
// ranges return the full history.
func (s *SimulateSource) GetPriceHistory(ctx context.Context, symbol, interval, rng string) (*domain.Series, error) {
	series, err := s.GetHistoricalSeries(ctx, symbol)
	if err != nil || series == nil {
		return nil, err
	}
	return series.Tail(barsForRange(rng)), nil
}

func barsForRange(rng string) int {
	switch rng {
	case "1m":
		return 22
	case "3m":
		return 66
	case "6m":
		return 132
	case "1y":
		return 264
	default:
		return 0 // full history
	}
}

func (s *SimulateSource) loadMeta(symbol string) (*fixtureMeta, error) {
	path := filepath.Join(s.dir, symbol+".yaml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read meta fixture for %s", symbol)
	}
	var meta fixtureMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse meta fixture for %s", symbol)
	}
	return &meta, nil
}
