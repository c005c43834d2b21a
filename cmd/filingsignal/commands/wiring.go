package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harborquant/filingsignal/internal/classifier"
	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/embedding"
	"github.com/harborquant/filingsignal/internal/features"
	"github.com/harborquant/filingsignal/internal/lexicon"
	"github.com/harborquant/filingsignal/internal/pipeline"
	"github.com/harborquant/filingsignal/internal/scores"
	"github.com/harborquant/filingsignal/internal/strategy"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// loadStrategy resolves the --strategy flag. No flag means the built-in
// default configuration.
func loadStrategy() (*strategy.Config, error) {
	if strategyFile == "" {
		return strategy.Default(), nil
	}

	cfg, _, err := strategy.Load(strategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", strategyFile, err)
	}
	return cfg, nil
}

// newPipeline builds the analysis pipeline from a strategy configuration.
// Fundamental and technical scores come from the deterministic hash
// providers, so offline commands reproduce exactly across runs.
func newPipeline(scfg *strategy.Config, log *logger.Logger, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	cls, err := classifier.New(
		classifier.Weights{
			Sentiment:   scfg.Classifier.Weights.Sentiment,
			Fundamental: scfg.Classifier.Weights.Fundamental,
			Technical:   scfg.Classifier.Weights.Technical,
		},
		classifier.Thresholds{
			Buy:  scfg.Classifier.Thresholds.Buy,
			Sell: scfg.Classifier.Thresholds.Sell,
		},
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	extractor := features.NewExtractor(lexicon.Default(), embedding.NewHashProvider(0), scfg.Lexicon.ClampNeutral, log)

	return pipeline.New(
		extractor,
		cls,
		scores.NewHashProvider(scores.KindFundamental),
		scores.NewHashProvider(scores.KindTechnical),
		log,
		opts...,
	), nil
}

// documentFromFile builds a Document from a local text file plus the
// shared analyze/signal flags. An empty id falls back to the file name,
// an empty date to today.
func documentFromFile(path, id, ticker, filingType, filingDate string) (*contracts.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filing: %w", err)
	}

	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ft := contracts.FilingType(filingType)
	if !ft.Valid() {
		return nil, fmt.Errorf("invalid filing type %q (want 10-K, 10-Q, or 8-K)", filingType)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if filingDate != "" {
		date, err = time.Parse("2006-01-02", filingDate)
		if err != nil {
			return nil, fmt.Errorf("invalid filing date %q (want YYYY-MM-DD)", filingDate)
		}
	}

	return &contracts.Document{
		ID:         id,
		Ticker:     strings.ToUpper(ticker),
		FilingType: ft,
		FilingDate: date,
		RawText:    string(data),
	}, nil
}
