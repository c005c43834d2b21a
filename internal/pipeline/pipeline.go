// Package pipeline coordinates the filing-to-signal flow: feature
// extraction, external scoring, and classification.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/harborquant/filingsignal/internal/classifier"
	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/features"
	"github.com/harborquant/filingsignal/pkg/logger"
	"github.com/harborquant/filingsignal/pkg/redis"
)

// Pipeline runs documents through extraction, scoring, and classification.
type Pipeline struct {
	extractor   *features.Extractor
	classifier  *classifier.Classifier
	fundamental contracts.ScoreProvider
	technical   contracts.ScoreProvider

	// Optional collaborators; nil disables them.
	filings *storeAdapter
	cache   *redis.Cache

	logger *logger.Logger
}

// storeAdapter narrows the repository surface the pipeline needs.
type storeAdapter struct {
	repo contracts.FilingRepository
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithRepository persists documents and feature records as they flow
// through the pipeline.
func WithRepository(repo contracts.FilingRepository) Option {
	return func(p *Pipeline) {
		p.filings = &storeAdapter{repo: repo}
	}
}

// WithCache caches feature records keyed by document ID.
func WithCache(cache *redis.Cache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// New creates a pipeline.
func New(
	extractor *features.Extractor,
	cls *classifier.Classifier,
	fundamental contracts.ScoreProvider,
	technical contracts.ScoreProvider,
	log *logger.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		classifier:  cls,
		fundamental: fundamental,
		technical:   technical,
		logger:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze extracts the feature record for a document, consulting the cache
// first when one is configured.
func (p *Pipeline) Analyze(ctx context.Context, doc *contracts.Document) (*contracts.FeatureRecord, error) {
	if p.cache != nil {
		var cached contracts.FeatureRecord
		found, err := p.cache.Get(ctx, redis.FeatureKey(doc.ID), &cached)
		if err != nil {
			return nil, err
		}
		if found {
			p.logger.WithField("document_id", doc.ID).Debug("Feature record served from cache")
			return &cached, nil
		}
	}

	rec, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, redis.FeatureKey(doc.ID), rec, redis.TTLLong); err != nil {
			p.logger.WithError(err).Warn("Feature cache write failed")
		}
	}
	if p.filings != nil {
		if err := p.filings.repo.SaveFeatures(ctx, rec); err != nil {
			return nil, fmt.Errorf("save features for %s: %w", doc.ID, err)
		}
	}

	return rec, nil
}

// GenerateSignal produces the trading signal for a document, evaluated at
// the filing date.
func (p *Pipeline) GenerateSignal(ctx context.Context, doc *contracts.Document) (*contracts.Signal, error) {
	rec, err := p.Analyze(ctx, doc)
	if err != nil {
		return nil, err
	}

	return p.classify(ctx, doc.Ticker, doc.FilingDate, rec)
}

// GenerateSignals produces signals for a batch of documents in filing-date
// order. Extraction runs on a worker pool; classification is sequential and
// cheap. Stops at the first error.
func (p *Pipeline) GenerateSignals(ctx context.Context, docs []*contracts.Document, workers int) ([]*contracts.Signal, error) {
	recs, err := p.extractor.ExtractAll(ctx, docs, workers)
	if err != nil {
		return nil, err
	}

	signals := make([]*contracts.Signal, 0, len(docs))
	for i, doc := range docs {
		if p.filings != nil {
			if err := p.filings.repo.SaveFeatures(ctx, recs[i]); err != nil {
				return nil, fmt.Errorf("save features for %s: %w", doc.ID, err)
			}
		}

		sig, err := p.classify(ctx, doc.Ticker, doc.FilingDate, recs[i])
		if err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}

	p.logger.WithFields(map[string]interface{}{
		"documents": len(docs),
		"signals":   len(signals),
	}).Info("Signal batch generated")

	return signals, nil
}

// classify fetches external scores and fuses them with the feature record.
func (p *Pipeline) classify(ctx context.Context, ticker string, at time.Time, rec *contracts.FeatureRecord) (*contracts.Signal, error) {
	fund, err := p.fundamental.Score(ctx, ticker, at)
	if err != nil {
		return nil, fmt.Errorf("fundamental score for %s: %w", ticker, err)
	}
	tech, err := p.technical.Score(ctx, ticker, at)
	if err != nil {
		return nil, fmt.Errorf("technical score for %s: %w", ticker, err)
	}

	return p.classifier.Classify(ticker, at, rec, fund, tech), nil
}
