package features

import (
	"context"
	"fmt"
	"sync"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/lexicon"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// Extractor turns raw filing text into a normalized FeatureRecord.
// Stateless apart from its collaborators; safe for concurrent use.
type Extractor struct {
	lexicon   *lexicon.Lexicon
	embedding contracts.EmbeddingProvider
	logger    *logger.Logger

	// clampNeutral selects the neutral-score policy, see lexicon.Score.
	clampNeutral bool
}

// NewExtractor creates a feature extractor.
func NewExtractor(lex *lexicon.Lexicon, embedding contracts.EmbeddingProvider, clampNeutral bool, log *logger.Logger) *Extractor {
	return &Extractor{
		lexicon:      lex,
		embedding:    embedding,
		logger:       log,
		clampNeutral: clampNeutral,
	}
}

// Extract produces the FeatureRecord for one document. Empty raw text is a
// valid condition (filing not yet indexed) and yields a zeroed record, not
// an error. Embedding provider failures propagate: substituting a default
// vector would silently corrupt downstream composites.
func (e *Extractor) Extract(ctx context.Context, doc *contracts.Document) (*contracts.FeatureRecord, error) {
	tokens := Tokenize(doc.RawText)

	counts := e.lexicon.Count(tokens)
	scores := lexicon.Score(counts, e.clampNeutral)

	vector, err := e.embedding.Embed(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("embed document %s: %w", doc.ID, err)
	}

	rec := &contracts.FeatureRecord{
		DocumentID: doc.ID,
		Sentiment: contracts.Sentiment{
			Positive:    scores.Positive,
			Negative:    scores.Negative,
			Neutral:     scores.Neutral,
			Uncertainty: scores.Uncertainty,
		},
		Confidence: scores.Confidence,
		Embedding:  vector,
		Entities:   ExtractEntities(doc.RawText),
		KeyPhrases: ExtractKeyPhrases(tokens),
	}

	e.logger.WithFields(map[string]interface{}{
		"document_id": doc.ID,
		"tokens":      len(tokens),
		"entities":    len(rec.Entities),
		"key_phrases": len(rec.KeyPhrases),
	}).Debug("Extracted document features")

	return rec, nil
}

// ExtractAll fans extraction out across a worker pool. Documents are
// independent, so there is no shared mutable state; results keep input
// order. The first error cancels the remaining work.
func (e *Extractor) ExtractAll(ctx context.Context, docs []*contracts.Document, workers int) ([]*contracts.FeatureRecord, error) {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make([]*contracts.FeatureRecord, len(docs))
	jobs := make(chan int)
	errs := make(chan error, len(docs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				rec, err := e.Extract(ctx, docs[i])
				if err != nil {
					errs <- err
					cancel()
					return
				}
				records[i] = rec
			}
		}()
	}

	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
