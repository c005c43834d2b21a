package ingest

import (
	"context"
	"fmt"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// Ingestor pulls filings from EDGAR and persists them.
type Ingestor struct {
	client  *EDGARClient
	filings contracts.FilingRepository
	logger  *logger.Logger
}

// NewIngestor creates an ingestor.
func NewIngestor(client *EDGARClient, filings contracts.FilingRepository, log *logger.Logger) *Ingestor {
	return &Ingestor{
		client:  client,
		filings: filings,
		logger:  log,
	}
}

// IngestTicker fetches the most recent filings of a type for a ticker and
// saves them. Returns the number of filings stored. A single failed fetch
// aborts the run so partial batches are visible.
func (ing *Ingestor) IngestTicker(ctx context.Context, ticker string, filingType contracts.FilingType, count int) (int, error) {
	refs, err := ing.client.RecentFilings(ctx, ticker, filingType, count)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		doc, err := ing.client.Fetch(ctx, ref.DocumentURL)
		if err != nil {
			return stored, fmt.Errorf("fetch %s: %w", ref.AccessionID, err)
		}

		doc.Ticker = ticker
		if doc.FilingType == "" {
			doc.FilingType = ref.FilingType
		}
		if doc.FilingDate.IsZero() {
			doc.FilingDate = ref.FilingDate
		}

		if err := ing.filings.Save(ctx, doc); err != nil {
			return stored, fmt.Errorf("save %s: %w", doc.ID, err)
		}
		stored++
	}

	ing.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"type":   filingType,
		"stored": stored,
	}).Info("Ingestion completed")

	return stored, nil
}

// IngestURL fetches a single filing by URL and saves it under the given
// ticker.
func (ing *Ingestor) IngestURL(ctx context.Context, ticker, docURL string) (*contracts.Document, error) {
	doc, err := ing.client.Fetch(ctx, docURL)
	if err != nil {
		return nil, err
	}

	doc.Ticker = ticker
	if err := ing.filings.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save %s: %w", doc.ID, err)
	}

	return doc, nil
}
