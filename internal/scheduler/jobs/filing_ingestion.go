// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/ingest"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// FilingIngestionJob pulls recent filings for a watchlist of tickers every
// weekday evening, after EDGAR has settled the day's submissions.
type FilingIngestionJob struct {
	ingestor *ingest.Ingestor
	tickers  []string
	logger   *logger.Logger
}

// NewFilingIngestionJob creates a filing ingestion job.
func NewFilingIngestionJob(ingestor *ingest.Ingestor, tickers []string, log *logger.Logger) *FilingIngestionJob {
	return &FilingIngestionJob{
		ingestor: ingestor,
		tickers:  tickers,
		logger:   log,
	}
}

// Name returns the job name.
func (j *FilingIngestionJob) Name() string {
	return "filing_ingestion"
}

// Schedule runs weekdays at 6 PM ET.
func (j *FilingIngestionJob) Schedule() string {
	return "0 0 18 * * 1-5"
}

// Run ingests the latest filings of every tracked type for every ticker.
// Per-ticker failures are logged and skipped so one bad ticker does not
// starve the rest of the watchlist.
func (j *FilingIngestionJob) Run(ctx context.Context) error {
	types := []contracts.FilingType{
		contracts.FilingAnnual,
		contracts.FilingQuarterly,
		contracts.FilingCurrent,
	}

	var failures int
	total := 0
	for _, ticker := range j.tickers {
		for _, ft := range types {
			if err := ctx.Err(); err != nil {
				return err
			}

			stored, err := j.ingestor.IngestTicker(ctx, ticker, ft, 5)
			if err != nil {
				failures++
				j.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
					"type":   ft,
					"error":  err.Error(),
				}).Warn("Ticker ingestion failed")
				continue
			}
			total += stored
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers":  len(j.tickers),
		"stored":   total,
		"failures": failures,
	}).Info("Scheduled filing ingestion completed")

	if failures == len(j.tickers)*len(types) && failures > 0 {
		return fmt.Errorf("all %d ingestion attempts failed", failures)
	}
	return nil
}
