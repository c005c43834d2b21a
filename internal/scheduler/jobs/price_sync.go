package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// PriceFetcher supplies daily closes from an external market data source.
type PriceFetcher interface {
	FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]*contracts.DailyPrice, error)
}

// PriceSyncJob copies recent daily closes into the local price store so
// backtests never hit the market data vendor directly.
type PriceSyncJob struct {
	fetcher PriceFetcher
	prices  contracts.PriceRepository
	tickers []string
	logger  *logger.Logger
}

// NewPriceSyncJob creates a price sync job.
func NewPriceSyncJob(fetcher PriceFetcher, prices contracts.PriceRepository, tickers []string, log *logger.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		fetcher: fetcher,
		prices:  prices,
		tickers: tickers,
		logger:  log,
	}
}

// Name returns the job name.
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Schedule runs weekdays at 5 PM ET, after market close.
func (j *PriceSyncJob) Schedule() string {
	return "0 0 17 * * 1-5"
}

// Run syncs the last 5 calendar days of closes for every tracked ticker.
// The window overlaps previous runs; upserts make the overlap harmless.
func (j *PriceSyncJob) Run(ctx context.Context) error {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -5)

	synced := 0
	for _, ticker := range j.tickers {
		if err := ctx.Err(); err != nil {
			return err
		}

		prices, err := j.fetcher.FetchDaily(ctx, ticker, from, to)
		if err != nil {
			return fmt.Errorf("fetch daily prices for %s: %w", ticker, err)
		}

		if err := j.prices.SaveBatch(ctx, prices); err != nil {
			return fmt.Errorf("save prices for %s: %w", ticker, err)
		}
		synced += len(prices)
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.tickers),
		"rows":    synced,
	}).Info("Scheduled price sync completed")

	return nil
}
