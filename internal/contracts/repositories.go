package contracts

import (
	"context"
	"time"
)

// FilingRepository manages ingested filings and their feature records.
type FilingRepository interface {
	GetByID(ctx context.Context, id string) (*Document, error)
	GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]*Document, error)
	Save(ctx context.Context, doc *Document) error
	SaveFeatures(ctx context.Context, rec *FeatureRecord) error
}

// PriceRepository manages daily price data. GetByTickerAndDate returns
// ErrPriceUnavailable when no row exists for the exact date, which lets the
// repository double as a PriceProvider for backtests.
type PriceRepository interface {
	GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (float64, error)
	GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]*DailyPrice, error)
	SaveBatch(ctx context.Context, prices []*DailyPrice) error
}

// DailyPrice is one daily close for a ticker.
type DailyPrice struct {
	Ticker string
	Date   time.Time
	Close  float64
	Volume int64
}
