package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrPriceUnavailable signals a data gap: no price exists for the requested
// (ticker, date). Distinguishes an expected gap from a provider failure,
// which is returned as any other error and propagated.
var ErrPriceUnavailable = errors.New("price unavailable for date")

// EmbeddingProvider turns a token sequence into a fixed-length numeric
// vector. Implementations must be deterministic for identical input and
// return L2-normalized vectors of a fixed length per instance.
type EmbeddingProvider interface {
	Embed(ctx context.Context, tokens []string) ([]float64, error)
	Dimensions() int
}

// PriceProvider looks up the price of a ticker on an exact date.
// A missing price returns ErrPriceUnavailable, never a stale or
// interpolated value.
type PriceProvider interface {
	PriceOn(ctx context.Context, ticker string, date time.Time) (float64, error)
}

// ScoreProvider supplies an externally computed fundamental or technical
// score in [0, 1]. Must be a deterministic function of (ticker, asOfDate).
type ScoreProvider interface {
	Score(ctx context.Context, ticker string, asOf time.Time) (float64, error)
}

// TradingCalendar performs trading-day arithmetic.
type TradingCalendar interface {
	AddTradingDays(date time.Time, n int) time.Time
	IsTradingDay(date time.Time) bool
	NextTradingDay(date time.Time) time.Time
}

// DocumentSource fetches filings from an external system (network and OCR
// details live behind this interface).
type DocumentSource interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}
