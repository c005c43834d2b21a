package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborquant/filingsignal/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository on PostgreSQL. It
// also satisfies contracts.PriceProvider: a missing row maps to
// ErrPriceUnavailable so backtests can tell data gaps from failures.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetByTickerAndDate retrieves the close for a ticker on an exact date.
func (r *PriceRepository) GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (float64, error) {
	query := `
		SELECT close_price
		FROM market.daily_prices
		WHERE ticker = $1 AND trade_date = $2
	`

	var close float64
	err := r.pool.QueryRow(ctx, query, ticker, date).Scan(&close)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, contracts.ErrPriceUnavailable
	}
	if err != nil {
		return 0, err
	}
	return close, nil
}

// PriceOn satisfies contracts.PriceProvider.
func (r *PriceRepository) PriceOn(ctx context.Context, ticker string, date time.Time) (float64, error) {
	return r.GetByTickerAndDate(ctx, ticker, date)
}

// GetByTickerAndDateRange retrieves closes for a ticker within a date range,
// oldest first.
func (r *PriceRepository) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]*contracts.DailyPrice, error) {
	query := `
		SELECT ticker, trade_date, close_price, volume
		FROM market.daily_prices
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []*contracts.DailyPrice
	for rows.Next() {
		var p contracts.DailyPrice
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Close, &p.Volume); err != nil {
			return nil, err
		}
		prices = append(prices, &p)
	}
	return prices, rows.Err()
}

// SaveBatch upserts multiple daily prices in a single round trip.
func (r *PriceRepository) SaveBatch(ctx context.Context, prices []*contracts.DailyPrice) error {
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO market.daily_prices (ticker, trade_date, close_price, volume)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`
	for _, p := range prices {
		batch.Queue(query, p.Ticker, p.Date, p.Close, p.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range prices {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
