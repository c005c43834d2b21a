package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborquant/filingsignal/internal/calendar"
	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// Monday 2024-06-03.
var day0 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

// flatProvider serves a constant price per ticker, with optional per-date
// gaps and an optional hard failure.
type flatProvider struct {
	prices  map[string]float64
	missing map[string]bool // "TICKER|2006-01-02"
	fail    error
}

func (p *flatProvider) PriceOn(_ context.Context, ticker string, date time.Time) (float64, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	if p.missing[ticker+"|"+date.Format("2006-01-02")] {
		return 0, contracts.ErrPriceUnavailable
	}
	price, ok := p.prices[ticker]
	if !ok {
		return 0, contracts.ErrPriceUnavailable
	}
	return price, nil
}

func newTestEngine(p contracts.PriceProvider) *Engine {
	return NewEngine(p, calendar.New(), logger.NewNop())
}

func buySignal(ticker string, at time.Time) *contracts.Signal {
	return &contracts.Signal{Ticker: ticker, Timestamp: at, Decision: contracts.DecisionBuy, Confidence: 80}
}

func sellSignal(ticker string, at time.Time) *contracts.Signal {
	return &contracts.Signal{Ticker: ticker, Timestamp: at, Decision: contracts.DecisionSell, Confidence: 80}
}

func baseConfig() Config {
	return Config{
		BufferDays:     5,
		InitialCapital: 100000,
		PositionWeight: 0.1,
		Slippage:       0,
		StartDate:      day0,
		EndDate:        day0.AddDate(0, 0, 25),
	}
}

func TestRun_RoundTripFlatPrice(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	signals := []*contracts.Signal{
		buySignal("X", day0),
		sellSignal("X", day0.AddDate(0, 0, 10)), // Thursday 2024-06-13
	}

	result, err := engine.Run(context.Background(), signals, baseConfig())
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)

	buy, sell := result.Trades[0], result.Trades[1]

	// Buffer of 5 trading days from Monday lands on the next Monday.
	assert.Equal(t, contracts.SideBuy, buy.Side)
	assert.Equal(t, int64(1000), buy.Shares) // floor(10000 / 10)
	assert.Equal(t, day0.AddDate(0, 0, 7), buy.ExecutionDate)

	// SELL liquidates the entire position.
	assert.Equal(t, contracts.SideSell, sell.Side)
	assert.Equal(t, int64(1000), sell.Shares)
	assert.True(t, sell.ExecutionDate.After(buy.ExecutionDate))

	// Flat price, zero slippage: cash comes all the way back.
	assert.InDelta(t, 100000, result.FinalEquity, 1e-9)

	// The flat round trip closed but is not a win.
	assert.Equal(t, 0.0, result.WinRate)
	assert.Equal(t, 0, result.Unexecuted)
}

func TestRun_ExecutionPastEndDateSkipsSignal(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	cfg := baseConfig()
	cfg.EndDate = day0.AddDate(0, 0, 4) // Friday of the signal week

	// Buffer pushes execution beyond the run end; expected boundary, no
	// trade, no error.
	result, err := engine.Run(context.Background(), []*contracts.Signal{buySignal("X", day0)}, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRun_MissingPriceCountsUnexecuted(t *testing.T) {
	execDate := day0.AddDate(0, 0, 7)
	engine := newTestEngine(&flatProvider{
		prices:  map[string]float64{"X": 10},
		missing: map[string]bool{"X|" + execDate.Format("2006-01-02"): true},
	})

	result, err := engine.Run(context.Background(), []*contracts.Signal{buySignal("X", day0)}, baseConfig())
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, 1, result.Unexecuted)
}

func TestRun_ProviderFailurePropagates(t *testing.T) {
	engine := newTestEngine(&flatProvider{fail: errors.New("price service unreachable")})

	_, err := engine.Run(context.Background(), []*contracts.Signal{buySignal("X", day0)}, baseConfig())
	require.Error(t, err)
	assert.NotErrorIs(t, err, contracts.ErrPriceUnavailable)
}

func TestRun_NoLookAhead(t *testing.T) {
	for bufferDays := 0; bufferDays <= 3; bufferDays++ {
		engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

		cfg := baseConfig()
		cfg.BufferDays = bufferDays

		signals := []*contracts.Signal{
			buySignal("X", day0),
			buySignal("X", day0.AddDate(0, 0, 3)),
		}

		result, err := engine.Run(context.Background(), signals, cfg)
		require.NoError(t, err)
		require.NotEmpty(t, result.Trades)

		// Execution is strictly after the signal timestamp even with a
		// zero buffer.
		for i, trade := range result.Trades {
			assert.True(t, trade.ExecutionDate.After(signals[i].Timestamp),
				"bufferDays=%d trade %d executed at or before its signal", bufferDays, i)
		}
	}
}

func TestRun_CashNeverNegative(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"A": 50, "B": 80, "C": 120}})

	cfg := baseConfig()
	cfg.PositionWeight = 0.5
	cfg.Slippage = 0.01

	signals := []*contracts.Signal{
		buySignal("A", day0),
		buySignal("B", day0),
		buySignal("C", day0.AddDate(0, 0, 1)),
		sellSignal("A", day0.AddDate(0, 0, 8)),
		buySignal("C", day0.AddDate(0, 0, 9)),
	}

	result, err := engine.Run(context.Background(), signals, cfg)
	require.NoError(t, err)

	// Replay the trade log: running cash must never dip below zero.
	cash := cfg.InitialCapital
	for _, trade := range result.Trades {
		if trade.Side == contracts.SideBuy {
			cash -= float64(trade.Shares) * trade.Price * (1 + cfg.Slippage)
		} else {
			cash += float64(trade.Shares) * trade.Price * (1 - cfg.Slippage)
		}
		assert.GreaterOrEqual(t, cash, 0.0)
	}
}

func TestRun_StableOrderOnSharedExecutionDate(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"A": 10, "B": 10}})

	// Same timestamp, same execution date: original signal order holds.
	signals := []*contracts.Signal{
		buySignal("A", day0),
		buySignal("B", day0),
	}

	result, err := engine.Run(context.Background(), signals, baseConfig())
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)
	assert.Equal(t, "A", result.Trades[0].Ticker)
	assert.Equal(t, "B", result.Trades[1].Ticker)
}

func TestRun_RejectsBadConfig(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})
	signals := []*contracts.Signal{buySignal("X", day0)}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative buffer", func(c *Config) { c.BufferDays = -1 }},
		{"zero capital", func(c *Config) { c.InitialCapital = 0 }},
		{"weight above one", func(c *Config) { c.PositionWeight = 1.5 }},
		{"negative slippage", func(c *Config) { c.Slippage = -0.01 }},
		{"inverted dates", func(c *Config) { c.EndDate = c.StartDate.AddDate(0, 0, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)

			_, err := engine.Run(context.Background(), signals, cfg)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestRun_RejectsNonChronologicalSignals(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	signals := []*contracts.Signal{
		buySignal("X", day0.AddDate(0, 0, 5)),
		buySignal("X", day0),
	}

	_, err := engine.Run(context.Background(), signals, baseConfig())
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRun_CancellationYieldsPartialResult(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx, []*contracts.Signal{buySignal("X", day0)}, baseConfig())
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalEquity)
}

func TestRun_SkipsBuyTooSmallToTake(t *testing.T) {
	// Position sizing below one share: floor(equity*weight/price) == 0.
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 50000}})

	result, err := engine.Run(context.Background(), []*contracts.Signal{buySignal("X", day0)}, baseConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 0, result.Unexecuted)
}

func TestRun_SellWithoutPositionIsNoop(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	result, err := engine.Run(context.Background(), []*contracts.Signal{sellSignal("X", day0)}, baseConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestBacktestResult_JSONRoundTrip(t *testing.T) {
	engine := newTestEngine(&flatProvider{prices: map[string]float64{"X": 10}})

	signals := []*contracts.Signal{
		buySignal("X", day0),
		sellSignal("X", day0.AddDate(0, 0, 10)),
	}

	original, err := engine.Run(context.Background(), signals, baseConfig())
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded contracts.BacktestResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Trades and equity curve survive serialization bit-for-bit.
	assert.Equal(t, original.Trades, decoded.Trades)
	require.Len(t, decoded.EquityCurve, len(original.EquityCurve))
	for i := range original.EquityCurve {
		assert.True(t, original.EquityCurve[i].Date.Equal(decoded.EquityCurve[i].Date))
		assert.Equal(t, original.EquityCurve[i].Equity, decoded.EquityCurve[i].Equity)
	}
}
