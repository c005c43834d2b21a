package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/metrics"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// Config holds one backtest run's parameters. Validated in full before the
// ledger is touched: a half-configured run would produce a misleading
// performance report.
type Config struct {
	BufferDays     int     // trading days between signal and execution, >= 0
	InitialCapital float64 // > 0
	PositionWeight float64 // fraction of equity per new position, (0, 1]
	Slippage       float64 // fractional price impact, >= 0

	StartDate time.Time // inclusive
	EndDate   time.Time // inclusive

	RiskFreeRate   float64 // per period, for Sharpe
	PeriodsPerYear int     // defaults to 252

	// Benchmark is an optional equity curve for alpha. Empty means alpha 0.
	Benchmark []contracts.EquityPoint

	// Progress, when set, receives each daily equity point as it is
	// computed. Called synchronously from the run loop.
	Progress func(contracts.EquityPoint)
}

// ValidationError is a fatal configuration problem, rejected at Run entry.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the run configuration.
func (c Config) Validate() error {
	if c.BufferDays < 0 {
		return ValidationError{"buffer_days", "must be >= 0"}
	}
	if c.InitialCapital <= 0 {
		return ValidationError{"initial_capital", "must be > 0"}
	}
	if c.PositionWeight <= 0 || c.PositionWeight > 1 {
		return ValidationError{"position_weight", "must be in (0, 1]"}
	}
	if c.Slippage < 0 {
		return ValidationError{"slippage", "must be >= 0"}
	}
	if c.EndDate.Before(c.StartDate) {
		return ValidationError{"end_date", "must not precede start_date"}
	}
	return nil
}

// Engine simulates trades from a historical signal stream, enforcing the
// execution-delay buffer that keeps the run free of look-ahead bias.
// Signals are processed strictly sequentially: each trade can change the
// cash and positions consulted by the next one.
type Engine struct {
	prices   contracts.PriceProvider
	calendar contracts.TradingCalendar
	logger   *logger.Logger
}

// NewEngine creates a backtest engine.
func NewEngine(prices contracts.PriceProvider, cal contracts.TradingCalendar, log *logger.Logger) *Engine {
	return &Engine{
		prices:   prices,
		calendar: cal,
		logger:   log,
	}
}

// plannedSignal is a signal with its buffered execution date resolved.
type plannedSignal struct {
	signal        *contracts.Signal
	executionDate time.Time
}

// Run executes a backtest over a time-ordered signal stream. Signals must
// arrive in non-decreasing timestamp order. Cancellation is honored between
// signals and yields a valid partial result built only from trades executed
// so far.
func (e *Engine) Run(ctx context.Context, signals []*contracts.Signal, cfg Config) (*contracts.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkChronological(signals); err != nil {
		return nil, err
	}
	if cfg.PeriodsPerYear <= 0 {
		cfg.PeriodsPerYear = metrics.PeriodsPerYear
	}

	e.logger.WithFields(map[string]interface{}{
		"signals":     len(signals),
		"buffer_days": cfg.BufferDays,
		"start":       cfg.StartDate.Format("2006-01-02"),
		"end":         cfg.EndDate.Format("2006-01-02"),
	}).Info("Starting backtest")

	plan := e.planSignals(signals, cfg)

	ledger := NewLedger(cfg.InitialCapital)
	result := &contracts.BacktestResult{
		InitialCapital: cfg.InitialCapital,
		StartDate:      cfg.StartDate,
		EndDate:        cfg.EndDate,
	}

	next := 0
	date := e.calendar.NextTradingDay(cfg.StartDate)

	for !date.After(cfg.EndDate) {
		// Checkpoint: safe to cancel between signal boundaries. The
		// partial result reflects only fully applied trades.
		select {
		case <-ctx.Done():
			result.Partial = true
			e.finalize(result, ledger, cfg)
			return result, nil
		default:
		}

		for next < len(plan) && !plan[next].executionDate.After(date) {
			if err := e.execute(ctx, plan[next], ledger, cfg, result); err != nil {
				return nil, err
			}
			next++
		}

		if err := e.markToMarket(ctx, ledger, date); err != nil {
			return nil, err
		}
		point := contracts.EquityPoint{
			Date:   date,
			Equity: ledger.Equity(),
		}
		result.EquityCurve = append(result.EquityCurve, point)
		if cfg.Progress != nil {
			cfg.Progress(point)
		}

		date = e.calendar.NextTradingDay(date.AddDate(0, 0, 1))
	}

	e.finalize(result, ledger, cfg)

	e.logger.WithFields(map[string]interface{}{
		"trades":       len(result.Trades),
		"unexecuted":   result.Unexecuted,
		"final_equity": result.FinalEquity,
		"sharpe":       result.SharpeRatio,
		"max_drawdown": result.MaxDrawdown,
	}).Info("Backtest completed")

	return result, nil
}

// planSignals resolves each signal's execution date. The buffer is measured
// in trading days; a zero buffer still executes strictly after the signal
// timestamp, never on it, so no run can act on same-day information.
func (e *Engine) planSignals(signals []*contracts.Signal, cfg Config) []plannedSignal {
	plan := make([]plannedSignal, 0, len(signals))
	for _, s := range signals {
		executionDate := e.calendar.AddTradingDays(s.Timestamp, cfg.BufferDays)
		if !executionDate.After(s.Timestamp) {
			executionDate = e.calendar.AddTradingDays(s.Timestamp, 1)
		}
		plan = append(plan, plannedSignal{signal: s, executionDate: executionDate})
	}

	// Trades apply in ascending execution date; equal dates keep the
	// original signal order.
	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].executionDate.Before(plan[j].executionDate)
	})

	return plan
}

// execute applies one planned signal to the ledger. Data gaps skip the
// signal and count it as unexecuted; provider failures propagate.
func (e *Engine) execute(ctx context.Context, p plannedSignal, ledger *Ledger, cfg Config, result *contracts.BacktestResult) error {
	signal := p.signal

	price, err := e.prices.PriceOn(ctx, signal.Ticker, p.executionDate)
	if err != nil {
		if errors.Is(err, contracts.ErrPriceUnavailable) {
			result.Unexecuted++
			e.logger.WithFields(map[string]interface{}{
				"ticker": signal.Ticker,
				"date":   p.executionDate.Format("2006-01-02"),
			}).Warn("Signal unexecuted: no price on execution date")
			return nil
		}
		return fmt.Errorf("price lookup %s on %s: %w", signal.Ticker, p.executionDate.Format("2006-01-02"), err)
	}

	switch signal.Decision {
	case contracts.DecisionBuy:
		positionSize := ledger.Equity() * cfg.PositionWeight
		if ledger.Cash() < positionSize {
			return nil
		}
		shares := int64(math.Floor(positionSize / price))
		if shares == 0 {
			// Position too small to take; not an error.
			return nil
		}
		if _, err := ledger.Buy(signal.Ticker, shares, price, cfg.Slippage); err != nil {
			// Slippage pushed the cost over available cash; skip rather
			// than overdraw.
			return nil
		}
		result.Trades = append(result.Trades, contracts.Trade{
			Ticker:        signal.Ticker,
			Side:          contracts.SideBuy,
			Shares:        shares,
			Price:         price,
			ExecutionDate: p.executionDate,
		})

	case contracts.DecisionSell:
		shares, _ := ledger.Sell(signal.Ticker, price, cfg.Slippage)
		if shares == 0 {
			return nil
		}
		result.Trades = append(result.Trades, contracts.Trade{
			Ticker:        signal.Ticker,
			Side:          contracts.SideSell,
			Shares:        shares,
			Price:         price,
			ExecutionDate: p.executionDate,
		})

	case contracts.DecisionHold:
		// No trade.
	}

	return nil
}

// markToMarket refreshes valuation prices for held positions. A missing
// price keeps the last mark; only real provider failures propagate.
func (e *Engine) markToMarket(ctx context.Context, ledger *Ledger, date time.Time) error {
	for _, ticker := range ledger.Tickers() {
		price, err := e.prices.PriceOn(ctx, ticker, date)
		if err != nil {
			if errors.Is(err, contracts.ErrPriceUnavailable) {
				continue
			}
			return fmt.Errorf("mark to market %s on %s: %w", ticker, date.Format("2006-01-02"), err)
		}
		ledger.Mark(ticker, price)
	}
	return nil
}

// finalize computes performance metrics and seals the result. The ledger is
// not referenced afterwards.
func (e *Engine) finalize(result *contracts.BacktestResult, ledger *Ledger, cfg Config) {
	result.FinalEquity = ledger.Equity()

	returns := metrics.Returns(result.EquityCurve)
	result.SharpeRatio = metrics.SharpeRatio(returns, cfg.RiskFreeRate, cfg.PeriodsPerYear)
	result.MaxDrawdown = metrics.MaxDrawdown(result.EquityCurve)
	result.WinRate = metrics.WinRate(result.Trades)
	if len(cfg.Benchmark) > 0 {
		result.Alpha = metrics.Alpha(result.EquityCurve, cfg.Benchmark, cfg.PeriodsPerYear)
	}
}

// checkChronological rejects signal streams that are not in non-decreasing
// timestamp order. Reordering silently would invalidate the no-look-ahead
// guarantee.
func checkChronological(signals []*contracts.Signal) error {
	for i := 1; i < len(signals); i++ {
		if signals[i].Timestamp.Before(signals[i-1].Timestamp) {
			return ValidationError{
				Field:   "signals",
				Message: fmt.Sprintf("not in chronological order at index %d", i),
			}
		}
	}
	return nil
}
