package contracts

import "time"

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is one executed order inside a backtest run. Immutable; appended to
// the trade log in execution order.
type Trade struct {
	Ticker        string    `json:"ticker"`
	Side          Side      `json:"side"`
	Shares        int64     `json:"shares"`
	Price         float64   `json:"price"`
	ExecutionDate time.Time `json:"execution_date"`
}

// EquityPoint is one mark-to-market sample of total portfolio value.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// BacktestResult is the immutable summary of one backtest run.
type BacktestResult struct {
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"` // always <= 0
	WinRate     float64 `json:"win_rate"`     // 0-1 over closed round trips
	Alpha       float64 `json:"alpha"`

	Trades     []Trade `json:"trades"`
	Unexecuted int     `json:"unexecuted"` // signals skipped on price gaps

	InitialCapital float64       `json:"initial_capital"`
	FinalEquity    float64       `json:"final_equity"`
	EquityCurve    []EquityPoint `json:"equity_curve"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Partial   bool      `json:"partial"` // run was cancelled between signals
}

// TradeCount returns the number of executed trades.
func (r *BacktestResult) TradeCount() int {
	return len(r.Trades)
}
