package backtest

import "fmt"

// Ledger is the cash/position book for a single backtest run. Each run owns
// a fresh instance; nothing is shared across runs and all mutation happens
// from the engine's sequential signal loop.
type Ledger struct {
	cash      float64
	positions map[string]*position
}

type position struct {
	shares    int64
	lastPrice float64 // most recent mark, used for equity valuation
}

// NewLedger creates a ledger with the given starting cash.
func NewLedger(initialCapital float64) *Ledger {
	return &Ledger{
		cash:      initialCapital,
		positions: make(map[string]*position),
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	return l.cash
}

// Shares returns the share count held for a ticker.
func (l *Ledger) Shares(ticker string) int64 {
	if pos, ok := l.positions[ticker]; ok {
		return pos.shares
	}
	return 0
}

// Equity is cash plus positions valued at their last mark.
func (l *Ledger) Equity() float64 {
	equity := l.cash
	for _, pos := range l.positions {
		equity += float64(pos.shares) * pos.lastPrice
	}
	return equity
}

// Mark updates the valuation price for a held ticker. Unheld tickers are
// ignored.
func (l *Ledger) Mark(ticker string, price float64) {
	if pos, ok := l.positions[ticker]; ok {
		pos.lastPrice = price
	}
}

// Tickers returns the tickers with open positions.
func (l *Ledger) Tickers() []string {
	tickers := make([]string, 0, len(l.positions))
	for t := range l.positions {
		tickers = append(tickers, t)
	}
	return tickers
}

// Buy debits cash for shares at price with slippage applied. Refuses any
// purchase that would leave cash negative.
func (l *Ledger) Buy(ticker string, shares int64, price, slippage float64) (float64, error) {
	cost := float64(shares) * price * (1 + slippage)
	if cost > l.cash {
		return 0, fmt.Errorf("insufficient cash: need %.2f, have %.2f", cost, l.cash)
	}

	l.cash -= cost
	pos, ok := l.positions[ticker]
	if !ok {
		pos = &position{}
		l.positions[ticker] = pos
	}
	pos.shares += shares
	pos.lastPrice = price

	return cost, nil
}

// Sell liquidates the entire held position at price with slippage applied
// and returns (shares sold, proceeds). A zero position sells nothing.
func (l *Ledger) Sell(ticker string, price, slippage float64) (int64, float64) {
	pos, ok := l.positions[ticker]
	if !ok || pos.shares == 0 {
		return 0, 0
	}

	shares := pos.shares
	proceeds := float64(shares) * price * (1 - slippage)

	l.cash += proceeds
	delete(l.positions, ticker)

	return shares, proceeds
}
