// Package metrics holds pure functions over equity curves and trade logs.
// Nothing here touches I/O or mutates its inputs.
package metrics

import (
	"math"

	"github.com/harborquant/filingsignal/internal/contracts"
)

// PeriodsPerYear is the trading-day annualization factor.
const PeriodsPerYear = 252

// Returns computes simple period returns from an equity curve.
func Returns(curve []contracts.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	return returns
}

// SharpeRatio is the annualized excess mean return over return volatility.
// riskFreeRate is per period. Reports 0 when volatility is zero: an
// all-flat curve has no meaningful risk-adjusted return.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) == 0 {
		return 0
	}

	mean := mean(returns)
	vol := stdDev(returns, mean)
	if vol == 0 {
		return 0
	}

	return (mean - riskFreeRate) / vol * math.Sqrt(float64(periodsPerYear))
}

// MaxDrawdown is the worst peak-to-trough decline over the curve.
// Always <= 0; an empty or monotonic curve reports 0.
func MaxDrawdown(curve []contracts.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	maxDD := 0.0
	peak := curve[0].Equity

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak == 0 {
			continue
		}
		dd := (point.Equity - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

// RoundTrip is a matched BUY followed by a later SELL of the same ticker.
type RoundTrip struct {
	Ticker string
	PnL    float64
}

// RoundTrips pairs each SELL with the accumulated cost of the shares it
// liquidates, walking the trade log in execution order. Open positions at
// the end of the log produce no round trip.
func RoundTrips(trades []contracts.Trade) []RoundTrip {
	type lot struct {
		shares int64
		cost   float64
	}
	open := make(map[string]*lot)

	var closed []RoundTrip
	for _, t := range trades {
		switch t.Side {
		case contracts.SideBuy:
			l, ok := open[t.Ticker]
			if !ok {
				l = &lot{}
				open[t.Ticker] = l
			}
			l.shares += t.Shares
			l.cost += float64(t.Shares) * t.Price
		case contracts.SideSell:
			l, ok := open[t.Ticker]
			if !ok || l.shares == 0 {
				continue
			}
			proceeds := float64(t.Shares) * t.Price
			costBasis := l.cost * float64(t.Shares) / float64(l.shares)
			closed = append(closed, RoundTrip{
				Ticker: t.Ticker,
				PnL:    proceeds - costBasis,
			})
			l.shares -= t.Shares
			l.cost -= costBasis
			if l.shares <= 0 {
				delete(open, t.Ticker)
			}
		}
	}
	return closed
}

// WinRate is the fraction of closed round trips with strictly positive
// realized P&L. Zero-P&L round trips count in the denominator but are not
// wins. No closed round trips reports 0.
func WinRate(trades []contracts.Trade) float64 {
	roundTrips := RoundTrips(trades)
	if len(roundTrips) == 0 {
		return 0
	}

	wins := 0
	for _, rt := range roundTrips {
		if rt.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(roundTrips))
}

// Alpha is the annualized strategy return minus the annualized benchmark
// return over the same period.
func Alpha(strategy, benchmark []contracts.EquityPoint, periodsPerYear int) float64 {
	return annualizedReturn(strategy, periodsPerYear) - annualizedReturn(benchmark, periodsPerYear)
}

// annualizedReturn compounds the curve's total return to a yearly rate.
func annualizedReturn(curve []contracts.EquityPoint, periodsPerYear int) float64 {
	if len(curve) < 2 || curve[0].Equity == 0 {
		return 0
	}

	total := curve[len(curve)-1].Equity / curve[0].Equity
	if total <= 0 {
		return -1
	}

	periods := float64(len(curve) - 1)
	return math.Pow(total, float64(periodsPerYear)/periods) - 1
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
