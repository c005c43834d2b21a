package contracts

import "time"

// Decision is the discrete trading action derived from a composite score.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionHold Decision = "HOLD"
	DecisionSell Decision = "SELL"
)

// Components holds the three sub-scores behind a signal, each on 0-100.
type Components struct {
	Sentiment   float64 `json:"sentiment"`
	Fundamental float64 `json:"fundamental"`
	Technical   float64 `json:"technical"`
}

// Signal is one trading decision for a (ticker, evaluation time) pair.
// Immutable once produced. Reasoning is informational text for humans and
// must never be parsed for control logic.
type Signal struct {
	Ticker     string     `json:"ticker"`
	Timestamp  time.Time  `json:"timestamp"`
	Decision   Decision   `json:"decision"`
	Confidence float64    `json:"confidence"` // 0-100
	Components Components `json:"components"`
	Reasoning  []string   `json:"reasoning"`
}
