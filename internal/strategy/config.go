package strategy

import "time"

// Config is the full strategy configuration loaded from YAML. It gathers
// every tunable the pipeline exposes so a run can be reproduced from the
// file alone.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Lexicon    Lexicon    `yaml:"lexicon" json:"lexicon"`
	Classifier Classifier `yaml:"classifier" json:"classifier"`
	Backtest   Backtest   `yaml:"backtest" json:"backtest"`
}

// Meta identifies the strategy version.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Lexicon controls document scoring policy.
type Lexicon struct {
	// ClampNeutral selects whether the neutral sentiment score is clamped
	// to [0, 100]. Unclamped (the default) keeps negative neutral values
	// visible as a lexicon-overlap diagnostic.
	ClampNeutral bool `yaml:"clamp_neutral" json:"clamp_neutral"`
}

// Classifier holds ensemble weights and decision thresholds.
type Classifier struct {
	Weights    Weights    `yaml:"weights" json:"weights"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Weights for the composite score; must sum to 1.0.
type Weights struct {
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Technical   float64 `yaml:"technical" json:"technical"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Sentiment + w.Fundamental + w.Technical
}

// Thresholds are the composite decision boundaries.
type Thresholds struct {
	Buy  float64 `yaml:"buy" json:"buy"`
	Sell float64 `yaml:"sell" json:"sell"`
}

// Backtest holds simulation parameters.
type Backtest struct {
	BufferDays     int     `yaml:"buffer_days" json:"buffer_days"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	PositionWeight float64 `yaml:"position_weight" json:"position_weight"`
	Slippage       float64 `yaml:"slippage" json:"slippage"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
}

// Snapshot captures the exact configuration behind a run for audit.
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
