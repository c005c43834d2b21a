package strategy

import (
	"fmt"
	"math"
)

// ValidationError is a fatal configuration problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const weightEpsilon = 1e-6

// Validate checks all required constraints. Any violation aborts startup:
// a strategy file that half-loads would produce misleading signals.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	if math.Abs(cfg.Classifier.Weights.Sum()-1.0) > weightEpsilon {
		return ValidationError{"classifier.weights",
			fmt.Sprintf("must sum to 1.0, got %f", cfg.Classifier.Weights.Sum())}
	}
	if cfg.Classifier.Thresholds.Buy <= cfg.Classifier.Thresholds.Sell {
		return ValidationError{"classifier.thresholds", "buy must be above sell"}
	}
	if cfg.Classifier.Thresholds.Sell < 0 || cfg.Classifier.Thresholds.Buy > 1 {
		return ValidationError{"classifier.thresholds", "must lie within [0, 1]"}
	}

	if cfg.Backtest.BufferDays < 0 {
		return ValidationError{"backtest.buffer_days", "must be >= 0"}
	}
	if cfg.Backtest.InitialCapital <= 0 {
		return ValidationError{"backtest.initial_capital", "must be > 0"}
	}
	if cfg.Backtest.PositionWeight <= 0 || cfg.Backtest.PositionWeight > 1 {
		return ValidationError{"backtest.position_weight", "must be in (0, 1]"}
	}
	if cfg.Backtest.Slippage < 0 {
		return ValidationError{"backtest.slippage", "must be >= 0"}
	}

	return nil
}
