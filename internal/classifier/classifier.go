package classifier

import (
	"fmt"
	"math"
	"time"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// Weights are the ensemble weights for the composite score. Must sum to 1.
type Weights struct {
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Technical   float64 `yaml:"technical" json:"technical"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Sentiment + w.Fundamental + w.Technical
}

// Thresholds are the composite-score decision boundaries. Buy is inclusive
// at the bottom, Sell exclusive at the top: composite >= Buy is BUY,
// composite < Sell is SELL, anything between is HOLD.
type Thresholds struct {
	Buy  float64 `yaml:"buy" json:"buy"`
	Sell float64 `yaml:"sell" json:"sell"`
}

// DefaultWeights is the standard sentiment/fundamental/technical split.
var DefaultWeights = Weights{Sentiment: 0.35, Fundamental: 0.35, Technical: 0.30}

// DefaultThresholds are the standard decision boundaries.
var DefaultThresholds = Thresholds{Buy: 0.65, Sell: 0.40}

const weightEpsilon = 1e-9

// Classifier fuses a feature record with external fundamental and technical
// scores into a discrete trading signal. Stateless; safe for concurrent use.
type Classifier struct {
	weights    Weights
	thresholds Thresholds
	logger     *logger.Logger
}

// New creates a classifier, rejecting weights that do not sum to 1 or
// inverted thresholds. Misconfigured weights would silently skew every
// signal, so this fails loudly at construction.
func New(weights Weights, thresholds Thresholds, log *logger.Logger) (*Classifier, error) {
	if math.Abs(weights.Sum()-1.0) > weightEpsilon {
		return nil, fmt.Errorf("ensemble weights must sum to 1.0, got %f", weights.Sum())
	}
	if thresholds.Sell >= thresholds.Buy {
		return nil, fmt.Errorf("sell threshold %f must be below buy threshold %f", thresholds.Sell, thresholds.Buy)
	}

	return &Classifier{
		weights:    weights,
		thresholds: thresholds,
		logger:     log,
	}, nil
}

// NewDefault creates a classifier with the standard weights and thresholds.
func NewDefault(log *logger.Logger) *Classifier {
	c, err := New(DefaultWeights, DefaultThresholds, log)
	if err != nil {
		panic(err) // defaults are compile-time constants
	}
	return c
}

// Classify produces the Signal for a ticker at the given evaluation time.
// fundamental and technical are externally supplied scores in [0, 1].
func (c *Classifier) Classify(ticker string, at time.Time, rec *contracts.FeatureRecord, fundamental, technical float64) *contracts.Signal {
	sentiment := clamp01((rec.Sentiment.Positive - rec.Sentiment.Negative + 50) / 100)

	composite := c.weights.Sentiment*sentiment +
		c.weights.Fundamental*fundamental +
		c.weights.Technical*technical

	decision := c.decide(composite)
	confidence := math.Round(clamp(math.Abs(composite-0.5)*200, 0, 100))

	signal := &contracts.Signal{
		Ticker:     ticker,
		Timestamp:  at,
		Decision:   decision,
		Confidence: confidence,
		Components: contracts.Components{
			Sentiment:   sentiment * 100,
			Fundamental: fundamental * 100,
			Technical:   technical * 100,
		},
		Reasoning: c.reasoning(decision, sentiment, fundamental, technical),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":     ticker,
		"composite":  composite,
		"decision":   decision,
		"confidence": confidence,
	}).Debug("Classified signal")

	return signal
}

// decide maps the composite score to a decision. Boundaries are
// closed-open: exactly Buy is BUY, exactly Sell is HOLD.
func (c *Classifier) decide(composite float64) contracts.Decision {
	switch {
	case composite >= c.thresholds.Buy:
		return contracts.DecisionBuy
	case composite < c.thresholds.Sell:
		return contracts.DecisionSell
	default:
		return contracts.DecisionHold
	}
}

// reasoning builds the advisory explanation list. Informational only:
// nothing downstream may parse these strings.
func (c *Classifier) reasoning(decision contracts.Decision, sentiment, fundamental, technical float64) []string {
	var notes []string

	switch decision {
	case contracts.DecisionBuy:
		notes = append(notes, "composite score clears the buy threshold")
		if fundamental > 0.7 {
			notes = append(notes, "fundamentals are strongly supportive")
		}
		if sentiment > 0.7 {
			notes = append(notes, "filing language is notably positive")
		}
	case contracts.DecisionSell:
		notes = append(notes, "composite score falls below the sell threshold")
		if sentiment < 0.3 {
			notes = append(notes, "filing language is notably negative")
		}
		if fundamental < 0.3 {
			notes = append(notes, "fundamentals are deteriorating")
		}
	default:
		notes = append(notes, "composite score sits in the neutral band")
	}

	if technical > 0.7 {
		notes = append(notes, "price action confirms the trend")
	} else if technical < 0.3 {
		notes = append(notes, "price action runs against the trend")
	}

	return notes
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
