package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

var evalTime = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func neutralRecord() *contracts.FeatureRecord {
	// positive == negative leaves the sentiment sub-score at exactly 0.5.
	return &contracts.FeatureRecord{
		DocumentID: "doc-1",
		Sentiment:  contracts.Sentiment{Positive: 10, Negative: 10, Neutral: 80},
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	log := logger.NewNop()

	_, err := New(Weights{Sentiment: 0.5, Fundamental: 0.5, Technical: 0.5}, DefaultThresholds, log)
	assert.Error(t, err)

	_, err = New(DefaultWeights, Thresholds{Buy: 0.4, Sell: 0.65}, log)
	assert.Error(t, err)
}

func TestClassify_Decisions(t *testing.T) {
	c := NewDefault(logger.NewNop())

	tests := []struct {
		name        string
		fundamental float64
		technical   float64
		want        contracts.Decision
	}{
		// sentiment sub-score is 0.5, weight 0.35 -> contributes 0.175.
		{"strong scores buy", 1.0, 1.0, contracts.DecisionBuy},   // 0.825
		{"middling scores hold", 0.5, 0.5, contracts.DecisionHold}, // 0.50
		{"weak scores sell", 0.1, 0.1, contracts.DecisionSell},   // 0.24
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := c.Classify("ACME", evalTime, neutralRecord(), tt.fundamental, tt.technical)
			assert.Equal(t, tt.want, signal.Decision)
			assert.NotEmpty(t, signal.Reasoning)
		})
	}
}

func TestClassify_ThresholdBoundaries(t *testing.T) {
	log := logger.NewNop()

	c, err := New(DefaultWeights, DefaultThresholds, log)
	require.NoError(t, err)

	// Closed-open boundaries: exactly 0.65 buys, exactly 0.40 holds.
	assert.Equal(t, contracts.DecisionBuy, c.decide(0.65))
	assert.Equal(t, contracts.DecisionHold, c.decide(0.6499999))
	assert.Equal(t, contracts.DecisionHold, c.decide(0.40))
	assert.Equal(t, contracts.DecisionSell, c.decide(0.3999999))
}

func TestClassify_Confidence(t *testing.T) {
	c := NewDefault(logger.NewNop())

	// composite 0.5 -> confidence 0.
	signal := c.Classify("ACME", evalTime, neutralRecord(), 0.5, 0.5)
	assert.Equal(t, 0.0, signal.Confidence)

	// composite 0.825 -> |0.325|*200 = 65.
	signal = c.Classify("ACME", evalTime, neutralRecord(), 1.0, 1.0)
	assert.Equal(t, 65.0, signal.Confidence)
}

func TestClassify_SentimentClamped(t *testing.T) {
	c := NewDefault(logger.NewNop())

	// Extreme positive sentiment: (100 - 0 + 50)/100 = 1.5, clamped to 1.
	rec := &contracts.FeatureRecord{
		Sentiment: contracts.Sentiment{Positive: 100, Negative: 0},
	}
	signal := c.Classify("ACME", evalTime, rec, 0, 0)
	assert.Equal(t, 100.0, signal.Components.Sentiment)

	// Extreme negative sentiment clamps to 0.
	rec = &contracts.FeatureRecord{
		Sentiment: contracts.Sentiment{Positive: 0, Negative: 100},
	}
	signal = c.Classify("ACME", evalTime, rec, 0, 0)
	assert.Equal(t, 0.0, signal.Components.Sentiment)
}

func TestClassify_ReasoningAdvisory(t *testing.T) {
	c := NewDefault(logger.NewNop())

	signal := c.Classify("ACME", evalTime, neutralRecord(), 0.9, 0.9)
	assert.Equal(t, contracts.DecisionBuy, signal.Decision)
	assert.Contains(t, signal.Reasoning, "fundamentals are strongly supportive")
	assert.Contains(t, signal.Reasoning, "price action confirms the trend")
}
