package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
meta:
  strategy_id: filing_signal_v1
  version: 1.0.0
lexicon:
  clamp_neutral: false
classifier:
  weights:
    sentiment: 0.35
    fundamental: 0.35
    technical: 0.30
  thresholds:
    buy: 0.65
    sell: 0.40
backtest:
  buffer_days: 2
  initial_capital: 100000
  position_weight: 0.1
  slippage: 0.001
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	cfg, raw, err := Load(writeTemp(t, validYAML))
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assert.Equal(t, "filing_signal_v1", cfg.Meta.StrategyID)
	assert.InDelta(t, 1.0, cfg.Classifier.Weights.Sum(), 1e-9)
	assert.Equal(t, 2, cfg.Backtest.BufferDays)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, _, err := Load(writeTemp(t, validYAML+"\nsurprise_field: 1\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"weights off by too much", func(c *Config) { c.Classifier.Weights.Sentiment = 0.5 }},
		{"inverted thresholds", func(c *Config) { c.Classifier.Thresholds = Thresholds{Buy: 0.4, Sell: 0.65} }},
		{"negative buffer", func(c *Config) { c.Backtest.BufferDays = -1 }},
		{"zero capital", func(c *Config) { c.Backtest.InitialCapital = 0 }},
		{"weight out of range", func(c *Config) { c.Backtest.PositionWeight = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var verr ValidationError
			assert.ErrorAs(t, Validate(cfg), &verr)
		})
	}

	assert.NoError(t, Validate(Default()))
}

func TestHash_Deterministic(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Backtest.BufferDays = 9
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
