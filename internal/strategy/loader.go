package strategy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy YAML file. Unknown fields fail immediately so a
// typo can never silently fall back to a default.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// Default returns the built-in strategy configuration.
func Default() *Config {
	return &Config{
		Meta: Meta{StrategyID: "filing_signal_v1", Version: "1.0.0"},
		Classifier: Classifier{
			Weights:    Weights{Sentiment: 0.35, Fundamental: 0.35, Technical: 0.30},
			Thresholds: Thresholds{Buy: 0.65, Sell: 0.40},
		},
		Backtest: Backtest{
			BufferDays:     2,
			InitialCapital: 100000,
			PositionWeight: 0.1,
			Slippage:       0.001,
		},
	}
}

// Hash generates a deterministic SHA-256 over the canonical JSON form.
// Struct field order keeps the hash reproducible across runs.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewSnapshot captures a config for run audit records.
func NewSnapshot(cfg *Config, yamlData []byte) (*Snapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		StrategyID: cfg.Meta.StrategyID,
		CreatedAt:  time.Now(),
	}, nil
}
