// Package scores provides deterministic stand-in providers for fundamental
// and technical scores. Production deployments replace these with real
// factor models behind the same interface.
package scores

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// Kind selects which score family a provider emits.
type Kind string

const (
	KindFundamental Kind = "fundamental"
	KindTechnical   Kind = "technical"
)

// HashProvider derives a stable score in [0, 1] from (ticker, asOf). The
// same inputs always produce the same score, so signal runs and backtests
// are reproducible without market data.
type HashProvider struct {
	kind Kind
}

// NewHashProvider creates a provider for the given score kind.
func NewHashProvider(kind Kind) *HashProvider {
	return &HashProvider{kind: kind}
}

// Score returns a value in [0, 1] derived from the inputs.
func (p *HashProvider) Score(_ context.Context, ticker string, asOf time.Time) (float64, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", p.kind, ticker, asOf.Format("2006-01-02"))

	// 53 bits keep the quotient exact in a float64.
	const mask = 1<<53 - 1
	return float64(h.Sum64()&mask) / float64(uint64(mask)), nil
}

// Fixed always returns the same score; used in tests and dry runs.
type Fixed float64

// Score returns the fixed value.
func (f Fixed) Score(context.Context, string, time.Time) (float64, error) {
	return float64(f), nil
}
