// Package embedding provides the default EmbeddingProvider implementation.
//
// The hash provider is a deterministic stand-in with the same contract a
// real model-backed provider must satisfy: fixed output length, L2-normalized,
// identical input produces identical output. Swap it for a transformer-backed
// provider without touching the feature extractor.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

const defaultDimensions = 128

// HashProvider maps tokens into a fixed-length vector by feature hashing.
type HashProvider struct {
	dims int
}

// NewHashProvider creates a provider with the given dimensionality.
// Zero or negative dims falls back to the default of 128.
func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &HashProvider{dims: dims}
}

// Dimensions returns the fixed output vector length.
func (p *HashProvider) Dimensions() int {
	return p.dims
}

// Embed hashes each token into a bucket with an alternating sign and
// L2-normalizes the result. An empty token sequence yields the zero vector,
// which is the one case left unnormalized.
func (p *HashProvider) Embed(_ context.Context, tokens []string) ([]float64, error) {
	vector := make([]float64, p.dims)

	for _, token := range tokens {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		bucket := int(sum % uint64(p.dims))
		sign := 1.0
		if (sum>>32)&1 == 1 {
			sign = -1.0
		}
		vector[bucket] += sign
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector, nil
}
