package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexicon_Stemming(t *testing.T) {
	lex := Default()

	tests := []struct {
		name  string
		token string
		check func(string) bool
		want  bool
	}{
		{"raw positive match", "growth", lex.IsPositive, true},
		{"stemmed ed suffix", "benefited", lex.IsPositive, true},
		{"stemmed ing suffix", "strengthening", lex.IsPositive, true},
		{"stemmed ly suffix", "uncertainly", lex.IsUncertain, true},
		{"raw match beats stemming", "weakness", lex.IsNegative, true},
		{"unknown token", "banana", lex.IsPositive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.token))
		})
	}
}

func TestLexicon_StemLengthGuard(t *testing.T) {
	lex := New([]string{"ski"}, nil, nil)

	// "skied" would stem to "ski" but the remaining stem has length 3,
	// which is not > 3, so no suffix is stripped.
	assert.False(t, lex.IsPositive("skied"))
	assert.True(t, lex.IsPositive("ski"))
}

func TestLexicon_SingleSuffixStrip(t *testing.T) {
	lex := New([]string{"hope"}, nil, nil)

	// Only one suffix comes off: "hopefully" -> "hopeful", never "hope".
	assert.False(t, lex.IsPositive("hopefully"))
	assert.True(t, lex.IsPositive("hoped"))
}

func TestScore_GrowthRisk(t *testing.T) {
	lex := New([]string{"growth"}, []string{"risk"}, nil)

	counts := lex.Count([]string{"growth", "growth", "risk"})
	assert.Equal(t, 2, counts.Positive)
	assert.Equal(t, 1, counts.Negative)
	assert.Equal(t, 3, counts.Total)

	scores := Score(counts, false)
	assert.InDelta(t, 66.67, scores.Positive, 0.01)
	assert.InDelta(t, 33.33, scores.Negative, 0.01)
	assert.InDelta(t, 0.0, scores.Neutral, 0.01)
}

func TestScore_EmptyInput(t *testing.T) {
	lex := Default()

	counts := lex.Count(nil)
	assert.Equal(t, 0, counts.Total)

	// Total is floored at 1, so no division by zero.
	scores := Score(counts, false)
	assert.Equal(t, 0.0, scores.Positive)
	assert.Equal(t, 0.0, scores.Negative)
	assert.Equal(t, 100.0, scores.Neutral)
}

func TestScore_NeutralPolicy(t *testing.T) {
	// A token in both sets counts in both categories, which can push
	// positive + negative above 100 on short input.
	lex := New([]string{"grim"}, []string{"grim"}, nil)

	counts := lex.Count([]string{"grim"})
	assert.Equal(t, 1, counts.Positive)
	assert.Equal(t, 1, counts.Negative)

	unclamped := Score(counts, false)
	assert.Equal(t, -100.0, unclamped.Neutral)

	clamped := Score(counts, true)
	assert.Equal(t, 0.0, clamped.Neutral)
}

func TestScore_Bounds(t *testing.T) {
	lex := Default()

	tokens := []string{
		"growth", "loss", "may", "might", "could", "expect", "estimate",
		"possible", "uncertain", "assume", "believe", "predict", "pending",
	}

	counts := lex.Count(tokens)
	scores := Score(counts, false)

	assert.GreaterOrEqual(t, scores.Positive, 0.0)
	assert.LessOrEqual(t, scores.Positive, 100.0)
	assert.GreaterOrEqual(t, scores.Negative, 0.0)
	assert.LessOrEqual(t, scores.Negative, 100.0)

	// 12 uncertainty hits push the confidence term negative; clamp to 0.
	assert.GreaterOrEqual(t, scores.Confidence, 0.0)
	assert.LessOrEqual(t, scores.Confidence, 100.0)
}
