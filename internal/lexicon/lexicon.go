package lexicon

import "math"

// Lexicon holds the domain word sets used for categorical scoring.
// Word lists are configuration, not logic: callers can load the full
// Loughran-McDonald dictionary or any subset via New.
type Lexicon struct {
	positive    map[string]struct{}
	negative    map[string]struct{}
	uncertainty map[string]struct{}
}

// Counts are raw category counts over one token sequence.
type Counts struct {
	Positive    int
	Negative    int
	Uncertainty int
	Total       int
}

// Scores are aggregate percentages derived from Counts.
type Scores struct {
	Positive    float64
	Negative    float64
	Neutral     float64
	Uncertainty float64
	Confidence  float64
}

// suffixes tried in priority order; at most one is stripped per token.
var suffixes = []string{"ing", "ed", "ly", "ness", "ment", "tion", "sion", "ity"}

// New builds a Lexicon from word lists.
func New(positive, negative, uncertainty []string) *Lexicon {
	return &Lexicon{
		positive:    toSet(positive),
		negative:    toSet(negative),
		uncertainty: toSet(uncertainty),
	}
}

// Default returns the built-in demo subset of the Loughran-McDonald
// financial sentiment dictionary.
func Default() *Lexicon {
	return New(positiveWords, negativeWords, uncertaintyWords)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// stem strips the first matching suffix when the remaining stem is longer
// than 3 characters. Returns the token unchanged when nothing applies.
func stem(token string) string {
	for _, suffix := range suffixes {
		if len(token) > len(suffix) {
			stemmed := token[:len(token)-len(suffix)]
			if token[len(token)-len(suffix):] == suffix && len(stemmed) > 3 {
				return stemmed
			}
		}
	}
	return token
}

func (l *Lexicon) matches(set map[string]struct{}, token string) bool {
	if _, ok := set[token]; ok {
		return true
	}
	_, ok := set[stem(token)]
	return ok
}

// IsPositive reports whether the token or its stem is in the positive set.
func (l *Lexicon) IsPositive(token string) bool { return l.matches(l.positive, token) }

// IsNegative reports whether the token or its stem is in the negative set.
func (l *Lexicon) IsNegative(token string) bool { return l.matches(l.negative, token) }

// IsUncertain reports whether the token or its stem is in the uncertainty set.
func (l *Lexicon) IsUncertain(token string) bool { return l.matches(l.uncertainty, token) }

// Count tallies category membership over a token sequence. Tokens are
// expected lowercase, punctuation-free and longer than 2 characters; the
// categories are not mutually exclusive, so a token can count in more than
// one. Unknown tokens simply match nothing.
func (l *Lexicon) Count(tokens []string) Counts {
	counts := Counts{Total: len(tokens)}
	for _, token := range tokens {
		if l.IsPositive(token) {
			counts.Positive++
		}
		if l.IsNegative(token) {
			counts.Negative++
		}
		if l.IsUncertain(token) {
			counts.Uncertainty++
		}
	}
	return counts
}

// Score converts counts to percentage scores.
//
// Neutral is 100 - positive - negative and MAY go negative when both raw
// percentages are large on short documents. When clampNeutral is false the
// value is reported as-is, which flags lexicon overlap instead of masking
// it; true clamps to [0, 100].
func Score(counts Counts, clampNeutral bool) Scores {
	total := counts.Total
	if total < 1 {
		total = 1
	}

	scores := Scores{
		Positive:    100 * float64(counts.Positive) / float64(total),
		Negative:    100 * float64(counts.Negative) / float64(total),
		Uncertainty: 100 * float64(counts.Uncertainty) / float64(total),
	}

	scores.Neutral = 100 - scores.Positive - scores.Negative
	if clampNeutral {
		scores.Neutral = clamp(scores.Neutral, 0, 100)
	}

	scores.Confidence = clamp(
		math.Abs(scores.Positive-scores.Negative)+(100-10*float64(counts.Uncertainty)),
		0, 100,
	)

	return scores
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
