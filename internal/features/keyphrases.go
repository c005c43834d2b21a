package features

import "sort"

const (
	maxKeyPhrases   = 8
	minPhraseLength = 7 // string length must exceed 6
)

// ExtractKeyPhrases builds all adjacent bigrams from the token sequence,
// keeps those occurring more than once with a string length over 6, and
// returns the top 8 by descending frequency. Ties keep first-seen order.
func ExtractKeyPhrases(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}

	type tracked struct {
		phrase string
		count  int
		seen   int
	}

	byPhrase := make(map[string]*tracked)
	order := 0

	for i := 0; i < len(tokens)-1; i++ {
		phrase := tokens[i] + " " + tokens[i+1]
		if t, ok := byPhrase[phrase]; ok {
			t.count++
			continue
		}
		byPhrase[phrase] = &tracked{phrase: phrase, count: 1, seen: order}
		order++
	}

	kept := make([]*tracked, 0, len(byPhrase))
	for _, t := range byPhrase {
		if t.count > 1 && len(t.phrase) >= minPhraseLength {
			kept = append(kept, t)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].seen < kept[j].seen
	})

	if len(kept) > maxKeyPhrases {
		kept = kept[:maxKeyPhrases]
	}

	phrases := make([]string, len(kept))
	for i, t := range kept {
		phrases[i] = t.phrase
	}
	return phrases
}
