package features

import (
	"regexp"
	"sort"
	"strings"

	"github.com/harborquant/filingsignal/internal/contracts"
)

const maxEntities = 10

// entityMatcher pairs an entity type with its pattern. Matchers run against
// the original raw text, not the token sequence, because the patterns need
// casing and punctuation.
type entityMatcher struct {
	entityType string
	pattern    *regexp.Regexp
}

// Fixed, ordered matcher list. Order matters for first-seen tie-breaking
// across types.
var entityMatchers = []entityMatcher{
	{"money", regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]+)?(?:\s*(?:million|billion|trillion))?`)},
	{"fiscal_period", regexp.MustCompile(`(?:Q[1-4]\s+(?:of\s+)?(?:fiscal\s+)?[0-9]{4}|fiscal\s+(?:year\s+)?[0-9]{4}|(?:first|second|third|fourth)\s+quarter)`)},
	{"date", regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+[0-9]{1,2},?\s+[0-9]{4}`)},
	{"percentage", regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?%`)},
	{"role", regexp.MustCompile(`(?:Chief\s+[A-Z][a-z]+\s+Officer|CEO|CFO|COO|CTO|Chairman|President|General\s+Counsel)`)},
}

// ExtractEntities runs the matcher list over raw text, deduplicates by the
// trimmed matched substring, counts occurrences and keeps the top 10 by
// descending count. Ties keep first-seen order in the text.
func ExtractEntities(rawText string) []contracts.Entity {
	type tracked struct {
		entity contracts.Entity
		seen   int // first-seen rank for stable tie-break
	}

	byName := make(map[string]*tracked)
	order := 0

	for _, m := range entityMatchers {
		for _, match := range m.pattern.FindAllString(rawText, -1) {
			name := strings.TrimSpace(match)
			if name == "" {
				continue
			}
			if t, ok := byName[name]; ok {
				t.entity.Count++
				continue
			}
			byName[name] = &tracked{
				entity: contracts.Entity{Name: name, Type: m.entityType, Count: 1},
				seen:   order,
			}
			order++
		}
	}

	all := make([]*tracked, 0, len(byName))
	for _, t := range byName {
		all = append(all, t)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].entity.Count != all[j].entity.Count {
			return all[i].entity.Count > all[j].entity.Count
		}
		return all[i].seen < all[j].seen
	})

	if len(all) > maxEntities {
		all = all[:maxEntities]
	}

	entities := make([]contracts.Entity, len(all))
	for i, t := range all {
		entities[i] = t.entity
	}
	return entities
}
