package features

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/embedding"
	"github.com/harborquant/filingsignal/internal/lexicon"
	"github.com/harborquant/filingsignal/pkg/logger"
)

func newTestExtractor() *Extractor {
	return NewExtractor(lexicon.Default(), embedding.NewHashProvider(32), false, logger.NewNop())
}

func testDoc(text string) *contracts.Document {
	return &contracts.Document{
		ID:         "test-0001",
		Ticker:     "ACME",
		FilingType: contracts.FilingQuarterly,
		FilingDate: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		RawText:    text,
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The Company's Q3 revenue—up 12%!")

	// "q3", "s", "up" and "12" are length <= 2 and dropped.
	assert.Equal(t, []string{"the", "company", "revenue"}, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("  ,.;!  "))
}

func TestExtractEntities(t *testing.T) {
	text := "Revenue of $4.2 billion grew 15% in fiscal 2024. " +
		"The Chief Executive Officer noted on March 31, 2024 that margins " +
		"reached 15% against a target of 15%, up from $4.2 billion."

	entities := ExtractEntities(text)
	require.NotEmpty(t, entities)

	// "15%" occurs three times and must rank first.
	assert.Equal(t, "15%", entities[0].Name)
	assert.Equal(t, "percentage", entities[0].Type)
	assert.Equal(t, 3, entities[0].Count)

	// "$4.2 billion" occurs twice and ranks second.
	assert.Equal(t, "$4.2 billion", entities[1].Name)
	assert.Equal(t, "money", entities[1].Type)
	assert.Equal(t, 2, entities[1].Count)

	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
	}
	assert.Contains(t, names, "fiscal 2024")
	assert.Contains(t, names, "March 31, 2024")
	assert.Contains(t, names, "Chief Executive Officer")
}

func TestExtractEntities_TopTen(t *testing.T) {
	text := "1% 2% 3% 4% 5% 6% 7% 8% 9% 10% 11% 12%"
	entities := ExtractEntities(text)
	assert.Len(t, entities, 10)
}

func TestExtractKeyPhrases(t *testing.T) {
	tokens := Tokenize("net income increased because net income increased materially")

	phrases := ExtractKeyPhrases(tokens)
	require.Len(t, phrases, 2)

	// Both repeated bigrams survive; ties would keep first-seen order.
	assert.Equal(t, "net income", phrases[0])
	assert.Equal(t, "income increased", phrases[1])
}

func TestExtractKeyPhrases_FiltersShortAndRare(t *testing.T) {
	// "the cat" repeats but is only 7 chars; keep it. "cat sat" never
	// repeats; drop it.
	tokens := []string{"the", "cat", "sat", "the", "cat"}
	phrases := ExtractKeyPhrases(tokens)
	assert.Equal(t, []string{"the cat"}, phrases)

	assert.Empty(t, ExtractKeyPhrases([]string{"one"}))
	assert.Empty(t, ExtractKeyPhrases(nil))
}

func TestExtractor_Deterministic(t *testing.T) {
	e := newTestExtractor()
	doc := testDoc("Strong growth this quarter despite litigation risk. " +
		"Strong growth is expected to continue, litigation risk permitting.")

	a, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)
	b, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestExtractor_EmptyText(t *testing.T) {
	e := newTestExtractor()

	rec, err := e.Extract(context.Background(), testDoc(""))
	require.NoError(t, err)

	assert.Equal(t, "test-0001", rec.DocumentID)
	assert.Zero(t, rec.Sentiment.Positive)
	assert.Zero(t, rec.Sentiment.Negative)
	assert.Empty(t, rec.Entities)
	assert.Empty(t, rec.KeyPhrases)
	assert.Len(t, rec.Embedding, 32)
}

func TestExtractor_ExtractAll(t *testing.T) {
	e := newTestExtractor()

	docs := make([]*contracts.Document, 8)
	for i := range docs {
		doc := testDoc("growth growth risk")
		doc.ID = string(rune('a' + i))
		docs[i] = doc
	}

	records, err := e.ExtractAll(context.Background(), docs, 4)
	require.NoError(t, err)
	require.Len(t, records, len(docs))

	// Results keep input order and match sequential extraction.
	for i, rec := range records {
		require.NotNil(t, rec)
		assert.Equal(t, docs[i].ID, rec.DocumentID)
		assert.InDelta(t, 66.67, rec.Sentiment.Positive, 0.01)
	}
}
