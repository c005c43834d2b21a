package contracts

// Sentiment holds categorical sentiment percentages for one document.
// Positive, Negative and Neutral are each in [0, 100] except that Neutral
// may go negative when positive and negative counts overlap heavily on
// short documents. That is deliberate: a negative neutral score flags
// lexicon overlap rather than being silently clamped away.
type Sentiment struct {
	Positive    float64 `json:"positive"`
	Negative    float64 `json:"negative"`
	Neutral     float64 `json:"neutral"`
	Uncertainty float64 `json:"uncertainty"`
}

// Entity is a pattern-matched span from the original filing text.
type Entity struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// FeatureRecord is the normalized per-document output of feature extraction.
// Owned by the extraction call that produced it; nothing caches it unless
// the caller does.
type FeatureRecord struct {
	DocumentID string    `json:"document_id"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"` // 0-100
	Embedding  []float64 `json:"embedding"`  // fixed length, L2-normalized
	Entities   []Entity  `json:"entities"`   // descending count, top 10
	KeyPhrases []string  `json:"key_phrases"` // descending frequency, top 8
}
