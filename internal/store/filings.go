package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborquant/filingsignal/internal/contracts"
)

// FilingRepository implements contracts.FilingRepository on PostgreSQL.
type FilingRepository struct {
	pool *pgxpool.Pool
}

// NewFilingRepository creates a new filing repository.
func NewFilingRepository(pool *pgxpool.Pool) *FilingRepository {
	return &FilingRepository{pool: pool}
}

// GetByID retrieves a filing by its accession ID.
func (r *FilingRepository) GetByID(ctx context.Context, id string) (*contracts.Document, error) {
	query := `
		SELECT id, ticker, filing_type, filing_date, raw_text
		FROM filings.documents
		WHERE id = $1
	`

	var doc contracts.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Ticker, &doc.FilingType, &doc.FilingDate, &doc.RawText,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByTickerAndDateRange retrieves filings for a ticker within a date range,
// oldest first.
func (r *FilingRepository) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]*contracts.Document, error) {
	query := `
		SELECT id, ticker, filing_type, filing_date, raw_text
		FROM filings.documents
		WHERE ticker = $1 AND filing_date BETWEEN $2 AND $3
		ORDER BY filing_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*contracts.Document
	for rows.Next() {
		var doc contracts.Document
		if err := rows.Scan(&doc.ID, &doc.Ticker, &doc.FilingType, &doc.FilingDate, &doc.RawText); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Save upserts a filing.
func (r *FilingRepository) Save(ctx context.Context, doc *contracts.Document) error {
	query := `
		INSERT INTO filings.documents (id, ticker, filing_type, filing_date, raw_text)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			filing_type = EXCLUDED.filing_type,
			filing_date = EXCLUDED.filing_date,
			raw_text = EXCLUDED.raw_text
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID, doc.Ticker, doc.FilingType, doc.FilingDate, doc.RawText,
	)
	return err
}

// SaveFeatures upserts the feature record for a document. Entities, key
// phrases, and the embedding are stored as JSONB.
func (r *FilingRepository) SaveFeatures(ctx context.Context, rec *contracts.FeatureRecord) error {
	entities, err := json.Marshal(rec.Entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}
	phrases, err := json.Marshal(rec.KeyPhrases)
	if err != nil {
		return fmt.Errorf("marshal key phrases: %w", err)
	}
	embedding, err := json.Marshal(rec.Embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	query := `
		INSERT INTO filings.features (
			document_id, sentiment_positive, sentiment_negative,
			sentiment_neutral, sentiment_uncertainty, confidence,
			embedding, entities, key_phrases
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (document_id) DO UPDATE SET
			sentiment_positive = EXCLUDED.sentiment_positive,
			sentiment_negative = EXCLUDED.sentiment_negative,
			sentiment_neutral = EXCLUDED.sentiment_neutral,
			sentiment_uncertainty = EXCLUDED.sentiment_uncertainty,
			confidence = EXCLUDED.confidence,
			embedding = EXCLUDED.embedding,
			entities = EXCLUDED.entities,
			key_phrases = EXCLUDED.key_phrases
	`

	_, err = r.pool.Exec(ctx, query,
		rec.DocumentID,
		rec.Sentiment.Positive, rec.Sentiment.Negative,
		rec.Sentiment.Neutral, rec.Sentiment.Uncertainty,
		rec.Confidence,
		embedding, entities, phrases,
	)
	return err
}
