package repository

import (
	"context"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExtractedTextRepository handles database operations for extracted text
type ExtractedTextRepository struct {
	db *pgxpool.Pool
}

// NewExtractedTextRepository creates a new extracted text repository
func NewExtractedTextRepository(db *pgxpool.Pool) *ExtractedTextRepository {
	return &ExtractedTextRepository{db: db}
}

// Upsert creates or overwrites the extracted text for a document.
// One row per document; re-extraction replaces the previous row's content.
func (r *ExtractedTextRepository) Upsert(ctx context.Context, et *models.ExtractedText) error {
	query := `
		INSERT INTO extracted_texts (
			document_id, raw_text, cleaned_text, extraction_method,
			confidence_score, processed_by_id, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (document_id) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			cleaned_text = EXCLUDED.cleaned_text,
			extraction_method = EXCLUDED.extraction_method,
			confidence_score = EXCLUDED.confidence_score,
			processed_by_id = EXCLUDED.processed_by_id,
			processed_at = NOW(),
			updated_at = NOW()
		RETURNING id, processed_at, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		et.DocumentID,
		et.RawText,
		et.CleanedText,
		et.ExtractionMethod,
		et.ConfidenceScore,
		et.ProcessedByID,
	).Scan(&et.ID, &et.ProcessedAt, &et.CreatedAt, &et.UpdatedAt)
}

// GetByDocumentID retrieves the extracted text for a document
func (r *ExtractedTextRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.ExtractedText, error) {
	et := &models.ExtractedText{}
	query := `
		SELECT id, document_id, raw_text, cleaned_text, extraction_method,
			confidence_score, processed_by_id, processed_at, created_at, updated_at
		FROM extracted_texts
		WHERE document_id = $1`

	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&et.ID,
		&et.DocumentID,
		&et.RawText,
		&et.CleanedText,
		&et.ExtractionMethod,
		&et.ConfidenceScore,
		&et.ProcessedByID,
		&et.ProcessedAt,
		&et.CreatedAt,
		&et.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return et, nil
}
