package repository

import (
	"context"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MetadataRepository handles database operations for document metadata
type MetadataRepository struct {
	db *pgxpool.Pool
}

// NewMetadataRepository creates a new metadata repository
func NewMetadataRepository(db *pgxpool.Pool) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// GetByDocumentID retrieves the metadata row for a document
func (r *MetadataRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.DocumentMetadata, error) {
	md := &models.DocumentMetadata{}
	query := `
		SELECT id, document_id, case_number, court_name, bench, parties,
			citation, parallel_citations, legal_topics, acts_referred,
			sections_referred, headnotes, ratio_decidendi, obiter_dicta,
			summary, key_points, processed_by_id, created_at, updated_at
		FROM document_metadata
		WHERE document_id = $1`

	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&md.ID,
		&md.DocumentID,
		&md.CaseNumber,
		&md.CourtName,
		&md.Bench,
		&md.Parties,
		&md.Citation,
		&md.ParallelCitations,
		&md.LegalTopics,
		&md.ActsReferred,
		&md.SectionsReferred,
		&md.Headnotes,
		&md.RatioDecidendi,
		&md.ObiterDicta,
		&md.Summary,
		&md.KeyPoints,
		&md.ProcessedByID,
		&md.CreatedAt,
		&md.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return md, nil
}

// Upsert writes the case fields for a document's metadata row, preserving
// summary fields written separately by the summarization step
func (r *MetadataRepository) Upsert(ctx context.Context, md *models.DocumentMetadata) error {
	query := `
		INSERT INTO document_metadata (
			document_id, case_number, court_name, bench, parties, citation,
			parallel_citations, legal_topics, acts_referred, sections_referred,
			headnotes, ratio_decidendi, obiter_dicta, processed_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (document_id) DO UPDATE SET
			case_number = EXCLUDED.case_number,
			court_name = EXCLUDED.court_name,
			bench = EXCLUDED.bench,
			parties = EXCLUDED.parties,
			citation = EXCLUDED.citation,
			parallel_citations = EXCLUDED.parallel_citations,
			legal_topics = EXCLUDED.legal_topics,
			acts_referred = EXCLUDED.acts_referred,
			sections_referred = EXCLUDED.sections_referred,
			headnotes = EXCLUDED.headnotes,
			ratio_decidendi = EXCLUDED.ratio_decidendi,
			obiter_dicta = EXCLUDED.obiter_dicta,
			processed_by_id = EXCLUDED.processed_by_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		md.DocumentID,
		md.CaseNumber,
		md.CourtName,
		md.Bench,
		md.Parties,
		md.Citation,
		md.ParallelCitations,
		md.LegalTopics,
		md.ActsReferred,
		md.SectionsReferred,
		md.Headnotes,
		md.RatioDecidendi,
		md.ObiterDicta,
		md.ProcessedByID,
	).Scan(&md.ID, &md.CreatedAt, &md.UpdatedAt)
}

// SaveSummary writes the summarization step's fields onto the metadata row,
// creating it when the metadata step has not run yet
func (r *MetadataRepository) SaveSummary(ctx context.Context, md *models.DocumentMetadata) error {
	query := `
		INSERT INTO document_metadata (
			document_id, summary, key_points, processed_by_id
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			key_points = EXCLUDED.key_points,
			processed_by_id = EXCLUDED.processed_by_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		md.DocumentID,
		md.Summary,
		md.KeyPoints,
		md.ProcessedByID,
	).Scan(&md.ID, &md.CreatedAt, &md.UpdatedAt)
}
