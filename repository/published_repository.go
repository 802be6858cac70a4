package repository

import (
	"context"
	"time"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PublishedRepository handles database operations for published documents
type PublishedRepository struct {
	db *pgxpool.Pool
}

// NewPublishedRepository creates a new published-document repository
func NewPublishedRepository(db *pgxpool.Pool) *PublishedRepository {
	return &PublishedRepository{db: db}
}

// Upsert writes the publication record for a document. Re-publishing bumps
// the version counter and refreshes the search fields.
func (r *PublishedRepository) Upsert(ctx context.Context, pub *models.PublishedDocument) error {
	query := `
		INSERT INTO published_documents (
			document_id, version, is_active, published_by_id, published_at,
			search_keywords, search_weight
		) VALUES ($1, 1, true, $2, NOW(), $3, $4)
		ON CONFLICT (document_id) DO UPDATE SET
			version = published_documents.version + 1,
			is_active = true,
			published_by_id = EXCLUDED.published_by_id,
			published_at = NOW(),
			search_keywords = EXCLUDED.search_keywords,
			search_weight = EXCLUDED.search_weight,
			updated_at = NOW()
		RETURNING id, version, is_active, published_at, view_count, download_count,
			created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		pub.DocumentID,
		pub.PublishedByID,
		pub.SearchKeywords,
		pub.SearchWeight,
	).Scan(
		&pub.ID,
		&pub.Version,
		&pub.IsActive,
		&pub.PublishedAt,
		&pub.ViewCount,
		&pub.DownloadCount,
		&pub.CreatedAt,
		&pub.UpdatedAt,
	)
}

// GetByDocumentID retrieves the publication record for a document
func (r *PublishedRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.PublishedDocument, error) {
	pub := &models.PublishedDocument{}
	query := `
		SELECT id, document_id, version, is_active, published_by_id, published_at,
			search_keywords, search_weight, view_count, download_count,
			created_at, updated_at
		FROM published_documents
		WHERE document_id = $1`

	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&pub.ID,
		&pub.DocumentID,
		&pub.Version,
		&pub.IsActive,
		&pub.PublishedByID,
		&pub.PublishedAt,
		&pub.SearchKeywords,
		&pub.SearchWeight,
		&pub.ViewCount,
		&pub.DownloadCount,
		&pub.CreatedAt,
		&pub.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return pub, nil
}

// CountPublishedSince returns the number of documents published at or after since
func (r *PublishedRepository) CountPublishedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(id) FROM published_documents WHERE published_at >= $1`, since,
	).Scan(&count)
	return count, err
}
