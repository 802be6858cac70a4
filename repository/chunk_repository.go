package repository

import (
	"context"
	"fmt"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for document chunks
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

const chunkColumns = `id, document_id, chunk_index, content, start_page, end_page,
	token_count, heading, section_type, chunk_metadata, summary,
	processed_by_id, is_embedded, embedding_model, created_at, updated_at`

func scanChunk(row interface{ Scan(...interface{}) error }) (*models.DocumentChunk, error) {
	chunk := &models.DocumentChunk{}
	err := row.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.ChunkIndex,
		&chunk.Content,
		&chunk.StartPage,
		&chunk.EndPage,
		&chunk.TokenCount,
		&chunk.Heading,
		&chunk.SectionType,
		&chunk.ChunkMetadata,
		&chunk.Summary,
		&chunk.ProcessedByID,
		&chunk.IsEmbedded,
		&chunk.EmbeddingModel,
		&chunk.CreatedAt,
		&chunk.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// Replace deletes a document's chunk set and inserts the given chunks in
// one transaction. Callers are expected to pass contiguous zero-based
// indexes; this is a full replace, not a merge.
func (r *ChunkRepository) Replace(ctx context.Context, documentID uuid.UUID, chunks []*models.DocumentChunk) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	query := `
		INSERT INTO document_chunks (
			document_id, chunk_index, content, start_page, end_page, token_count,
			heading, section_type, chunk_metadata, summary, processed_by_id,
			is_embedded, embedding_model
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	for _, chunk := range chunks {
		err := tx.QueryRow(
			ctx, query,
			documentID,
			chunk.ChunkIndex,
			chunk.Content,
			chunk.StartPage,
			chunk.EndPage,
			chunk.TokenCount,
			chunk.Heading,
			chunk.SectionType,
			chunk.ChunkMetadata,
			chunk.Summary,
			chunk.ProcessedByID,
			chunk.IsEmbedded,
			chunk.EmbeddingModel,
		).Scan(&chunk.ID, &chunk.CreatedAt, &chunk.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
		chunk.DocumentID = documentID
	}

	return tx.Commit(ctx)
}

// ListByDocumentID retrieves a document's chunks ordered by index
func (r *ChunkRepository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM document_chunks
		WHERE document_id = $1
		ORDER BY chunk_index`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*models.DocumentChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// GetByID retrieves a chunk by ID
func (r *ChunkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM document_chunks WHERE id = $1`
	return scanChunk(r.db.QueryRow(ctx, query, id))
}

// Update updates a chunk
func (r *ChunkRepository) Update(ctx context.Context, chunk *models.DocumentChunk) error {
	query := `
		UPDATE document_chunks SET
			content = $2,
			start_page = $3,
			end_page = $4,
			token_count = $5,
			heading = $6,
			section_type = $7,
			chunk_metadata = $8,
			summary = $9,
			is_embedded = $10,
			embedding_model = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		chunk.ID,
		chunk.Content,
		chunk.StartPage,
		chunk.EndPage,
		chunk.TokenCount,
		chunk.Heading,
		chunk.SectionType,
		chunk.ChunkMetadata,
		chunk.Summary,
		chunk.IsEmbedded,
		chunk.EmbeddingModel,
	).Scan(&chunk.UpdatedAt)
}
